package avd

import (
	"context"
	"errors"
	"testing"

	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/graphsdk"
	"github.com/stretchr/testify/require"
)

const testAppId = "00000000-0000-0000-0000-00000000beef"

func allAppsPolicy(id string, displayName string, excluded ...string) graphsdk.ConditionalAccessPolicy {
	return graphsdk.ConditionalAccessPolicy{
		Id:          id,
		DisplayName: displayName,
		Conditions: &graphsdk.ConditionalAccessConditions{
			Applications: &graphsdk.ConditionalAccessApplications{
				IncludeApplications: []string{graphsdk.AllApplications},
				ExcludeApplications: excluded,
			},
		},
	}
}

func Test_PlanExclusion_AppendsToExcludeList(t *testing.T) {
	policy := allAppsPolicy("p1", "Require MFA", "existing-app")

	action, applications := PlanExclusion(policy, testAppId)

	require.Equal(t, ExclusionUpdate, action)
	require.Equal(t, []string{graphsdk.AllApplications}, applications.IncludeApplications)
	require.Equal(t, []string{"existing-app", testAppId}, applications.ExcludeApplications)

	// The input policy's own exclude list is not mutated.
	require.Equal(t, []string{"existing-app"}, policy.Conditions.Applications.ExcludeApplications)
}

func Test_PlanExclusion_Idempotent(t *testing.T) {
	policy := allAppsPolicy("p1", "Require MFA")

	action, applications := PlanExclusion(policy, testAppId)
	require.Equal(t, ExclusionUpdate, action)

	policy.Conditions.Applications = applications

	action, _ = PlanExclusion(policy, testAppId)
	require.Equal(t, ExclusionAlreadyExcluded, action)
	require.Equal(t, []string{testAppId}, policy.Conditions.Applications.ExcludeApplications)
}

func Test_PlanExclusion_SkipsMicrosoftManaged(t *testing.T) {
	for _, displayName := range []string{
		"Microsoft-managed: Multifactor authentication for admins",
		"Block legacy auth (Microsoft Managed)",
		"MICROSOFT-MANAGED baseline",
	} {
		action, _ := PlanExclusion(allAppsPolicy("p1", displayName), testAppId)
		require.Equal(t, ExclusionSkipManaged, action, "display name: %s", displayName)
	}
}

func Test_PlanExclusion_SkipsWhenNotAllApplications(t *testing.T) {
	policy := graphsdk.ConditionalAccessPolicy{
		Id:          "p1",
		DisplayName: "Scoped policy",
		Conditions: &graphsdk.ConditionalAccessConditions{
			Applications: &graphsdk.ConditionalAccessApplications{
				IncludeApplications: []string{"some-other-app"},
			},
		},
	}

	action, _ := PlanExclusion(policy, testAppId)
	require.Equal(t, ExclusionSkipNotAll, action)
}

func Test_PlanExclusion_SkipsWhenConditionsMissing(t *testing.T) {
	policy := graphsdk.ConditionalAccessPolicy{
		Id:          "p1",
		DisplayName: "Empty policy",
	}

	action, _ := PlanExclusion(policy, testAppId)
	require.Equal(t, ExclusionSkipNotAll, action)
}

type fakePolicyStore struct {
	policies []graphsdk.ConditionalAccessPolicy
	updated  map[string]*graphsdk.ConditionalAccessApplications
	failOn   map[string]error
}

func newFakePolicyStore(policies ...graphsdk.ConditionalAccessPolicy) *fakePolicyStore {
	return &fakePolicyStore{
		policies: policies,
		updated:  map[string]*graphsdk.ConditionalAccessApplications{},
		failOn:   map[string]error{},
	}
}

func (s *fakePolicyStore) ListPolicies(ctx context.Context) ([]graphsdk.ConditionalAccessPolicy, error) {
	return s.policies, nil
}

func (s *fakePolicyStore) UpdatePolicyApplications(
	ctx context.Context,
	policyId string,
	applications *graphsdk.ConditionalAccessApplications,
) error {
	if err, ok := s.failOn[policyId]; ok {
		return err
	}

	s.updated[policyId] = applications
	return nil
}

func Test_ExcludeApplication_ContinuesPastFailures(t *testing.T) {
	store := newFakePolicyStore(
		allAppsPolicy("p1", "Policy A"),
		allAppsPolicy("p2", "Policy B"),
		allAppsPolicy("p3", "Policy C"),
	)
	store.failOn["p2"] = errors.New("update rejected")

	results, err := NewExclusionService(store).ExcludeApplication(context.Background(), testAppId)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
	require.NoError(t, results[2].Err)

	require.Contains(t, store.updated, "p1")
	require.NotContains(t, store.updated, "p2")
	require.Contains(t, store.updated, "p3")
	require.Equal(t, []string{testAppId}, store.updated["p3"].ExcludeApplications)
}

func Test_ExcludeApplication_LeavesIneligiblePoliciesUntouched(t *testing.T) {
	store := newFakePolicyStore(
		allAppsPolicy("p1", "Microsoft-managed baseline"),
		graphsdk.ConditionalAccessPolicy{
			Id:          "p2",
			DisplayName: "Scoped policy",
			Conditions: &graphsdk.ConditionalAccessConditions{
				Applications: &graphsdk.ConditionalAccessApplications{
					IncludeApplications: []string{"another-app"},
				},
			},
		},
		allAppsPolicy("p3", "Eligible policy"),
	)

	results, err := NewExclusionService(store).ExcludeApplication(context.Background(), testAppId)
	require.NoError(t, err)

	require.Equal(t, ExclusionSkipManaged, results[0].Action)
	require.Equal(t, ExclusionSkipNotAll, results[1].Action)
	require.Equal(t, ExclusionUpdate, results[2].Action)
	require.Len(t, store.updated, 1)
}
