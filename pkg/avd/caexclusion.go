package avd

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/graphsdk"
)

// ExclusionAction describes what the exclusion updater decided to do with one policy.
type ExclusionAction int

const (
	// ExclusionSkipManaged - the policy is Microsoft-managed and must not be edited.
	ExclusionSkipManaged ExclusionAction = iota
	// ExclusionSkipNotAll - the policy does not target all applications.
	ExclusionSkipNotAll
	// ExclusionAlreadyExcluded - the application is already in the policy's exclusion list.
	ExclusionAlreadyExcluded
	// ExclusionUpdate - the application was appended to the policy's exclusion list.
	ExclusionUpdate
)

func (a ExclusionAction) String() string {
	switch a {
	case ExclusionSkipManaged:
		return "skipped (Microsoft-managed)"
	case ExclusionSkipNotAll:
		return "skipped (does not include all applications)"
	case ExclusionAlreadyExcluded:
		return "already excludes application"
	case ExclusionUpdate:
		return "excluded application"
	default:
		return "unknown"
	}
}

// ExclusionResult is the per-policy outcome of an exclusion run.
type ExclusionResult struct {
	PolicyId    string
	DisplayName string
	Action      ExclusionAction
	Err         error
}

// PolicyStore is the slice of the Graph surface the exclusion updater needs.
type PolicyStore interface {
	ListPolicies(ctx context.Context) ([]graphsdk.ConditionalAccessPolicy, error)
	UpdatePolicyApplications(ctx context.Context, policyId string, applications *graphsdk.ConditionalAccessApplications) error
}

// IsMicrosoftManagedPolicy reports whether a conditional access policy display name marks a
// Microsoft-managed policy. Matching is case-insensitive and accepts both the hyphenated and
// the spaced spelling seen in tenants.
func IsMicrosoftManagedPolicy(displayName string) bool {
	lowered := strings.ToLower(displayName)
	return strings.Contains(lowered, "microsoft-managed") || strings.Contains(lowered, "microsoft managed")
}

// PlanExclusion decides what to do with a single policy for the given application id.
// When the action is ExclusionUpdate, the returned applications fragment carries the
// policy's include list unchanged and its exclude list with the app appended.
func PlanExclusion(
	policy graphsdk.ConditionalAccessPolicy,
	appId string,
) (ExclusionAction, *graphsdk.ConditionalAccessApplications) {
	if IsMicrosoftManagedPolicy(policy.DisplayName) {
		return ExclusionSkipManaged, nil
	}

	applications := policyApplications(policy)
	if !slices.Contains(applications.IncludeApplications, graphsdk.AllApplications) {
		return ExclusionSkipNotAll, nil
	}

	if slices.Contains(applications.ExcludeApplications, appId) {
		return ExclusionAlreadyExcluded, nil
	}

	updated := &graphsdk.ConditionalAccessApplications{
		IncludeApplications: applications.IncludeApplications,
		ExcludeApplications: append(
			slices.Clone(applications.ExcludeApplications),
			appId,
		),
	}

	return ExclusionUpdate, updated
}

func policyApplications(policy graphsdk.ConditionalAccessPolicy) graphsdk.ConditionalAccessApplications {
	if policy.Conditions == nil || policy.Conditions.Applications == nil {
		return graphsdk.ConditionalAccessApplications{}
	}

	return *policy.Conditions.Applications
}

// ExclusionService ensures every eligible conditional access policy excludes the storage
// Enterprise Application so Kerberos ticket exchanges are not blocked by tenant-wide policies.
type ExclusionService struct {
	policies PolicyStore
}

func NewExclusionService(policies PolicyStore) *ExclusionService {
	return &ExclusionService{
		policies: policies,
	}
}

// ExcludeApplication applies the exclusion to every policy that includes all applications and
// is not Microsoft-managed. A failure updating one policy is recorded in its result and does
// not stop the remaining policies from being attempted. The returned error is non-nil only
// when the policy listing itself fails.
func (s *ExclusionService) ExcludeApplication(ctx context.Context, appId string) ([]ExclusionResult, error) {
	policies, err := s.policies.ListPolicies(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing conditional access policies: %w", err)
	}

	results := make([]ExclusionResult, 0, len(policies))
	for _, policy := range policies {
		result := ExclusionResult{
			PolicyId:    policy.Id,
			DisplayName: policy.DisplayName,
		}

		action, applications := PlanExclusion(policy, appId)
		result.Action = action

		if action == ExclusionUpdate {
			if err := s.policies.UpdatePolicyApplications(ctx, policy.Id, applications); err != nil {
				result.Err = err
				log.Printf("failed updating policy %q: %v", policy.DisplayName, err)
			}
		}

		results = append(results, result)
	}

	return results, nil
}
