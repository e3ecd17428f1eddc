package azapi

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/andrew-kemp/AzureVirtualDesktop/test/mocks"
	"github.com/stretchr/testify/require"
)

type mockCredential struct{}

func (c *mockCredential) GetToken(
	ctx context.Context,
	options policy.TokenRequestOptions,
) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: "ABC123", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

const (
	testSubscriptionId = "00000000-0000-0000-0000-000000000001"
	testPrincipalId    = "00000000-0000-0000-0000-000000000002"
	testRoleName       = "Storage File Data SMB Share Contributor"
)

var testScope = "/subscriptions/" + testSubscriptionId +
	"/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/sa"

var testRoleDefinitionId = testScope +
	"/providers/Microsoft.Authorization/roleDefinitions/00000000-0000-0000-0000-0000000000aa"

func mockRoleDefinitionList(mockContext *mocks.MockContext) {
	mockContext.HttpClient.When(func(request *http.Request) bool {
		return request.Method == http.MethodGet &&
			strings.Contains(request.URL.Path, "/providers/Microsoft.Authorization/roleDefinitions")
	}).RespondFn(func(request *http.Request) (*http.Response, error) {
		return mocks.CreateHttpResponseWithBody(request, http.StatusOK, map[string]any{
			"value": []map[string]any{
				{
					"id":   testRoleDefinitionId,
					"name": "00000000-0000-0000-0000-0000000000aa",
					"properties": map[string]any{
						"roleName": testRoleName,
					},
				},
			},
		})
	})
}

type existingAssignment struct {
	roleDefinitionId string
	scope            string
}

func mockRoleAssignmentList(mockContext *mocks.MockContext, existing ...existingAssignment) {
	mockContext.HttpClient.When(func(request *http.Request) bool {
		return request.Method == http.MethodGet &&
			strings.Contains(request.URL.Path, "/providers/Microsoft.Authorization/roleAssignments")
	}).RespondFn(func(request *http.Request) (*http.Response, error) {
		assignments := []map[string]any{}
		for _, assignment := range existing {
			assignments = append(assignments, map[string]any{
				"id": assignment.scope + "/providers/Microsoft.Authorization/roleAssignments/assignment",
				"properties": map[string]any{
					"principalId":      testPrincipalId,
					"roleDefinitionId": assignment.roleDefinitionId,
					"scope":            assignment.scope,
				},
			})
		}

		return mocks.CreateHttpResponseWithBody(request, http.StatusOK, map[string]any{
			"value": assignments,
		})
	})
}

func Test_EnsureRoleAssignment_CreatesWhenMissing(t *testing.T) {
	mockContext := mocks.NewMockContext(context.Background())
	mockRoleDefinitionList(mockContext)
	mockRoleAssignmentList(mockContext)

	var createCalls int
	mockContext.HttpClient.When(func(request *http.Request) bool {
		return request.Method == http.MethodPut &&
			strings.Contains(request.URL.Path, "/providers/Microsoft.Authorization/roleAssignments/")
	}).RespondFn(func(request *http.Request) (*http.Response, error) {
		createCalls++
		return mocks.CreateHttpResponseWithBody(request, http.StatusCreated, map[string]any{
			"id": testScope + "/providers/Microsoft.Authorization/roleAssignments/new",
			"properties": map[string]any{
				"principalId":      testPrincipalId,
				"roleDefinitionId": testRoleDefinitionId,
			},
		})
	})

	service := NewRoleAssignmentsService(&mockCredential{}, mockContext.ArmClientOptions)

	created, err := service.EnsureRoleAssignment(
		mockContext.Context, testSubscriptionId, testScope, testPrincipalId, testRoleName)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, 1, createCalls)
}

func Test_EnsureRoleAssignment_NoOpWhenAlreadyAssigned(t *testing.T) {
	mockContext := mocks.NewMockContext(context.Background())
	mockRoleDefinitionList(mockContext)
	mockRoleAssignmentList(mockContext, existingAssignment{testRoleDefinitionId, testScope})

	mockContext.HttpClient.When(func(request *http.Request) bool {
		return request.Method == http.MethodPut
	}).RespondFn(func(request *http.Request) (*http.Response, error) {
		t.Fatal("no assignment should be created when the triple already exists")
		return nil, nil
	})

	service := NewRoleAssignmentsService(&mockCredential{}, mockContext.ArmClientOptions)

	created, err := service.EnsureRoleAssignment(
		mockContext.Context, testSubscriptionId, testScope, testPrincipalId, testRoleName)
	require.NoError(t, err)
	require.False(t, created)
}

func Test_EnsureRoleAssignment_IgnoresInheritedAssignment(t *testing.T) {
	mockContext := mocks.NewMockContext(context.Background())
	mockRoleDefinitionList(mockContext)

	// The same principal holds the same role at the subscription; the list for the storage
	// account scope includes it as inherited, but the exact-scope assignment is still missing.
	mockRoleAssignmentList(mockContext, existingAssignment{
		roleDefinitionId: testRoleDefinitionId,
		scope:            "/subscriptions/" + testSubscriptionId,
	})

	var createCalls int
	mockContext.HttpClient.When(func(request *http.Request) bool {
		return request.Method == http.MethodPut &&
			strings.Contains(request.URL.Path, "/providers/Microsoft.Authorization/roleAssignments/")
	}).RespondFn(func(request *http.Request) (*http.Response, error) {
		createCalls++
		return mocks.CreateHttpResponseWithBody(request, http.StatusCreated, map[string]any{
			"id": testScope + "/providers/Microsoft.Authorization/roleAssignments/new",
			"properties": map[string]any{
				"principalId":      testPrincipalId,
				"roleDefinitionId": testRoleDefinitionId,
			},
		})
	})

	service := NewRoleAssignmentsService(&mockCredential{}, mockContext.ArmClientOptions)

	created, err := service.EnsureRoleAssignment(
		mockContext.Context, testSubscriptionId, testScope, testPrincipalId, testRoleName)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, 1, createCalls)
}

func Test_EnsureRoleAssignment_ToleratesExistsConflict(t *testing.T) {
	mockContext := mocks.NewMockContext(context.Background())
	mockRoleDefinitionList(mockContext)
	mockRoleAssignmentList(mockContext)

	mockContext.HttpClient.When(func(request *http.Request) bool {
		return request.Method == http.MethodPut &&
			strings.Contains(request.URL.Path, "/providers/Microsoft.Authorization/roleAssignments/")
	}).RespondFn(func(request *http.Request) (*http.Response, error) {
		return mocks.CreateHttpResponseWithBody(request, http.StatusConflict, map[string]any{
			"error": map[string]any{
				"code":    "RoleAssignmentExists",
				"message": "The role assignment already exists.",
			},
		})
	})

	service := NewRoleAssignmentsService(&mockCredential{}, mockContext.ArmClientOptions)

	created, err := service.EnsureRoleAssignment(
		mockContext.Context, testSubscriptionId, testScope, testPrincipalId, testRoleName)
	require.NoError(t, err)
	require.True(t, created)
}

func Test_ResolveRoleDefinitionId_NotFound(t *testing.T) {
	mockContext := mocks.NewMockContext(context.Background())

	mockContext.HttpClient.When(func(request *http.Request) bool {
		return request.Method == http.MethodGet &&
			strings.Contains(request.URL.Path, "/providers/Microsoft.Authorization/roleDefinitions")
	}).RespondFn(func(request *http.Request) (*http.Response, error) {
		return mocks.CreateHttpResponseWithBody(request, http.StatusOK, map[string]any{
			"value": []map[string]any{},
		})
	})

	service := NewRoleAssignmentsService(&mockCredential{}, mockContext.ArmClientOptions)

	_, err := service.ResolveRoleDefinitionId(mockContext.Context, testScope, "No Such Role")
	require.ErrorIs(t, err, ErrRoleDefinitionNotFound)
}
