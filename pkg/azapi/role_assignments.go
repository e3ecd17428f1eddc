package azapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v2"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// ErrRoleDefinitionNotFound is returned when a role name cannot be resolved at the given scope.
var ErrRoleDefinitionNotFound = errors.New("role definition not found")

// RoleAssignmentsService grants RBAC roles to principals. All operations are idempotent:
// granting a (principal, role, scope) triple that already exists is a no-op.
type RoleAssignmentsService struct {
	credential       azcore.TokenCredential
	armClientOptions *arm.ClientOptions
}

func NewRoleAssignmentsService(
	credential azcore.TokenCredential,
	armClientOptions *arm.ClientOptions,
) *RoleAssignmentsService {
	return &RoleAssignmentsService{
		credential:       credential,
		armClientOptions: armClientOptions,
	}
}

// ResolveRoleDefinitionId resolves a role definition name ("Storage File Data SMB Share
// Contributor") into its fully qualified definition ID at the given scope.
func (ras *RoleAssignmentsService) ResolveRoleDefinitionId(
	ctx context.Context,
	scope string,
	roleName string,
) (string, error) {
	client, err := armauthorization.NewRoleDefinitionsClient(ras.credential, ras.armClientOptions)
	if err != nil {
		return "", fmt.Errorf("creating role definitions client: %w", err)
	}

	filter := fmt.Sprintf("roleName eq '%s'", roleName)
	pager := client.NewListPager(scope, &armauthorization.RoleDefinitionsClientListOptions{
		Filter: &filter,
	})

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("listing role definitions: %w", err)
		}

		for _, definition := range page.Value {
			if definition.ID != nil {
				return *definition.ID, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s", ErrRoleDefinitionNotFound, roleName)
}

// EnsureRoleAssignment assigns the named role to the principal at the given scope unless an
// assignment with the same (principal, role, scope) triple already exists. Returns true when a
// new assignment was created.
func (ras *RoleAssignmentsService) EnsureRoleAssignment(
	ctx context.Context,
	subscriptionId string,
	scope string,
	principalId string,
	roleName string,
) (bool, error) {
	roleDefinitionId, err := ras.ResolveRoleDefinitionId(ctx, scope, roleName)
	if err != nil {
		return false, err
	}

	client, err := armauthorization.NewRoleAssignmentsClient(subscriptionId, ras.credential, ras.armClientOptions)
	if err != nil {
		return false, fmt.Errorf("creating role assignments client: %w", err)
	}

	exists, err := ras.assignmentExists(ctx, client, scope, principalId, roleDefinitionId)
	if err != nil {
		return false, err
	}

	if exists {
		log.Printf("role assignment for %s at %s already exists", principalId, scope)
		return false, nil
	}

	parameters := armauthorization.RoleAssignmentCreateParameters{
		Properties: &armauthorization.RoleAssignmentProperties{
			RoleDefinitionID: to.Ptr(roleDefinitionId),
			PrincipalID:      to.Ptr(principalId),
		},
	}

	// Newly created groups and service principals are subject to replication lag in ARM,
	// surfacing as PrincipalNotFound for a short window after creation.
	err = retry.Do(ctx, retry.WithMaxRetries(10, retry.NewFibonacci(2*time.Second)), func(ctx context.Context) error {
		_, err := client.Create(ctx, scope, uuid.New().String(), parameters, nil)
		if err != nil {
			var responseErr *azcore.ResponseError
			if errors.As(err, &responseErr) {
				if responseErr.ErrorCode == "RoleAssignmentExists" {
					return nil
				}
				if responseErr.ErrorCode == "PrincipalNotFound" {
					return retry.RetryableError(err)
				}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("creating role assignment: %w", err)
	}

	return true, nil
}

func (ras *RoleAssignmentsService) assignmentExists(
	ctx context.Context,
	client *armauthorization.RoleAssignmentsClient,
	scope string,
	principalId string,
	roleDefinitionId string,
) (bool, error) {
	filter := fmt.Sprintf("principalId eq '%s'", principalId)
	pager := client.NewListForScopePager(scope, &armauthorization.RoleAssignmentsClientListForScopeOptions{
		Filter: &filter,
	})

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return false, fmt.Errorf("listing role assignments: %w", err)
		}

		for _, assignment := range page.Value {
			props := assignment.Properties
			if props == nil || props.PrincipalID == nil || props.RoleDefinitionID == nil || props.Scope == nil {
				continue
			}

			// ListForScope also returns assignments inherited from parent scopes; only an
			// assignment at exactly the requested scope counts as already granted.
			if *props.PrincipalID == principalId &&
				strings.EqualFold(*props.RoleDefinitionID, roleDefinitionId) &&
				strings.EqualFold(*props.Scope, scope) {
				return true, nil
			}
		}
	}

	return false, nil
}
