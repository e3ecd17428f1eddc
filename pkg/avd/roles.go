package avd

import (
	"context"
	"fmt"
	"log"
)

// Role names granted during the enterprise configuration pass.
const (
	RoleStorageSMBShareContributor         = "Storage File Data SMB Share Contributor"
	RoleStorageSMBShareElevatedContributor = "Storage File Data SMB Share Elevated Contributor"
	RoleVirtualMachineUserLogin            = "Virtual Machine User Login"
	RoleVirtualMachineAdministratorLogin   = "Virtual Machine Administrator Login"
	RoleDesktopVirtualizationUser          = "Desktop Virtualization User"
)

// RoleGrant is a single (principal, role, scope) triple to be ensured.
type RoleGrant struct {
	PrincipalId   string
	PrincipalName string
	RoleName      string
	Scope         string
}

// RoleGrantResult reports the outcome of one grant.
type RoleGrantResult struct {
	Grant   RoleGrant
	Created bool
	Err     error
}

// RoleAssigner is the slice of the ARM authorization surface the role service needs.
type RoleAssigner interface {
	EnsureRoleAssignment(
		ctx context.Context,
		subscriptionId string,
		scope string,
		principalId string,
		roleName string,
	) (bool, error)
}

// RoleScopes carries the resource scopes the standard AVD grants target.
type RoleScopes struct {
	StorageAccount   string
	ResourceGroup    string
	ApplicationGroup string
}

// RolePrincipals carries the resolved group object ids the grants are made to.
type RolePrincipals struct {
	UserGroupId    string
	UserGroupName  string
	AdminGroupId   string
	AdminGroupName string
}

// PlanRoleGrants builds the standard set of grants for an AVD deployment: both groups get
// SMB share access on the storage account (users plain, admins elevated), VM login on the
// resource group (users plain, admins administrator), and desktop virtualization access on
// the application group.
func PlanRoleGrants(scopes RoleScopes, principals RolePrincipals) []RoleGrant {
	grants := []RoleGrant{
		{
			PrincipalId:   principals.UserGroupId,
			PrincipalName: principals.UserGroupName,
			RoleName:      RoleStorageSMBShareContributor,
			Scope:         scopes.StorageAccount,
		},
		{
			PrincipalId:   principals.AdminGroupId,
			PrincipalName: principals.AdminGroupName,
			RoleName:      RoleStorageSMBShareElevatedContributor,
			Scope:         scopes.StorageAccount,
		},
		{
			PrincipalId:   principals.UserGroupId,
			PrincipalName: principals.UserGroupName,
			RoleName:      RoleVirtualMachineUserLogin,
			Scope:         scopes.ResourceGroup,
		},
		{
			PrincipalId:   principals.AdminGroupId,
			PrincipalName: principals.AdminGroupName,
			RoleName:      RoleVirtualMachineAdministratorLogin,
			Scope:         scopes.ResourceGroup,
		},
	}

	if scopes.ApplicationGroup != "" {
		grants = append(grants,
			RoleGrant{
				PrincipalId:   principals.UserGroupId,
				PrincipalName: principals.UserGroupName,
				RoleName:      RoleDesktopVirtualizationUser,
				Scope:         scopes.ApplicationGroup,
			},
			RoleGrant{
				PrincipalId:   principals.AdminGroupId,
				PrincipalName: principals.AdminGroupName,
				RoleName:      RoleDesktopVirtualizationUser,
				Scope:         scopes.ApplicationGroup,
			},
		)
	}

	return grants
}

// RoleService applies role grants through an injected assigner.
type RoleService struct {
	assigner RoleAssigner
}

func NewRoleService(assigner RoleAssigner) *RoleService {
	return &RoleService{
		assigner: assigner,
	}
}

// ApplyGrants ensures every grant in the plan. A failure on one grant is recorded in its
// result and does not stop the remaining grants from being attempted.
func (s *RoleService) ApplyGrants(
	ctx context.Context,
	subscriptionId string,
	grants []RoleGrant,
) []RoleGrantResult {
	results := make([]RoleGrantResult, 0, len(grants))
	for _, grant := range grants {
		created, err := s.assigner.EnsureRoleAssignment(
			ctx, subscriptionId, grant.Scope, grant.PrincipalId, grant.RoleName)
		if err != nil {
			log.Printf(
				"failed assigning '%s' to %s: %v", grant.RoleName, grant.PrincipalName, err)
		}

		results = append(results, RoleGrantResult{
			Grant:   grant,
			Created: created,
			Err:     err,
		})
	}

	return results
}

// Describe renders a grant for console output.
func (g RoleGrant) Describe() string {
	return fmt.Sprintf("'%s' -> %s at %s", g.RoleName, g.PrincipalName, g.Scope)
}
