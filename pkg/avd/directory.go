package avd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/graphsdk"
)

// ErrServicePrincipalNotFound is returned when the storage account's Enterprise
// Application has not been registered in the tenant yet.
var ErrServicePrincipalNotFound = errors.New("service principal not found")

// GraphDirectory adapts the Graph client to the narrow interfaces the domain services
// consume, keeping those services testable with in-memory fakes.
type GraphDirectory struct {
	client *graphsdk.GraphClient
}

func NewGraphDirectory(client *graphsdk.GraphClient) *GraphDirectory {
	return &GraphDirectory{
		client: client,
	}
}

func (d *GraphDirectory) ListGroups(ctx context.Context) ([]graphsdk.Group, error) {
	return d.client.Groups().GetAll(ctx)
}

func (d *GraphDirectory) CreateGroup(ctx context.Context, group *graphsdk.Group) (*graphsdk.Group, error) {
	return d.client.Groups().Post(ctx, group)
}

func (d *GraphDirectory) ListPolicies(ctx context.Context) ([]graphsdk.ConditionalAccessPolicy, error) {
	response, err := d.client.ConditionalAccessPolicies().Get(ctx)
	if err != nil {
		return nil, err
	}

	return response.Value, nil
}

func (d *GraphDirectory) UpdatePolicyApplications(
	ctx context.Context,
	policyId string,
	applications *graphsdk.ConditionalAccessApplications,
) error {
	fragment := &graphsdk.ConditionalAccessPolicy{
		Conditions: &graphsdk.ConditionalAccessConditions{
			Applications: applications,
		},
	}

	return d.client.ConditionalAccessPolicyById(policyId).Patch(ctx, fragment)
}

// GetStorageServicePrincipal looks up the Enterprise Application that Azure AD Kerberos
// registers for the storage account, by its display-name convention.
func (d *GraphDirectory) GetStorageServicePrincipal(
	ctx context.Context,
	account StorageAccount,
) (*graphsdk.ServicePrincipal, error) {
	displayName := account.EnterpriseAppDisplayName()
	filter := fmt.Sprintf("displayName eq '%s'", strings.ReplaceAll(displayName, "'", "''"))

	response, err := d.client.ServicePrincipals().Filter(filter).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying service principals: %w", err)
	}

	if len(response.Value) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrServicePrincipalNotFound, displayName)
	}

	return &response.Value[0], nil
}
