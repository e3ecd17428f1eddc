package azapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/azure"
	"github.com/benbjohnson/clock"
)

// cArmDeploymentNameLengthMax is the maximum length of the name of a deployment in ARM.
const cArmDeploymentNameLengthMax = 64

// ResourceDeployment is the result of an ARM template deployment.
type ResourceDeployment struct {
	// The Azure resource id of the deployment object
	Id string

	// The deployment name
	Name string

	// The tags associated with the deployment
	Tags map[string]*string

	// The outputs from the deployment
	Outputs any

	// The timestamp of the template deployment.
	Timestamp time.Time

	// The resources created from the deployment
	Resources []*armresources.ResourceReference

	// The status of the deployment
	ProvisioningState string
}

// Deployments issues ARM template deployments at resource group scope.
type Deployments struct {
	credential       azcore.TokenCredential
	armClientOptions *arm.ClientOptions
	clock            clock.Clock
}

func NewDeployments(
	credential azcore.TokenCredential,
	armClientOptions *arm.ClientOptions,
	clock clock.Clock,
) *Deployments {
	return &Deployments{
		credential:       credential,
		armClientOptions: armClientOptions,
		clock:            clock,
	}
}

// GenerateDeploymentName creates a name to use for the deployment object. It appends the current
// unix time to the base name (separated by a hyphen) to provide a unique name for each deployment.
// If the resulting name is longer than the ARM limit, the longest suffix of the name under the
// limit is returned.
func (ds *Deployments) GenerateDeploymentName(baseName string) string {
	name := fmt.Sprintf("%s-%d", baseName, ds.clock.Now().Unix())
	if len(name) <= cArmDeploymentNameLengthMax {
		return name
	}

	return name[len(name)-cArmDeploymentNameLengthMax:]
}

func (ds *Deployments) createDeploymentsClient(
	subscriptionId string,
) (*armresources.DeploymentsClient, error) {
	client, err := armresources.NewDeploymentsClient(subscriptionId, ds.credential, ds.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating deployments client: %w", err)
	}

	return client, nil
}

// DeployToResourceGroup applies the template at resource group scope in incremental mode and
// blocks until the deployment completes.
func (ds *Deployments) DeployToResourceGroup(
	ctx context.Context,
	subscriptionId, resourceGroup, deploymentName string,
	armTemplate azure.RawArmTemplate,
	parameters azure.ArmParameters,
	tags map[string]*string,
) (*ResourceDeployment, error) {
	deploymentClient, err := ds.createDeploymentsClient(subscriptionId)
	if err != nil {
		return nil, err
	}

	createFromTemplateOperation, err := deploymentClient.BeginCreateOrUpdate(
		ctx, resourceGroup, deploymentName,
		armresources.Deployment{
			Properties: &armresources.DeploymentProperties{
				Template:   armTemplate,
				Parameters: parameters,
				Mode:       to.Ptr(armresources.DeploymentModeIncremental),
			},
			Tags: tags,
		}, nil)
	if err != nil {
		return nil, fmt.Errorf("starting deployment to resource group: %w", err)
	}

	// wait for deployment creation
	deployResult, err := createFromTemplateOperation.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("deploying to resource group: %w", createDeploymentError(err, "Deployment"))
	}

	return convertFromArmDeployment(&deployResult.DeploymentExtended), nil
}

// GetResourceGroupDeployment fetches an existing deployment by name.
func (ds *Deployments) GetResourceGroupDeployment(
	ctx context.Context,
	subscriptionId, resourceGroup, deploymentName string,
) (*ResourceDeployment, error) {
	deploymentClient, err := ds.createDeploymentsClient(subscriptionId)
	if err != nil {
		return nil, err
	}

	deployment, err := deploymentClient.Get(ctx, resourceGroup, deploymentName, nil)
	if err != nil {
		return nil, fmt.Errorf("getting deployment from resource group: %w", err)
	}

	return convertFromArmDeployment(&deployment.DeploymentExtended), nil
}

func convertFromArmDeployment(deployment *armresources.DeploymentExtended) *ResourceDeployment {
	result := &ResourceDeployment{
		Id:   *deployment.ID,
		Name: *deployment.Name,
		Tags: deployment.Tags,
	}

	if props := deployment.Properties; props != nil {
		result.Outputs = props.Outputs
		result.Resources = props.OutputResources

		if props.Timestamp != nil {
			result.Timestamp = *props.Timestamp
		}

		if props.ProvisioningState != nil {
			result.ProvisioningState = string(*props.ProvisioningState)
		}
	}

	return result
}

func responseToDeploymentError(title string, respErr *azcore.ResponseError) error {
	var errorText string
	rawBody, err := io.ReadAll(respErr.RawResponse.Body)
	if err != nil {
		errorText = respErr.Error()
	} else {
		errorText = string(rawBody)
	}
	return NewAzureDeploymentError(title, errorText)
}

// createDeploymentError attempts to create an Azure Deployment error from the HTTP response error
func createDeploymentError(err error, input string) error {
	var responseErr *azcore.ResponseError
	if errors.As(err, &responseErr) {
		return responseToDeploymentError(fmt.Sprintf("%s Error Details", input), responseErr)
	}

	return err
}
