package graphsdk

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// GraphClient is a minimal Microsoft Graph REST client scoped to the entities the avd
// CLI works with: groups, service principals and conditional access policies.
type GraphClient struct {
	host     string
	pipeline runtime.Pipeline
}

// NewGraphClient creates a Graph client that authorizes requests with the specified credential.
func NewGraphClient(credential azcore.TokenCredential, clientOptions *azcore.ClientOptions) (*GraphClient, error) {
	pipeline := NewPipeline(credential, ServiceConfig, clientOptions)

	return &GraphClient{
		host:     ServiceConfig.Endpoint,
		pipeline: pipeline,
	}, nil
}

func (c *GraphClient) Groups() *GroupListRequestBuilder {
	return newGroupListRequestBuilder(c)
}

func (c *GraphClient) GroupById(id string) *GroupItemRequestBuilder {
	return newGroupItemRequestBuilder(c, id)
}

func (c *GraphClient) ServicePrincipals() *ServicePrincipalListRequestBuilder {
	return newServicePrincipalListRequestBuilder(c)
}

func (c *GraphClient) ServicePrincipalById(id string) *ServicePrincipalItemRequestBuilder {
	return newServicePrincipalItemRequestBuilder(c, id)
}

func (c *GraphClient) ConditionalAccessPolicies() *ConditionalAccessPolicyListRequestBuilder {
	return newConditionalAccessPolicyListRequestBuilder(c)
}

func (c *GraphClient) ConditionalAccessPolicyById(id string) *ConditionalAccessPolicyItemRequestBuilder {
	return newConditionalAccessPolicyItemRequestBuilder(c, id)
}
