package graphsdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/azsdk"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/convert"
)

// The sentinel value used in a policy's includeApplications list when the policy targets
// every application in the tenant.
const AllApplications = "All"

// ConditionalAccessApplications holds the application targeting of a conditional access policy.
type ConditionalAccessApplications struct {
	IncludeApplications []string `json:"includeApplications"`
	ExcludeApplications []string `json:"excludeApplications"`
}

// ConditionalAccessConditions is the condition set of a conditional access policy. Only the
// application targeting is modeled; the remaining conditions pass through untouched because
// policy updates PATCH only the applications fragment.
type ConditionalAccessConditions struct {
	Applications *ConditionalAccessApplications `json:"applications,omitempty"`
}

// A Microsoft Graph Conditional Access Policy entity.
// Fields carry omitempty so a sparse instance doubles as a PATCH fragment.
type ConditionalAccessPolicy struct {
	Id          string                       `json:"id,omitempty"`
	DisplayName string                       `json:"displayName,omitempty"`
	State       string                       `json:"state,omitempty"`
	Conditions  *ConditionalAccessConditions `json:"conditions,omitempty"`
}

// A list of conditional access policies returned from the Microsoft Graph.
type ConditionalAccessPolicyListResponse struct {
	NextLink *string                   `json:"@odata.nextLink"`
	Value    []ConditionalAccessPolicy `json:"value"`
}

type ConditionalAccessPolicyListRequestBuilder struct {
	*EntityListRequestBuilder[ConditionalAccessPolicyListRequestBuilder]
}

func newConditionalAccessPolicyListRequestBuilder(client *GraphClient) *ConditionalAccessPolicyListRequestBuilder {
	builder := &ConditionalAccessPolicyListRequestBuilder{}
	builder.EntityListRequestBuilder = newEntityListRequestBuilder(builder, client)

	return builder
}

// Get retrieves all conditional access policies in the tenant.
func (c *ConditionalAccessPolicyListRequestBuilder) Get(ctx context.Context) (*ConditionalAccessPolicyListResponse, error) {
	req, err := c.createRequest(
		ctx, http.MethodGet, fmt.Sprintf("%s/identity/conditionalAccess/policies", c.client.host))
	if err != nil {
		return nil, fmt.Errorf("failed creating request: %w", err)
	}

	res, err := c.client.pipeline.Do(req)
	if err != nil {
		return nil, runtime.NewResponseError(res)
	}

	if !runtime.HasStatusCode(res, http.StatusOK) {
		return nil, runtime.NewResponseError(res)
	}

	return azsdk.ReadRawResponse[ConditionalAccessPolicyListResponse](res)
}

type ConditionalAccessPolicyItemRequestBuilder struct {
	*EntityItemRequestBuilder[ConditionalAccessPolicyItemRequestBuilder]
}

func newConditionalAccessPolicyItemRequestBuilder(
	client *GraphClient,
	id string,
) *ConditionalAccessPolicyItemRequestBuilder {
	builder := &ConditionalAccessPolicyItemRequestBuilder{}
	builder.EntityItemRequestBuilder = newEntityItemRequestBuilder(builder, client, id)

	return builder
}

// Get retrieves the conditional access policy with the builder's id.
func (b *ConditionalAccessPolicyItemRequestBuilder) Get(ctx context.Context) (*ConditionalAccessPolicy, error) {
	req, err := b.createRequest(
		ctx, http.MethodGet, fmt.Sprintf("%s/identity/conditionalAccess/policies/%s", b.client.host, b.id))
	if err != nil {
		return nil, fmt.Errorf("failed creating request: %w", err)
	}

	res, err := b.client.pipeline.Do(req)
	if err != nil {
		return nil, runtime.NewResponseError(res)
	}

	if !runtime.HasStatusCode(res, http.StatusOK) {
		return nil, runtime.NewResponseError(res)
	}

	return azsdk.ReadRawResponse[ConditionalAccessPolicy](res)
}

// Patch updates the policy with the supplied fragment. Callers send only the fields that
// change; the Graph merges the fragment into the stored policy.
func (b *ConditionalAccessPolicyItemRequestBuilder) Patch(
	ctx context.Context,
	policy *ConditionalAccessPolicy,
) error {
	req, err := b.createRequest(
		ctx, http.MethodPatch, fmt.Sprintf("%s/identity/conditionalAccess/policies/%s", b.client.host, b.id))
	if err != nil {
		return fmt.Errorf("failed creating request: %w", err)
	}

	body, err := convert.ToHttpRequestBody(policy)
	if err != nil {
		return err
	}

	req.Raw().Body = body
	req.Raw().Header.Set("Content-Type", "application/json")

	res, err := b.client.pipeline.Do(req)
	if err != nil {
		return runtime.NewResponseError(res)
	}

	if !runtime.HasStatusCode(res, http.StatusNoContent, http.StatusOK) {
		return runtime.NewResponseError(res)
	}

	return nil
}
