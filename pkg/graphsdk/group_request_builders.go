package graphsdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/azsdk"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/convert"
)

// A Microsoft Graph security Group entity.
type Group struct {
	Id              *string  `json:"id,omitempty"`
	DisplayName     string   `json:"displayName"`
	Description     *string  `json:"description,omitempty"`
	MailEnabled     bool     `json:"mailEnabled"`
	MailNickname    string   `json:"mailNickname"`
	SecurityEnabled bool     `json:"securityEnabled"`
	GroupTypes      []string `json:"groupTypes,omitempty"`
}

// A page of groups returned from the Microsoft Graph.
type GroupListResponse struct {
	NextLink *string `json:"@odata.nextLink"`
	Value    []Group `json:"value"`
}

type GroupListRequestBuilder struct {
	*EntityListRequestBuilder[GroupListRequestBuilder]
}

func newGroupListRequestBuilder(client *GraphClient) *GroupListRequestBuilder {
	builder := &GroupListRequestBuilder{}
	builder.EntityListRequestBuilder = newEntityListRequestBuilder(builder, client)

	return builder
}

// Get retrieves a single page of groups matching the configured OData parameters.
func (c *GroupListRequestBuilder) Get(ctx context.Context) (*GroupListResponse, error) {
	req, err := c.createRequest(ctx, http.MethodGet, fmt.Sprintf("%s/groups", c.client.host))
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

	return azsdk.ReadRawResponse[GroupListResponse](res)
}

// GetAll retrieves all groups matching the configured OData parameters, following
// @odata.nextLink until the listing is exhausted.
func (c *GroupListRequestBuilder) GetAll(ctx context.Context) ([]Group, error) {
	page, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}

	groups := page.Value

	for page.NextLink != nil {
		req, err := runtime.NewRequest(ctx, http.MethodGet, *page.NextLink)
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

		page, err = azsdk.ReadRawResponse[GroupListResponse](res)
		if err != nil {
			return nil, err
		}

		groups = append(groups, page.Value...)
	}

	return groups, nil
}

// Post creates a new security group.
func (c *GroupListRequestBuilder) Post(ctx context.Context, group *Group) (*Group, error) {
	req, err := c.createRequest(ctx, http.MethodPost, fmt.Sprintf("%s/groups", c.client.host))
	if err != nil {
		return nil, fmt.Errorf("failed creating request: %w", err)
	}

	body, err := convert.ToHttpRequestBody(group)
	if err != nil {
		return nil, err
	}

	req.Raw().Body = body

	res, err := c.client.pipeline.Do(req)
	if err != nil {
		return nil, runtime.NewResponseError(res)
	}

	if !runtime.HasStatusCode(res, http.StatusCreated) {
		return nil, runtime.NewResponseError(res)
	}

	return azsdk.ReadRawResponse[Group](res)
}

type GroupItemRequestBuilder struct {
	*EntityItemRequestBuilder[GroupItemRequestBuilder]
}

func newGroupItemRequestBuilder(client *GraphClient, id string) *GroupItemRequestBuilder {
	builder := &GroupItemRequestBuilder{}
	builder.EntityItemRequestBuilder = newEntityItemRequestBuilder(builder, client, id)

	return builder
}

// Get retrieves the group with the builder's object id.
func (b *GroupItemRequestBuilder) Get(ctx context.Context) (*Group, error) {
	req, err := b.createRequest(ctx, http.MethodGet, fmt.Sprintf("%s/groups/%s", b.client.host, b.id))
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

	return azsdk.ReadRawResponse[Group](res)
}
