package graphsdk

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// EntityListRequestBuilder provides the shared plumbing for Graph collection operations,
// carrying the $filter, $top and $select OData query parameters.
type EntityListRequestBuilder[T any] struct {
	client  *GraphClient
	builder *T
	query   odataQuery
}

func newEntityListRequestBuilder[T any](builder *T, client *GraphClient) *EntityListRequestBuilder[T] {
	return &EntityListRequestBuilder[T]{
		client:  client,
		builder: builder,
	}
}

func (b *EntityListRequestBuilder[T]) createRequest(
	ctx context.Context,
	method string,
	rawUrl string,
) (*policy.Request, error) {
	req, err := runtime.NewRequest(ctx, method, rawUrl)
	if err != nil {
		return nil, err
	}

	b.query.apply(req)

	return req, nil
}

func (b *EntityListRequestBuilder[T]) Filter(filterExpression string) *T {
	b.query.filter = &filterExpression

	return b.builder
}

func (b *EntityListRequestBuilder[T]) Top(count int) *T {
	b.query.top = &count

	return b.builder
}

func (b *EntityListRequestBuilder[T]) Select(params []string) *T {
	b.query.selectParams = params

	return b.builder
}
