package graphsdk

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// EntityItemRequestBuilder provides the shared plumbing for operations addressing a single
// Graph entity by object id.
type EntityItemRequestBuilder[T any] struct {
	id      string
	client  *GraphClient
	builder *T
	query   odataQuery
}

func newEntityItemRequestBuilder[T any](builder *T, client *GraphClient, id string) *EntityItemRequestBuilder[T] {
	return &EntityItemRequestBuilder[T]{
		client:  client,
		builder: builder,
		id:      id,
	}
}

func (b *EntityItemRequestBuilder[T]) createRequest(
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

func (b *EntityItemRequestBuilder[T]) Select(params []string) *T {
	b.query.selectParams = params

	return b.builder
}
