package graphsdk

import (
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// odataQuery collects the OData query parameters a request builder has been configured
// with and encodes them onto an outgoing request.
type odataQuery struct {
	filter       *string
	top          *int
	selectParams []string
}

func (q *odataQuery) apply(req *policy.Request) {
	raw := req.Raw()
	query := raw.URL.Query()

	if q.filter != nil {
		query.Set("$filter", *q.filter)
	}

	if q.top != nil {
		query.Set("$top", strconv.Itoa(*q.top))
	}

	if len(q.selectParams) > 0 {
		query.Set("$select", strings.Join(q.selectParams, ","))
	}

	raw.URL.RawQuery = query.Encode()
}
