package azsdk

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

const userAgentHeaderName = "User-Agent"

// userAgentPolicy overrides the User-Agent header for every outgoing request in the pipeline.
type userAgentPolicy struct {
	userAgent string
}

// NewUserAgentPolicy creates a policy that sets the specified user agent on all HTTP requests
func NewUserAgentPolicy(userAgent string) policy.Policy {
	return &userAgentPolicy{
		userAgent: userAgent,
	}
}

func (p *userAgentPolicy) Do(req *policy.Request) (*http.Response, error) {
	if p.userAgent != "" {
		rawRequest := req.Raw()
		rawRequest.Header.Set(userAgentHeaderName, p.userAgent)
	}

	return req.Next()
}
