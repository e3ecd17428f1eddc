package mocks

import (
	"bytes"
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/azsdk"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/input"
)

// MockContext bundles the mocked collaborators a test needs: an HTTP transport for
// azcore pipelines, client options wired to that transport, static credentials, and a
// non-interactive console reading from ConsoleInput.
type MockContext struct {
	Context           context.Context
	HttpClient        *MockHttpClient
	Credentials       *MockCredentials
	ArmClientOptions  *arm.ClientOptions
	CoreClientOptions *azcore.ClientOptions
	Console           input.Console
	ConsoleInput      *bytes.Buffer
	ConsoleOutput     *bytes.Buffer
}

func NewMockContext(ctx context.Context) *MockContext {
	httpClient := NewMockHttpClient()

	consoleInput := &bytes.Buffer{}
	consoleOutput := &bytes.Buffer{}

	return &MockContext{
		Context:     ctx,
		HttpClient:  httpClient,
		Credentials: &MockCredentials{},
		ArmClientOptions: azsdk.NewClientOptionsBuilder().
			WithTransport(httpClient).
			BuildArmClientOptions(),
		CoreClientOptions: azsdk.NewClientOptionsBuilder().
			WithTransport(httpClient).
			BuildCoreClientOptions(),
		Console:       input.NewCustomConsole(false, false, consoleOutput, consoleInput),
		ConsoleInput:  consoleInput,
		ConsoleOutput: consoleOutput,
	}
}
