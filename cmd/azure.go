package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/andrew-kemp/AzureVirtualDesktop/internal"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/avd"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/azapi"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/azsdk"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/exec"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/graphsdk"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/input"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/state"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/tools/azcli"
	"github.com/benbjohnson/clock"
)

// azureClients bundles the service handles a command needs, built once per invocation so
// every service shares the same credential and client options.
type azureClients struct {
	credential    azcore.TokenCredential
	console       input.Console
	azCli         azcli.AzCli
	subscriptions *azapi.SubscriptionsService
	resources     *azapi.ResourceService
	deployments   *azapi.Deployments
	roles         *azapi.RoleAssignmentsService
	directory     *avd.GraphDirectory
	stateManager  *state.Manager
	deployLog     *state.DeployLog
}

func newAzureClients(opts *internal.GlobalCommandOptions) (*azureClients, error) {
	credential, err := newCredential()
	if err != nil {
		return nil, err
	}

	userAgent := "avd/" + internal.Version
	armOptions := azsdk.NewClientOptionsBuilder().SetUserAgent(userAgent).BuildArmClientOptions()
	coreOptions := azsdk.NewClientOptionsBuilder().SetUserAgent(userAgent).BuildCoreClientOptions()

	graphClient, err := graphsdk.NewGraphClient(credential, coreOptions)
	if err != nil {
		return nil, fmt.Errorf("creating graph client: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	wallClock := clock.New()

	return &azureClients{
		credential:    credential,
		console:       input.NewConsole(opts.NoPrompt),
		azCli:         azcli.NewAzCli(exec.NewCommandRunner(nil)),
		subscriptions: azapi.NewSubscriptionsService(credential, armOptions),
		resources:     azapi.NewResourceService(credential, armOptions),
		deployments:   azapi.NewDeployments(credential, armOptions, wallClock),
		roles:         azapi.NewRoleAssignmentsService(credential, armOptions),
		directory:     avd.NewGraphDirectory(graphClient),
		stateManager:  state.NewManager(cwd),
		deployLog:     state.NewDeployLog(cwd, wallClock),
	}, nil
}

// newCredential builds the token credential chain: azd's credential first, falling back to
// the az CLI session.
func newCredential() (azcore.TokenCredential, error) {
	sources := []azcore.TokenCredential{}

	if azdCred, err := azidentity.NewAzureDeveloperCLICredential(nil); err == nil {
		sources = append(sources, azdCred)
	}

	if cliCred, err := azidentity.NewAzureCLICredential(nil); err == nil {
		sources = append(sources, cliCred)
	}

	chain, err := azidentity.NewChainedTokenCredential(sources, nil)
	if err != nil {
		return nil, fmt.Errorf("building credential chain: %w", err)
	}

	return chain, nil
}

// ensureLoggedIn verifies the az CLI has an active session before any remote work starts,
// so the operator gets a remediation hint instead of a raw token error.
func (c *azureClients) ensureLoggedIn(ctx context.Context) error {
	account, err := c.azCli.GetAccount(ctx)
	if err != nil {
		return err
	}

	log.Printf("signed in as %s (tenant %s)", account.User.Name, account.TenantId)

	return nil
}

// resolveSubscription returns the subscription to operate on: the remembered one when the
// operator confirms it, otherwise an interactive pick from the subscriptions the signed-in
// identity can see.
func (c *azureClients) resolveSubscription(
	ctx context.Context,
	info *state.DeploymentInfo,
) (azapi.Subscription, error) {
	subscriptions, err := c.subscriptions.ListSubscriptions(ctx)
	if err != nil {
		return azapi.Subscription{}, err
	}

	if len(subscriptions) == 0 {
		return azapi.Subscription{}, fmt.Errorf("the signed-in identity has no visible subscriptions")
	}

	options := make([]string, len(subscriptions))
	defaultValue := ""
	for i, subscription := range subscriptions {
		options[i] = fmt.Sprintf("%s (%s)", subscription.Name, subscription.Id)
		if subscription.Id == info.SubscriptionId {
			defaultValue = options[i]
		}
	}
	if defaultValue == "" {
		defaultValue = options[0]
	}

	index, err := c.console.Select(ctx, input.ConsoleOptions{
		Message:      "Select the subscription to deploy into:",
		Options:      options,
		DefaultValue: defaultValue,
	})
	if err != nil {
		return azapi.Subscription{}, fmt.Errorf("selecting subscription: %w", err)
	}

	return subscriptions[index], nil
}
