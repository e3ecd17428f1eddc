package azcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/exec"
)

var (
	// ErrAzCliNotLoggedIn is returned when the Azure CLI has no active session.
	ErrAzCliNotLoggedIn = errors.New("az cli is not logged in. Try running \"az login\" to fix")
	// ErrAzCliNotInstalled is returned when the az executable cannot be found.
	ErrAzCliNotInstalled = errors.New("az cli is not installed. Install it from https://aka.ms/azure-cli")
)

// Account is the signed-in account context reported by `az account show`.
type Account struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	TenantId string `json:"tenantId"`
	User     struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"user"`
}

// AzCli wraps the handful of operations the tool drives through the Azure CLI rather than
// the SDK, mirroring what the operator would otherwise run by hand.
type AzCli interface {
	// GetAccount returns the CLI's active account context.
	GetAccount(ctx context.Context) (*Account, error)
	// SetSubscription switches the CLI's active subscription.
	SetSubscription(ctx context.Context, subscriptionId string) error
	// GetStorageAccountKey retrieves the primary key for the storage account.
	GetStorageAccountKey(ctx context.Context, resourceGroup string, accountName string) (string, error)
}

type azCli struct {
	commandRunner exec.CommandRunner
}

func NewAzCli(commandRunner exec.CommandRunner) AzCli {
	return &azCli{
		commandRunner: commandRunner,
	}
}

func (cli *azCli) GetAccount(ctx context.Context) (*Account, error) {
	result, err := cli.runAzCommand(ctx, "account", "show", "--output", "json")
	if err != nil {
		return nil, err
	}

	var account Account
	if err := json.Unmarshal([]byte(result.Stdout), &account); err != nil {
		return nil, fmt.Errorf("could not unmarshal output %s as an account: %w", result.Stdout, err)
	}

	return &account, nil
}

func (cli *azCli) SetSubscription(ctx context.Context, subscriptionId string) error {
	_, err := cli.runAzCommand(ctx, "account", "set", "--subscription", subscriptionId)
	return err
}

func (cli *azCli) GetStorageAccountKey(
	ctx context.Context,
	resourceGroup string,
	accountName string,
) (string, error) {
	result, err := cli.runAzCommand(ctx,
		"storage", "account", "keys", "list",
		"--resource-group", resourceGroup,
		"--account-name", accountName,
		"--output", "json",
	)
	if err != nil {
		return "", err
	}

	var keys []struct {
		KeyName string `json:"keyName"`
		Value   string `json:"value"`
	}
	if err := json.Unmarshal([]byte(result.Stdout), &keys); err != nil {
		return "", fmt.Errorf("could not unmarshal output %s as storage keys: %w", result.Stdout, err)
	}

	if len(keys) == 0 {
		return "", fmt.Errorf("storage account %s has no keys", accountName)
	}

	return keys[0].Value, nil
}

func (cli *azCli) runAzCommand(ctx context.Context, args ...string) (exec.RunResult, error) {
	result, err := cli.commandRunner.Run(ctx, exec.NewRunArgs("az", args...))
	if isNotLoggedInMessage(result.Stderr) {
		return result, ErrAzCliNotLoggedIn
	} else if err != nil {
		if isNotFoundMessage(err.Error()) {
			return result, ErrAzCliNotInstalled
		}

		return result, fmt.Errorf("failed running az %s: %s: %w", strings.Join(args, " "), result.Stderr, err)
	}

	return result, nil
}

func isNotLoggedInMessage(stderr string) bool {
	return strings.Contains(stderr, "Please run 'az login'") ||
		strings.Contains(stderr, "az login")
}

func isNotFoundMessage(message string) bool {
	return strings.Contains(message, "executable file not found") ||
		strings.Contains(message, "no such file or directory")
}
