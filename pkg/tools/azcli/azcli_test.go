package azcli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/exec"
	"github.com/stretchr/testify/require"
)

type fakeCommandRunner struct {
	lastArgs exec.RunArgs
	result   exec.RunResult
	err      error
}

func (r *fakeCommandRunner) Run(ctx context.Context, args exec.RunArgs) (exec.RunResult, error) {
	r.lastArgs = args
	return r.result, r.err
}

func Test_GetAccount(t *testing.T) {
	runner := &fakeCommandRunner{
		result: exec.NewRunResult(0, `{
			"id": "00000000-0000-0000-0000-000000000001",
			"name": "Contoso Production",
			"tenantId": "00000000-0000-0000-0000-000000000002",
			"user": {"name": "operator@contoso.com", "type": "user"}
		}`, ""),
	}

	account, err := NewAzCli(runner).GetAccount(context.Background())
	require.NoError(t, err)
	require.Equal(t, "00000000-0000-0000-0000-000000000001", account.Id)
	require.Equal(t, "Contoso Production", account.Name)
	require.Equal(t, "operator@contoso.com", account.User.Name)

	require.Equal(t, "az", runner.lastArgs.Cmd)
	require.Equal(t, []string{"account", "show", "--output", "json"}, runner.lastArgs.Args)
}

func Test_GetAccount_NotLoggedIn(t *testing.T) {
	runner := &fakeCommandRunner{
		result: exec.NewRunResult(1, "", "ERROR: Please run 'az login' to setup account."),
		err:    errors.New("exit code: 1"),
	}

	_, err := NewAzCli(runner).GetAccount(context.Background())
	require.ErrorIs(t, err, ErrAzCliNotLoggedIn)
}

func Test_GetAccount_NotInstalled(t *testing.T) {
	runner := &fakeCommandRunner{
		result: exec.NewRunResult(-1, "", ""),
		err:    errors.New(`exec: "az": executable file not found in $PATH`),
	}

	_, err := NewAzCli(runner).GetAccount(context.Background())
	require.ErrorIs(t, err, ErrAzCliNotInstalled)
}

func Test_GetStorageAccountKey(t *testing.T) {
	runner := &fakeCommandRunner{
		result: exec.NewRunResult(0, `[
			{"keyName": "key1", "value": "secret-one"},
			{"keyName": "key2", "value": "secret-two"}
		]`, ""),
	}

	key, err := NewAzCli(runner).GetStorageAccountKey(context.Background(), "rg", "sa")
	require.NoError(t, err)
	require.Equal(t, "secret-one", key)

	joined := strings.Join(runner.lastArgs.Args, " ")
	require.Contains(t, joined, "--resource-group rg")
	require.Contains(t, joined, "--account-name sa")
}

func Test_GetStorageAccountKey_NoKeys(t *testing.T) {
	runner := &fakeCommandRunner{
		result: exec.NewRunResult(0, `[]`, ""),
	}

	_, err := NewAzCli(runner).GetStorageAccountKey(context.Background(), "rg", "sa")
	require.Error(t, err)
}

func Test_SetSubscription(t *testing.T) {
	runner := &fakeCommandRunner{result: exec.NewRunResult(0, "", "")}

	err := NewAzCli(runner).SetSubscription(context.Background(), "sub-id")
	require.NoError(t, err)
	require.Equal(t, []string{"account", "set", "--subscription", "sub-id"}, runner.lastArgs.Args)
}
