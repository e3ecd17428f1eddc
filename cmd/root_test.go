package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/andrew-kemp/AzureVirtualDesktop/internal"
	"github.com/stretchr/testify/require"
)

func Test_RootCmd_CommandTree(t *testing.T) {
	root := newRootCmd()

	expected := []string{"deploy", "configure", "groups", "roles", "ca", "version"}
	for _, name := range expected {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, "expected command %s", name)
		require.Equal(t, name, cmd.Name())
	}

	for _, path := range [][]string{
		{"deploy", "core"},
		{"deploy", "hosts"},
		{"groups", "ensure"},
		{"roles", "assign"},
		{"ca", "exclude"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		require.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func Test_RootCmd_GlobalFlags(t *testing.T) {
	root := newRootCmd()

	for _, flag := range []string{"cwd", "debug", "no-prompt", "output"} {
		require.NotNil(t, root.PersistentFlags().Lookup(flag), "expected global flag %s", flag)
	}
}

func Test_VersionCmd_Output(t *testing.T) {
	runVersion := func(args ...string) (string, error) {
		root := newRootCmd()
		out := &bytes.Buffer{}
		root.SetOut(out)
		root.SetErr(out)
		root.SetArgs(append([]string{"version"}, args...))
		err := root.Execute()
		return out.String(), err
	}

	t.Run("default", func(t *testing.T) {
		actual, err := runVersion()
		require.NoError(t, err)
		require.Equal(t, "avd version "+internal.Version+"\n", actual)
	})

	t.Run("json", func(t *testing.T) {
		actual, err := runVersion("--output", "json")
		require.NoError(t, err)

		var parsed map[string]string
		require.NoError(t, json.Unmarshal([]byte(actual), &parsed))
		require.Equal(t, internal.Version, parsed["version"])
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := runVersion("--output", "yaml")
		require.ErrorContains(t, err, "unsupported format")
	})
}

func Test_DefaultHelpers(t *testing.T) {
	require.Equal(t, "fallback", defaultString("", "fallback"))
	require.Equal(t, "value", defaultString("value", "fallback"))
	require.Equal(t, 2, defaultInt(0, 2))
	require.Equal(t, 5, defaultInt(5, 2))
}
