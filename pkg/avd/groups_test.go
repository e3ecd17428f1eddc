package avd

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/convert"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/graphsdk"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/input"
	"github.com/stretchr/testify/require"
)

type fakeGroupDirectory struct {
	groups  []graphsdk.Group
	created []graphsdk.Group
}

func (d *fakeGroupDirectory) ListGroups(ctx context.Context) ([]graphsdk.Group, error) {
	return d.groups, nil
}

func (d *fakeGroupDirectory) CreateGroup(
	ctx context.Context,
	group *graphsdk.Group,
) (*graphsdk.Group, error) {
	created := *group
	created.Id = convert.RefOf(fmt.Sprintf("created-%d", len(d.created)))
	d.created = append(d.created, created)
	return &created, nil
}

func groupNamed(id string, displayName string) graphsdk.Group {
	return graphsdk.Group{
		Id:          convert.RefOf(id),
		DisplayName: displayName,
	}
}

func noPromptConsole() input.Console {
	return input.NewCustomConsole(true, false, &bytes.Buffer{}, &bytes.Buffer{})
}

func Test_MailNickname(t *testing.T) {
	require.Equal(t, "AVDUsers", MailNickname("AVD Users"))
	require.Equal(t, "AVDAdmins2", MailNickname("AVD-Admins (2)"))
	require.Equal(t, "", MailNickname("!@#$"))
}

func Test_FindGroups_CaseSensitiveSubstring(t *testing.T) {
	directory := &fakeGroupDirectory{
		groups: []graphsdk.Group{
			groupNamed("1", "AVD Users"),
			groupNamed("2", "avd users (legacy)"),
			groupNamed("3", "All Staff"),
		},
	}
	service := NewGroupService(directory, noPromptConsole())

	matches, err := service.FindGroups(context.Background(), "AVD")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "AVD Users", matches[0].DisplayName)
}

func Test_ResolveGroup_SingleMatch(t *testing.T) {
	directory := &fakeGroupDirectory{
		groups: []graphsdk.Group{
			groupNamed("1", "AVD Users"),
			groupNamed("2", "All Staff"),
		},
	}
	service := NewGroupService(directory, noPromptConsole())

	group, err := service.ResolveGroup(context.Background(), "AVD Users")
	require.NoError(t, err)
	require.Equal(t, "1", *group.Id)
}

func Test_ResolveGroup_NoMatch(t *testing.T) {
	directory := &fakeGroupDirectory{}
	service := NewGroupService(directory, noPromptConsole())

	_, err := service.ResolveGroup(context.Background(), "AVD Users")
	require.ErrorIs(t, err, ErrGroupNotFound)
}

func Test_ResolveGroup_MultipleMatchesPromptsForChoice(t *testing.T) {
	directory := &fakeGroupDirectory{
		groups: []graphsdk.Group{
			groupNamed("1", "AVD Users"),
			groupNamed("2", "AVD Users (pilot)"),
		},
	}

	// A non-terminal console reads the selected option text from stdin.
	stdin := bytes.NewBufferString("AVD Users (pilot)\n")
	console := input.NewCustomConsole(false, false, &bytes.Buffer{}, stdin)
	service := NewGroupService(directory, console)

	group, err := service.ResolveGroup(context.Background(), "AVD Users")
	require.NoError(t, err)
	require.Equal(t, "2", *group.Id)
}

func Test_EnsureGroup_CreatesSecurityGroup(t *testing.T) {
	directory := &fakeGroupDirectory{}
	service := NewGroupService(directory, noPromptConsole())

	group, created, err := service.EnsureGroup(context.Background(), "AVD Users", "AVD user group")
	require.NoError(t, err)
	require.True(t, created)
	require.NotNil(t, group.Id)

	require.Len(t, directory.created, 1)
	newGroup := directory.created[0]
	require.Equal(t, "AVD Users", newGroup.DisplayName)
	require.False(t, newGroup.MailEnabled)
	require.True(t, newGroup.SecurityEnabled)
	require.Equal(t, "AVDUsers", newGroup.MailNickname)
	require.Equal(t, "AVD user group", *newGroup.Description)
}

func Test_EnsureGroup_ReusesExistingGroup(t *testing.T) {
	directory := &fakeGroupDirectory{
		groups: []graphsdk.Group{groupNamed("1", "AVD Users")},
	}
	service := NewGroupService(directory, noPromptConsole())

	group, created, err := service.EnsureGroup(context.Background(), "AVD Users", "ignored")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "1", *group.Id)
	require.Empty(t, directory.created)
}
