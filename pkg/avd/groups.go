package avd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/graphsdk"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/input"
)

// ErrGroupNotFound is returned when no tenant group matches the requested name fragment.
var ErrGroupNotFound = errors.New("no matching group found")

// GroupDirectory is the slice of the Graph surface the group service needs.
type GroupDirectory interface {
	ListGroups(ctx context.Context) ([]graphsdk.Group, error)
	CreateGroup(ctx context.Context, group *graphsdk.Group) (*graphsdk.Group, error)
}

// GroupService resolves existing Entra security groups by display name or creates them.
type GroupService struct {
	directory GroupDirectory
	console   input.Console
}

func NewGroupService(directory GroupDirectory, console input.Console) *GroupService {
	return &GroupService{
		directory: directory,
		console:   console,
	}
}

// MailNickname derives a group mail nickname from its display name by stripping every
// character that is not a letter or digit.
func MailNickname(displayName string) string {
	var sb strings.Builder
	for _, r := range displayName {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// FindGroups returns every tenant group whose display name contains the fragment.
// Matching is case-sensitive.
func (s *GroupService) FindGroups(ctx context.Context, fragment string) ([]graphsdk.Group, error) {
	groups, err := s.directory.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	var matches []graphsdk.Group
	for _, group := range groups {
		if strings.Contains(group.DisplayName, fragment) {
			matches = append(matches, group)
		}
	}

	return matches, nil
}

// ResolveGroup locates a single group by display-name fragment. When more than one group
// matches, the operator picks from a numbered list. Returns ErrGroupNotFound when nothing
// matches.
func (s *GroupService) ResolveGroup(ctx context.Context, fragment string) (*graphsdk.Group, error) {
	matches, err := s.FindGroups(ctx, fragment)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, fragment)
	case 1:
		return &matches[0], nil
	}

	options := make([]string, len(matches))
	for i, group := range matches {
		options[i] = group.DisplayName
	}

	index, err := s.console.Select(ctx, input.ConsoleOptions{
		Message:      fmt.Sprintf("Multiple groups match '%s'. Select one:", fragment),
		Options:      options,
		DefaultValue: options[0],
	})
	if err != nil {
		return nil, fmt.Errorf("selecting group: %w", err)
	}

	return &matches[index], nil
}

// EnsureGroup resolves the group whose display name contains the fragment, creating a new
// security group with that exact display name when no group matches. Created groups are
// never mail-enabled and carry a mail nickname derived from the display name.
func (s *GroupService) EnsureGroup(
	ctx context.Context,
	displayName string,
	description string,
) (*graphsdk.Group, bool, error) {
	group, err := s.ResolveGroup(ctx, displayName)
	if err == nil {
		return group, false, nil
	}

	if !errors.Is(err, ErrGroupNotFound) {
		return nil, false, err
	}

	created, err := s.directory.CreateGroup(ctx, &graphsdk.Group{
		DisplayName:     displayName,
		Description:     &description,
		MailEnabled:     false,
		MailNickname:    MailNickname(displayName),
		SecurityEnabled: true,
	})
	if err != nil {
		return nil, false, fmt.Errorf("creating group '%s': %w", displayName, err)
	}

	return created, true, nil
}
