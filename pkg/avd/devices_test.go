package avd

import (
	"context"
	"errors"
	"testing"

	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/azapi"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/azure"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/convert"
	"github.com/stretchr/testify/require"
)

type fakeResourceTagger struct {
	vms    []*azapi.Resource
	tags   map[string]map[string]*string
	merged map[string]map[string]*string
	failOn map[string]error
}

func newFakeResourceTagger(vmNames ...string) *fakeResourceTagger {
	tagger := &fakeResourceTagger{
		tags:   map[string]map[string]*string{},
		merged: map[string]map[string]*string{},
		failOn: map[string]error{},
	}

	for _, name := range vmNames {
		id := "/subscriptions/sub/resourceGroups/rg/providers/Microsoft.Compute/virtualMachines/" + name
		tagger.vms = append(tagger.vms, &azapi.Resource{
			Id:   id,
			Name: name,
			Type: azapi.VirtualMachineResourceType,
		})
		tagger.tags[id] = map[string]*string{}
	}

	return tagger
}

func (f *fakeResourceTagger) ListSessionHostVMs(
	ctx context.Context,
	subscriptionId string,
	resourceGroupName string,
) ([]*azapi.Resource, error) {
	return f.vms, nil
}

func (f *fakeResourceTagger) GetResourceTags(
	ctx context.Context,
	subscriptionId string,
	resourceId string,
) (map[string]*string, error) {
	return f.tags[resourceId], nil
}

func (f *fakeResourceTagger) MergeResourceTags(
	ctx context.Context,
	subscriptionId string,
	resourceId string,
	tags map[string]*string,
) error {
	if err, ok := f.failOn[resourceId]; ok {
		return err
	}

	f.merged[resourceId] = tags
	return nil
}

func Test_TagSessionHosts_AppliesMissingTag(t *testing.T) {
	tagger := newFakeResourceTagger("avd-0", "avd-1")
	tagger.tags[tagger.vms[1].Id][azure.TagKeyDeviceInclusion] = convert.RefOf(azure.TagValueDeviceInclusion)

	results, err := NewDeviceTagService(tagger).TagSessionHosts(context.Background(), "sub", "rg")
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, TagApplied, results[0].Action)
	require.Equal(t, TagAlreadyPresent, results[1].Action)

	require.Contains(t, tagger.merged, tagger.vms[0].Id)
	require.NotContains(t, tagger.merged, tagger.vms[1].Id)

	applied := tagger.merged[tagger.vms[0].Id]
	require.Equal(t, azure.TagValueDeviceInclusion, *applied[azure.TagKeyDeviceInclusion])
}

func Test_TagSessionHosts_ContinuesPastFailures(t *testing.T) {
	tagger := newFakeResourceTagger("avd-0", "avd-1")
	tagger.failOn[tagger.vms[0].Id] = errors.New("conflict")

	results, err := NewDeviceTagService(tagger).TagSessionHosts(context.Background(), "sub", "rg")
	require.NoError(t, err)

	require.Error(t, results[0].Err)
	require.NoError(t, results[1].Err)
	require.Equal(t, TagApplied, results[1].Action)
}
