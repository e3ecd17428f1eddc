package avd

import (
	"context"
	"fmt"
	"log"

	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/azapi"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/azure"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/convert"
)

// TagAction describes what the device tagger decided for one virtual machine.
type TagAction int

const (
	// TagAlreadyPresent - the VM already carries the device-inclusion tag.
	TagAlreadyPresent TagAction = iota
	// TagApplied - the tag was merged onto the VM.
	TagApplied
)

// TagResult is the per-VM outcome of a tagging run.
type TagResult struct {
	VMName string
	Action TagAction
	Err    error
}

// ResourceTagger is the slice of the ARM resource surface the device tagger needs.
type ResourceTagger interface {
	ListSessionHostVMs(ctx context.Context, subscriptionId string, resourceGroupName string) ([]*azapi.Resource, error)
	GetResourceTags(ctx context.Context, subscriptionId string, resourceId string) (map[string]*string, error)
	MergeResourceTags(ctx context.Context, subscriptionId string, resourceId string, tags map[string]*string) error
}

// DeviceTagService stamps the device-inclusion tag onto every session host VM in a
// resource group, so dynamic device groups can pick the hosts up.
type DeviceTagService struct {
	resources ResourceTagger
}

func NewDeviceTagService(resources ResourceTagger) *DeviceTagService {
	return &DeviceTagService{
		resources: resources,
	}
}

// TagSessionHosts applies the device-inclusion tag to each VM in the resource group that
// does not already carry it. A failure tagging one VM is recorded in its result and does
// not stop the remaining VMs from being attempted. The returned error is non-nil only when
// the VM listing itself fails.
func (s *DeviceTagService) TagSessionHosts(
	ctx context.Context,
	subscriptionId string,
	resourceGroupName string,
) ([]TagResult, error) {
	vms, err := s.resources.ListSessionHostVMs(ctx, subscriptionId, resourceGroupName)
	if err != nil {
		return nil, fmt.Errorf("listing session host VMs: %w", err)
	}

	results := make([]TagResult, 0, len(vms))
	for _, vm := range vms {
		result := TagResult{VMName: vm.Name}

		tags, err := s.resources.GetResourceTags(ctx, subscriptionId, vm.Id)
		if err != nil {
			result.Err = err
			log.Printf("failed reading tags for %s: %v", vm.Name, err)
			results = append(results, result)
			continue
		}

		if value, ok := tags[azure.TagKeyDeviceInclusion]; ok &&
			value != nil && *value == azure.TagValueDeviceInclusion {
			result.Action = TagAlreadyPresent
			results = append(results, result)
			continue
		}

		err = s.resources.MergeResourceTags(ctx, subscriptionId, vm.Id, map[string]*string{
			azure.TagKeyDeviceInclusion: convert.RefOf(azure.TagValueDeviceInclusion),
		})
		if err != nil {
			result.Err = err
			log.Printf("failed tagging %s: %v", vm.Name, err)
		} else {
			result.Action = TagApplied
		}

		results = append(results, result)
	}

	return results, nil
}
