package azapi

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
)

// Subscription is the subset of subscription information surfaced to the operator when
// picking a deployment target.
type Subscription struct {
	Id       string
	Name     string
	TenantId string
}

type SubscriptionsService struct {
	credential       azcore.TokenCredential
	armClientOptions *arm.ClientOptions
}

func NewSubscriptionsService(
	credential azcore.TokenCredential,
	armClientOptions *arm.ClientOptions,
) *SubscriptionsService {
	return &SubscriptionsService{
		credential:       credential,
		armClientOptions: armClientOptions,
	}
}

// ListSubscriptions lists the subscriptions the signed-in identity can see.
func (ss *SubscriptionsService) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	client, err := armsubscriptions.NewClient(ss.credential, ss.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating subscriptions client: %w", err)
	}

	subscriptions := []Subscription{}
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing subscriptions: %w", err)
		}

		for _, subscription := range page.Value {
			if subscription.SubscriptionID == nil {
				continue
			}

			item := Subscription{Id: *subscription.SubscriptionID}
			if subscription.DisplayName != nil {
				item.Name = *subscription.DisplayName
			}
			if subscription.TenantID != nil {
				item.TenantId = *subscription.TenantID
			}

			subscriptions = append(subscriptions, item)
		}
	}

	return subscriptions, nil
}
