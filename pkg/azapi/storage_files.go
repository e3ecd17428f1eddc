package azapi

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/Azure/azure-storage-file-go/azfile"
)

// FileSharesService manages the FSLogix profile container shares on the storage account.
type FileSharesService struct {
	accountName string
	serviceURL  azfile.ServiceURL
}

// NewFileSharesService builds a service rooted at the account's file endpoint, authorized
// with the account key.
func NewFileSharesService(accountName string, accountKey string) (*FileSharesService, error) {
	credential, err := azfile.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("creating storage credential: %w", err)
	}

	endpoint, err := url.Parse(fmt.Sprintf("https://%s.file.core.windows.net", accountName))
	if err != nil {
		return nil, fmt.Errorf("parsing file endpoint: %w", err)
	}

	pipeline := azfile.NewPipeline(credential, azfile.PipelineOptions{})

	return &FileSharesService{
		accountName: accountName,
		serviceURL:  azfile.NewServiceURL(*endpoint, pipeline),
	}, nil
}

// EnsureShare creates the file share with the given quota (in GiB) when it does not exist.
// Returns true when the share was created.
func (fs *FileSharesService) EnsureShare(ctx context.Context, shareName string, quotaGB int32) (bool, error) {
	shareURL := fs.serviceURL.NewShareURL(shareName)

	_, err := shareURL.Create(ctx, azfile.Metadata{}, quotaGB)
	if err != nil {
		if storageErr, ok := err.(azfile.StorageError); ok &&
			storageErr.ServiceCode() == azfile.ServiceCodeShareAlreadyExists {
			log.Printf("share %s already exists on %s", shareName, fs.accountName)
			return false, nil
		}

		return false, fmt.Errorf("creating share %s: %w", shareName, err)
	}

	return true, nil
}
