package avd

import (
	"fmt"
	"regexp"
	"strings"
)

// fileEndpointSuffix is the DNS suffix of Azure Files endpoints in the public cloud.
const fileEndpointSuffix = ".file.core.windows.net"

var fqdnPattern = regexp.MustCompile(`^([a-z0-9]{3,24})\.file\.core\.windows\.net$`)

// accountNamePattern is the storage account naming rule: 3-24 lowercase letters and digits.
var accountNamePattern = regexp.MustCompile(`^[a-z0-9]{3,24}$`)

// StorageAccount carries both spellings of a storage account reference: the bare account
// name and the fully qualified Azure Files host name.
type StorageAccount struct {
	Name string
	FQDN string
}

// ParseStorageAccount accepts either a bare storage account name or a fully qualified
// `*.file.core.windows.net` host name and produces both forms. Any other input is rejected.
func ParseStorageAccount(input string) (StorageAccount, error) {
	input = strings.TrimSpace(input)

	if matches := fqdnPattern.FindStringSubmatch(input); matches != nil {
		return StorageAccount{
			Name: matches[1],
			FQDN: input,
		}, nil
	}

	if accountNamePattern.MatchString(input) {
		return StorageAccount{
			Name: input,
			FQDN: input + fileEndpointSuffix,
		}, nil
	}

	return StorageAccount{}, fmt.Errorf(
		"unrecognized storage account %q: provide either the account name or its %s host name",
		input,
		fileEndpointSuffix,
	)
}

// EnterpriseAppDisplayName returns the display name Azure gives the Enterprise Application
// it auto-registers for a storage account configured for Azure AD Kerberos.
func (sa StorageAccount) EnterpriseAppDisplayName() string {
	return fmt.Sprintf("[Storage Account] %s", sa.FQDN)
}
