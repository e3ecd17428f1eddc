package avd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ParseStorageAccount(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected StorageAccount
		wantErr  bool
	}{
		{
			name:  "bare account name",
			input: "mystorageaccount",
			expected: StorageAccount{
				Name: "mystorageaccount",
				FQDN: "mystorageaccount.file.core.windows.net",
			},
		},
		{
			name:  "fully qualified host",
			input: "mystorageaccount.file.core.windows.net",
			expected: StorageAccount{
				Name: "mystorageaccount",
				FQDN: "mystorageaccount.file.core.windows.net",
			},
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: "  mystorageaccount  ",
			expected: StorageAccount{
				Name: "mystorageaccount",
				FQDN: "mystorageaccount.file.core.windows.net",
			},
		},
		{
			name:    "unrelated host rejected",
			input:   "not a valid host",
			wantErr: true,
		},
		{
			name:    "uppercase name rejected",
			input:   "MyStorageAccount",
			wantErr: true,
		},
		{
			name:    "name shorter than three characters rejected",
			input:   "ab",
			wantErr: true,
		},
		{
			name:    "name longer than twenty four characters rejected",
			input:   "thisaccountnameisfartoolong",
			wantErr: true,
		},
		{
			name:    "hyphenated name rejected",
			input:   "my-storage-account",
			wantErr: true,
		},
		{
			name:    "invalid name with valid suffix rejected",
			input:   "My Account.file.core.windows.net",
			wantErr: true,
		},
		{
			name:    "wrong endpoint suffix rejected",
			input:   "mystorageaccount.blob.core.windows.net",
			wantErr: true,
		},
		{
			name:    "empty input rejected",
			input:   "",
			wantErr: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual, err := ParseStorageAccount(testCase.input)
			if testCase.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, testCase.expected, actual)
		})
	}
}

func Test_EnterpriseAppDisplayName(t *testing.T) {
	account, err := ParseStorageAccount("mystorageaccount")
	require.NoError(t, err)
	require.Equal(
		t,
		"[Storage Account] mystorageaccount.file.core.windows.net",
		account.EnterpriseAppDisplayName(),
	)
}
