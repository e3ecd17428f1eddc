package azapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_AzureDeploymentError_NestedDetails(t *testing.T) {
	errorJson := `{
		"error": {
			"code": "DeploymentFailed",
			"message": "At least one resource deployment operation failed.",
			"details": [
				{
					"code": "Conflict",
					"message": "The host pool is in a conflicting state."
				},
				{
					"code": "ResourceDeploymentFailure",
					"message": "The resource operation completed with terminal provisioning state 'Failed'.",
					"details": [
						{
							"code": "StorageAccountAlreadyTaken",
							"message": "The storage account named avdfiles is already taken."
						}
					]
				}
			]
		}
	}`

	deploymentError := NewAzureDeploymentError("Deployment Error Details", errorJson)
	errorString := deploymentError.Error()

	require.Contains(t, errorString, "Deployment Error Details:")
	require.Contains(t, errorString, "Conflict: The host pool is in a conflicting state.")
	require.Contains(t, errorString, "StorageAccountAlreadyTaken: The storage account named avdfiles is already taken.")

	// Wrapper codes and their generic messages are dropped from the output
	require.NotContains(t, errorString, "DeploymentFailed")
	require.NotContains(t, errorString, "At least one resource deployment operation failed.")
	require.NotContains(t, errorString, "terminal provisioning state")

	rootCause := deploymentError.RootCause()
	require.NotNil(t, rootCause)
	require.Equal(t, "StorageAccountAlreadyTaken", rootCause.Code)
	require.Contains(t, errorString, "unique across Azure")
}

func Test_AzureDeploymentError_JsonEncodedMessage(t *testing.T) {
	errorJson := `{
		"error": {
			"code": "DeploymentFailed",
			"message": "{\"error\":{\"code\":\"SkuNotAvailable\",\"message\":\"The requested VM size is not available in uksouth.\"}}"
		}
	}`

	deploymentError := NewAzureDeploymentError("Deployment Error Details", errorJson)
	errorString := deploymentError.Error()

	require.Contains(t, errorString, "SkuNotAvailable: The requested VM size is not available in uksouth.")

	rootCause := deploymentError.RootCause()
	require.NotNil(t, rootCause)
	require.Equal(t, "SkuNotAvailable", rootCause.Code)
	require.Contains(t, deploymentError.RootCauseHint(), "session host size or region")
}

func Test_AzureDeploymentError_MessageWithoutCode(t *testing.T) {
	errorJson := `{
		"error": {
			"code": "DeploymentFailed",
			"details": [
				{
					"message": "The subnet could not be resolved."
				}
			]
		}
	}`

	deploymentError := NewAzureDeploymentError("Deployment Error Details", errorJson)
	errorString := deploymentError.Error()

	require.Contains(t, errorString, "- The subnet could not be resolved.")
	require.Nil(t, deploymentError.RootCause())
	require.Equal(t, "", deploymentError.RootCauseHint())
}

func Test_AzureDeploymentError_NoHintForUnknownCode(t *testing.T) {
	errorJson := `{"error":{"code":"SomethingNew","message":"No guidance exists for this one."}}`

	deploymentError := NewAzureDeploymentError("Deployment Error Details", errorJson)

	rootCause := deploymentError.RootCause()
	require.NotNil(t, rootCause)
	require.Equal(t, "SomethingNew", rootCause.Code)
	require.Equal(t, "", deploymentError.RootCauseHint())
}

func Test_AzureDeploymentError_NotJson(t *testing.T) {
	rawError := "upstream proxy returned a plain text error"

	deploymentError := NewAzureDeploymentError("Deployment Error Details", rawError)
	errorString := deploymentError.Error()

	require.True(t, strings.HasSuffix(errorString, rawError))
	require.Nil(t, deploymentError.Details)
}
