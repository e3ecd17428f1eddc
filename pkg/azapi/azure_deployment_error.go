package azapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/output"
)

// DeploymentErrorLine is one node of the error tree ARM returns for a failed deployment.
type DeploymentErrorLine struct {
	Code    string
	Message string
	Inner   []*DeploymentErrorLine
}

// AzureDeploymentError renders the JSON error body of a failed ARM deployment as readable
// lines with a root-cause hint. A body that is not the ARM error envelope is shown as-is.
type AzureDeploymentError struct {
	Json  string
	Title string

	Details *DeploymentErrorLine
}

func NewAzureDeploymentError(title string, jsonErrorResponse string) *AzureDeploymentError {
	deploymentError := &AzureDeploymentError{Title: title, Json: jsonErrorResponse}

	var raw deploymentErrorJson
	if err := json.Unmarshal([]byte(jsonErrorResponse), &raw); err == nil {
		deploymentError.Details = raw.toLine()
	}

	return deploymentError
}

// deploymentErrorJson is the envelope ARM uses for deployment failures: a code/message
// pair, optionally wrapped in "error", whose "details" nest recursively. Some resource
// providers carry a further JSON-encoded error inside the message text.
type deploymentErrorJson struct {
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Error   *deploymentErrorJson  `json:"error"`
	Details []deploymentErrorJson `json:"details"`
}

func (raw *deploymentErrorJson) empty() bool {
	return raw.Code == "" && raw.Message == "" && raw.Error == nil && len(raw.Details) == 0
}

// isWrapperCode reports whether the code says nothing beyond "something below failed".
func isWrapperCode(code string) bool {
	return code == "DeploymentFailed" || code == "ResourceDeploymentFailure"
}

func (raw *deploymentErrorJson) toLine() *DeploymentErrorLine {
	inner := []*DeploymentErrorLine{}
	if raw.Error != nil {
		inner = append(inner, raw.Error.toLine())
	}
	for i := range raw.Details {
		inner = append(inner, raw.Details[i].toLine())
	}

	message := raw.Message
	var nested deploymentErrorJson
	if message != "" && json.Unmarshal([]byte(message), &nested) == nil && !nested.empty() {
		inner = append(inner, nested.toLine())
		message = ""
	}

	line := &DeploymentErrorLine{Inner: inner}
	if isWrapperCode(raw.Code) {
		return line
	}

	line.Code = raw.Code
	switch {
	case raw.Code != "" && message != "":
		line.Message = fmt.Sprintf("%s: %s", raw.Code, message)
	case message != "":
		line.Message = fmt.Sprintf("- %s", message)
	}

	return line
}

// armErrorHints maps the ARM error codes this tool commonly runs into to actionable
// operator guidance.
var armErrorHints = map[string]string{
	"InsufficientQuota": "Your subscription has insufficient quota. " +
		"Check usage with 'az vm list-usage --location <region>' " +
		"or request an increase in the Azure portal.",
	"SkuNotAvailable": "The requested VM size or SKU is not available " +
		"in this region. Pick a different session host size or region.",
	"AuthorizationFailed": "You do not have sufficient permissions. " +
		"Ensure you have the required RBAC role " +
		"(e.g., Owner or Contributor) on the target subscription.",
	"StorageAccountAlreadyTaken": "The storage account name is taken globally. " +
		"Storage account names must be unique across Azure; pick another name.",
	"Conflict": "A resource with this name already exists or is in " +
		"a conflicting state. Check for soft-deleted resources " +
		"in the Azure portal.",
	"ResourceNotFound": "A referenced resource was not found. " +
		"Check that the virtual network and subnet exist before deploying.",
}

// RootCause returns the most deeply nested line that carries an error code. Wrapper codes
// like DeploymentFailed never enter the tree, so the deepest coded line is the
// provider-level failure.
func (e *AzureDeploymentError) RootCause() *DeploymentErrorLine {
	var deepest *DeploymentErrorLine
	maxDepth := -1

	var walk func(line *DeploymentErrorLine, depth int)
	walk = func(line *DeploymentErrorLine, depth int) {
		if line == nil {
			return
		}
		if line.Code != "" && depth > maxDepth {
			deepest = line
			maxDepth = depth
		}
		for _, inner := range line.Inner {
			walk(inner, depth+1)
		}
	}

	walk(e.Details, 0)
	return deepest
}

// RootCauseHint returns actionable guidance for the root cause error, if available.
func (e *AzureDeploymentError) RootCauseHint() string {
	root := e.RootCause()
	if root == nil {
		return ""
	}
	return armErrorHints[root.Code]
}

func (e *AzureDeploymentError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n\n%s:\n", e.Title))

	// Show the original body when it isn't the ARM error envelope
	if e.Details == nil {
		sb.WriteString(e.Json)
		return sb.String()
	}

	for _, line := range errorLines(e.Details) {
		sb.WriteString(fmt.Sprintln(output.WithErrorFormat(line)))
	}

	if hint := e.RootCauseHint(); hint != "" {
		sb.WriteString(fmt.Sprintln(output.WithWarningFormat(hint)))
	}

	return sb.String()
}

func errorLines(line *DeploymentErrorLine) []string {
	lines := []string{}

	if strings.TrimSpace(line.Message) != "" {
		lines = append(lines, line.Message)
	}

	for _, inner := range line.Inner {
		if inner != nil {
			lines = append(lines, errorLines(inner)...)
		}
	}

	return lines
}
