package azure

import (
	"encoding/json"
)

// RawArmTemplate is a JSON encoded ARM template.
type RawArmTemplate = json.RawMessage

// ArmTemplate represents an Azure Resource Manager deployment template. It follows the structure outlined
// at https://learn.microsoft.com/azure/azure-resource-manager/templates/syntax, but only exposes portions of the
// object that avd cares about.
type ArmTemplate struct {
	Schema         string                          `json:"$schema"`
	ContentVersion string                          `json:"contentVersion"`
	Parameters     ArmTemplateParameterDefinitions `json:"parameters"`
	Outputs        ArmTemplateOutputs              `json:"outputs"`
}

type ArmTemplateParameterDefinitions map[string]ArmTemplateParameterDefinition

type ArmTemplateOutputs map[string]ArmTemplateOutput

type ArmTemplateParameterDefinition struct {
	Type         string                     `json:"type"`
	DefaultValue any                        `json:"defaultValue"`
	MinValue     *int                       `json:"minValue,omitempty"`
	MaxValue     *int                       `json:"maxValue,omitempty"`
	MinLength    *int                       `json:"minLength,omitempty"`
	MaxLength    *int                       `json:"maxLength,omitempty"`
	Metadata     map[string]json.RawMessage `json:"metadata"`
}

// Secure returns true when the parameter must not be echoed back to the operator.
func (d *ArmTemplateParameterDefinition) Secure() bool {
	return d.Type == "secureObject" || d.Type == "secureString"
}

// Description returns the value of the "description" string metadata for this parameter
// or empty if it can not be found.
func (d ArmTemplateParameterDefinition) Description() (string, bool) {
	if v, has := d.Metadata["description"]; has {
		var description string
		if err := json.Unmarshal(v, &description); err == nil {
			return description, true
		}
	}

	return "", false
}

type ArmTemplateOutput struct {
	Type     string         `json:"type"`
	Value    any            `json:"value"`
	Metadata map[string]any `json:"metadata"`
}
