package azure

const (
	// TagKeyDeviceInclusion is the name of the tag applied to session host VMs so the
	// dynamic Entra device group picks them up.
	TagKeyDeviceInclusion = "EntraDeviceInclusion"
	// TagValueDeviceInclusion is the value paired with TagKeyDeviceInclusion.
	TagValueDeviceInclusion = "AVD"
	// TagKeyDeployedBy marks resources deployed through this tool.
	TagKeyDeployedBy = "avd-deployed-by"
)
