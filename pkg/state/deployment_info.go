// Package state persists operator-entered deployment parameters between runs and keeps
// the append-only deploy log. Earlier answers are offered back as prompt defaults on the
// next run.
package state

// DeploymentInfoFileName is the parameter file written next to the working directory.
const DeploymentInfoFileName = "deployment-info.inf"

// DeployLogFileName is the append-only log of deployment progress.
const DeployLogFileName = "AVDDeploy.log"

// DeploymentInfo carries every value the operator has entered across the deploy and
// configure commands. Zero values mean "never answered".
type DeploymentInfo struct {
	SubscriptionId    string `json:"subscriptionId,omitempty"`
	ResourceGroup     string `json:"resourceGroup,omitempty"`
	Location          string `json:"location,omitempty"`
	StorageAccount    string `json:"storageAccount,omitempty"`
	KerberosDomainId  string `json:"kerberosDomainId,omitempty"`
	VNetName          string `json:"vnetName,omitempty"`
	SubnetName        string `json:"subnetName,omitempty"`
	DNSServers        string `json:"dnsServers,omitempty"`
	HostPoolName      string `json:"hostPoolName,omitempty"`
	AppGroupName      string `json:"appGroupName,omitempty"`
	WorkspaceName     string `json:"workspaceName,omitempty"`
	SessionHostPrefix string `json:"sessionHostPrefix,omitempty"`
	SessionHostCount  int    `json:"sessionHostCount,omitempty"`
	SessionHostSize   string `json:"sessionHostSize,omitempty"`
	UserGroupName     string `json:"userGroupName,omitempty"`
	AdminGroupName    string `json:"adminGroupName,omitempty"`
	DeviceGroupName   string `json:"deviceGroupName,omitempty"`
}
