package internal

// Version is the semantic version of the avd CLI. It is overridden at build time via
// -ldflags "-X github.com/andrew-kemp/AzureVirtualDesktop/internal.Version=...".
var Version = "0.1.0-dev"
