package resources

import (
	_ "embed"
)

//go:embed core-infrastructure.json
var CoreInfrastructureJson []byte

//go:embed session-hosts.json
var SessionHostsJson []byte
