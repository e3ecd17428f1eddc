package azapi

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

func Test_GenerateDeploymentName(t *testing.T) {
	mockClock := clock.NewMock()
	mockClock.Add(1_700_000_000 * time.Second)

	deployments := NewDeployments(&mockCredential{}, nil, mockClock)

	name := deployments.GenerateDeploymentName("avd-core")
	require.Equal(t, "avd-core-1700000000", name)
}

func Test_GenerateDeploymentName_TruncatesLongNames(t *testing.T) {
	mockClock := clock.NewMock()
	mockClock.Add(1_700_000_000 * time.Second)

	deployments := NewDeployments(&mockCredential{}, nil, mockClock)

	base := strings.Repeat("a", 100)
	name := deployments.GenerateDeploymentName(base)

	require.Len(t, name, cArmDeploymentNameLengthMax)
	require.True(t, strings.HasSuffix(name, fmt.Sprintf("-%d", 1_700_000_000)))
}
