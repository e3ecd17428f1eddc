package output

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// AddOutputFlag registers the --output flag on the given flag set.
func AddOutputFlag(flags *pflag.FlagSet, target *string, supported []Format, defaultFormat Format) {
	names := make([]string, len(supported))
	for i, format := range supported {
		names[i] = string(format)
	}

	flags.StringVarP(target, "output", "o", string(defaultFormat),
		fmt.Sprintf("Output format (supported formats are %s)", strings.Join(names, ", ")))
}
