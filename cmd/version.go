package cmd

import (
	"fmt"

	"github.com/andrew-kemp/AzureVirtualDesktop/internal"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/output"
	"github.com/spf13/cobra"
)

func versionCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of avd",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := output.NewFormatter(opts.Output)
			if err != nil {
				return err
			}

			if formatter.Kind() == output.JsonFormat {
				return formatter.Format(
					map[string]string{"version": internal.Version}, cmd.OutOrStdout())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "avd version %s\n", internal.Version)
			return nil
		},
	}
}
