package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/andrew-kemp/AzureVirtualDesktop/internal"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/output"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	prevDir := ""
	opts := &internal.GlobalCommandOptions{}

	cmd := &cobra.Command{
		Use:   "avd",
		Short: "avd - Provision Azure Virtual Desktop with FSLogix profile storage",
		Long: heredoc.Doc(`
			avd - Provision Azure Virtual Desktop with FSLogix profile storage

			A typical rollout runs three commands in order:

				$ avd deploy core
				$ avd deploy hosts
				$ avd configure

			Answers are remembered in a deployment-info file next to the working
			directory and offered back as defaults on the next run. The configure
			steps are also exposed piecewise as "avd groups ensure",
			"avd roles assign" and "avd ca exclude".`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Cwd != "" {
				current, err := os.Getwd()
				if err != nil {
					return err
				}

				prevDir = current

				if err := os.Chdir(opts.Cwd); err != nil {
					return fmt.Errorf("failed to change directory to %s: %w", opts.Cwd, err)
				}
			}

			if _, err := output.NewFormatter(opts.Output); err != nil {
				return err
			}

			log.SetFlags(log.LstdFlags | log.Lshortfile)

			if !opts.EnableDebugLogging {
				log.SetOutput(io.Discard)
			}

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if prevDir != "" {
				return os.Chdir(prevDir)
			}

			return nil
		},
		SilenceUsage: true,
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.Flags().BoolP("help", "h", false, "Help for "+cmd.Name())
	cmd.PersistentFlags().StringVarP(&opts.Cwd, "cwd", "C", "", "Set the current working directory")
	cmd.PersistentFlags().BoolVar(&opts.EnableDebugLogging, "debug", false, "Enables debug/diagnostic logging")
	cmd.PersistentFlags().BoolVar(
		&opts.NoPrompt, "no-prompt", false,
		"Accept default value instead of prompting, or fail if there is no default")
	output.AddOutputFlag(
		cmd.PersistentFlags(), &opts.Output,
		[]output.Format{output.NoneFormat, output.JsonFormat}, output.NoneFormat)

	cmd.AddCommand(deployCmd(opts))
	cmd.AddCommand(configureCmd(opts))
	cmd.AddCommand(groupsCmd(opts))
	cmd.AddCommand(rolesCmd(opts))
	cmd.AddCommand(caCmd(opts))
	cmd.AddCommand(versionCmd(opts))

	return cmd
}

// Execute runs the avd root command with the given arguments.
func Execute(args []string) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
