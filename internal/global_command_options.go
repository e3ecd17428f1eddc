package internal

// GlobalCommandOptions holds the flags that apply to every avd command.
type GlobalCommandOptions struct {
	// Cwd allows the user to override the current working directory, temporarily.
	// The root command will take care of cd'ing into that folder before your command
	// and cd'ing back to the original folder after the commands complete.
	Cwd string

	// EnableDebugLogging indicates you should turn on verbose/debug logging in your command and any
	// launched tools. It's enabled with `--debug`, for any command.
	EnableDebugLogging bool

	// When true, interactive prompts behave as if the operator accepted the default value.
	// If there is no default value the prompt returns an error.
	NoPrompt bool

	// Output selects the format commands use for structured results. It's set with
	// `--output` and validated by the root command before any command runs.
	Output string
}
