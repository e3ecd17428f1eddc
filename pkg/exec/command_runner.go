package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner exposes the contract for executing console/shell commands for the specified runArgs
type CommandRunner interface {
	Run(ctx context.Context, args RunArgs) (RunResult, error)
}

type RunnerOptions struct {
	// Stdin is the input stream. If nil, os.Stdin is used.
	Stdin io.Reader
	// Stdout is the output stream. If nil, os.Stdout is used.
	Stdout io.Writer
	// Stderr is the error stream. If nil, os.Stderr is used.
	Stderr io.Writer
	// Whether debug logging is enabled. False by default.
	DebugLogging bool
}

// NewCommandRunner creates a new default instance of the CommandRunner.
// Passing nil will use the default values for RunnerOptions.
func NewCommandRunner(opt *RunnerOptions) CommandRunner {
	if opt == nil {
		opt = &RunnerOptions{}
	}

	runner := &commandRunner{
		stdin:        opt.Stdin,
		stdout:       opt.Stdout,
		stderr:       opt.Stderr,
		debugLogging: opt.DebugLogging,
	}

	if runner.stdin == nil {
		runner.stdin = os.Stdin
	}

	if runner.stdout == nil {
		runner.stdout = os.Stdout
	}

	if runner.stderr == nil {
		runner.stderr = os.Stderr
	}

	return runner
}

// commandRunner is the default private implementation of the CommandRunner interface.
// This implementation executes actual commands on the underlying console/shell
type commandRunner struct {
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer
	debugLogging bool
}

// Run runs the command specified in 'args'.
//
// Returns a RunResult that is the result of the command.
//   - If interactive is true, standard input/error is not captured in the returned result.
//     Instead, standard output/error is simply redirected to the os standard output/error.
//   - If the underlying command exits unsuccessfully, *ExitError is returned. Other possible errors would
//     likely be I/O errors or context cancellation.
func (r *commandRunner) Run(ctx context.Context, args RunArgs) (RunResult, error) {
	cmd := exec.CommandContext(ctx, args.Cmd, args.Args...)
	cmd.Dir = args.Cwd
	cmd.Env = appendEnv(args.Env)

	var stdin io.Reader
	if args.StdIn != nil {
		stdin = args.StdIn
	} else {
		stdin = new(bytes.Buffer)
	}

	var stdout, stderr bytes.Buffer

	if args.Interactive {
		cmd.Stdin = r.stdin
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
	} else {
		cmd.Stdin = stdin
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	logMsg := strings.Builder{}
	defer func() {
		log.Print(logMsg.String())
	}()

	logMsg.WriteString(fmt.Sprintf("Run exec: '%s %s' ", args.Cmd, strings.Join(args.Args, " ")))

	err := cmd.Run()

	var result RunResult
	if args.Interactive {
		result = NewRunResult(cmd.ProcessState.ExitCode(), "", "")
	} else {
		result = NewRunResult(cmd.ProcessState.ExitCode(), stdout.String(), stderr.String())
	}

	logMsg.WriteString(fmt.Sprintf(", exit code: %d\n", result.ExitCode))

	if r.debugLogging && !args.Interactive {
		if out := strings.TrimSuffix(result.Stdout, "\n"); len(out) > 0 {
			logMsg.WriteString(fmt.Sprintf("stdout: %s\n", out))
		}
		if errOut := strings.TrimSuffix(result.Stderr, "\n"); len(errOut) > 0 {
			logMsg.WriteString(fmt.Sprintf("stderr: %s\n", errOut))
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		outputAvailable := !args.Interactive
		err = NewExitError(*exitErr, args.Cmd, result.Stdout, result.Stderr, outputAvailable && args.EnrichError)
	}

	return result, err
}

func appendEnv(env []string) []string {
	if len(env) > 0 {
		return append(os.Environ(), env...)
	}

	return nil
}
