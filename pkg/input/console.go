package input

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

// Console allows commands to interact with the operator without binding to a specific
// terminal implementation.
type Console interface {
	Message(ctx context.Context, message string)
	Prompt(ctx context.Context, options ConsoleOptions) (string, error)
	PromptPassword(ctx context.Context, options ConsoleOptions) (string, error)
	Select(ctx context.Context, options ConsoleOptions) (int, error)
	Confirm(ctx context.Context, options ConsoleOptions) (bool, error)
}

// AskerConsole is the default Console implementation, backed by a survey Asker.
type AskerConsole struct {
	asker  Asker
	writer io.Writer
}

type ConsoleOptions struct {
	Message      string
	Options      []string
	DefaultValue any
}

func (c *AskerConsole) Message(ctx context.Context, message string) {
	fmt.Fprintln(c.writer, message)
}

func (c *AskerConsole) Prompt(ctx context.Context, options ConsoleOptions) (string, error) {
	var defaultValue string
	if value, ok := options.DefaultValue.(string); ok {
		defaultValue = value
	}

	survey := &survey.Input{
		Message: options.Message,
		Default: defaultValue,
	}

	var response string

	if err := c.asker(survey, &response); err != nil {
		return "", err
	}

	return response, nil
}

func (c *AskerConsole) PromptPassword(ctx context.Context, options ConsoleOptions) (string, error) {
	survey := &survey.Password{
		Message: options.Message,
	}

	var response string

	if err := c.asker(survey, &response); err != nil {
		return "", err
	}

	return response, nil
}

func (c *AskerConsole) Select(ctx context.Context, options ConsoleOptions) (int, error) {
	survey := &survey.Select{
		Message: options.Message,
		Options: options.Options,
		Default: options.DefaultValue,
	}

	var response int

	if err := c.asker(survey, &response); err != nil {
		return -1, err
	}

	return response, nil
}

func (c *AskerConsole) Confirm(ctx context.Context, options ConsoleOptions) (bool, error) {
	var defaultValue bool
	if value, ok := options.DefaultValue.(bool); ok {
		defaultValue = value
	}

	survey := &survey.Confirm{
		Message: options.Message,
		Default: defaultValue,
	}

	var response bool

	if err := c.asker(survey, &response); err != nil {
		return false, err
	}

	return response, nil
}

// NewConsole creates a console attached to the process standard streams. Prompts honor
// noPrompt by resolving to their default values.
func NewConsole(noPrompt bool) Console {
	isTerminal := isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())

	return &AskerConsole{
		asker:  NewAsker(noPrompt, isTerminal, os.Stdout, os.Stdin),
		writer: os.Stdout,
	}
}

// NewCustomConsole creates a console bound to the provided streams, primarily for tests.
func NewCustomConsole(noPrompt bool, isTerminal bool, w io.Writer, r io.Reader) Console {
	return &AskerConsole{
		asker:  NewAsker(noPrompt, isTerminal, w, r),
		writer: w,
	}
}
