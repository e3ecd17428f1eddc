package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/input"
)

// promptString asks for a value, offering the remembered answer as the default. An empty
// answer with no default is an error.
func promptString(
	ctx context.Context,
	console input.Console,
	message string,
	defaultValue string,
) (string, error) {
	value, err := console.Prompt(ctx, input.ConsoleOptions{
		Message:      message,
		DefaultValue: defaultValue,
	})
	if err != nil {
		return "", err
	}

	if value == "" {
		value = defaultValue
	}

	if value == "" {
		return "", fmt.Errorf("a value is required for: %s", message)
	}

	return value, nil
}

// promptInt asks for a positive integer, offering the remembered answer as the default.
func promptInt(
	ctx context.Context,
	console input.Console,
	message string,
	defaultValue int,
) (int, error) {
	defaultText := ""
	if defaultValue > 0 {
		defaultText = strconv.Itoa(defaultValue)
	}

	text, err := promptString(ctx, console, message, defaultText)
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(text)
	if err != nil || value < 1 {
		return 0, fmt.Errorf("expected a positive number for %q, got %q", message, text)
	}

	return value, nil
}

// promptPassword asks for a secret. Secrets are never persisted, so there is no default.
func promptPassword(
	ctx context.Context,
	console input.Console,
	message string,
) (string, error) {
	value, err := console.PromptPassword(ctx, input.ConsoleOptions{
		Message: message,
	})
	if err != nil {
		return "", err
	}

	if value == "" {
		return "", fmt.Errorf("a value is required for: %s", message)
	}

	return value, nil
}
