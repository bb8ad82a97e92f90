package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/batparse/runtime/parser"
)

// Exit codes
const (
	ExitSuccess     = 0
	ExitParseError  = 1
	ExitInvalidArgs = 2
	ExitIOError     = 3
	ExitConfigError = 4
)

// CLI error types
const (
	ErrTypeUsage  = "usage"
	ErrTypeIO     = "io"
	ErrTypeConfig = "config"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "usage", "io", "config"
	Message string
	Details string // Additional context
	Hint    string // How to fix it
	Err     error  // Underlying cause
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

func usageError(message, hint string) *CLIError {
	return &CLIError{Type: ErrTypeUsage, Message: message, Hint: hint}
}

func ioError(message string, err error) *CLIError {
	return &CLIError{Type: ErrTypeIO, Message: message, Details: err.Error(), Err: err}
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, parser.ErrSyntax) {
		return ExitParseError
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		switch cliErr.Type {
		case ErrTypeIO:
			return ExitIOError
		case ErrTypeConfig:
			return ExitConfigError
		}
	}
	return ExitInvalidArgs
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var parseErr *parser.ParseError
	var cliErr *CLIError
	switch {
	case errors.As(err, &parseErr):
		formatParseError(w, parseErr, useColor)
	case errors.As(err, &cliErr):
		formatCLIError(w, cliErr, useColor)
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

// formatParseError formats parser errors with their source snippet and hints
func formatParseError(w io.Writer, err *parser.ParseError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())

	if snippet := err.Snippet(); snippet != "" {
		_, _ = fmt.Fprintf(w, "%s\n", Colorize(snippet, ColorGray, useColor))
	}

	if err.Got != "" {
		_, _ = fmt.Fprintf(w, "  found: %s\n", err.Got)
	}

	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("  help: ", ColorYellow, useColor), err.Suggestion)
	}

	if err.Example != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("  example: ", ColorGray, useColor), err.Example)
	}

	if err.Note != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("  note: ", ColorGray, useColor), err.Note)
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}

// formatWarnings writes parse warnings, one per line.
func formatWarnings(w io.Writer, warnings []parser.ParseWarning, useColor bool) {
	for _, warn := range warnings {
		_, _ = fmt.Fprintln(w, Colorize(warn.String(), ColorYellow, useColor))
	}
}
