package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// FormatError renders a ClassifiedError for terminal display with colors.
// Layout: category label, message, numbered remediation steps, help link.
// fatih/color degrades to plain text automatically when not on a TTY.
func FormatError(err *ClassifiedError) string {
	if err == nil {
		return ""
	}

	var b strings.Builder

	label := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	b.WriteString(label(err.Category.String()))
	b.WriteString(": ")
	b.WriteString(err.Message)
	b.WriteString("\n")

	if len(err.Remediation) > 0 {
		b.WriteString("\nTo fix this:\n")
		for i, step := range err.Remediation {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}

	if err.HelpURL != "" {
		b.WriteString("\n")
		b.WriteString(dim("See: " + err.HelpURL))
		b.WriteString("\n")
	}

	return b.String()
}

// FormatErrorPlain renders the error without any color escape sequences,
// for logs and non-interactive output.
func FormatErrorPlain(err *ClassifiedError) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(err.Category.String())
	b.WriteString(": ")
	b.WriteString(err.Message)
	b.WriteString("\n")

	if len(err.Remediation) > 0 {
		b.WriteString("\nTo fix this:\n")
		for i, step := range err.Remediation {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}

	if err.HelpURL != "" {
		b.WriteString("\nSee: " + err.HelpURL + "\n")
	}

	return b.String()
}

// PrintError writes the formatted error to stderr. Nil errors print nothing.
func PrintError(err *ClassifiedError) {
	FprintError(os.Stderr, err)
}

// FprintError writes the formatted error to w. Nil errors print nothing.
func FprintError(w io.Writer, err *ClassifiedError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}
