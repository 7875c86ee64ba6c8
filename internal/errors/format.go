package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// palette styles the parts of a formatted error. The plain palette leaves
// every part unchanged.
type palette struct {
	label, category, message, usage, fix, bullet func(...interface{}) string
}

var (
	colored = palette{
		label:    errorLabel,
		category: categoryFmt,
		message:  errorMsg,
		usage:    usageLabel,
		fix:      fixLabel,
		bullet:   bullet,
	}
	plain = palette{
		label: fmt.Sprint, category: fmt.Sprint, message: fmt.Sprint,
		usage: fmt.Sprint, fix: fmt.Sprint, bullet: fmt.Sprint,
	}
)

// FormatError formats a CLIError for the terminal. Colors are dropped
// automatically when stderr is not a terminal or NO_COLOR is set.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, colored)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, plain)
}

func formatError(err *CLIError, p palette) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usage("Usage: "), err.Usage)
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// FormatAnnotation renders err as a GitHub Actions workflow command so the
// failure shows up on the run summary. Newlines in the message are escaped
// as the runner expects.
func FormatAnnotation(err *CLIError) string {
	if err == nil {
		return ""
	}
	msg := err.Message
	if len(err.Remediation) > 0 {
		msg += "\n" + strings.Join(err.Remediation, "\n")
	}
	return fmt.Sprintf("::error title=%s::%s\n", escapeProperty(err.Category.String()), escapeData(msg))
}

func escapeData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}

func escapeProperty(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C").Replace(s)
}

// FprintError prints a formatted CLIError to the given writer.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}
