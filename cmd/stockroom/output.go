package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("reported")

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.FgHiBlack)
)

func printSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...)) //nolint:errcheck
}

func printError(w io.Writer, format string, args ...any) {
	errorColor.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...)) //nolint:errcheck
}

func printWarning(w io.Writer, format string, args ...any) {
	warningColor.Fprintf(w, "! %s\n", fmt.Sprintf(format, args...)) //nolint:errcheck
}

func printInfo(w io.Writer, format string, args ...any) {
	infoColor.Fprintf(w, "%s\n", fmt.Sprintf(format, args...)) //nolint:errcheck
}

// wordmark renders the spaced STOCKROOM logo in alternating amber.
func wordmark() string {
	colors := [2]lipgloss.Color{"#F59E0B", "#FBBF24"}
	var b strings.Builder
	for i, ch := range "STOCKROOM" {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(lipgloss.NewStyle().Foreground(colors[i%2]).Bold(true).Render(string(ch)))
	}
	return b.String()
}

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#F59E0B")).
	Padding(0, 2)

// field is one label/value row in a details box.
type field struct {
	label, value string
}

// printBox prints fields aligned under a bold title inside a rounded border.
// Empty values are skipped.
func printBox(w io.Writer, title string, fields []field) {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	width := 0
	for _, f := range fields {
		width = max(width, len(f.label))
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render(title), ""}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		lines = append(lines, labelStyle.Render(fmt.Sprintf("%-*s", width, f.label))+"  "+f.value)
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

// printUsage is the root help: wordmark, tagline and the command list.
func printUsage(w io.Writer, commands []field) {
	tagline := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true).
		Render("Inventory, invoices and stock from the terminal.")
	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", wordmark(), tagline)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-26s", c.label)), descStyle.Render(c.value))
	}
	fmt.Fprintln(w)
}
