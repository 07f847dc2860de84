// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tasklists/internal/liststore"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"
)

// FormatTask formats a task line.
// Format: "{N:>4}  {TEXT}[  #{CATEGORY}]  ({CREATED})\n"
func FormatTask(w io.Writer, num int, task liststore.Task) {
	line := fmt.Sprintf("%4d  %s", num, normalizeText(task.Text))
	if task.Category != "" {
		line += "  #" + task.Category
	}
	if task.CreatedAt != "" {
		line += "  (added " + task.CreatedAt + ")"
	}
	fmt.Fprintln(w, line)
}

// FormatListHeader formats a list section header.
func FormatListHeader(w io.Writer, name string, active bool) {
	displayName := normalizeListName(name)
	if active {
		displayName += " [active]"
	}
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, displayName)
	fmt.Fprintln(w, ListSeparator)
}

// FormatListName formats a list line for the lists command.
// Format: "{* | space} {NAME} ({TASKS})\n"
func FormatListName(w io.Writer, list liststore.List, active bool) {
	marker := " "
	if active {
		marker = "*"
	}
	fmt.Fprintf(w, "%s %s (%d)\n", marker, normalizeListName(list.Name), len(list.Tasks))
}

// normalizeText normalizes a task text for display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}

// normalizeListName normalizes a list name for display.
// Empty or whitespace-only names become "(untitled)".
func normalizeListName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}
