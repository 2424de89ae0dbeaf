// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"mywork/internal/service"
)

const (
	// Separator is the separator line between watch snapshots.
	Separator = "------------"

	// EmptyMessage is printed when a fetch returns no work items.
	EmptyMessage = "no work items found"
)

// FormatStory formats a story line.
// Format: "{N:>4}  {TITLE}\n" (4-wide right-aligned number, two spaces, title)
func FormatStory(w io.Writer, num int, story service.Story) {
	fmt.Fprintf(w, "%4d  %s\n", num, normalizeTitle(story.Title))
}

// FormatTask formats a task line under its story.
// Format: "      - {TITLE}\n", with " (done)" appended for closed tasks.
func FormatTask(w io.Writer, task service.Task) {
	title := normalizeTitle(task.Title)
	if task.State == service.StateClosed {
		title += " (done)"
	}
	fmt.Fprintf(w, "      - %s\n", title)
}

// FormatResultSet writes every story followed by its tasks.
// Returns false if rs holds no stories.
func FormatResultSet(w io.Writer, rs *service.ResultSet) bool {
	if rs == nil || rs.Len() == 0 {
		return false
	}
	for i, entry := range rs.Entries() {
		FormatStory(w, i+1, entry.Story)
		for _, task := range entry.Tasks {
			FormatTask(w, task)
		}
	}
	return true
}

// FormatSnapshotHeader formats the header printed before each watch snapshot.
func FormatSnapshotHeader(w io.Writer, at time.Time, rs *service.ResultSet) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintf(w, "%s  %d stories, %d tasks\n", at.Format("15:04:05"), rs.Len(), rs.TaskCount())
	fmt.Fprintln(w, Separator)
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
