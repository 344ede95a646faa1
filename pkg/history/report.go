// SPDX-License-Identifier: Apache-2.0
package history

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Outcome is a one-word summary of a run.
func (r *Run) Outcome() string {
	switch {
	case r.Fatal != "":
		return "fatal"
	case r.Aborted:
		return "aborted"
	case r.Failed > 0:
		return "partial"
	}
	return "ok"
}

// Markdown renders the run as a markdown report.
func (r *Run) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Install run %s\n\n", r.ShortID())
	fmt.Fprintf(&b, "- **Started:** %s (%s)\n", r.StartedAt.Format("2006-01-02 15:04:05"), humanize.Time(r.StartedAt))
	fmt.Fprintf(&b, "- **Duration:** %s\n", r.Duration().Round(1e9))
	if r.Hostname != "" {
		fmt.Fprintf(&b, "- **Host:** %s\n", r.Hostname)
	}
	fmt.Fprintf(&b, "- **Outcome:** %s\n", r.Outcome())
	fmt.Fprintf(&b, "- **Counts:** %d succeeded, %d failed, %d skipped\n", r.Succeeded, r.Failed, r.Skipped)
	if r.Fatal != "" {
		fmt.Fprintf(&b, "\n> %s\n", r.Fatal)
	}

	if len(r.Items) == 0 {
		return b.String()
	}

	b.WriteString("\n| App | Result | Detail |\n|---|---|---|\n")
	for _, it := range r.Items {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", it.Name, it.Status, strings.ReplaceAll(it.Detail, "|", `\|`))
	}
	return b.String()
}
