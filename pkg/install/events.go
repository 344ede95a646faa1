// SPDX-License-Identifier: Apache-2.0
package install

import (
	"fmt"
	"time"
)

// Event is one observation emitted by the executor. The set of event types
// is closed: only this package can add one, and consumers switch over all
// of them.
type Event interface {
	isEvent()
}

// PhaseStarted opens a batch or setup step. All item events that follow
// belong to it until the next PhaseStarted.
type PhaseStarted struct {
	Phase string
}

// ItemStarted precedes the item's terminal event.
type ItemStarted struct {
	Name string
	// Command is the human-readable install command.
	Command string
}

type ItemSucceeded struct {
	Name     string
	Duration time.Duration
}

type ItemSkipped struct {
	Name   string
	Reason string
}

type ItemFailed struct {
	Name  string
	Error string
}

// LogLine is informational output, including forwarded process output.
type LogLine struct {
	Line string
}

// Progress follows every terminal item event.
type Progress struct {
	Completed int
	Total     int
}

// Done closes an install run with the final counts.
type Done struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// Fatal aborts the run. No item events follow it.
type Fatal struct {
	Message string
}

func (PhaseStarted) isEvent()  {}
func (ItemStarted) isEvent()   {}
func (ItemSucceeded) isEvent() {}
func (ItemSkipped) isEvent()   {}
func (ItemFailed) isEvent()    {}
func (LogLine) isEvent()       {}
func (Progress) isEvent()      {}
func (Done) isEvent()          {}
func (Fatal) isEvent()         {}

// Percent is the completion percentage, 0 when Total is 0.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total) * 100
}

// Describe renders an event as the log line shown to the user.
func Describe(e Event) string {
	switch ev := e.(type) {
	case PhaseStarted:
		return fmt.Sprintf("[PHASE] === %s ===", ev.Phase)
	case ItemStarted:
		return fmt.Sprintf("[INSTALL] %s (%s)", ev.Name, ev.Command)
	case ItemSucceeded:
		return fmt.Sprintf("[OK] %s (%.1fs)", ev.Name, ev.Duration.Seconds())
	case ItemSkipped:
		return fmt.Sprintf("[SKIP] %s: %s", ev.Name, ev.Reason)
	case ItemFailed:
		return fmt.Sprintf("[FAIL] %s: %s", ev.Name, ev.Error)
	case LogLine:
		return ev.Line
	case Progress:
		return fmt.Sprintf("[PROGRESS] %d/%d", ev.Completed, ev.Total)
	case Done:
		return fmt.Sprintf("[DONE] %d succeeded, %d failed, %d skipped", ev.Succeeded, ev.Failed, ev.Skipped)
	case Fatal:
		return "[FATAL] " + ev.Message
	default:
		panic(fmt.Sprintf("install: unhandled event %T", e))
	}
}
