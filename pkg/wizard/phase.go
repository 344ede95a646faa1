// SPDX-License-Identifier: Apache-2.0

// Package wizard holds the setup session: the phase progression, the
// user's choices and the key handlers that mutate them.
package wizard

// Phase is one stage of the wizard. Phases are totally ordered by value.
type Phase int

const (
	PhaseBoot Phase = iota
	PhaseIdentity
	PhaseShell
	PhaseDevTools
	PhaseApps
	PhaseReview
	PhaseInstall
	PhaseComplete
)

type phaseInfo struct {
	name        string
	description string
}

var phases = []phaseInfo{
	PhaseBoot:     {"BOOT", "Initializing consciousness transfer..."},
	PhaseIdentity: {"IDENTITY", "Establishing neural identity profile"},
	PhaseShell:    {"SHELL", "Configuring command interface layer"},
	PhaseDevTools: {"DEV TOOLS", "Selecting development arsenal"},
	PhaseApps:     {"APPS", "Choosing software companions"},
	PhaseReview:   {"REVIEW", "Reviewing configuration matrix"},
	PhaseInstall:  {"INSTALL", "Executing reality modification"},
	PhaseComplete: {"COMPLETE", "Transformation complete"},
}

// AllPhases returns the phases in order.
func AllPhases() []Phase {
	out := make([]Phase, len(phases))
	for i := range phases {
		out[i] = Phase(i)
	}
	return out
}

func (p Phase) Index() int { return int(p) }

func (p Phase) Name() string {
	if p < PhaseBoot || p > PhaseComplete {
		return "UNKNOWN"
	}
	return phases[p].name
}

func (p Phase) Description() string {
	if p < PhaseBoot || p > PhaseComplete {
		return ""
	}
	return phases[p].description
}

func (p Phase) String() string { return p.Name() }

// Next returns the successor, or false at PhaseComplete.
func (p Phase) Next() (Phase, bool) {
	if p >= PhaseComplete {
		return p, false
	}
	return p + 1, true
}

// Prev returns the predecessor, or false at PhaseBoot.
func (p Phase) Prev() (Phase, bool) {
	if p <= PhaseBoot {
		return p, false
	}
	return p - 1, true
}
