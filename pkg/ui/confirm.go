// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrUserCancelled is returned when a prompt is dismissed with esc or ctrl+c.
var ErrUserCancelled = errors.New("cancelled by user")

// Confirm shows a yes/no confirmation dialog using huh.
func Confirm(title, description string) (bool, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrUserCancelled
		}
		return false, err
	}
	return confirmed, nil
}
