// SPDX-License-Identifier: Apache-2.0
package wizard

import (
	"time"

	"github.com/Work-Fort/Loadstar/pkg/install"
)

// tickMsg drives the boot animation and the event drain.
type tickMsg time.Time

// historyRecordedMsg reports the outcome of writing a run to history.
type historyRecordedMsg struct {
	ID  string
	Err error
}

// workerResult is what the install worker hands back once it finishes.
type workerResult struct {
	Summary install.Summary
	Fatal   string
}
