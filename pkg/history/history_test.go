// SPDX-License-Identifier: Apache-2.0
package history

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Work-Fort/Loadstar/pkg/install"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(started time.Time) *Run {
	r := NewRun(started, "studio")
	r.FinishedAt = started.Add(90 * time.Second)
	r.ApplySummary(install.Summary{
		Succeeded: []string{"Git"},
		Failed:    []install.Outcome{{Name: "Docker", Detail: "permission denied"}},
		Skipped:   []install.Outcome{{Name: "Fzf", Detail: install.ReasonAlreadyInstalled}},
	})
	return r
}

func TestRecordAndGet(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	run := sampleRun(started)
	require.NoError(t, s.Record(ctx, run))

	got, err := s.Get(ctx, run.ShortID())
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.True(t, got.StartedAt.Equal(started))
	assert.Equal(t, 90*time.Second, got.Duration())
	assert.Equal(t, "studio", got.Hostname)
	assert.Equal(t, 1, got.Succeeded)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, []Item{
		{Name: "Git", Status: StatusSucceeded},
		{Name: "Docker", Status: StatusFailed, Detail: "permission denied"},
		{Name: "Fzf", Status: StatusSkipped, Detail: "Already installed"},
	}, got.Items)
	assert.Equal(t, "partial", got.Outcome())
}

func TestGetUnknown(t *testing.T) {
	_, err := openTemp(t).Get(context.Background(), "deadbeef")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestListNewestFirstAndClear(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 3 {
		r := NewRun(base.Add(time.Duration(i)*time.Hour), "")
		r.FinishedAt = r.StartedAt.Add(time.Minute)
		r.Aborted = i == 1
		require.NoError(t, s.Record(ctx, r))
	}

	runs, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
	assert.Equal(t, "aborted", runs[1].Outcome())

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	all, err = s.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMarkdownReport(t *testing.T) {
	run := sampleRun(time.Now().Add(-time.Hour))
	run.Items[1].Detail = "a|b"
	md := run.Markdown()

	assert.Contains(t, md, "# Install run "+run.ShortID())
	assert.Contains(t, md, "1 succeeded, 1 failed, 1 skipped")
	assert.Contains(t, md, `| Docker | failed | a\|b |`)
	assert.True(t, strings.Contains(md, "hour ago"), md)
}
