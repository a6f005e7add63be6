package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j, path
}

func TestRecordAndRecent(t *testing.T) {
	j, _ := openTemp(t)
	ctx := context.Background()
	at := time.Unix(1700000000, 0)

	require.NoError(t, j.Record(ctx, Entry{ConnID: "c1", Cmd: "click", WidgetID: "btn_heart", Status: "ok", Elapsed: 3 * time.Millisecond, At: at}))
	require.NoError(t, j.Record(ctx, Entry{ConnID: "c1", Cmd: "get_state", WidgetID: "nope", Status: "error", Reason: "widget_not_found"}))

	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "get_state", entries[0].Cmd)
	assert.Equal(t, "widget_not_found", entries[0].Reason)
	assert.False(t, entries[0].At.IsZero())
	assert.Equal(t, "click", entries[1].Cmd)
	assert.Equal(t, 3*time.Millisecond, entries[1].Elapsed)
	assert.True(t, entries[1].At.Equal(at))

	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRecentHonoursLimit(t *testing.T) {
	j, _ := openTemp(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(ctx, Entry{ConnID: "c", Cmd: "wait", Status: "ok"}))
	}
	entries, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Greater(t, entries[0].ID, entries[1].ID)
}

func TestJournalPersistsAcrossOpen(t *testing.T) {
	j, path := openTemp(t)
	ctx := context.Background()
	require.NoError(t, j.Record(ctx, Entry{ConnID: "c", Cmd: "screenshot", Status: "ok"}))
	require.NoError(t, j.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()
	n, err := again.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilJournalCloseIsSafe(t *testing.T) {
	var j *Journal
	assert.NoError(t, j.Close())
}
