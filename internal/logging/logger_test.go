package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(t *testing.T) *ResolutionLog {
	t.Helper()
	log, err := NewResolutionLog(filepath.Join(t.TempDir(), "resolutions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestRecordAndRecent(t *testing.T) {
	log := newTestLog(t)

	require.NoError(t, log.Record(ResolutionRecord{
		SceneID:     "intro",
		Utterance:   "wander east, I suppose",
		ResolvedKey: "walk_to_cottages",
		Outcome:     "resolved",
		Latency:     340 * time.Millisecond,
	}))
	require.NoError(t, log.Record(ResolutionRecord{
		SceneID:   "intro",
		Utterance: "sing a sea shanty",
		Outcome:   "none",
		Latency:   120 * time.Millisecond,
	}))

	records, err := log.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "none", records[0].Outcome)
	assert.Equal(t, "resolved", records[1].Outcome)
	assert.Equal(t, "walk_to_cottages", records[1].ResolvedKey)
	assert.Equal(t, 340*time.Millisecond, records[1].Latency)
}

func TestRecentHonorsLimit(t *testing.T) {
	log := newTestLog(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Record(ResolutionRecord{
			SceneID:   "intro",
			Utterance: "mumble",
			Outcome:   "error",
			Error:     "connection refused",
		}))
	}

	records, err := log.Recent(3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
