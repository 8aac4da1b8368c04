package track

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "usage.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreTrackAndGains(t *testing.T) {
	store := openTestStore(t)

	store.Track(Record{
		Command:  "cargo build",
		Display:  "rtk cargo build",
		Raw:      "line1\nline2\nline3\nline4\n",
		Filtered: "line1\n",
		Duration: 250 * time.Millisecond,
	})
	store.Track(Record{
		Command:  "cargo build",
		Display:  "rtk cargo build",
		Raw:      "a\nb\n",
		Filtered: "a\n",
		Duration: 100 * time.Millisecond,
	})
	store.Track(Record{
		Command:  "ls -la",
		Display:  "rtk ls",
		Raw:      "x\ny\n",
		Filtered: "x\ny\n",
		Duration: 10 * time.Millisecond,
	})

	gains, err := store.Gains()
	require.NoError(t, err)

	assert.Equal(t, int64(3), gains.Invocations)
	assert.Equal(t, int64(8), gains.RawLines)
	assert.Equal(t, int64(4), gains.FilteredLines)
	assert.Equal(t, int64(50), gains.LineReduction())

	require.Len(t, gains.PerCommand, 2)
	assert.Equal(t, "rtk cargo build", gains.PerCommand[0].Display)
	assert.Equal(t, int64(2), gains.PerCommand[0].Invocations)
	assert.Equal(t, int64(6), gains.PerCommand[0].RawLines)
	assert.Equal(t, "rtk ls", gains.PerCommand[1].Display)
}

func TestStoreGainsEmpty(t *testing.T) {
	store := openTestStore(t)

	gains, err := store.Gains()
	require.NoError(t, err)

	assert.Equal(t, int64(0), gains.Invocations)
	assert.Equal(t, int64(0), gains.LineReduction())
	assert.Empty(t, gains.PerCommand)
}

func TestStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "usage.db")
	store, err := Open(path, nil)
	require.NoError(t, err)
	defer store.Close()

	store.Track(Record{Command: "cargo test", Display: "rtk cargo test", Raw: "x\n"})
	gains, err := store.Gains()
	require.NoError(t, err)
	assert.Equal(t, int64(1), gains.Invocations)
}

func TestCountLines(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"one\n", 1},
		{"one\ntwo\n", 2},
		{"one\ntwo\nthree", 3},
	}
	for _, tc := range cases {
		if got := countLines(tc.in); got != tc.want {
			t.Errorf("countLines(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
