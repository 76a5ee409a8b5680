package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRerunsOnRelevantChange(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Languages"), 0o755))

	w := New(root, 20*time.Millisecond, func(rel string) bool {
		return strings.HasSuffix(rel, ".cs") || strings.HasSuffix(rel, ".xaml")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			runs <- struct{}{}
			return nil
		})
	}()

	waitRun := func(msg string) {
		t.Helper()
		select {
		case <-runs:
		case <-time.After(5 * time.Second):
			t.Fatal(msg)
		}
	}

	waitRun("initial run did not happen")

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Languages", "en.xaml"), []byte("<x/>"), 0o644))
	waitRun("change did not trigger a run")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	var seen []string
	w := New(root, 0, func(rel string) bool {
		seen = append(seen, rel)
		return rel == "Languages/en.xaml"
	})

	assert.True(t, w.matches(filepath.Join(root, "Languages", "en.xaml")))
	assert.False(t, w.matches(filepath.Join(root, "Main.cs")))
	assert.Equal(t, []string{"Languages/en.xaml", "Main.cs"}, seen)
	assert.Equal(t, DefaultDebounce, w.debounce)
}
