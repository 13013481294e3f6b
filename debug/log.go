package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu      sync.Mutex
	closer  io.Closer
	logger  *slog.Logger
	enabled bool
)

// Enable starts debug logging to path, truncating it.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}

	enableLocked(f, f)
	return nil
}

// EnableWriter logs to w; used by tests and the export command.
func EnableWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	enableLocked(w, nil)
}

func enableLocked(w io.Writer, c io.Closer) {
	closer = c
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	enabled = true
	logger.Debug("=== Debug logging started ===", "category", "debug")
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if closer != nil {
		closer.Close()
		closer = nil
	}
	logger = nil
	enabled = false
}

// Enabled reports whether Log writes anywhere.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logger == nil {
		return
	}
	logger.Debug(fmt.Sprintf(format, args...), "category", category)
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
