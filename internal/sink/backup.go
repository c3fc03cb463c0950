package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// timestampReplacer makes an RFC3339Nano timestamp filename-safe.
var timestampReplacer = strings.NewReplacer(":", "-", ".", "-")

// Backup persists each callback delivery verbatim to its own file under a
// data directory, for audit and replay. Writes are best-effort: matching
// correctness never depends on them.
type Backup struct {
	dir    string
	logger *zap.Logger
}

// NewBackup creates the data directory if needed and returns a Backup.
func NewBackup(dir string, logger *zap.Logger) (*Backup, error) {
	if dir == "" {
		return nil, fmt.Errorf("backup directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &Backup{dir: dir, logger: logger.Named("backup")}, nil
}

// Write stores raw as a pretty-printed JSON file named by the delivery
// timestamp. Nanosecond precision keeps concurrent deliveries from
// colliding. Failures are logged and swallowed.
func (b *Backup) Write(raw []byte, at time.Time) {
	path := filepath.Join(b.dir, b.filename(at))

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		// Shouldn't happen for payloads the sink accepted; keep the raw
		// bytes rather than losing the event.
		pretty.Reset()
		pretty.Write(raw)
	}

	if err := os.WriteFile(path, pretty.Bytes(), 0o644); err != nil {
		b.logger.Warn("Failed to persist callback payload",
			zap.String("path", path),
			zap.Error(err))
		return
	}
	b.logger.Debug("Persisted callback payload", zap.String("path", path))
}

// filename derives a collision-resistant, filesystem-safe name from the
// delivery timestamp, e.g. callback_2026-08-23T10-15-42-123456789Z.json.
func (b *Backup) filename(at time.Time) string {
	stamp := at.UTC().Format("2006-01-02T15:04:05.000000000Z")
	return "callback_" + timestampReplacer.Replace(stamp) + ".json"
}
