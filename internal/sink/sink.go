package sink

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thinksmartgroup/Search-AI/internal/types"
)

// Sink is the append-only log of every callback the process has received.
// Ingest is the only mutator; it serializes concurrent appends under a
// mutex. Snapshot copies under the same mutex, so readers never observe a
// torn record and never block writers for longer than the copy.
type Sink struct {
	logger *zap.Logger
	backup *Backup
	now    func() time.Time

	mu      sync.Mutex
	records []types.CallbackRecord
	grown   chan struct{}
}

// Options configures optional Sink behavior.
type Options struct {
	// Backup, if non-nil, persists each delivery to disk. Best-effort:
	// a failed write is logged and the in-memory records are kept anyway.
	Backup *Backup

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// New creates a Sink with default options.
func New(logger *zap.Logger) *Sink {
	return NewWithOptions(logger, Options{})
}

// NewWithOptions creates a Sink.
func NewWithOptions(logger *zap.Logger, opts Options) *Sink {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Sink{
		logger: logger.Named("sink"),
		backup: opts.Backup,
		now:    now,
		grown:  make(chan struct{}),
	}
}

// Ingest records one inbound callback delivery. Array payloads are split
// into one record per element; elements that cannot be parsed are skipped
// (logged) without affecting their siblings. Returns the number of records
// appended, or an error only when the whole body is not valid JSON.
//
// Safe for concurrent use.
func (s *Sink) Ingest(raw []byte, token string) (int, error) {
	elements, err := splitPayload(raw)
	if err != nil {
		s.logger.Warn("Rejected callback payload", zap.Error(err))
		return 0, err
	}

	receivedAt := s.now()
	records := make([]types.CallbackRecord, 0, len(elements))
	for i, element := range elements {
		rec, err := buildRecord(element, token)
		if err != nil {
			s.logger.Warn("Skipping callback element",
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		rec.ReceivedAt = receivedAt
		records = append(records, rec)
	}
	if len(records) == 0 {
		// Structurally valid but nothing usable. Not the sender's 400:
		// ingest is best-effort, so this is logged and acknowledged.
		s.logger.Warn("Callback delivery contained no usable elements",
			zap.Int("elements", len(elements)))
		if s.backup != nil {
			s.backup.Write(raw, receivedAt)
		}
		return 0, nil
	}

	s.mu.Lock()
	s.records = append(s.records, records...)
	close(s.grown)
	s.grown = make(chan struct{})
	total := len(s.records)
	s.mu.Unlock()

	// Backup happens outside the lock; a slow disk must not stall ingress.
	if s.backup != nil {
		s.backup.Write(raw, receivedAt)
	}

	s.logger.Info("Ingested callback delivery",
		zap.Int("records", len(records)),
		zap.Int("total", total),
		zap.String("token", token))
	return len(records), nil
}

// Snapshot returns an immutable point-in-time copy of everything received
// so far, in arrival order. The caller may hold it indefinitely; it will
// never change under them.
func (s *Sink) Snapshot() []types.CallbackRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make([]types.CallbackRecord, len(s.records))
	copy(snap, s.records)
	return snap
}

// Grown returns a channel that is closed the next time any record is
// appended. Waiters may select on it to cut poll latency; the poll interval
// remains the correctness backstop, so missing a signal is harmless.
func (s *Sink) Grown() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grown
}

// Len returns the current record count.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
