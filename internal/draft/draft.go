// Package draft persists the wizard's in-progress record, one draft per role,
// with writes coalesced over a quiet period.
package draft

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/mark3labs/enrollr/internal/employee"
	"github.com/mark3labs/enrollr/internal/kv"
	"github.com/mark3labs/enrollr/internal/logger"
	"github.com/mark3labs/enrollr/internal/schedule"
)

// DefaultQuietPeriod is how long Save waits for further edits before writing.
const DefaultQuietPeriod = 2 * time.Second

// Option configures a Store.
type Option func(*Store)

// WithQuietPeriod sets the autosave quiet period.
func WithQuietPeriod(d time.Duration) Option {
	return func(s *Store) { s.quiet = d }
}

// WithScheduler replaces the wall clock.
func WithScheduler(sched schedule.Scheduler) Option {
	return func(s *Store) { s.sched = sched }
}

// Store saves and restores drafts through a kv.Store.
type Store struct {
	kv    kv.Store
	quiet time.Duration
	sched schedule.Scheduler

	mu        sync.Mutex
	debounced map[employee.Role]*schedule.Debouncer
	// epochs advance on Clear; a write armed under an older epoch is dropped.
	epochs map[employee.Role]uint64
	// writeMu serializes backend writes so a flush and a timer firing for
	// the same role cannot interleave.
	writeMu sync.Mutex
}

// New returns a Store over backend.
func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:        backend,
		quiet:     DefaultQuietPeriod,
		sched:     schedule.Clock{},
		debounced: make(map[employee.Role]*schedule.Debouncer),
		epochs:    make(map[employee.Role]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key for role.
func (s *Store) Key(role employee.Role) string {
	return role.DraftKey()
}

// Load restores the draft for role. Missing, unreadable and unparseable
// drafts all report false; the caller starts from defaults.
func (s *Store) Load(ctx context.Context, role employee.Role) (employee.Draft, bool) {
	raw, ok, err := s.kv.Get(ctx, s.Key(role))
	if err != nil {
		logger.Warn("draft: reading %s: %v", s.Key(role), err)
		return employee.Draft{}, false
	}
	if !ok {
		return employee.Draft{}, false
	}

	d, err := decode(role, []byte(raw))
	if err != nil {
		logger.Warn("draft: ignoring %s: %v", s.Key(role), err)
		return employee.Draft{}, false
	}
	return d, true
}

// decode overlays the stored payload on the role defaults so that drafts
// written before a field existed still restore with that field's default.
func decode(role employee.Role, raw []byte) (employee.Draft, error) {
	base, err := sonic.Marshal(employee.DefaultDraft(role))
	if err != nil {
		return employee.Draft{}, fmt.Errorf("encoding defaults: %w", err)
	}
	merged, err := jsonpatch.MergePatch(base, raw)
	if err != nil {
		return employee.Draft{}, fmt.Errorf("merging stored draft: %w", err)
	}

	var d employee.Draft
	if err := sonic.Unmarshal(merged, &d); err != nil {
		return employee.Draft{}, fmt.Errorf("decoding draft: %w", err)
	}
	if !role.AllowsStep(d.Step) {
		d.Step = role.InitialStep()
	}
	return d, nil
}

// Save schedules a write of d for role. Each call restarts the quiet period,
// and only the last draft of a burst is written.
func (s *Store) Save(role employee.Role, d employee.Draft) {
	epoch := s.epoch(role)
	s.debouncer(role).Arm(func() { s.write(role, epoch, d) })
}

// Flush writes the pending draft for role now. It reports whether one was
// pending.
func (s *Store) Flush(role employee.Role) bool {
	return s.debouncer(role).Flush()
}

// FlushAll writes every pending draft.
func (s *Store) FlushAll() {
	for _, r := range employee.Roles {
		s.Flush(r)
	}
}

// Cancel drops the pending draft for role without writing it.
func (s *Store) Cancel(role employee.Role) bool {
	return s.debouncer(role).Cancel()
}

// Pending reports whether a write is scheduled for role.
func (s *Store) Pending(role employee.Role) bool {
	return s.debouncer(role).Pending()
}

// Clear cancels any pending write and removes the stored draft.
func (s *Store) Clear(ctx context.Context, role employee.Role) error {
	s.Cancel(role)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	s.epochs[role]++
	s.mu.Unlock()
	if err := s.kv.Remove(ctx, s.Key(role)); err != nil {
		return fmt.Errorf("clearing %s: %w", s.Key(role), err)
	}
	logger.Debug("draft: cleared %s", s.Key(role))
	return nil
}

func (s *Store) debouncer(role employee.Role) *schedule.Debouncer {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.debounced[role]
	if !ok {
		d = schedule.NewDebouncer(s.sched, s.quiet)
		s.debounced[role] = d
	}
	return d
}

func (s *Store) epoch(role employee.Role) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epochs[role]
}

func (s *Store) write(role employee.Role, epoch uint64, d employee.Draft) {
	payload, err := sonic.Marshal(d)
	if err != nil {
		logger.Warn("draft: encoding %s: %v", s.Key(role), err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.epoch(role) != epoch {
		logger.Debug("draft: dropping save of %s armed before clear", s.Key(role))
		return
	}
	if err := s.kv.Set(context.Background(), s.Key(role), string(payload)); err != nil {
		logger.Warn("draft: writing %s: %v", s.Key(role), err)
		return
	}
	logger.Debug("draft: saved %s (%d bytes)", s.Key(role), len(payload))
}
