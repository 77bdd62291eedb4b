// Package suggest implements debounced, cancellable typeahead for one input
// field. An Engine owns a single Session; every fetch supersedes the previous
// one, and a response is applied only while it is still the latest.
package suggest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/enrollr/internal/logger"
	"github.com/mark3labs/enrollr/internal/schedule"
)

// Item is one suggestion.
type Item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Fetcher retrieves suggestion items from a resolved URL.
type Fetcher interface {
	FetchItems(ctx context.Context, url string) ([]Item, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) ([]Item, error)

// FetchItems implements Fetcher.
func (f FetcherFunc) FetchItems(ctx context.Context, url string) ([]Item, error) {
	return f(ctx, url)
}

// URLFunc maps a query to the URL to fetch.
type URLFunc func(query string) string

// Key is a navigation key the engine understands.
type Key int

const (
	KeyDown Key = iota
	KeyUp
	KeyEnter
	KeyEscape
)

// Session is a snapshot of the engine's visible state.
type Session struct {
	Query       string
	Items       []Item
	Open        bool
	ActiveIndex int
	Loading     bool
	// Rev increases with every state change. Consumers that receive
	// snapshots from several goroutines keep only the highest.
	Rev uint64
}

// Active returns the highlighted item, if any.
func (s Session) Active() (Item, bool) {
	if !s.Open || s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Items) {
		return Item{}, false
	}
	return s.Items[s.ActiveIndex], true
}

const (
	DefaultMinChars  = 1
	DefaultDebounce  = 250 * time.Millisecond
	DefaultLimit     = 10
	DefaultBlurGrace = 120 * time.Millisecond
)

type options struct {
	minChars    int
	debounce    time.Duration
	showOnFocus bool
	limit       int
	blurGrace   time.Duration
	sched       schedule.Scheduler
	onSelect    func(name string)
	onChange    func(Session)
	onValue     func(value string)
}

// Option configures an Engine.
type Option func(*options)

// WithMinChars sets the shortest trimmed query that triggers a fetch.
func WithMinChars(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.minChars = n
		}
	}
}

// WithDebounce sets the quiet period between the last keystroke and a fetch.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithShowOnFocus lists unfiltered items when the field gains focus empty.
func WithShowOnFocus(on bool) Option {
	return func(o *options) { o.showOnFocus = on }
}

// WithDefaultLimit caps the unfiltered focus listing.
func WithDefaultLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithBlurGrace sets how long a blur waits before closing the list.
func WithBlurGrace(d time.Duration) Option {
	return func(o *options) { o.blurGrace = d }
}

// WithScheduler replaces the wall clock.
func WithScheduler(s schedule.Scheduler) Option {
	return func(o *options) { o.sched = s }
}

// WithOnSelect is called with the committed item name.
func WithOnSelect(fn func(name string)) Option {
	return func(o *options) { o.onSelect = fn }
}

// WithOnChange receives a snapshot after every state change.
func WithOnChange(fn func(Session)) Option {
	return func(o *options) { o.onChange = fn }
}

// WithOnValue is called when a commit writes the bound value.
func WithOnValue(fn func(value string)) Option {
	return func(o *options) { o.onValue = fn }
}

// Engine drives one suggestion session.
type Engine struct {
	mu       sync.Mutex
	resolve  URLFunc
	fetcher  Fetcher
	opts     options
	debounce *schedule.Debouncer

	blurTimer schedule.Timer
	blurGen   uint64

	gen    uint64
	cancel context.CancelFunc
	sess   Session
	wg     sync.WaitGroup
}

// New creates an engine fetching resolve(query) through fetcher.
func New(resolve URLFunc, fetcher Fetcher, opts ...Option) *Engine {
	o := options{
		minChars:  DefaultMinChars,
		debounce:  DefaultDebounce,
		limit:     DefaultLimit,
		blurGrace: DefaultBlurGrace,
		sched:     schedule.Clock{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		resolve:  resolve,
		fetcher:  fetcher,
		opts:     o,
		debounce: schedule.NewDebouncer(o.sched, o.debounce),
		sess:     Session{ActiveIndex: -1},
	}
}

// Session returns a snapshot of the current state.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Query sets the field text. Queries below the minimum length clear the
// session; anything else re-arms the debounce timer.
func (e *Engine) Query(text string) {
	e.mu.Lock()
	e.sess.Query = text
	q := strings.TrimSpace(text)
	if utf8.RuneCountInString(q) < e.opts.minChars {
		e.debounce.Cancel()
		e.abortLocked()
		e.sess.Items = nil
		e.closeLocked()
	} else {
		e.debounce.Arm(func() { e.fire(q) })
	}
	e.touchLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
}

// fire runs when the debounce quiet period ends for q.
func (e *Engine) fire(q string) {
	e.mu.Lock()
	if strings.TrimSpace(e.sess.Query) != q {
		// The query changed after the timer was dispatched.
		e.mu.Unlock()
		return
	}
	e.startLocked(e.resolve(q), q, true)
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
}

// Focus is called when the field gains focus.
func (e *Engine) Focus() {
	e.mu.Lock()
	e.stopBlurLocked()
	if e.opts.showOnFocus && strings.TrimSpace(e.sess.Query) == "" {
		e.mu.Unlock()
		e.FocusDefault()
		return
	}
	if len(e.sess.Items) > 0 && !e.sess.Open {
		e.sess.Open = true
		e.sess.ActiveIndex = 0
		e.touchLocked()
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
}

// FocusDefault lists unfiltered items up to the default limit. It does
// nothing unless show-on-focus is enabled and the query is empty.
func (e *Engine) FocusDefault() {
	e.mu.Lock()
	if !e.opts.showOnFocus || strings.TrimSpace(e.sess.Query) != "" {
		e.mu.Unlock()
		return
	}
	e.startLocked(e.resolve(""), "", false)
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
}

// Key applies a navigation key and reports whether it was consumed.
func (e *Engine) Key(k Key) bool {
	e.mu.Lock()
	consumed := false
	switch k {
	case KeyDown:
		if e.sess.Open && len(e.sess.Items) > 0 {
			e.sess.ActiveIndex = min(len(e.sess.Items)-1, e.sess.ActiveIndex+1)
			e.touchLocked()
			consumed = true
		}
	case KeyUp:
		if e.sess.Open && len(e.sess.Items) > 0 {
			e.sess.ActiveIndex = max(0, e.sess.ActiveIndex-1)
			e.touchLocked()
			consumed = true
		}
	case KeyEscape:
		if e.sess.Open {
			e.closeLocked()
			e.touchLocked()
			consumed = true
		}
	case KeyEnter:
		if item, ok := e.sess.Active(); ok {
			e.mu.Unlock()
			e.commit(item)
			return true
		}
		if !e.sess.Open && e.opts.showOnFocus && strings.TrimSpace(e.sess.Query) == "" {
			e.mu.Unlock()
			e.FocusDefault()
			return true
		}
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	if consumed {
		e.notify(snap)
	}
	return consumed
}

// Hover highlights item i without closing.
func (e *Engine) Hover(i int) {
	e.mu.Lock()
	if !e.sess.Open || i < 0 || i >= len(e.sess.Items) || i == e.sess.ActiveIndex {
		e.mu.Unlock()
		return
	}
	e.sess.ActiveIndex = i
	e.touchLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
}

// Click commits item i. It reports whether an item was committed.
func (e *Engine) Click(i int) bool {
	e.mu.Lock()
	if !e.sess.Open || i < 0 || i >= len(e.sess.Items) {
		e.mu.Unlock()
		return false
	}
	item := e.sess.Items[i]
	e.mu.Unlock()

	e.commit(item)
	return true
}

// Blur closes the list after the blur grace period, leaving room for a
// pointer click on an item to commit first.
func (e *Engine) Blur() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopBlurLocked()
	e.blurGen++
	gen := e.blurGen
	e.blurTimer = e.opts.sched.AfterFunc(e.opts.blurGrace, func() { e.blurFire(gen) })
}

func (e *Engine) blurFire(gen uint64) {
	e.mu.Lock()
	if gen != e.blurGen || !e.sess.Open {
		e.mu.Unlock()
		return
	}
	e.blurTimer = nil
	e.closeLocked()
	e.touchLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
}

// Reset cancels all pending work and clears the session.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.debounce.Cancel()
	e.stopBlurLocked()
	e.abortLocked()
	e.sess = Session{ActiveIndex: -1, Rev: e.sess.Rev}
	e.touchLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
}

// Close releases the engine. It is Reset without the change notification.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.debounce.Cancel()
	e.stopBlurLocked()
	e.abortLocked()
	e.sess = Session{ActiveIndex: -1, Rev: e.sess.Rev + 1}
}

// Wait blocks until every fetch goroutine has returned.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// commit writes the item name back as the field value and closes the list.
func (e *Engine) commit(item Item) {
	e.mu.Lock()
	e.debounce.Cancel()
	e.abortLocked()
	e.sess.Query = item.Name
	e.closeLocked()
	e.touchLocked()
	snap := e.snapshotLocked()
	onValue, onSelect := e.opts.onValue, e.opts.onSelect
	e.mu.Unlock()

	logger.Debug("suggest: committed %q", item.Name)
	if onValue != nil {
		onValue(item.Name)
	}
	if onSelect != nil {
		onSelect(item.Name)
	}
	e.notify(snap)
}

// startLocked supersedes any in-flight request and starts a new one.
func (e *Engine) startLocked(url, q string, filtered bool) {
	e.abortLocked()
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	gen := e.gen
	e.sess.Loading = true
	e.touchLocked()

	e.wg.Add(1)
	go e.run(ctx, gen, url, q, filtered)
}

func (e *Engine) run(ctx context.Context, gen uint64, url, q string, filtered bool) {
	defer e.wg.Done()

	items, err := e.fetcher.FetchItems(ctx, url)

	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		logger.Debug("suggest: dropped superseded response for %s", url)
		return
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.sess.Loading = false
	switch {
	case err != nil:
		if errors.Is(err, context.Canceled) {
			logger.Debug("suggest: request for %s canceled", url)
		} else {
			logger.Warn("suggest: fetching %s: %v", url, err)
		}
		e.sess.Items = nil
		e.closeLocked()
	default:
		if filtered {
			items = startsWith(items, q)
		} else if len(items) > e.opts.limit {
			items = items[:e.opts.limit]
		}
		e.sess.Items = items
		if len(items) > 0 {
			e.sess.Open = true
			e.sess.ActiveIndex = 0
		} else {
			e.closeLocked()
		}
	}
	e.touchLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
}

// abortLocked cancels the in-flight request and invalidates its response.
func (e *Engine) abortLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.gen++
	e.sess.Loading = false
}

func (e *Engine) closeLocked() {
	e.sess.Open = false
	e.sess.ActiveIndex = -1
}

func (e *Engine) stopBlurLocked() {
	if e.blurTimer != nil {
		e.blurTimer.Stop()
		e.blurTimer = nil
	}
	e.blurGen++
}

func (e *Engine) touchLocked() {
	e.sess.Rev++
}

func (e *Engine) snapshotLocked() Session {
	s := e.sess
	if s.Items != nil {
		s.Items = append([]Item(nil), s.Items...)
	}
	return s
}

func (e *Engine) notify(s Session) {
	if e.opts.onChange != nil {
		e.opts.onChange(s)
	}
}

// startsWith keeps items whose name begins with q, ignoring case.
func startsWith(items []Item, q string) []Item {
	prefix := strings.ToLower(q)
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.HasPrefix(strings.ToLower(it.Name), prefix) {
			out = append(out, it)
		}
	}
	return out
}
