// Package submit writes a finished wizard record to the backing services in
// order, reporting progress and an append-only log as it goes.
package submit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/enrollr/internal/employee"
	"github.com/mark3labs/enrollr/internal/logger"
)

// ErrBusy is returned when Run is called while a run is in progress.
var ErrBusy = errors.New("submission already in progress")

// BasicInfoWriter stores the basic-info record.
type BasicInfoWriter interface {
	CreateBasicInfo(ctx context.Context, fields employee.Step1Fields) error
}

// DetailsWriter stores the details record.
type DetailsWriter interface {
	CreateDetails(ctx context.Context, details employee.Details) error
}

// Tone colours a log entry.
type Tone int

const (
	ToneMuted Tone = iota
	ToneOK
	ToneWarn
)

func (t Tone) String() string {
	switch t {
	case ToneOK:
		return "ok"
	case ToneWarn:
		return "warn"
	default:
		return "muted"
	}
}

// Entry is one log line.
type Entry struct {
	ID   string
	Text string
	Tone Tone
}

// Progress checkpoints.
const (
	ProgressBasicInfoStarted = 15
	ProgressBasicInfoSaved   = 55
	ProgressDetailsOnly      = 35
	ProgressDetailsSaved     = 92
	ProgressDone             = 100
)

// Log lines.
const (
	MsgSubmittingBasicInfo = "⏳ Submitting basicInfo…"
	MsgBasicInfoSaved      = "✅ basicInfo saved!"
	MsgSubmittingDetails   = "⏳ Submitting details…"
	MsgDetailsSaved        = "✅ details saved!"
	MsgAllDone             = "🎉 All data processed successfully!"
	MsgFailedPrefix        = "⚠️ Submit failed: "
)

const (
	// DefaultLatency is the pause before each write.
	DefaultLatency = 3 * time.Second
	// ListingPath is where a successful submission navigates.
	ListingPath = "/employees"
	// NavigateDelay is how long the outcome stays visible before navigating.
	NavigateDelay = 350 * time.Millisecond
)

// Update is reported after every change to the log or progress.
type Update struct {
	Entry    *Entry
	Progress int
}

// Result is the outcome of one run. The caller acts on ClearDraft and
// NavigateTo.
type Result struct {
	OK            bool
	Log           []Entry
	Progress      int
	ClearDraft    bool
	NavigateTo    string
	NavigateAfter time.Duration
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLatency sets the pause before each write.
func WithLatency(d time.Duration) Option {
	return func(p *Pipeline) { p.latency = d }
}

// WithSleeper replaces the wall-clock pause.
func WithSleeper(fn Sleeper) Option {
	return func(p *Pipeline) { p.sleep = fn }
}

// WithReporter receives every update as it happens.
func WithReporter(fn func(Update)) Option {
	return func(p *Pipeline) { p.report = fn }
}

// WithNavigateDelay sets Result.NavigateAfter for successful runs.
func WithNavigateDelay(d time.Duration) Option {
	return func(p *Pipeline) { p.navigateAfter = d }
}

// Pipeline performs submissions. A Pipeline runs one submission at a time.
type Pipeline struct {
	basic         BasicInfoWriter
	details       DetailsWriter
	latency       time.Duration
	navigateAfter time.Duration
	sleep         Sleeper
	report        func(Update)

	busy atomic.Bool

	mu       sync.Mutex
	log      []Entry
	progress int
}

// New returns a Pipeline writing through basic and details.
func New(basic BasicInfoWriter, details DetailsWriter, opts ...Option) *Pipeline {
	p := &Pipeline{
		basic:         basic,
		details:       details,
		latency:       DefaultLatency,
		navigateAfter: NavigateDelay,
		sleep:         sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Busy reports whether a run is in progress.
func (p *Pipeline) Busy() bool {
	return p.busy.Load()
}

// Snapshot returns the current log and progress.
func (p *Pipeline) Snapshot() ([]Entry, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Entry(nil), p.log...), p.progress
}

// Run submits the record for role. A write failure ends the run with a warn
// entry and is reflected in Result.OK; the returned error is reserved for
// ErrBusy.
func (p *Pipeline) Run(ctx context.Context, role employee.Role, s1 employee.Step1Fields, s2 employee.Step2Fields) (Result, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer p.busy.Store(false)

	p.reset()
	logger.Info("submit: starting %s submission", role)

	if err := p.steps(ctx, role, s1, s2); err != nil {
		logger.Warn("submit: %s submission failed: %v", role, err)
		p.append(MsgFailedPrefix+err.Error(), ToneWarn)
		p.setProgress(ProgressDone)
		return p.result(false), nil
	}

	logger.Info("submit: %s submission complete", role)
	return p.result(true), nil
}

func (p *Pipeline) steps(ctx context.Context, role employee.Role, s1 employee.Step1Fields, s2 employee.Step2Fields) error {
	if role.SubmitsBasicInfo() {
		p.append(MsgSubmittingBasicInfo, ToneMuted)
		p.setProgress(ProgressBasicInfoStarted)
		if err := p.sleep(ctx, p.latency); err != nil {
			return err
		}
		if err := p.basic.CreateBasicInfo(ctx, s1); err != nil {
			return err
		}
		p.append(MsgBasicInfoSaved, ToneOK)
		p.setProgress(ProgressBasicInfoSaved)
	} else {
		p.setProgress(ProgressDetailsOnly)
	}

	p.append(MsgSubmittingDetails, ToneMuted)
	if err := p.sleep(ctx, p.latency); err != nil {
		return err
	}
	if err := p.details.CreateDetails(ctx, employee.DetailsFor(role, s1, s2)); err != nil {
		return err
	}
	p.append(MsgDetailsSaved, ToneOK)
	p.setProgress(ProgressDetailsSaved)

	p.append(MsgAllDone, ToneOK)
	p.setProgress(ProgressDone)
	return nil
}

func (p *Pipeline) reset() {
	p.mu.Lock()
	p.log = nil
	p.progress = 0
	p.mu.Unlock()
	p.emit(Update{Progress: 0})
}

func (p *Pipeline) append(text string, tone Tone) {
	e := Entry{ID: uuid.NewString(), Text: text, Tone: tone}
	p.mu.Lock()
	p.log = append(p.log, e)
	progress := p.progress
	p.mu.Unlock()

	logger.Debug("submit: [%s] %s", tone, text)
	p.emit(Update{Entry: &e, Progress: progress})
}

// setProgress never moves progress backwards within a run.
func (p *Pipeline) setProgress(v int) {
	p.mu.Lock()
	if v < p.progress {
		v = p.progress
	}
	p.progress = v
	p.mu.Unlock()

	p.emit(Update{Progress: v})
}

func (p *Pipeline) emit(u Update) {
	if p.report != nil {
		p.report(u)
	}
}

func (p *Pipeline) result(ok bool) Result {
	log, progress := p.Snapshot()
	r := Result{OK: ok, Log: log, Progress: progress}
	if ok {
		r.ClearDraft = true
		r.NavigateTo = ListingPath
		r.NavigateAfter = p.navigateAfter
	}
	return r
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
