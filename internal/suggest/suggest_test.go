package suggest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/enrollr/internal/schedule"
	"github.com/stretchr/testify/require"
)

var departments = []Item{
	{ID: 1, Name: "Lending"},
	{ID: 2, Name: "Funding"},
	{ID: 3, Name: "Operations"},
	{ID: 4, Name: "Engineering"},
	{ID: 5, Name: "English Desk"},
	{ID: 6, Name: "Finance"},
}

func resolve(q string) string { return "/departments?name_like=" + q }

// recordingFetcher answers immediately with a fixed list and records URLs.
type recordingFetcher struct {
	mu    sync.Mutex
	urls  []string
	items []Item
	err   error
}

func (f *recordingFetcher) FetchItems(_ context.Context, url string) ([]Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return append([]Item(nil), f.items...), nil
}

func (f *recordingFetcher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

// gatedFetcher blocks every request until the test replies to it. Replies are
// delivered even after cancellation, the way a late network response races
// an abort.
type gatedFetcher struct {
	calls chan *pendingCall
}

type pendingCall struct {
	url   string
	ctx   context.Context
	reply chan []Item
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{calls: make(chan *pendingCall, 8)}
}

func (g *gatedFetcher) FetchItems(ctx context.Context, url string) ([]Item, error) {
	c := &pendingCall{url: url, ctx: ctx, reply: make(chan []Item, 1)}
	g.calls <- c
	return <-c.reply, nil
}

func (g *gatedFetcher) next(t *testing.T) *pendingCall {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no request issued")
		return nil
	}
}

func TestQuery_DebouncesToOneFetch(t *testing.T) {
	clock := schedule.NewManual()
	f := &recordingFetcher{items: departments}
	e := New(resolve, f, WithScheduler(clock))

	e.Query("E")
	clock.Advance(100 * time.Millisecond)
	e.Query("En")
	clock.Advance(100 * time.Millisecond)
	e.Query("Engi")
	clock.Advance(249 * time.Millisecond)
	require.Empty(t, f.calls(), "timer must reset on every keystroke")

	clock.Advance(time.Millisecond)
	e.Wait()
	require.Equal(t, []string{"/departments?name_like=Engi"}, f.calls())

	s := e.Session()
	require.True(t, s.Open)
	require.Equal(t, 0, s.ActiveIndex)
	require.False(t, s.Loading)
	require.Equal(t, []Item{{ID: 4, Name: "Engineering"}}, s.Items)
}

func TestQuery_FiltersCaseInsensitiveStartsWith(t *testing.T) {
	clock := schedule.NewManual()
	e := New(resolve, &recordingFetcher{items: departments}, WithScheduler(clock))

	e.Query("  en ")
	clock.Advance(DefaultDebounce)
	e.Wait()

	s := e.Session()
	require.Equal(t, []Item{{ID: 4, Name: "Engineering"}, {ID: 5, Name: "English Desk"}}, s.Items)
	require.Equal(t, "  en ", s.Query)
}

func TestQuery_NoMatchesClosesSession(t *testing.T) {
	clock := schedule.NewManual()
	e := New(resolve, &recordingFetcher{items: departments}, WithScheduler(clock))

	e.Query("zz")
	clock.Advance(DefaultDebounce)
	e.Wait()

	s := e.Session()
	require.False(t, s.Open)
	require.Equal(t, -1, s.ActiveIndex)
	require.Empty(t, s.Items)
}

func TestQuery_BelowMinCharsClearsWithoutFetching(t *testing.T) {
	clock := schedule.NewManual()
	f := &recordingFetcher{items: departments}
	e := New(resolve, f, WithScheduler(clock), WithMinChars(2))

	e.Query("En")
	clock.Advance(DefaultDebounce)
	e.Wait()
	require.True(t, e.Session().Open)

	e.Query("E")
	clock.Advance(time.Second)
	e.Wait()

	s := e.Session()
	require.False(t, s.Open)
	require.Empty(t, s.Items)
	require.Len(t, f.calls(), 1)

	e.Query("   ")
	require.Zero(t, clock.Pending(), "whitespace-only query must not arm a timer")
}

func TestQuery_EmptyDisarmsPendingTimer(t *testing.T) {
	clock := schedule.NewManual()
	f := &recordingFetcher{items: departments}
	e := New(resolve, f, WithScheduler(clock))

	e.Query("En")
	e.Query("")
	clock.Advance(time.Second)
	e.Wait()
	require.Empty(t, f.calls())
}

func TestQuery_SupersededResponseIsDiscarded(t *testing.T) {
	clock := schedule.NewManual()
	g := newGatedFetcher()
	e := New(resolve, g, WithScheduler(clock))

	e.Query("En")
	clock.Advance(DefaultDebounce)
	first := g.next(t)

	e.Query("Fi")
	clock.Advance(DefaultDebounce)
	second := g.next(t)
	require.ErrorIs(t, first.ctx.Err(), context.Canceled, "new fetch must abort the previous one")
	require.Equal(t, "/departments?name_like=Fi", second.url)

	// The stale response lands while the newer request is still loading.
	first.reply <- departments
	require.Never(t, func() bool { return !e.Session().Loading }, 50*time.Millisecond, 5*time.Millisecond,
		"stale response must not clear the newer request's loading state")

	second.reply <- departments
	e.Wait()

	s := e.Session()
	require.False(t, s.Loading)
	require.Equal(t, []Item{{ID: 6, Name: "Finance"}}, s.Items)
	require.Equal(t, "Fi", s.Query)
}

func TestQuery_LateResponseAfterNewerDoesNotOverwrite(t *testing.T) {
	clock := schedule.NewManual()
	g := newGatedFetcher()
	e := New(resolve, g, WithScheduler(clock))

	e.Query("Op")
	clock.Advance(DefaultDebounce)
	first := g.next(t)

	e.Query("Lend")
	clock.Advance(DefaultDebounce)
	second := g.next(t)

	second.reply <- departments
	first.reply <- departments
	e.Wait()

	require.Equal(t, []Item{{ID: 1, Name: "Lending"}}, e.Session().Items)
}

func TestQuery_FailureClearsAndCloses(t *testing.T) {
	clock := schedule.NewManual()
	f := &recordingFetcher{items: departments}
	e := New(resolve, f, WithScheduler(clock))

	e.Query("En")
	clock.Advance(DefaultDebounce)
	e.Wait()
	require.True(t, e.Session().Open)

	f.mu.Lock()
	f.err = errors.New("GET failed: 500")
	f.mu.Unlock()

	e.Query("Eng")
	clock.Advance(DefaultDebounce)
	e.Wait()

	s := e.Session()
	require.False(t, s.Open)
	require.False(t, s.Loading)
	require.Empty(t, s.Items)
}

func TestFocus_DefaultListingTruncates(t *testing.T) {
	clock := schedule.NewManual()
	f := &recordingFetcher{items: departments}
	e := New(resolve, f, WithScheduler(clock), WithShowOnFocus(true), WithDefaultLimit(3))

	e.Focus()
	e.Wait()

	require.Equal(t, []string{"/departments?name_like="}, f.calls())
	s := e.Session()
	require.True(t, s.Open)
	require.Equal(t, departments[:3], s.Items)
}

func TestFocus_WithoutShowOnFocusDoesNothing(t *testing.T) {
	f := &recordingFetcher{items: departments}
	e := New(resolve, f, WithScheduler(schedule.NewManual()))

	e.Focus()
	e.FocusDefault()
	e.Wait()
	require.Empty(t, f.calls())
	require.False(t, e.Session().Open)
}

func TestFocus_ReopensExistingItems(t *testing.T) {
	clock := schedule.NewManual()
	e := New(resolve, &recordingFetcher{items: departments}, WithScheduler(clock))

	e.Query("En")
	clock.Advance(DefaultDebounce)
	e.Wait()
	require.True(t, e.Key(KeyEscape))
	require.False(t, e.Session().Open)

	e.Focus()
	s := e.Session()
	require.True(t, s.Open)
	require.Equal(t, 0, s.ActiveIndex)
}

func TestKey_NavigationClampsAndCommits(t *testing.T) {
	clock := schedule.NewManual()
	var selected, written []string
	e := New(resolve, &recordingFetcher{items: departments},
		WithScheduler(clock),
		WithOnSelect(func(name string) { selected = append(selected, name) }),
		WithOnValue(func(v string) { written = append(written, v) }),
	)

	e.Query("En")
	clock.Advance(DefaultDebounce)
	e.Wait()

	require.True(t, e.Key(KeyUp))
	require.Equal(t, 0, e.Session().ActiveIndex)
	require.True(t, e.Key(KeyDown))
	require.True(t, e.Key(KeyDown))
	require.Equal(t, 1, e.Session().ActiveIndex, "down must clamp at the last item")

	require.True(t, e.Key(KeyEnter))
	s := e.Session()
	require.False(t, s.Open)
	require.Equal(t, "English Desk", s.Query)
	require.Equal(t, []string{"English Desk"}, selected)
	require.Equal(t, []string{"English Desk"}, written)
	require.Zero(t, clock.Pending(), "commit must not schedule a follow-up fetch")
}

func TestKey_ClosedListIgnoresNavigation(t *testing.T) {
	e := New(resolve, &recordingFetcher{}, WithScheduler(schedule.NewManual()))

	require.False(t, e.Key(KeyDown))
	require.False(t, e.Key(KeyUp))
	require.False(t, e.Key(KeyEnter))
	require.False(t, e.Key(KeyEscape))
}

func TestKey_EnterOnEmptyClosedFieldListsDefaults(t *testing.T) {
	f := &recordingFetcher{items: departments}
	e := New(resolve, f, WithScheduler(schedule.NewManual()), WithShowOnFocus(true))

	require.True(t, e.Key(KeyEnter))
	e.Wait()
	require.Len(t, f.calls(), 1)
	require.True(t, e.Session().Open)
}

func TestKey_EscapeClosesWithoutCommit(t *testing.T) {
	clock := schedule.NewManual()
	committed := false
	e := New(resolve, &recordingFetcher{items: departments},
		WithScheduler(clock), WithOnSelect(func(string) { committed = true }))

	e.Query("Fin")
	clock.Advance(DefaultDebounce)
	e.Wait()

	require.True(t, e.Key(KeyEscape))
	require.False(t, committed)
	require.Equal(t, "Fin", e.Session().Query)
}

func TestPointer_ClickDuringBlurGraceCommits(t *testing.T) {
	clock := schedule.NewManual()
	var selected string
	e := New(resolve, &recordingFetcher{items: departments},
		WithScheduler(clock), WithOnSelect(func(name string) { selected = name }))

	e.Query("En")
	clock.Advance(DefaultDebounce)
	e.Wait()

	e.Hover(1)
	require.Equal(t, 1, e.Session().ActiveIndex)
	require.True(t, e.Session().Open, "hover must not close")

	e.Blur()
	clock.Advance(DefaultBlurGrace - time.Millisecond)
	require.True(t, e.Session().Open, "blur must wait for the grace period")

	require.True(t, e.Click(1))
	require.Equal(t, "English Desk", selected)

	clock.Advance(time.Second)
	require.False(t, e.Session().Open)
}

func TestPointer_BlurClosesAfterGrace(t *testing.T) {
	clock := schedule.NewManual()
	e := New(resolve, &recordingFetcher{items: departments}, WithScheduler(clock))

	e.Query("En")
	clock.Advance(DefaultDebounce)
	e.Wait()

	e.Blur()
	clock.Advance(DefaultBlurGrace)
	require.False(t, e.Session().Open)
	require.False(t, e.Click(0), "closed list cannot be clicked")
}

func TestPointer_FocusCancelsPendingBlur(t *testing.T) {
	clock := schedule.NewManual()
	e := New(resolve, &recordingFetcher{items: departments}, WithScheduler(clock))

	e.Query("En")
	clock.Advance(DefaultDebounce)
	e.Wait()

	e.Blur()
	e.Focus()
	clock.Advance(time.Second)
	require.True(t, e.Session().Open)
}

func TestReset_CancelsEverything(t *testing.T) {
	clock := schedule.NewManual()
	g := newGatedFetcher()
	var snaps []Session
	var mu sync.Mutex
	e := New(resolve, g, WithScheduler(clock), WithOnChange(func(s Session) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	}))

	e.Query("En")
	clock.Advance(DefaultDebounce)
	call := g.next(t)

	e.Reset()
	require.ErrorIs(t, call.ctx.Err(), context.Canceled)
	call.reply <- departments
	e.Wait()

	s := e.Session()
	require.Empty(t, s.Query)
	require.Empty(t, s.Items)
	require.False(t, s.Loading)

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(snaps); i++ {
		require.Greater(t, snaps[i].Rev, snaps[i-1].Rev)
	}
}

func TestSession_Active(t *testing.T) {
	s := Session{Items: departments[:2], Open: true, ActiveIndex: 1}
	item, ok := s.Active()
	require.True(t, ok)
	require.Equal(t, "Funding", item.Name)

	s.Open = false
	_, ok = s.Active()
	require.False(t, ok)
}
