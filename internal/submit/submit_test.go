package submit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/enrollr/internal/employee"
	"github.com/stretchr/testify/require"
)

// fakeServices records writes in order and can fail or block them.
type fakeServices struct {
	mu         sync.Mutex
	order      []string
	basic      []employee.Step1Fields
	details    []employee.Details
	basicErr   error
	detailsErr error
	block      chan struct{}
}

func (f *fakeServices) CreateBasicInfo(_ context.Context, s1 employee.Step1Fields) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = append(f.order, "basicInfo")
	if f.basicErr != nil {
		return f.basicErr
	}
	f.basic = append(f.basic, s1)
	return nil
}

func (f *fakeServices) CreateDetails(_ context.Context, d employee.Details) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = append(f.order, "details")
	if f.detailsErr != nil {
		return f.detailsErr
	}
	f.details = append(f.details, d)
	return nil
}

func noSleep(context.Context, time.Duration) error { return nil }

var s1 = employee.Step1Fields{
	FullName: "Hari", Email: "hari@mail.com", Department: "Engineering", Role: "Engineer", EmployeeID: "ENG-001",
}

var s2 = employee.Step2Fields{EmploymentType: "Contract", OfficeLocation: "Jakarta", Notes: "n/a"}

func texts(log []Entry) []string {
	out := make([]string, len(log))
	for i, e := range log {
		out[i] = e.Text
	}
	return out
}

func TestRun_AdminWritesBasicInfoThenDetails(t *testing.T) {
	svc := &fakeServices{}
	var progress []int
	p := New(svc, svc, WithSleeper(noSleep), WithReporter(func(u Update) {
		if u.Entry == nil {
			progress = append(progress, u.Progress)
		}
	}))

	res, err := p.Run(context.Background(), employee.RoleAdmin, s1, s2)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Equal(t, []string{"basicInfo", "details"}, svc.order)
	require.Equal(t, []string{
		MsgSubmittingBasicInfo,
		MsgBasicInfoSaved,
		MsgSubmittingDetails,
		MsgDetailsSaved,
		MsgAllDone,
	}, texts(res.Log))
	require.Equal(t, []int{0, 15, 55, 92, 100}, progress)
	require.Equal(t, 100, res.Progress)

	require.True(t, res.ClearDraft)
	require.Equal(t, "/employees", res.NavigateTo)
	require.Equal(t, 350*time.Millisecond, res.NavigateAfter)

	require.Len(t, svc.details, 1)
	require.Equal(t, "hari@mail.com", svc.details[0].Email)
	require.Equal(t, "ENG-001", svc.details[0].EmployeeID)
	require.Equal(t, "Jakarta", svc.details[0].OfficeLocation)
}

func TestRun_OpsWritesDetailsOnlyWithoutIdentity(t *testing.T) {
	svc := &fakeServices{}
	var progress []int
	p := New(svc, svc, WithSleeper(noSleep), WithReporter(func(u Update) {
		if u.Entry == nil {
			progress = append(progress, u.Progress)
		}
	}))

	res, err := p.Run(context.Background(), employee.RoleOps, s1, s2)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Equal(t, []string{"details"}, svc.order)
	require.Equal(t, []int{0, 35, 92, 100}, progress)
	require.Empty(t, svc.details[0].Email)
	require.Empty(t, svc.details[0].EmployeeID)
	require.Equal(t, []string{MsgSubmittingDetails, MsgDetailsSaved, MsgAllDone}, texts(res.Log))
}

func TestRun_BasicInfoFailureStopsBeforeDetails(t *testing.T) {
	svc := &fakeServices{basicErr: errors.New("POST failed: 500")}
	p := New(svc, svc, WithSleeper(noSleep))

	res, err := p.Run(context.Background(), employee.RoleAdmin, s1, s2)
	require.NoError(t, err)
	require.False(t, res.OK)
	require.False(t, res.ClearDraft)
	require.Empty(t, res.NavigateTo)
	require.Equal(t, []string{"basicInfo"}, svc.order)
	require.Equal(t, 100, res.Progress)

	last := res.Log[len(res.Log)-1]
	require.Equal(t, "⚠️ Submit failed: POST failed: 500", last.Text)
	require.Equal(t, ToneWarn, last.Tone)
}

func TestRun_DetailsFailure(t *testing.T) {
	svc := &fakeServices{detailsErr: errors.New("POST failed: 503")}
	p := New(svc, svc, WithSleeper(noSleep))

	res, err := p.Run(context.Background(), employee.RoleAdmin, s1, s2)
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Equal(t, []string{"basicInfo", "details"}, svc.order)
	require.Equal(t, []string{
		MsgSubmittingBasicInfo,
		MsgBasicInfoSaved,
		MsgSubmittingDetails,
		"⚠️ Submit failed: POST failed: 503",
	}, texts(res.Log))
}

func TestRun_ResetsLogBetweenRuns(t *testing.T) {
	svc := &fakeServices{detailsErr: errors.New("boom")}
	p := New(svc, svc, WithSleeper(noSleep))

	_, err := p.Run(context.Background(), employee.RoleOps, s1, s2)
	require.NoError(t, err)

	svc.detailsErr = nil
	res, err := p.Run(context.Background(), employee.RoleOps, s1, s2)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Len(t, res.Log, 3)

	ids := map[string]bool{}
	for _, e := range res.Log {
		require.NotEmpty(t, e.ID)
		require.False(t, ids[e.ID], "log ids must be unique")
		ids[e.ID] = true
	}
}

func TestRun_ConcurrentRunIsRejected(t *testing.T) {
	svc := &fakeServices{block: make(chan struct{})}
	p := New(svc, svc, WithSleeper(noSleep))

	done := make(chan Result)
	go func() {
		res, _ := p.Run(context.Background(), employee.RoleAdmin, s1, s2)
		done <- res
	}()
	require.Eventually(t, p.Busy, time.Second, time.Millisecond)

	_, err := p.Run(context.Background(), employee.RoleAdmin, s1, s2)
	require.ErrorIs(t, err, ErrBusy)

	close(svc.block)
	res := <-done
	require.True(t, res.OK)
	require.False(t, p.Busy())
	require.Len(t, svc.basic, 1, "a rejected run must not write")
}

func TestRun_CanceledDuringLatency(t *testing.T) {
	svc := &fakeServices{}
	p := New(svc, svc, WithLatency(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := p.Run(ctx, employee.RoleAdmin, s1, s2)
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Empty(t, svc.order)
	require.Contains(t, res.Log[len(res.Log)-1].Text, context.Canceled.Error())
}

func TestTone_String(t *testing.T) {
	require.Equal(t, "muted", ToneMuted.String())
	require.Equal(t, "ok", ToneOK.String())
	require.Equal(t, "warn", ToneWarn.String())
}
