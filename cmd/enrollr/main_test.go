package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mark3labs/enrollr/internal/employee"
	"github.com/mark3labs/enrollr/internal/kv"
	"github.com/mark3labs/enrollr/internal/state"
	"github.com/stretchr/testify/require"
)

// services fakes both collaborator services on one server.
type services struct {
	mu    sync.Mutex
	posts map[string][]string
}

func newServices(t *testing.T) (*services, *httptest.Server) {
	t.Helper()
	s := &services{posts: map[string][]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			s.mu.Lock()
			s.posts[r.URL.Path] = append(s.posts[r.URL.Path], string(body))
			s.mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		switch r.URL.Path {
		case "/basicInfo":
			_, _ = w.Write([]byte(`[{"id":1,"fullName":"Jane Doe","email":"jane@company.com","department":"Engineering","role":"Engineer","employeeId":"ENG-001"}]`))
		case "/details":
			_, _ = w.Write([]byte(`[{"id":1,"email":"jane@company.com","employeeId":"ENG-001","officeLocation":"Jakarta"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(srv.Close)
	return s, srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setup(t *testing.T) (dataDir string, srv *httptest.Server, svc *services) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("ENROLLR_SUBMIT_LATENCY", "0s")
	svc, srv = newServices(t)
	return t.TempDir(), srv, svc
}

func globalArgs(dataDir, url string) []string {
	return []string{"--data-dir", dataDir, "--draft-backend", "file", "--api1", url, "--api2", url}
}

func TestSubmitOpsDraft(t *testing.T) {
	dataDir, srv, svc := setup(t)

	store, err := kv.NewFile(filepath.Join(dataDir, "drafts"))
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "draft_ops",
		`{"step":2,"step2":{"employmentType":"Contract","officeLocation":"Jakarta"}}`))

	out, err := execute(t, append([]string{"submit", "--role", "ops"}, globalArgs(dataDir, srv.URL)...)...)
	require.NoError(t, err)
	require.Contains(t, out, "details saved")
	require.Contains(t, out, "All data processed successfully")
	require.NotContains(t, out, "basicInfo")

	require.Empty(t, svc.posts["/basicInfo"])
	require.Len(t, svc.posts["/details"], 1)
	require.Contains(t, svc.posts["/details"][0], "Jakarta")
	require.NotContains(t, svc.posts["/details"][0], "employeeId")

	out, err = execute(t, append([]string{"draft", "show", "--role", "ops"}, globalArgs(dataDir, srv.URL)...)...)
	require.NoError(t, err)
	require.Contains(t, out, "No draft saved for ops.")
}

const adminDraft = `{"step":1,"step1":{"fullName":"Jane Doe","email":"jane@company.com","department":"Engineering","role":"Engineer","employeeId":"ENG-001"}}`

func TestSubmitAdminDraft(t *testing.T) {
	dataDir, srv, svc := setup(t)

	store, err := kv.NewFile(filepath.Join(dataDir, "drafts"))
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "draft_admin", adminDraft))

	out, err := execute(t, append([]string{"submit", "--role", "admin"}, globalArgs(dataDir, srv.URL)...)...)
	require.NoError(t, err)
	require.Contains(t, out, "basicInfo saved")
	require.Contains(t, out, "All data processed successfully")

	require.Len(t, svc.posts["/basicInfo"], 1)
	require.Len(t, svc.posts["/details"], 1)
	require.Contains(t, svc.posts["/details"][0], "ENG-001")

	_, ok, err := store.Get(context.Background(), "draft_admin")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFailedSubmitKeepsStoredDraft(t *testing.T) {
	dataDir, _, _ := setup(t)
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			http.Error(w, "unavailable", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(failing.Close)

	store, err := kv.NewFile(filepath.Join(dataDir, "drafts"))
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "draft_admin", adminDraft))

	out, err := execute(t, append([]string{"submit", "--role", "admin"}, globalArgs(dataDir, failing.URL)...)...)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Submit failed")
	require.NotContains(t, out, "details saved")

	stored, ok, err := store.Get(context.Background(), "draft_admin")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, adminDraft, stored)
}

func TestSubmitRejectsIncompleteAdminDraft(t *testing.T) {
	dataDir, srv, svc := setup(t)

	out, err := execute(t, append([]string{"submit", "--role", "admin"}, globalArgs(dataDir, srv.URL)...)...)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not ready to submit")
	require.Contains(t, out, "fullName")
	require.Empty(t, svc.posts)
}

func TestDraftShowAndClear(t *testing.T) {
	dataDir, srv, _ := setup(t)

	store, err := kv.NewFile(filepath.Join(dataDir, "drafts"))
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "draft_admin",
		`{"step":1,"step1":{"fullName":"Jane Doe"}}`))

	out, err := execute(t, append([]string{"draft", "show", "--role", "admin"}, globalArgs(dataDir, srv.URL)...)...)
	require.NoError(t, err)
	require.Contains(t, out, "Jane Doe")
	require.Contains(t, out, "___-___")

	_, err = execute(t, append([]string{"draft", "clear", "--role", "admin"}, globalArgs(dataDir, srv.URL)...)...)
	require.NoError(t, err)

	_, ok, err := store.Get(context.Background(), "draft_admin")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestList(t *testing.T) {
	dataDir, srv, _ := setup(t)

	out, err := execute(t, append([]string{"list"}, globalArgs(dataDir, srv.URL)...)...)
	require.NoError(t, err)
	require.Contains(t, out, "Jane Doe")
	require.Contains(t, out, "Jakarta")
	require.Contains(t, out, "Page 1 of 1")
}

func TestUnknownRole(t *testing.T) {
	dataDir, srv, _ := setup(t)

	_, err := execute(t, append([]string{"draft", "show", "--role", "intern"}, globalArgs(dataDir, srv.URL)...)...)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown role")
}

func TestPickRoleFallsBackToLastRun(t *testing.T) {
	dir := t.TempDir()

	role, err := pickRole(wizardCmd, dir)
	require.NoError(t, err)
	require.Equal(t, employee.RoleAdmin, role)

	require.NoError(t, state.Save(dir, &state.UIState{LastRole: "ops"}))
	role, err = pickRole(wizardCmd, dir)
	require.NoError(t, err)
	require.Equal(t, employee.RoleOps, role)
}
