package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/enrollr/internal/employee"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T, h http.Handler) *Services {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewServices(NewClient(5*time.Second), srv.URL, srv.URL+"/")
}

func TestServices_URLs(t *testing.T) {
	s := NewServices(NewClient(0), "http://localhost:4001/", "http://localhost:4002")
	require.Equal(t, "http://localhost:4001/departments?name_like=R%26D", s.DepartmentsURL("R&D"))
	require.Equal(t, "http://localhost:4002/locations?name_like=", s.LocationsURL(""))
}

func TestServices_FetchItems(t *testing.T) {
	s := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/departments", r.URL.Path)
		require.Equal(t, "En", r.URL.Query().Get("name_like"))
		_, _ = w.Write([]byte(`[{"id":4,"name":"Engineering"},{"id":1,"name":"Lending"}]`))
	}))

	items, err := s.FetchItems(context.Background(), s.DepartmentsURL("En"))
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 4, items[0].ID)
	require.Equal(t, "Engineering", items[0].Name)
}

func TestServices_NonSuccessStatus(t *testing.T) {
	s := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := s.FetchItems(context.Background(), s.DepartmentsURL("x"))
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusInternalServerError, statusErr.Code)
	require.Equal(t, "GET failed: 500", statusErr.Error())
}

func TestServices_CountBasicInfo(t *testing.T) {
	s := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/basicInfo", r.URL.Path)
		if r.URL.Query().Get("department") == "Engineering" {
			_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))

	n, err := s.CountBasicInfo(context.Background(), "Engineering")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = s.CountBasicInfo(context.Background(), "Finance")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestServices_CreateRecords(t *testing.T) {
	var basic map[string]any
	var details map[string]any
	s := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		switch r.URL.Path {
		case "/basicInfo":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&basic))
		case "/details":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&details))
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7}`))
	}))
	ctx := context.Background()

	require.NoError(t, s.CreateBasicInfo(ctx, employee.Step1Fields{
		FullName: "Hari", Email: "hari@mail.com", Department: "Engineering", Role: "Engineer", EmployeeID: "ENG-001",
	}))
	require.Equal(t, "ENG-001", basic["employeeId"])
	require.Equal(t, "Hari", basic["fullName"])

	require.NoError(t, s.CreateDetails(ctx, employee.DetailsFor(employee.RoleOps,
		employee.Step1Fields{Email: "hidden@mail.com"},
		employee.Step2Fields{EmploymentType: "Intern", OfficeLocation: "Jakarta"})))
	require.Equal(t, "Jakarta", details["officeLocation"])
	require.NotContains(t, details, "email")
	require.NotContains(t, details, "employeeId")
	require.Contains(t, details, "photoBase64")
	require.Equal(t, "", details["photoBase64"])
	require.Equal(t, "", details["notes"])
}

func TestServices_ListRecords(t *testing.T) {
	s := newTestServices(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/basicInfo":
			_, _ = w.Write([]byte(`[{"id":1,"fullName":"Hari","email":"hari@mail.com","department":"Engineering"}]`))
		case "/details":
			_, _ = w.Write([]byte(`[{"id":3,"email":"hari@mail.com","officeLocation":"Jakarta"}]`))
		}
	}))

	basic, err := s.ListBasicInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, basic, 1)
	require.Equal(t, "Hari", basic[0].FullName)

	details, err := s.ListDetails(context.Background())
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Equal(t, 3, details[0].ID)
	require.Equal(t, "Jakarta", details[0].OfficeLocation)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	s := NewServices(NewClient(time.Second), srv.URL, srv.URL)
	err := s.CreateBasicInfo(context.Background(), employee.DefaultStep1())
	require.Error(t, err)
	var statusErr *StatusError
	require.False(t, errors.As(err, &statusErr), "transport faults are not status errors")
}
