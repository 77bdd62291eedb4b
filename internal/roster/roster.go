// Package roster joins basic-info and details records into the employee
// listing and pages through it.
package roster

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/enrollr/internal/api"
	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the page size of the listing.
const DefaultLimit = 2

// Row is one merged employee. Empty strings are missing values.
type Row struct {
	Key            string
	FullName       string
	Department     string
	Role           string
	EmployeeID     string
	OfficeLocation string
	PhotoBase64    string
}

// Source lists both record kinds.
type Source interface {
	ListBasicInfo(ctx context.Context) ([]api.BasicInfoRecord, error)
	ListDetails(ctx context.Context) ([]api.DetailsRecord, error)
}

// Load fetches both record kinds concurrently and merges them.
func Load(ctx context.Context, src Source) ([]Row, error) {
	var (
		basic   []api.BasicInfoRecord
		details []api.DetailsRecord
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		basic, err = src.ListBasicInfo(ctx)
		if err != nil {
			return fmt.Errorf("listing basic info: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		details, err = src.ListDetails(ctx)
		if err != nil {
			return fmt.Errorf("listing details: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(basic, details), nil
}

// Merge joins records on email, falling back to employee id. Details that
// carry neither (submitted by ops) are listed on their own, keyed by record
// id. Rows keep first-seen order.
func Merge(basic []api.BasicInfoRecord, details []api.DetailsRecord) []Row {
	var rows []Row
	index := map[string]int{}

	for _, b := range basic {
		key := keyOf(b.Email, b.EmployeeID)
		if key == "" {
			continue
		}
		row := Row{
			Key:        key,
			FullName:   b.FullName,
			Department: b.Department,
			Role:       b.Role,
			EmployeeID: b.EmployeeID,
		}
		if i, ok := index[key]; ok {
			rows[i] = row
			continue
		}
		index[key] = len(rows)
		rows = append(rows, row)
	}

	for _, d := range details {
		key := keyOf(d.Email, d.EmployeeID)
		if key == "" {
			if d.ID == 0 {
				continue
			}
			key = "details#" + strconv.Itoa(d.ID)
		}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, Row{Key: key, EmployeeID: d.EmployeeID})
		}
		if d.OfficeLocation != "" {
			rows[i].OfficeLocation = d.OfficeLocation
		}
		if d.PhotoBase64 != "" {
			rows[i].PhotoBase64 = d.PhotoBase64
		}
	}
	return rows
}

func keyOf(email, employeeID string) string {
	if email != "" {
		return email
	}
	return employeeID
}

// Page is one page of rows.
type Page struct {
	Rows  []Row
	Page  int
	Pages int
	Total int
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Page < p.Pages }

// Paginate returns page (1-based, clamped to the valid range) of rows.
func Paginate(rows []Row, page, limit int) Page {
	if limit < 1 {
		limit = DefaultLimit
	}
	pages := max(1, (len(rows)+limit-1)/limit)
	page = min(max(page, 1), pages)

	start := min((page-1)*limit, len(rows))
	end := min(start+limit, len(rows))
	return Page{Rows: rows[start:end], Page: page, Pages: pages, Total: len(rows)}
}

// Cell renders a value for display, showing missing values as a dash.
func Cell(v string) string {
	if v == "" {
		return "—"
	}
	return v
}
