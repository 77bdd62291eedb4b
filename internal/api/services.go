package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mark3labs/enrollr/internal/employee"
	"github.com/mark3labs/enrollr/internal/suggest"
)

// BasicInfoRecord is a stored basic-info row.
type BasicInfoRecord struct {
	ID int `json:"id,omitempty"`
	employee.Step1Fields
}

// DetailsRecord is a stored details row.
type DetailsRecord struct {
	ID int `json:"id,omitempty"`
	employee.Details
}

// Services binds the client to the two service base URLs.
type Services struct {
	client *Client
	api1   string
	api2   string
}

// NewServices returns the collaborator services rooted at api1 and api2.
func NewServices(c *Client, api1, api2 string) *Services {
	return &Services{client: c, api1: api1, api2: api2}
}

// DepartmentsURL resolves the department suggestion URL for q.
func (s *Services) DepartmentsURL(q string) string {
	return join(s.api1, "/departments", url.Values{"name_like": {q}})
}

// LocationsURL resolves the office-location suggestion URL for q.
func (s *Services) LocationsURL(q string) string {
	return join(s.api2, "/locations", url.Values{"name_like": {q}})
}

// FetchItems implements suggest.Fetcher.
func (s *Services) FetchItems(ctx context.Context, rawURL string) ([]suggest.Item, error) {
	var items []suggest.Item
	if err := s.client.GetJSON(ctx, rawURL, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CountBasicInfo returns how many basic-info records exist for department.
func (s *Services) CountBasicInfo(ctx context.Context, department string) (int, error) {
	var rows []any
	u := join(s.api1, "/basicInfo", url.Values{"department": {department}})
	if err := s.client.GetJSON(ctx, u, &rows); err != nil {
		return 0, fmt.Errorf("counting basic info for %s: %w", department, err)
	}
	return len(rows), nil
}

// CreateBasicInfo posts a basic-info record.
func (s *Services) CreateBasicInfo(ctx context.Context, fields employee.Step1Fields) error {
	return s.client.PostJSON(ctx, join(s.api1, "/basicInfo", nil), fields, nil)
}

// CreateDetails posts a details record.
func (s *Services) CreateDetails(ctx context.Context, details employee.Details) error {
	return s.client.PostJSON(ctx, join(s.api2, "/details", nil), details, nil)
}

// ListBasicInfo returns every basic-info record.
func (s *Services) ListBasicInfo(ctx context.Context) ([]BasicInfoRecord, error) {
	var rows []BasicInfoRecord
	if err := s.client.GetJSON(ctx, join(s.api1, "/basicInfo", nil), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListDetails returns every details record.
func (s *Services) ListDetails(ctx context.Context) ([]DetailsRecord, error) {
	var rows []DetailsRecord
	if err := s.client.GetJSON(ctx, join(s.api2, "/details", nil), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
