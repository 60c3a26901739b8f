package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fruitnut/fruitnut-backend/internal/donations"
	"github.com/fruitnut/fruitnut-backend/internal/reports"
	"github.com/fruitnut/fruitnut-backend/internal/shifts"
)

// Page selects one page of a cursor-paginated list.
type Page struct {
	Limit  int
	Cursor string
}

func (p Page) values() url.Values {
	v := url.Values{}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Cursor != "" {
		v.Set("cursor", p.Cursor)
	}
	return v
}

// FarmShifts lists the active farmer profile's shifts.
func (c *Client) FarmShifts(ctx context.Context, page Page) (*shifts.ListResult, error) {
	return list[shifts.ListResult](ctx, c, "/api/v1/farmer/shifts", page)
}

// OpenShifts lists the shifts a volunteer can still join.
func (c *Client) OpenShifts(ctx context.Context, page Page) (*shifts.ListResult, error) {
	return list[shifts.ListResult](ctx, c, "/api/v1/volunteer/shifts", page)
}

// FarmDonations lists the active farmer profile's donations.
func (c *Client) FarmDonations(ctx context.Context, page Page) (*donations.ListResult, error) {
	return list[donations.ListResult](ctx, c, "/api/v1/farmer/donations", page)
}

// Assignments lists the pending donations assigned to the active center.
func (c *Client) Assignments(ctx context.Context, page Page) (*donations.ListResult, error) {
	return list[donations.ListResult](ctx, c, "/api/v1/center/assignments", page)
}

func (c *Client) FarmReport(ctx context.Context) (*reports.FarmerReport, error) {
	var out reports.FarmerReport
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/farmer/reports", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CenterReport(ctx context.Context) (*reports.CenterReport, error) {
	var out reports.CenterReport
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/center/reports", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func list[T any](ctx context.Context, c *Client, path string, page Page) (*T, error) {
	var out T
	if err := c.do(ctx, request{method: http.MethodGet, path: path, auth: true, query: page.values()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
