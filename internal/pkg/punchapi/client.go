// Package punchapi implements the time-clock provider's REST API as a
// punchsource.Source. The API is read-only and paginated; the fetch loop is
// bounded by the provider's total-pages metadata and a hard page cap so a
// misbehaving provider can never spin the ingestor forever.
package punchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	"github.com/pontocerto/ponto-backend-go/internal/domain/punchsource"
)

type Client struct {
	baseURL  string
	token    string
	pageSize int
	maxPages int
	http     *http.Client
}

// NewClient creates a punch source client from configuration.
func NewClient(cfg config.PunchAPIConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		token:    cfg.Token,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type employeePage struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
	TotalPages int `json:"totalPages"`
}

type punchPage struct {
	Data []struct {
		EmployeeID   string `json:"employeeId"`
		EmployeeName string `json:"employeeName"`
		Date         string `json:"date"`
		DateIn       int64  `json:"dateIn"`
		DateOut      *int64 `json:"dateOut"`
	} `json:"data"`
	TotalPages int `json:"totalPages"`
}

// FetchEmployees implements punchsource.Source.
func (c *Client) FetchEmployees(ctx context.Context) ([]punchsource.ExternalEmployee, error) {
	var employees []punchsource.ExternalEmployee

	totalPages := 1
	for page := 1; page <= totalPages && page <= c.maxPages; page++ {
		var resp employeePage
		if err := c.get(ctx, "/v1/employees", url.Values{
			"page":     {strconv.Itoa(page)},
			"pageSize": {strconv.Itoa(c.pageSize)},
		}, &resp); err != nil {
			return nil, fmt.Errorf("fetch employees page %d: %w", page, err)
		}

		for _, e := range resp.Data {
			employees = append(employees, punchsource.ExternalEmployee{
				ID:   e.ID,
				Name: e.Name,
			})
		}

		if resp.TotalPages > 0 {
			totalPages = resp.TotalPages
		}
	}

	return employees, nil
}

// FetchPunches implements punchsource.Source.
func (c *Client) FetchPunches(ctx context.Context, start, end time.Time) ([]punchsource.PunchPair, error) {
	var pairs []punchsource.PunchPair

	totalPages := 1
	for page := 1; page <= totalPages && page <= c.maxPages; page++ {
		var resp punchPage
		if err := c.get(ctx, "/v1/punches", url.Values{
			"start":    {start.Format("2006-01-02")},
			"end":      {end.Format("2006-01-02")},
			"page":     {strconv.Itoa(page)},
			"pageSize": {strconv.Itoa(c.pageSize)},
		}, &resp); err != nil {
			return nil, fmt.Errorf("fetch punches page %d: %w", page, err)
		}

		for _, p := range resp.Data {
			date, err := time.Parse("2006-01-02", p.Date)
			if err != nil {
				return nil, fmt.Errorf("punch pair for %s has invalid date %q: %w", p.EmployeeID, p.Date, err)
			}
			pairs = append(pairs, punchsource.PunchPair{
				ExternalEmployeeID: p.EmployeeID,
				EmployeeName:       p.EmployeeName,
				Date:               date,
				DateIn:             p.DateIn,
				DateOut:            p.DateOut,
			})
		}

		if resp.TotalPages > 0 {
			totalPages = resp.TotalPages
		}
	}

	return pairs, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("punch API returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
