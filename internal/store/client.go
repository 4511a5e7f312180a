// Package store talks to the externally hosted relational datastore through
// its REST interface. Rows are owned by the store; this process only issues
// equality-filtered selects, inserts, patches and deletes.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Filter struct {
	Column string
	Value  string
}

// Eq builds a column=eq.value filter.
func Eq(column, value string) Filter {
	return Filter{Column: column, Value: value}
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Select fetches rows matching the filters into out, optionally projecting
// columns via the select parameter.
func (c *Client) Select(ctx context.Context, table, columns string, filters []Filter, out interface{}) error {
	query := filterValues(filters)
	if columns != "" {
		query.Set("select", columns)
	}

	raw, err := c.do(ctx, http.MethodGet, table, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s rows failed: %w", table, err)
	}
	return nil
}

func (c *Client) Insert(ctx context.Context, table string, payload interface{}) error {
	_, err := c.do(ctx, http.MethodPost, table, nil, payload)
	return err
}

func (c *Client) Update(ctx context.Context, table string, filters []Filter, payload interface{}) error {
	_, err := c.do(ctx, http.MethodPatch, table, filterValues(filters), payload)
	return err
}

func (c *Client) Delete(ctx context.Context, table string, filters []Filter) error {
	_, err := c.do(ctx, http.MethodDelete, table, filterValues(filters), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, payload interface{}) ([]byte, error) {
	endpoint := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload failed: %w", table, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request failed: %w", table, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s request failed: %w", method, table, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response failed: %w", table, err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s status %d: %s", method, table, resp.StatusCode, string(raw))
	}
	return raw, nil
}

func filterValues(filters []Filter) url.Values {
	values := url.Values{}
	for _, f := range filters {
		values.Set(f.Column, "eq."+f.Value)
	}
	return values
}
