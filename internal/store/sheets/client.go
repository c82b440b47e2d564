// Package sheets implements the record store against the Google Sheets
// v4 values REST API. One spreadsheet tab holds the whole feedback table;
// row 1 is the header row.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/skylark-app/feedback-backend/internal/store"
)

// Ensure Client implements store.RecordStore
var _ store.RecordStore = (*Client)(nil)

// Client talks to the Sheets values API for a single spreadsheet tab.
type Client struct {
	baseURL       string
	spreadsheetID string
	sheetName     string
	apiKey        string
	httpClient    *http.Client
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a new sheets record store client.
func NewClient(baseURL, spreadsheetID, sheetName, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:       baseURL,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		apiKey:        apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// valueRange mirrors the Sheets API ValueRange body.
type valueRange struct {
	Range  string     `json:"range,omitempty"`
	Values [][]string `json:"values"`
}

func (c *Client) valuesURL(rangeSpec, suffix string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	u := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s%s",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(rangeSpec), suffix)
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func (c *Client) do(ctx context.Context, method, u string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("sheets: %w", store.ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("sheets: %w", store.ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheets request failed with status %d: %s", resp.StatusCode, snippet)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Append adds one row after the last non-empty row of the sheet.
func (c *Client) Append(ctx context.Context, row []string) error {
	params := url.Values{}
	params.Set("valueInputOption", "RAW")
	params.Set("insertDataOption", "INSERT_ROWS")

	u := c.valuesURL(c.sheetName, ":append", params)
	return c.do(ctx, http.MethodPost, u, &valueRange{Values: [][]string{row}}, nil)
}

// Rows returns every row of the sheet, header row included.
func (c *Client) Rows(ctx context.Context) ([][]string, error) {
	u := c.valuesURL(c.sheetName, "", nil)

	var vr valueRange
	if err := c.do(ctx, http.MethodGet, u, nil, &vr); err != nil {
		return nil, err
	}
	return vr.Values, nil
}

// Headers returns the first row of the sheet, or nil when the sheet is empty.
func (c *Client) Headers(ctx context.Context) ([]string, error) {
	u := c.valuesURL(fmt.Sprintf("%s!1:1", c.sheetName), "", nil)

	var vr valueRange
	if err := c.do(ctx, http.MethodGet, u, nil, &vr); err != nil {
		return nil, err
	}
	if len(vr.Values) == 0 {
		return nil, nil
	}
	return vr.Values[0], nil
}

// WriteHeaders replaces the header row of the sheet.
func (c *Client) WriteHeaders(ctx context.Context, headers []string) error {
	params := url.Values{}
	params.Set("valueInputOption", "RAW")

	u := c.valuesURL(fmt.Sprintf("%s!1:1", c.sheetName), "", params)
	return c.do(ctx, http.MethodPut, u, &valueRange{Values: [][]string{headers}}, nil)
}

// Ping verifies the spreadsheet is reachable with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	params.Set("fields", "spreadsheetId")

	u := fmt.Sprintf("%s/v4/spreadsheets/%s?%s",
		c.baseURL, url.PathEscape(c.spreadsheetID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheets ping failed with status %d", resp.StatusCode)
	}
	return nil
}
