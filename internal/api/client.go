// Package api is the HTTP client for the ClearSheet REST backend. The
// backend is an opaque collaborator: every operation here is one JSON
// round trip with no retries; failures surface to the caller and the user
// retries manually.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearsheet/clearsheet/internal/ledger"
)

var (
	ErrUnauthorized = errors.New("api: unauthorized")
	ErrNotFound     = errors.New("api: not found")
)

const defaultTimeout = 15 * time.Second

// Client talks to one ClearSheet backend with one bearer token.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	log     zerolog.Logger
}

// New builds a client. The token is attached to every request as a bearer
// header; validity is the server's problem.
func New(baseURL, token string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
}

// SetToken swaps the bearer token (after login/logout).
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("request done")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return Unwrap(raw), nil
}

// GetSheet fetches one sheet by id.
func (c *Client) GetSheet(ctx context.Context, id int) (Sheet, error) {
	raw, err := c.do(ctx, http.MethodGet, "/sheets/"+strconv.Itoa(id), nil)
	if err != nil {
		return Sheet{}, err
	}
	var s Sheet
	if err := json.Unmarshal(raw, &s); err != nil {
		return Sheet{}, fmt.Errorf("decode sheet: %w", err)
	}
	return s, nil
}

// ListSheets fetches all sheets.
func (c *Client) ListSheets(ctx context.Context) ([]Sheet, error) {
	raw, err := c.do(ctx, http.MethodGet, "/sheets", nil)
	if err != nil {
		return nil, err
	}
	var out []Sheet
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode sheets: %w", err)
	}
	return out, nil
}

// ListSheetItems returns the raw item records of a sheet. Records stay
// raw so the unifier can retain the original payload.
func (c *Client) ListSheetItems(ctx context.Context, sheetID int) ([]json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodGet, "/sheets/"+strconv.Itoa(sheetID)+"/items", nil)
	if err != nil {
		return nil, err
	}
	list, err := decodeList(raw)
	if err != nil {
		return nil, fmt.Errorf("decode sheet items: %w", err)
	}
	return list, nil
}

// ListTransactions returns the raw stand-alone transaction records,
// optionally scoped to one sheet.
func (c *Client) ListTransactions(ctx context.Context, sheetID int) ([]json.RawMessage, error) {
	path := "/transactions"
	if sheetID != 0 {
		path += "?sheet_id=" + url.QueryEscape(strconv.Itoa(sheetID))
	}
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	list, err := decodeList(raw)
	if err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return list, nil
}

// ListBanks fetches the bank reference list.
func (c *Client) ListBanks(ctx context.Context) ([]ledger.BankRef, error) {
	raw, err := c.do(ctx, http.MethodGet, "/banks", nil)
	if err != nil {
		return nil, err
	}
	var out []ledger.BankRef
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode banks: %w", err)
	}
	return out, nil
}

// ListCategories fetches the category reference list.
func (c *Client) ListCategories(ctx context.Context) ([]ledger.CategoryRef, error) {
	raw, err := c.do(ctx, http.MethodGet, "/categories", nil)
	if err != nil {
		return nil, err
	}
	var out []ledger.CategoryRef
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return out, nil
}

// CreateSheetItem adds an item to a sheet and returns the raw record the
// server stored.
func (c *Client) CreateSheetItem(ctx context.Context, sheetID int, fields ItemFields) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodPost, "/sheets/"+strconv.Itoa(sheetID)+"/items", fields)
	if err != nil {
		return nil, err
	}
	if !hasID(raw) {
		return nil, fmt.Errorf("create item: malformed response, missing id")
	}
	return raw, nil
}

// UpdateSheetItem applies a partial field set to a sheet item.
func (c *Client) UpdateSheetItem(ctx context.Context, sheetID, itemID int, fields ItemFields) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, "/sheets/"+strconv.Itoa(sheetID)+"/items/"+strconv.Itoa(itemID), fields)
}

// UpdateTransaction applies a partial field set to a stand-alone
// transaction.
func (c *Client) UpdateTransaction(ctx context.Context, id int, fields ItemFields) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, "/transactions/"+strconv.Itoa(id), fields)
}

// DeleteSheetItem removes a sheet item.
func (c *Client) DeleteSheetItem(ctx context.Context, sheetID, itemID int) error {
	_, err := c.do(ctx, http.MethodDelete, "/sheets/"+strconv.Itoa(sheetID)+"/items/"+strconv.Itoa(itemID), nil)
	return err
}

// DeleteTransaction removes a stand-alone transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, "/transactions/"+strconv.Itoa(id), nil)
	return err
}

// CreateSheet creates a monthly sheet.
func (c *Client) CreateSheet(ctx context.Context, params SheetParams) (Sheet, error) {
	raw, err := c.do(ctx, http.MethodPost, "/sheets", params)
	if err != nil {
		return Sheet{}, err
	}
	var s Sheet
	if err := json.Unmarshal(raw, &s); err != nil {
		return Sheet{}, fmt.Errorf("decode created sheet: %w", err)
	}
	if s.ID == 0 {
		return Sheet{}, fmt.Errorf("create sheet: malformed response, missing id")
	}
	return s, nil
}

// UpdateSheet updates a sheet's fields.
func (c *Client) UpdateSheet(ctx context.Context, id int, params SheetParams) (Sheet, error) {
	raw, err := c.do(ctx, http.MethodPut, "/sheets/"+strconv.Itoa(id), params)
	if err != nil {
		return Sheet{}, err
	}
	var s Sheet
	if err := json.Unmarshal(raw, &s); err != nil {
		return Sheet{}, fmt.Errorf("decode updated sheet: %w", err)
	}
	return s, nil
}

// DeleteSheet removes a sheet and its items.
func (c *Client) DeleteSheet(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, "/sheets/"+strconv.Itoa(id), nil)
	return err
}

// Logout invalidates the session token server-side.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/logout", nil)
	return err
}

func hasID(raw json.RawMessage) bool {
	var probe struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.ID != 0
}
