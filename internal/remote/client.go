// Package remote is the typed client for the external REST JSON data service
// that owns lead and interaction persistence. Every method is a single round
// trip: no retry, no caching, no timeout override beyond the shared 10s client
// timeout.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/macracrm/macra-crm/internal/entity"
)

// ErrNotFound is returned when the data service answers 404 for a single
// record lookup.
var ErrNotFound = errors.New("record not found")

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	var leads []entity.Lead
	if err := c.do(ctx, http.MethodGet, "/leads", nil, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (c *Client) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	var lead entity.Lead
	if err := c.do(ctx, http.MethodGet, "/leads/"+url.PathEscape(id), nil, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *Client) CreateLead(ctx context.Context, fields entity.NewLead) (*entity.Lead, error) {
	var created entity.Lead
	if err := c.do(ctx, http.MethodPost, "/leads", fields, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateLead sends the full record, not a diff, so a data service that does a
// naive replace instead of a patch cannot drop fields.
func (c *Client) UpdateLead(ctx context.Context, id string, lead entity.Lead) (*entity.Lead, error) {
	var updated entity.Lead
	if err := c.do(ctx, http.MethodPut, "/leads/"+url.PathEscape(id), lead, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteLead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/leads/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListInteractions(ctx context.Context) ([]entity.Interaction, error) {
	var interactions []entity.Interaction
	if err := c.do(ctx, http.MethodGet, "/interactions", nil, &interactions); err != nil {
		return nil, err
	}
	return interactions, nil
}

// ListInteractionsForLead filters server-side by foreign key.
func (c *Client) ListInteractionsForLead(ctx context.Context, leadID string) ([]entity.Interaction, error) {
	var interactions []entity.Interaction
	path := "/interactions?leadId=" + url.QueryEscape(leadID)
	if err := c.do(ctx, http.MethodGet, path, nil, &interactions); err != nil {
		return nil, err
	}
	return interactions, nil
}

func (c *Client) CreateInteraction(ctx context.Context, fields entity.NewInteraction) (*entity.Interaction, error) {
	var created entity.Interaction
	if err := c.do(ctx, http.MethodPost, "/interactions", fields, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteInteraction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/interactions/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("data service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("data service rejected %s %s (status %d): %s", method, path, resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "MacraCRM/1.0")
}
