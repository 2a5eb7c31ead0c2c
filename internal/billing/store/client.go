package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tareas-api/proyectos-billing/internal/billing/domain"
)

// ProjectStore is the remote projects collection. The store owns all durable
// project state; callers hold only transient working copies.
type ProjectStore interface {
	List(ctx context.Context, page, limit int) ([]domain.Project, error)
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	Update(ctx context.Context, id string, p *domain.Project) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// Client talks to the projects REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new projects API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// List fetches one page of projects in store order (most recent first).
func (c *Client) List(ctx context.Context, page, limit int) ([]domain.Project, error) {
	url := fmt.Sprintf("%s/proyectos?page=%d&limit=%d", c.baseURL, page, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := c.do(req, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var items []domain.Project
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project list: %w", err)
	}
	return items, nil
}

// Create persists a new record and returns it with the store-assigned id.
func (c *Client) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	url := fmt.Sprintf("%s/proyectos", c.baseURL)
	body, err := c.send(ctx, http.MethodPost, url, p, http.StatusCreated, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var created domain.Project
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created project: %w", err)
	}
	return &created, nil
}

// Update commits an edited working copy against an existing id.
func (c *Client) Update(ctx context.Context, id string, p *domain.Project) (*domain.Project, error) {
	url := fmt.Sprintf("%s/proyectos/%s", c.baseURL, id)
	body, err := c.send(ctx, http.MethodPut, url, p, http.StatusOK)
	if err != nil {
		return nil, err
	}

	updated := *p
	updated.ID = id
	// Not every deployment echoes the record back on update.
	if len(body) > 0 {
		if err := json.Unmarshal(body, &updated); err != nil {
			return nil, fmt.Errorf("failed to unmarshal updated project: %w", err)
		}
	}
	return &updated, nil
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/proyectos/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	_, err = c.do(req, http.StatusOK, http.StatusNoContent)
	return err
}

func (c *Client) send(ctx context.Context, method, url string, payload interface{}, okStatuses ...int) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, okStatuses...)
}

func (c *Client) do(req *http.Request, okStatuses ...int) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.StoreError{Kind: domain.StoreUnreachable, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.StoreError{Kind: domain.StoreUnreachable, Message: err.Error()}
	}

	for _, status := range okStatuses {
		if resp.StatusCode == status {
			return body, nil
		}
	}
	return nil, storeError(resp.StatusCode, body)
}

func storeError(status int, body []byte) *domain.StoreError {
	kind := domain.StoreRejected
	switch {
	case status == http.StatusNotFound:
		kind = domain.StoreNotFound
	case status >= http.StatusInternalServerError:
		kind = domain.StoreUnreachable
	}
	return &domain.StoreError{
		Kind:    kind,
		Status:  status,
		Message: strings.TrimSpace(string(body)),
	}
}
