package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/multierr"

	"example.com/trainingstats/internal/domain"
)

// HTTPInvalidator asks an upstream edge cache to purge a user's stats responses.
type HTTPInvalidator struct {
	client *http.Client
	url    string
	token  string
}

// NewHTTPInvalidator constructs an HTTPInvalidator.
func NewHTTPInvalidator(endpoint, token string, timeout time.Duration) *HTTPInvalidator {
	return &HTTPInvalidator{
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(endpoint, "/"),
		token:  token,
	}
}

// Invalidate posts the tenant and user whose stats changed.
func (h *HTTPInvalidator) Invalidate(ctx context.Context, tenantID, userID string) error {
	body, err := json.Marshal(map[string]string{"tenant_id": tenantID, "user_id": userID})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &InvalidationError{Status: resp.StatusCode}
	}
	return nil
}

// InvalidationError represents a non-successful invalidation response.
type InvalidationError struct {
	Status int
}

func (e *InvalidationError) Error() string {
	return fmt.Sprintf("cache invalidation failed with status %d %s", e.Status, http.StatusText(e.Status))
}

// Chain fans an invalidation out to several invalidators and combines their errors.
type Chain []domain.Invalidator

// Invalidate calls every member even when an earlier one fails.
func (c Chain) Invalidate(ctx context.Context, tenantID, userID string) error {
	var err error
	for _, inv := range c {
		if inv == nil {
			continue
		}
		err = multierr.Append(err, inv.Invalidate(ctx, tenantID, userID))
	}
	return err
}
