// Package sanity reads site content from the Sanity HTTP query API.
package sanity

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

	"practicalprague/internal/domain"

	"golang.org/x/time/rate"
)

const (
	DefaultDataset    = "production"
	DefaultAPIVersion = "2024-01-01"
	defaultRPS        = 10
)

type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string

	// RPS caps outbound queries per second; the API rate limits per project.
	RPS float64

	// BaseURL overrides the project host, e.g. for tests.
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	endpoint string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
}

func New(cfg Config) (*Client, error) {
	if cfg.ProjectID == "" && cfg.BaseURL == "" {
		return nil, errors.New("sanity: project id is required")
	}
	if cfg.Dataset == "" {
		cfg.Dataset = DefaultDataset
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	base := cfg.BaseURL
	if base == "" {
		host := "apicdn.sanity.io"
		if cfg.Token != "" {
			// Authenticated reads cannot go through the CDN.
			host = "api.sanity.io"
		}
		base = fmt.Sprintf("https://%s.%s", cfg.ProjectID, host)
	}
	base = strings.TrimRight(base, "/")

	burst := int(cfg.RPS)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		endpoint: fmt.Sprintf("%s/v%s/data/query/%s", base, strings.TrimPrefix(cfg.APIVersion, "v"), url.PathEscape(cfg.Dataset)),
		token:    cfg.Token,
		http:     cfg.HTTPClient,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RPS), burst),
	}, nil
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

type errorResponse struct {
	Error struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"error"`
}

// query runs groq with params and decodes the result into dst. A null result
// is reported as domain.ErrNotFound.
func (c *Client) query(ctx context.Context, groq string, params map[string]any, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("sanity: wait for rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("query", groq)
	for k, v := range params {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("sanity: encode param %s: %w", k, err)
		}
		q.Set("$"+k, string(b))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("sanity: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sanity: query: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("sanity: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if json.Unmarshal(body, &er) == nil && er.Error.Description != "" {
			return fmt.Errorf("sanity: query failed (%d): %s", resp.StatusCode, er.Error.Description)
		}
		return fmt.Errorf("sanity: query failed with status %d", resp.StatusCode)
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return fmt.Errorf("sanity: decode response: %w", err)
	}
	if len(qr.Result) == 0 || bytes.Equal(qr.Result, []byte("null")) {
		return domain.ErrNotFound
	}
	if err := json.Unmarshal(qr.Result, dst); err != nil {
		return fmt.Errorf("sanity: decode result: %w", err)
	}
	return nil
}

func (c *Client) list(ctx context.Context, groq string, params map[string]any) ([]domain.PostSummary, error) {
	var out []domain.PostSummary
	err := c.query(ctx, groq, params, &out)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.PostSummary{}, nil
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.PostSummary{}
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, groq, slug string) (domain.Post, error) {
	var p domain.Post
	if err := c.query(ctx, groq, map[string]any{"slug": slug}, &p); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

func (c *Client) FeaturedPosts(ctx context.Context) ([]domain.PostSummary, error) {
	return c.list(ctx, qFeatured, nil)
}

func (c *Client) LatestPosts(ctx context.Context, limit int) ([]domain.PostSummary, error) {
	return c.list(ctx, qLatest(limit), nil)
}

func (c *Client) PostsByCategory(ctx context.Context, categorySlug string) ([]domain.PostSummary, error) {
	return c.list(ctx, qByCategory, map[string]any{"categorySlug": categorySlug})
}

func (c *Client) AllPosts(ctx context.Context) ([]domain.PostSummary, error) {
	return c.list(ctx, qAll, nil)
}

func (c *Client) PostBySlug(ctx context.Context, slug string) (domain.Post, error) {
	return c.post(ctx, qBySlug, slug)
}

func (c *Client) RelatedPosts(ctx context.Context, postID string, categoryIDs []string, limit int) ([]domain.PostSummary, error) {
	if len(categoryIDs) == 0 {
		return []domain.PostSummary{}, nil
	}
	return c.list(ctx, qRelated(limit), map[string]any{
		"currentPostId": postID,
		"categoryIds":   categoryIDs,
	})
}

func (c *Client) PostBySlugAdmin(ctx context.Context, slug string) (domain.Post, error) {
	return c.post(ctx, qBySlugAdmin, slug)
}

func (c *Client) DraftPosts(ctx context.Context) ([]domain.PostSummary, error) {
	return c.list(ctx, qDrafts, nil)
}
