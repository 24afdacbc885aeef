package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"today-i-learned/internal/factstore"
	"today-i-learned/internal/model"
)

const maxAttempts = 3

// waitFunc blocks for d or until ctx is done. Tests swap it to skip backoff.
var waitFunc = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("supabase: status %d", e.Code)
	}
	return fmt.Sprintf("supabase: status %d: %s", e.Code, e.Body)
}

// Config holds the connection settings of a hosted project.
type Config struct {
	URL               string
	APIKey            string
	Table             string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client talks to the PostgREST endpoint of a Supabase project.
// It implements factstore.Store.
type Client struct {
	baseURL string
	apiKey  string
	table   string
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

var _ factstore.Store = (*Client)(nil)

// New creates a client. cfg.URL is the project URL, e.g. "https://xyz.supabase.co".
func New(cfg Config, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Table == "" {
		cfg.Table = "facts"
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		table:   cfg.Table,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, cfg.Burst),
		log:     log,
	}
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/rest/v1/%s", c.baseURL, c.table)
}

// listValues encodes q in PostgREST's query syntax.
func listValues(q factstore.Query) url.Values {
	q = q.Normalize()
	dir := "asc"
	if q.Descending {
		dir = "desc"
	}
	v := url.Values{}
	v.Set("select", "*")
	if q.Category != "" {
		v.Set("category", "eq."+q.Category)
	}
	v.Set("order", q.OrderBy+"."+dir)
	v.Set("limit", fmt.Sprintf("%d", q.Limit))
	return v
}

// List fetches facts.
// API: GET /rest/v1/{table}?select=*&category=eq.{c}&order=votesInteresting.desc&limit=1000
func (c *Client) List(ctx context.Context, q factstore.Query) ([]model.Fact, error) {
	var facts []model.Fact
	if err := c.do(ctx, http.MethodGet, c.endpoint()+"?"+listValues(q).Encode(), nil, &facts); err != nil {
		return nil, fmt.Errorf("list facts: %w", err)
	}
	c.log.Debug("supabase list", zap.String("category", q.Category), zap.Int("count", len(facts)))
	return facts, nil
}

type insertRow struct {
	Text             string `json:"text"`
	Source           string `json:"source"`
	Category         string `json:"category"`
	VotesInteresting int    `json:"votesInteresting"`
	VotesMindblowing int    `json:"votesMindblowing"`
	VotesFalse       int    `json:"votesFalse"`
	CreatedYear      int    `json:"createdIn"`
}

// Insert stores f; the table assigns the id.
// API: POST /rest/v1/{table} with Prefer: return=representation
func (c *Client) Insert(ctx context.Context, f model.Fact) (model.Fact, error) {
	row := []insertRow{{
		Text:             f.Text,
		Source:           f.Source,
		Category:         f.Category,
		VotesInteresting: f.VotesInteresting,
		VotesMindblowing: f.VotesMindblowing,
		VotesFalse:       f.VotesFalse,
		CreatedYear:      f.CreatedYear,
	}}
	var out []model.Fact
	if err := c.do(ctx, http.MethodPost, c.endpoint(), row, &out); err != nil {
		return model.Fact{}, fmt.Errorf("insert fact: %w", err)
	}
	if len(out) == 0 {
		return model.Fact{}, errors.New("insert fact: empty response")
	}
	return out[0], nil
}

// Vote reads the current counter and writes it back incremented.
// API: PATCH /rest/v1/{table}?id=eq.{id}
func (c *Client) Vote(ctx context.Context, id model.FactID, kind model.VoteKind) (model.Fact, error) {
	col := kind.Column()
	if col == "" {
		return model.Fact{}, fmt.Errorf("vote: unknown kind %q", kind)
	}
	filter := url.Values{"id": {"eq." + id.String()}}

	var current []model.Fact
	if err := c.do(ctx, http.MethodGet, c.endpoint()+"?select=*&"+filter.Encode(), nil, &current); err != nil {
		return model.Fact{}, fmt.Errorf("vote: read fact: %w", err)
	}
	if len(current) == 0 {
		return model.Fact{}, factstore.ErrNotFound
	}
	f := current[0]
	n, err := f.AddVote(kind)
	if err != nil {
		return model.Fact{}, err
	}

	var out []model.Fact
	if err := c.do(ctx, http.MethodPatch, c.endpoint()+"?"+filter.Encode(), map[string]int{col: n}, &out); err != nil {
		return model.Fact{}, fmt.Errorf("vote: update fact: %w", err)
	}
	if len(out) == 0 {
		return f, nil
	}
	return out[0], nil
}

// idempotent reports whether a failed request may be resent. POST inserts a
// new row each time; PATCH writes an absolute counter value.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPatch:
		return true
	}
	return false
}

// do sends the request, retrying transient failures of idempotent methods
// with exponential backoff.
func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	attempts := maxAttempts
	if !idempotent(method) {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		lastErr = c.once(ctx, method, rawURL, payload, out)
		if lastErr == nil || !isRetryable(lastErr) || ctx.Err() != nil {
			return lastErr
		}
		if attempt < attempts-1 {
			backoff := time.Duration(1<<uint(attempt)) * 500 * time.Millisecond
			c.log.Warn("supabase request failed, retrying",
				zap.String("method", method), zap.Int("attempt", attempt+1), zap.Error(lastErr))
			if err := waitFunc(ctx, backoff); err != nil {
				return fmt.Errorf("%w (after %v)", err, lastErr)
			}
		}
	}
	return lastErr
}

func (c *Client) once(ctx context.Context, method, rawURL string, payload []byte, out any) error {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "connection refused") || strings.Contains(s, "connection reset")
}
