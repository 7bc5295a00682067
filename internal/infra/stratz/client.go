// Package stratz is the client for the STRATZ GraphQL API. It fetches the
// latest matches of a guild and decodes them into entity records.
package stratz

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"guild-tracker/internal/domain/entity"
	"guild-tracker/internal/observability/logging"
	"guild-tracker/internal/observability/metrics"
	"guild-tracker/internal/observability/tracing"
	"guild-tracker/internal/resilience/circuitbreaker"
	"guild-tracker/internal/resilience/retry"
)

//go:embed query.graphql
var guildMatchesQuery string

// DefaultURL is the public STRATZ GraphQL endpoint.
const DefaultURL = "https://api.stratz.com/graphql"

// STRATZ rejects requests without this user agent.
const userAgent = "STRATZ_API"

// maxBodyBytes bounds the response read; take ≤ 20 keeps real bodies far below it.
const maxBodyBytes = 4 << 20

// Config contains configuration for the STRATZ client.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
	Breaker circuitbreaker.Config
}

// DefaultConfig returns a Config for the public endpoint with the given token.
func DefaultConfig(token string) Config {
	return Config{
		URL:     DefaultURL,
		Token:   token,
		Timeout: 10 * time.Second,
		Breaker: circuitbreaker.StratzAPIConfig(),
	}
}

// Client queries STRATZ for guild matches.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient creates a Client. The HTTP transport opens a span per request.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = circuitbreaker.StratzAPIConfig()
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: tracing.NewTransport("stratz", nil),
		},
		breaker: circuitbreaker.New(cfg.Breaker),
	}
}

// IsOpen reports whether the provider circuit breaker is open.
func (c *Client) IsOpen() bool { return c.breaker.IsOpen() }

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type guildPayload struct {
	ID      *int64             `json:"id"`
	Name    *string            `json:"name"`
	Logo    *string            `json:"logo"`
	Matches []*entity.RawMatch `json:"matches"`
}

type graphQLResponse struct {
	Data *struct {
		Guild *guildPayload `json:"guild"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// FetchGuildMatches returns the guild identity and its most recent matches,
// newest first. Every failure is a *ProviderError. The query is sent once;
// a failed query fails the caller's run and the next run asks again.
func (c *Client) FetchGuildMatches(ctx context.Context, guildID int64, take int) (*entity.GuildSnapshot, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "stratz.FetchGuildMatches")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("guild.id", guildID),
		attribute.Int("take", take),
	)

	start := time.Now()
	snapshot, err := c.fetch(ctx, guildID, take)
	metrics.RecordProviderRequest(string(KindOf(err)), time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindOf(err)))
		logging.WithRunID(ctx, logging.FromContext(ctx)).Warn("stratz query failed",
			slog.Int64("guild_id", guildID),
			slog.String("kind", string(KindOf(err))),
			slog.String("error", logging.SanitizeError(err)))
		return nil, err
	}

	span.SetAttributes(attribute.Int("matches", len(snapshot.Matches)))
	return snapshot, nil
}

func (c *Client) fetch(ctx context.Context, guildID int64, take int) (*entity.GuildSnapshot, error) {
	var resp *graphQLResponse
	err := c.breaker.Run(func() error {
		r, err := c.post(ctx, guildID, take)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, transportErr(fmt.Errorf("circuit breaker: %w", err))
		}
		if KindOf(err) != "" {
			return nil, err
		}
		return nil, transportErr(err)
	}

	return toSnapshot(resp)
}

func (c *Client) post(ctx context.Context, guildID int64, take int) (*graphQLResponse, error) {
	body, err := json.Marshal(graphQLRequest{
		Query: guildMatchesQuery,
		Variables: map[string]any{
			"guildId": guildID,
			"take":    take,
		},
	})
	if err != nil {
		return nil, transportErr(fmt.Errorf("marshal query: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, transportErr(fmt.Errorf("create http request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportErr(fmt.Errorf("execute http request: %w", err))
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, transportErr(fmt.Errorf("read body: %w", err))
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, transportErr(&retry.HTTPError{
			StatusCode: res.StatusCode,
			Message:    strings.TrimSpace(string(truncate(raw, 256))),
			Wait:       parseRetryAfter(res.Header.Get("Retry-After")),
		})
	}

	var out graphQLResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, transportErr(fmt.Errorf("decode response: %w", err))
	}
	return &out, nil
}

func toSnapshot(resp *graphQLResponse) (*entity.GuildSnapshot, error) {
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, &ProviderError{Kind: KindGraphQL, Err: errors.New(strings.Join(msgs, "; "))}
	}

	switch {
	case resp.Data == nil:
		return nil, emptyErr("data")
	case resp.Data.Guild == nil:
		return nil, emptyErr("guild")
	}
	g := resp.Data.Guild
	switch {
	case g.ID == nil:
		return nil, emptyErr("guild id")
	case g.Name == nil:
		return nil, emptyErr("guild name")
	case g.Logo == nil:
		return nil, emptyErr("guild logo")
	case g.Matches == nil:
		return nil, emptyErr("matches")
	}
	for i, m := range g.Matches {
		if m == nil {
			return nil, emptyErr("match at index " + strconv.Itoa(i))
		}
	}

	return &entity.GuildSnapshot{
		ID:      *g.ID,
		Name:    *g.Name,
		Logo:    *g.Logo,
		Matches: g.Matches,
	}, nil
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
