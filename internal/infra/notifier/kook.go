package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"guild-tracker/internal/assets"
	"guild-tracker/internal/domain/entity"
	"guild-tracker/internal/observability/logging"
	"guild-tracker/internal/observability/tracing"
)

const (
	// DefaultKookBaseURL is the public KOOK API host.
	DefaultKookBaseURL = "https://www.kookapp.cn"

	kookCreateMessagePath = "/api/v3/message/create"
)

// KookConfig contains configuration for the KOOK bot destination.
type KookConfig struct {
	Enabled bool

	// Token is the bot token sent as "Authorization: Bot {token}".
	Token string

	// TargetID is the channel that receives the cards.
	TargetID string

	BaseURL string
	Timeout time.Duration
}

// KookNotifier posts match cards through the KOOK bot API.
type KookNotifier struct {
	config      KookConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
	heroes      *assets.HeroTable
}

type kookResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewKookNotifier(config KookConfig) *KookNotifier {
	if config.BaseURL == "" {
		config.BaseURL = DefaultKookBaseURL
	}
	return &KookNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: tracing.NewTransport("kook", nil),
		},
		rateLimiter: NewRateLimiter(1, 2),
		heroes:      assets.Heroes(),
	}
}

// Render serializes the card and wraps it in a type 10 (card) envelope.
func (k *KookNotifier) Render(n *entity.Notification) (Envelope, error) {
	card, err := json.Marshal(k.buildCard(n))
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal card: %w", err)
	}
	return Envelope{
		Type:     MessageTypeCard,
		TargetID: k.config.TargetID,
		Content:  string(card),
	}, nil
}

// Notify posts one card message. A non-zero code in the KOOK response body
// is a failure even on HTTP 200.
func (k *KookNotifier) Notify(ctx context.Context, n *entity.Notification) error {
	requestID := uuid.New().String()
	logger := logging.WithRunID(ctx, logging.FromContext(ctx)).With(
		slog.String("request_id", requestID),
		slog.String("match_id", n.MatchID()),
		slog.String("target_id", k.config.TargetID))

	if err := k.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	env, err := k.Render(n)
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bot "+k.config.Token)

	url := strings.TrimRight(k.config.BaseURL, "/") + kookCreateMessagePath
	respBody, err := postJSON(ctx, k.httpClient, url, header, body, "KOOK")
	if err == nil {
		err = checkKookResponse(respBody)
	}
	if err != nil {
		logger.Error("KOOK notification failed",
			slog.String("status", StatusLabel(err)),
			slog.String("error", logging.SanitizeError(err)))
		return fmt.Errorf("kook message/create: %w", err)
	}

	logger.Info("KOOK notification successful")
	return nil
}

func checkKookResponse(body []byte) error {
	var resp kookResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode kook response: %w", err)
	}
	if resp.Code != 0 {
		return &APIError{Code: resp.Code, Message: resp.Message}
	}
	return nil
}
