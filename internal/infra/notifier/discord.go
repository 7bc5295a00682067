package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"guild-tracker/internal/assets"
	"guild-tracker/internal/domain/entity"
	"guild-tracker/internal/observability/logging"
	"guild-tracker/internal/observability/tracing"
)

const (
	radiantFieldName  = "<:radiant:958274781919207505> Radiant"
	direFieldName     = "<:dire:958274694203719740> Dire"
	durationFieldName = ":clock3: Duration"

	footerText    = "Powered by STRATZ"
	footerIconURL = "https://cdn.discordapp.com/icons/268890221943324677/12b63c55a83a715ec569e91e40641db0.webp?size=96"
)

// DiscordConfig contains configuration for Discord webhook notifications.
type DiscordConfig struct {
	Enabled bool

	// WebhookURL includes the webhook token; never log it unsanitized.
	WebhookURL string

	Timeout time.Duration
}

// DiscordNotifier sends match embeds to a Discord webhook.
type DiscordNotifier struct {
	config      DiscordConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
	heroes      *assets.HeroTable
}

// NewDiscordNotifier paces sends at 0.5 req/s with a burst of 3
// (Discord webhook limit: 30 requests per minute).
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: tracing.NewTransport("discord", nil),
		},
		rateLimiter: NewRateLimiter(0.5, 3),
		heroes:      assets.Heroes(),
	}
}

// BuildWebhookParams renders the embed variant of a notification.
//
//   - Content: match URL (Discord unfurls it)
//   - Author: guild name, guild page, guild logo
//   - Title: "{outcome} - {lobby} - {mode}"
//   - Fields: Radiant and Dire inline (omitted when empty), then Duration
//   - Footer/Timestamp: STRATZ attribution and match end time
func (d *DiscordNotifier) BuildWebhookParams(n *entity.Notification) *discordgo.WebhookParams {
	fields := make([]*discordgo.MessageEmbedField, 0, 3)
	if v := d.sideBlock(n.Radiant); v != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: radiantFieldName, Value: v, Inline: true})
	}
	if v := d.sideBlock(n.Dire); v != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: direFieldName, Value: v, Inline: true})
	}
	fields = append(fields, &discordgo.MessageEmbedField{Name: durationFieldName, Value: n.Duration})

	embed := &discordgo.MessageEmbed{
		Title: n.Title(),
		Author: &discordgo.MessageEmbedAuthor{
			Name:    n.GuildName,
			URL:     n.GuildURL(),
			IconURL: n.GuildLogoURL(),
		},
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text:    footerText,
			IconURL: footerIconURL,
		},
		Timestamp: n.EndedAt.Format(time.RFC3339),
	}

	return &discordgo.WebhookParams{
		Content: n.MatchURL(),
		Embeds:  []*discordgo.MessageEmbed{embed},
	}
}

func (d *DiscordNotifier) sideBlock(players []entity.PlayerStats) string {
	if len(players) == 0 {
		return ""
	}
	lines := make([]string, 0, len(players))
	for _, p := range players {
		lines = append(lines, p.Line(d.heroes.DiscordEmoji(p.HeroID)))
	}
	return strings.Join(lines, "\n")
}

// Render wraps the webhook params in an Envelope addressed to the webhook URL.
func (d *DiscordNotifier) Render(n *entity.Notification) (Envelope, error) {
	content, err := json.Marshal(d.BuildWebhookParams(n))
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal webhook payload: %w", err)
	}
	return Envelope{
		Type:     MessageTypeWebhook,
		TargetID: d.config.WebhookURL,
		Content:  string(content),
	}, nil
}

// Notify renders the notification and posts it to the webhook once.
func (d *DiscordNotifier) Notify(ctx context.Context, n *entity.Notification) error {
	requestID := uuid.New().String()
	logger := logging.WithRunID(ctx, logging.FromContext(ctx)).With(
		slog.String("request_id", requestID),
		slog.String("match_id", n.MatchID()))

	if err := d.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	env, err := d.Render(n)
	if err != nil {
		return err
	}

	start := time.Now()
	if _, err := postJSON(ctx, d.httpClient, env.TargetID, nil, []byte(env.Content), "Discord"); err != nil {
		logger.Error("Discord notification failed",
			slog.String("status", StatusLabel(err)),
			slog.String("error", logging.SanitizeError(err)))
		return fmt.Errorf("discord webhook: %w", err)
	}

	logger.Info("Discord notification successful",
		slog.Duration("duration", time.Since(start)))
	return nil
}
