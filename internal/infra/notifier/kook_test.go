package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guild-tracker/internal/domain/entity"
)

func newTestKook(baseURL string) *KookNotifier {
	return NewKookNotifier(KookConfig{
		Enabled:  true,
		Token:    "bot-token-123",
		TargetID: "3193188266865676",
		BaseURL:  baseURL,
		Timeout:  5 * time.Second,
	})
}

func TestKookNotifier_BuildCard(t *testing.T) {
	k := newTestKook("")
	cards := k.buildCard(sampleNotification())

	require.Len(t, cards, 1)
	card := cards[0]
	assert.Equal(t, "card", card.Type)
	assert.Equal(t, "warning", card.Theme)

	types := make([]string, 0, len(card.Modules))
	for _, m := range card.Modules {
		types = append(types, m.Type)
	}
	assert.Equal(t, []string{"header", "section", "section", "section", "divider", "context"}, types)

	assert.Equal(t, "Nan Tuan", card.Modules[0].Text.Content)
	assert.Contains(t, card.Modules[1].Text.Content, "https://stratz.com/matches/7400000002")
	assert.Contains(t, card.Modules[1].Text.Content, "https://stratz.com/guilds/117311")
	assert.Contains(t, card.Modules[1].Text.Content, "**Clash - Ranked - All Pick**")

	sides := card.Modules[2].Text
	assert.Equal(t, "paragraph", sides.Type)
	assert.Equal(t, 2, sides.Cols)
	require.Len(t, sides.Fields, 2)
	assert.Equal(t, "**Radiant**\nantimage alpha [12/3/9] `+14`", sides.Fields[0].Content)
	assert.Equal(t, "**Dire**\ncrystal_maiden beta [1/9/4] `-7`", sides.Fields[1].Content)

	assert.Equal(t, "**Duration**\n25:51", card.Modules[3].Text.Content)
	require.Len(t, card.Modules[5].Elements, 1)
	assert.Equal(t, "Powered by STRATZ - 2023-11-14T22:13:20Z", card.Modules[5].Elements[0].Content)
}

func TestKookNotifier_BuildCard_OneSided(t *testing.T) {
	n := sampleNotification()
	n.Radiant = nil
	n.Outcome = entity.OutcomeDefeat

	cards := newTestKook("").buildCard(n)
	sides := cards[0].Modules[2].Text

	assert.Equal(t, "danger", cards[0].Theme)
	assert.Equal(t, 1, sides.Cols)
	require.Len(t, sides.Fields, 1)
	assert.True(t, strings.HasPrefix(sides.Fields[0].Content, "**Dire**"))
}

func TestKookNotifier_BuildCard_NoPlayers(t *testing.T) {
	n := sampleNotification()
	n.Radiant, n.Dire = nil, nil
	n.Outcome = entity.OutcomeNone

	cards := newTestKook("").buildCard(n)
	for _, m := range cards[0].Modules {
		if m.Text != nil {
			assert.NotEqual(t, "paragraph", m.Text.Type, "no side blocks expected")
		}
	}
	assert.Equal(t, "secondary", cards[0].Theme)
}

func TestKookNotifier_Render(t *testing.T) {
	env, err := newTestKook("").Render(sampleNotification())
	require.NoError(t, err)

	assert.Equal(t, MessageTypeCard, env.Type)
	assert.Equal(t, "3193188266865676", env.TargetID)

	var cards []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(env.Content), &cards))
	assert.Equal(t, "card", cards[0]["type"])
}

func TestKookNotifier_Notify(t *testing.T) {
	t.Run("posts envelope with bot auth", func(t *testing.T) {
		var gotPath, gotAuth string
		var got Envelope
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &got)
			_, _ = io.WriteString(w, `{"code":0,"message":"操作成功","data":{"msg_id":"x"}}`)
		}))
		defer srv.Close()

		err := newTestKook(srv.URL+"/").Notify(context.Background(), sampleNotification())
		require.NoError(t, err)

		assert.Equal(t, "/api/v3/message/create", gotPath)
		assert.Equal(t, "Bot bot-token-123", gotAuth)
		assert.Equal(t, "10", got.Type)
		assert.Equal(t, "3193188266865676", got.TargetID)
		assert.NotEmpty(t, got.Content)
	})

	t.Run("non-zero code is a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"code":40100,"message":"无权限"}`)
		}))
		defer srv.Close()

		err := newTestKook(srv.URL).Notify(context.Background(), sampleNotification())
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 40100, apiErr.Code)
		assert.Equal(t, "api_error", StatusLabel(err))
	})

	t.Run("http error is classified", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := newTestKook(srv.URL).Notify(context.Background(), sampleNotification())
		assert.Equal(t, "server_error", StatusLabel(err))
	})

	t.Run("undecodable body is a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `<html>`)
		}))
		defer srv.Close()

		err := newTestKook(srv.URL).Notify(context.Background(), sampleNotification())
		require.Error(t, err)
		assert.Equal(t, "transport_error", StatusLabel(err))
	})
}

func TestNewKookNotifier_DefaultBaseURL(t *testing.T) {
	k := NewKookNotifier(KookConfig{Token: "t"})
	assert.Equal(t, DefaultKookBaseURL, k.config.BaseURL)
}
