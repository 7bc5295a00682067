package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLobbyLabel(t *testing.T) {
	tests := map[LobbyType]string{
		"UNRANKED":     "Unranked",
		"PRACTICE":     "Lobby",
		"TOURNAMENT":   "The International",
		"COOP_VS_BOTS": "Bots",
		"TEAM_MATCH":   "Guild",
		"RANKED":       "Ranked",
		"SOLO_MID":     "Duel",
		"BATTLE_CUP":   "Battle Cup",
		"NEW_LOBBY":    "Unknown",
		"":             "Unknown",
	}

	for in, want := range tests {
		assert.Equal(t, want, LobbyLabel(in), "lobby %q", in)
	}
}

func TestGameModeLabel(t *testing.T) {
	tests := map[GameMode]string{
		"NONE":            "None",
		"ALL_PICK":        "All Pick",
		"NEW_PLAYER_POOL": "Limited Heroes",
		"ALL_PICK_RANKED": "All Draft",
		"SOLO_MID":        "Solo Mid",
		"TURBO":           "Turbo",
		"MUTATION":        "Mutation",
		"FUTURE_MODE":     "Unknown",
	}

	for in, want := range tests {
		assert.Equal(t, want, GameModeLabel(in), "mode %q", in)
	}
}
