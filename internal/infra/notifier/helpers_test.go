package notifier

import (
	"time"

	"guild-tracker/internal/domain/entity"
)

func intPtr(v int) *int { return &v }

// sampleNotification is a finished ranked match with players on both sides.
func sampleNotification() *entity.Notification {
	return &entity.Notification{
		ID:        7400000002,
		GuildID:   117311,
		GuildName: "Nan Tuan",
		GuildLogo: "2448325467839470318",
		Outcome:   entity.OutcomeMixed,
		LobbyType: "RANKED",
		GameMode:  "ALL_PICK",
		Radiant: []entity.PlayerStats{
			{Name: "alpha", HeroID: 1, HeroDisplayName: "Anti-Mage", Kills: 12, Deaths: 3, Assists: 9, Imp: intPtr(14)},
		},
		Dire: []entity.PlayerStats{
			{Name: "beta", HeroID: 5, HeroDisplayName: "Crystal Maiden", Kills: 1, Deaths: 9, Assists: 4, Imp: intPtr(-7)},
		},
		Duration: "25:51",
		EndedAt:  time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC),
	}
}
