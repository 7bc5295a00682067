package entity

// LobbyType is the provider's lobby classification (e.g. "RANKED").
type LobbyType string

// GameMode is the provider's game mode classification (e.g. "ALL_PICK").
type GameMode string

// GuildSnapshot is one provider response for a tracked guild.
// Matches are ordered newest first, as the provider returns them.
type GuildSnapshot struct {
	ID      int64
	Name    string
	Logo    string
	Matches []*RawMatch
}

// Guild returns the identity part of the snapshot.
func (g *GuildSnapshot) Guild() Guild {
	return Guild{ID: g.ID, Name: g.Name, Logo: g.Logo}
}

// Guild identifies the tracked guild a notification belongs to.
type Guild struct {
	ID   int64
	Name string
	Logo string
}

// RawMatch is a match record as delivered by the provider.
// Every field is nullable; NewNotification decides which ones are required.
type RawMatch struct {
	ID              *int64       `json:"id"`
	DurationSeconds *int64       `json:"durationSeconds"`
	EndDateTime     *int64       `json:"endDateTime"`
	LobbyType       *LobbyType   `json:"lobbyType"`
	GameMode        *GameMode    `json:"gameMode"`
	Players         []*RawPlayer `json:"players"`
}

// RawPlayer is one participant entry of a RawMatch.
type RawPlayer struct {
	IsRadiant    *bool            `json:"isRadiant"`
	IsVictory    *bool            `json:"isVictory"`
	Kills        *int             `json:"kills"`
	Deaths       *int             `json:"deaths"`
	Assists      *int             `json:"assists"`
	Imp          *int             `json:"imp"`
	Hero         *RawHero         `json:"hero"`
	SteamAccount *RawSteamAccount `json:"steamAccount"`
}

// RawHero is the hero reference of a RawPlayer.
type RawHero struct {
	ID          *int    `json:"id"`
	DisplayName *string `json:"displayName"`
}

// RawSteamAccount carries the player's display name.
type RawSteamAccount struct {
	Name *string `json:"name"`
}
