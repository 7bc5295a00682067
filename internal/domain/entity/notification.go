package entity

import (
	"fmt"
	"strconv"
	"time"
)

const (
	stratzMatchURL = "https://stratz.com/matches/%d"
	stratzGuildURL = "https://stratz.com/guilds/%d"
	steamLogoURL   = "https://steamusercontent-a.akamaihd.net/ugc/%s/"

	// minimumPlayers is the smallest participant list a notification can be built from.
	minimumPlayers = 1
)

// Outcome is the guild's result in a match, folded over all tracked players.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeMixed
)

// String returns the display label of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "Victory"
	case OutcomeDefeat:
		return "Defeat"
	case OutcomeMixed:
		return "Clash"
	default:
		return "Cancelled"
	}
}

// DeriveOutcome folds the players' individual victory flags into one Outcome.
// At least one win and one loss yields OutcomeMixed; no flags at all yields OutcomeNone.
func DeriveOutcome(flags []bool) Outcome {
	var won, lost bool
	for _, f := range flags {
		if f {
			won = true
		} else {
			lost = true
		}
	}

	switch {
	case won && lost:
		return OutcomeMixed
	case won:
		return OutcomeVictory
	case lost:
		return OutcomeDefeat
	default:
		return OutcomeNone
	}
}

// FormatDuration renders match seconds as "m:ss" without an hour component.
func FormatDuration(seconds int64) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// PlayerStats is the per-player block of a Notification.
type PlayerStats struct {
	Name            string
	HeroID          int
	HeroDisplayName string
	Kills           int
	Deaths          int
	Assists         int
	Imp             *int // performance delta, optional
}

// Line renders "{icon} {name} [k/d/a]" and appends the signed performance delta when present.
func (p PlayerStats) Line(icon string) string {
	line := fmt.Sprintf("%s %s [%d/%d/%d]", icon, p.Name, p.Kills, p.Deaths, p.Assists)
	if p.Imp != nil {
		line += fmt.Sprintf(" `%+d`", *p.Imp)
	}
	return line
}

// Notification is the normalized, destination independent view of one match.
// It is only built through NewNotification and is not modified afterwards.
type Notification struct {
	ID        int64
	GuildID   int64
	GuildName string
	GuildLogo string
	Outcome   Outcome
	LobbyType LobbyType
	GameMode  GameMode
	Radiant   []PlayerStats
	Dire      []PlayerStats
	Duration  string
	EndedAt   time.Time
}

// Identifier returns the numeric match id, or a MissingFieldError when the provider omitted it.
func (m *RawMatch) Identifier() (int64, error) {
	if m == nil {
		return 0, &MissingFieldError{Scope: scopeMatch, Field: "match", Index: -1}
	}
	if m.ID == nil {
		return 0, &MissingFieldError{Scope: scopeMatch, Field: "id", Index: -1}
	}
	return *m.ID, nil
}

// NewNotification validates a raw match and builds its Notification.
// Every field except a player's performance delta is required; the first missing
// one is reported as a *MissingFieldError.
func NewNotification(match *RawMatch, guild Guild) (*Notification, error) {
	id, err := match.Identifier()
	if err != nil {
		return nil, err
	}

	missing := func(field string) error {
		return &MissingFieldError{Scope: scopeMatch, Field: field, MatchID: id, Index: -1}
	}

	if len(match.Players) < minimumPlayers {
		return nil, missing("players")
	}
	if match.DurationSeconds == nil {
		return nil, missing("durationSeconds")
	}
	if match.EndDateTime == nil {
		return nil, missing("endDateTime")
	}
	if match.LobbyType == nil {
		return nil, missing("lobbyType")
	}
	if match.GameMode == nil {
		return nil, missing("gameMode")
	}

	n := &Notification{
		ID:        id,
		GuildID:   guild.ID,
		GuildName: guild.Name,
		GuildLogo: guild.Logo,
		LobbyType: *match.LobbyType,
		GameMode:  *match.GameMode,
		Duration:  FormatDuration(*match.DurationSeconds),
		EndedAt:   time.Unix(*match.EndDateTime, 0).UTC(),
	}

	flags := make([]bool, 0, len(match.Players))
	for i, raw := range match.Players {
		stats, radiant, victory, err := normalizePlayer(id, i, raw)
		if err != nil {
			return nil, err
		}
		flags = append(flags, victory)
		if radiant {
			n.Radiant = append(n.Radiant, stats)
		} else {
			n.Dire = append(n.Dire, stats)
		}
	}
	n.Outcome = DeriveOutcome(flags)

	return n, nil
}

func normalizePlayer(matchID int64, index int, p *RawPlayer) (PlayerStats, bool, bool, error) {
	missing := func(field string) error {
		return &MissingFieldError{Scope: scopePlayer, Field: field, MatchID: matchID, Index: index}
	}

	switch {
	case p == nil:
		return PlayerStats{}, false, false, missing("player")
	case p.IsRadiant == nil:
		return PlayerStats{}, false, false, missing("isRadiant")
	case p.IsVictory == nil:
		return PlayerStats{}, false, false, missing("isVictory")
	case p.Kills == nil:
		return PlayerStats{}, false, false, missing("kills")
	case p.Deaths == nil:
		return PlayerStats{}, false, false, missing("deaths")
	case p.Assists == nil:
		return PlayerStats{}, false, false, missing("assists")
	case p.Hero == nil:
		return PlayerStats{}, false, false, missing("hero")
	case p.Hero.ID == nil:
		return PlayerStats{}, false, false, missing("hero.id")
	case p.Hero.DisplayName == nil:
		return PlayerStats{}, false, false, missing("hero.displayName")
	case p.SteamAccount == nil || p.SteamAccount.Name == nil:
		return PlayerStats{}, false, false, missing("steamAccount.name")
	}

	stats := PlayerStats{
		Name:            *p.SteamAccount.Name,
		HeroID:          *p.Hero.ID,
		HeroDisplayName: *p.Hero.DisplayName,
		Kills:           *p.Kills,
		Deaths:          *p.Deaths,
		Assists:         *p.Assists,
	}
	if p.Imp != nil {
		imp := *p.Imp
		stats.Imp = &imp
	}
	return stats, *p.IsRadiant, *p.IsVictory, nil
}

// MatchID is the match identifier in string form, as destinations display it.
func (n *Notification) MatchID() string {
	return strconv.FormatInt(n.ID, 10)
}

// Title is the classification line: "{outcome} - {lobby} - {mode}".
func (n *Notification) Title() string {
	return fmt.Sprintf("%s - %s - %s", n.Outcome, LobbyLabel(n.LobbyType), GameModeLabel(n.GameMode))
}

// MatchURL links the match page on STRATZ.
func (n *Notification) MatchURL() string {
	return fmt.Sprintf(stratzMatchURL, n.ID)
}

// GuildURL links the guild page on STRATZ.
func (n *Notification) GuildURL() string {
	return fmt.Sprintf(stratzGuildURL, n.GuildID)
}

// GuildLogoURL resolves the guild logo reference to its Steam UGC address.
func (n *Notification) GuildLogoURL() string {
	return fmt.Sprintf(steamLogoURL, n.GuildLogo)
}
