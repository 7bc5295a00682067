package assets

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultDiscordEmoji is shown for heroes missing from the table.
	DefaultDiscordEmoji = ":grey_question:"

	// DefaultSlug is shown on destinations without custom emoji.
	DefaultSlug = "?"
)

// Hero is one row of the hero icon table.
type Hero struct {
	ID    int    `yaml:"id"`
	Slug  string `yaml:"slug"`
	Emoji string `yaml:"emoji"`
}

// HeroTable resolves hero ids to destination icons.
type HeroTable struct {
	byID map[int]Hero
}

type heroFile struct {
	Heroes []Hero `yaml:"heroes"`
}

var (
	heroesOnce  sync.Once
	heroesTable *HeroTable
)

// Heroes returns the embedded hero table. The table is parsed once per process.
func Heroes() *HeroTable {
	heroesOnce.Do(func() {
		t, err := ParseHeroTable(heroesYAML)
		if err != nil {
			// embedded data is validated by tests
			panic(fmt.Sprintf("assets: embedded hero table: %v", err))
		}
		heroesTable = t
	})
	return heroesTable
}

// ParseHeroTable decodes a YAML hero table.
func ParseHeroTable(data []byte) (*HeroTable, error) {
	var f heroFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode hero table: %w", err)
	}

	t := &HeroTable{byID: make(map[int]Hero, len(f.Heroes))}
	for _, h := range f.Heroes {
		if h.ID <= 0 || h.Slug == "" {
			return nil, fmt.Errorf("invalid hero entry: id=%d slug=%q", h.ID, h.Slug)
		}
		if _, dup := t.byID[h.ID]; dup {
			return nil, fmt.Errorf("duplicate hero id %d", h.ID)
		}
		t.byID[h.ID] = h
	}
	return t, nil
}

// Len returns the number of heroes in the table.
func (t *HeroTable) Len() int {
	return len(t.byID)
}

// DiscordEmoji returns the custom emoji markup "<:slug:id>" for a hero.
func (t *HeroTable) DiscordEmoji(heroID int) string {
	h, ok := t.byID[heroID]
	if !ok || h.Emoji == "" {
		return DefaultDiscordEmoji
	}
	return fmt.Sprintf("<:%s:%s>", h.Slug, h.Emoji)
}

// Slug returns the plain hero slug.
func (t *HeroTable) Slug(heroID int) string {
	h, ok := t.byID[heroID]
	if !ok {
		return DefaultSlug
	}
	return h.Slug
}
