package notifier

import (
	"fmt"
	"strings"
	"time"

	"guild-tracker/internal/domain/entity"
)

// KOOK card message structures. Only the module kinds the match card uses are modelled.

type kookCard struct {
	Type    string       `json:"type"`
	Theme   string       `json:"theme"`
	Size    string       `json:"size"`
	Modules []kookModule `json:"modules"`
}

type kookModule struct {
	Type     string     `json:"type"`
	Text     *kookText  `json:"text,omitempty"`
	Elements []kookText `json:"elements,omitempty"`
}

type kookText struct {
	Type    string     `json:"type"`
	Content string     `json:"content,omitempty"`
	Cols    int        `json:"cols,omitempty"`
	Fields  []kookText `json:"fields,omitempty"`
}

func plainText(s string) *kookText { return &kookText{Type: "plain-text", Content: s} }
func kmarkdown(s string) kookText  { return kookText{Type: "kmarkdown", Content: s} }

// cardTheme colours the card by outcome.
func cardTheme(o entity.Outcome) string {
	switch o {
	case entity.OutcomeVictory:
		return "success"
	case entity.OutcomeDefeat:
		return "danger"
	case entity.OutcomeMixed:
		return "warning"
	}
	return "secondary"
}

// buildCard renders the card variant:
// header (guild), section (links + classification line), paragraph with the
// Radiant/Dire blocks, duration, divider, context footer.
func (k *KookNotifier) buildCard(n *entity.Notification) []kookCard {
	modules := []kookModule{
		{Type: "header", Text: plainText(n.GuildName)},
		{Type: "section", Text: &kookText{
			Type: "kmarkdown",
			Content: fmt.Sprintf("[%s](%s)  [%s](%s)\n**%s**",
				n.GuildName, n.GuildURL(), n.MatchID(), n.MatchURL(), n.Title()),
		}},
	}

	sides := make([]kookText, 0, 2)
	if block := k.sideBlock("Radiant", n.Radiant); block != "" {
		sides = append(sides, kmarkdown(block))
	}
	if block := k.sideBlock("Dire", n.Dire); block != "" {
		sides = append(sides, kmarkdown(block))
	}
	if len(sides) > 0 {
		modules = append(modules, kookModule{
			Type: "section",
			Text: &kookText{Type: "paragraph", Cols: len(sides), Fields: sides},
		})
	}

	modules = append(modules,
		kookModule{Type: "section", Text: &kookText{Type: "kmarkdown", Content: "**Duration**\n" + n.Duration}},
		kookModule{Type: "divider"},
		kookModule{Type: "context", Elements: []kookText{
			*plainText(footerText + " - " + n.EndedAt.Format(time.RFC3339)),
		}},
	)

	return []kookCard{{
		Type:    "card",
		Theme:   cardTheme(n.Outcome),
		Size:    "lg",
		Modules: modules,
	}}
}

func (k *KookNotifier) sideBlock(title string, players []entity.PlayerStats) string {
	if len(players) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("**" + title + "**")
	for _, p := range players {
		b.WriteString("\n")
		b.WriteString(p.Line(k.heroes.Slug(p.HeroID)))
	}
	return b.String()
}
