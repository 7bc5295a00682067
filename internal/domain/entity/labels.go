package entity

const unknownLabel = "Unknown"

// LobbyLabel maps a provider lobby type to its display label.
func LobbyLabel(l LobbyType) string {
	switch l {
	case "UNRANKED":
		return "Unranked"
	case "PRACTICE":
		return "Lobby"
	case "TOURNAMENT":
		return "The International"
	case "TUTORIAL":
		return "Tutorial"
	case "COOP_VS_BOTS":
		return "Bots"
	case "TEAM_MATCH":
		return "Guild"
	case "SOLO_QUEUE":
		return "Solo Ranked"
	case "RANKED":
		return "Ranked"
	case "SOLO_MID":
		return "Duel"
	case "BATTLE_CUP":
		return "Battle Cup"
	case "EVENT":
		return "Event"
	default:
		return unknownLabel
	}
}

// GameModeLabel maps a provider game mode to its display label.
func GameModeLabel(m GameMode) string {
	switch m {
	case "NONE":
		return "None"
	case "ALL_PICK":
		return "All Pick"
	case "CAPTAINS_MODE":
		return "Captains Mode"
	case "RANDOM_DRAFT":
		return "Random Draft"
	case "SINGLE_DRAFT":
		return "Single Draft"
	case "ALL_RANDOM":
		return "All Random"
	case "INTRO":
		return "Intro"
	case "THE_DIRETIDE":
		return "Diretide"
	case "REVERSE_CAPTAINS_MODE":
		return "Reverse Captains Mode"
	case "THE_GREEVILING":
		return "Greeviling"
	case "TUTORIAL":
		return "Tutorial"
	case "MID_ONLY":
		return "Mid Only"
	case "LEAST_PLAYED":
		return "Least Played"
	case "NEW_PLAYER_POOL":
		return "Limited Heroes"
	case "COMPENDIUM_MATCHMAKING":
		return "Compendium"
	case "CUSTOM":
		return "Custom"
	case "CAPTAINS_DRAFT":
		return "Captains Draft"
	case "BALANCED_DRAFT":
		return "Balanced Draft"
	case "ABILITY_DRAFT":
		return "Ability Draft"
	case "EVENT":
		return "Event"
	case "ALL_RANDOM_DEATH_MATCH":
		return "All Random Deathmatch"
	case "SOLO_MID":
		return "Solo Mid"
	case "ALL_PICK_RANKED":
		return "All Draft"
	case "TURBO":
		return "Turbo"
	case "MUTATION":
		return "Mutation"
	default:
		return unknownLabel
	}
}
