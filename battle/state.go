package battle

import (
	"github.com/fcendesu/poke-deck/config"
	"github.com/google/uuid"
)

const (
	teamSize        = config.TEAM_SIZE
	movesPerPokemon = config.MOVES_PER_POKEMON
	battleLevel     = config.BATTLE_LEVEL
	defaultBaseStat = config.DEFAULT_BASE_STAT
)

// Turn identifies which side acts next.
type Turn string

const (
	TurnPlayer Turn = "player"
	TurnBot    Turn = "bot"
)

// BattleMove is one move slot inside a combatant's loadout. CurrentPP
// decrements on use and never goes below zero.
type BattleMove struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Power     int    `json:"power"`
	Accuracy  int    `json:"accuracy"`
	PP        int    `json:"pp"`
	CurrentPP int    `json:"currentPp"`
	Category  string `json:"category"`
}

// BattlePokemon is a battle-scoped combatant built from a species. It lives
// only inside a BattleState blob; CurrentHP is the only stat that changes.
type BattlePokemon struct {
	SpeciesID             uuid.UUID    `json:"speciesId"`
	PokeAPIID             int          `json:"pokeApiId"`
	Name                  string       `json:"name"`
	SpriteDefault         string       `json:"spriteDefault"`
	SpriteOfficialArtwork string       `json:"spriteOfficialArtwork"`
	CurrentHP             int          `json:"currentHp"`
	MaxHP                 int          `json:"maxHp"`
	Attack                int          `json:"attack"`
	Defense               int          `json:"defense"`
	Speed                 int          `json:"speed"`
	Types                 []string     `json:"types"`
	Moves                 []BattleMove `json:"moves"`
}

// Fainted reports whether the combatant is out of the battle.
func (p *BattlePokemon) Fainted() bool {
	return p.CurrentHP <= 0
}

// BattleState is the complete serializable battle session, persisted as one
// document per battle record.
type BattleState struct {
	PlayerTeam           []BattlePokemon `json:"playerTeam"`
	BotTeam              []BattlePokemon `json:"botTeam"`
	CurrentPlayerPokemon int             `json:"currentPlayerPokemon"`
	CurrentBotPokemon    int             `json:"currentBotPokemon"`
	Turn                 Turn            `json:"turn"`
	BattleLog            []string        `json:"battleLog"`
	IsGameOver           bool            `json:"isGameOver"`
	Winner               Turn            `json:"winner,omitempty"`
}

// ActivePlayer returns the player's current combatant.
func (s *BattleState) ActivePlayer() *BattlePokemon {
	return &s.PlayerTeam[s.CurrentPlayerPokemon]
}

// ActiveBot returns the bot's current combatant.
func (s *BattleState) ActiveBot() *BattlePokemon {
	return &s.BotTeam[s.CurrentBotPokemon]
}

func (s *BattleState) log(line string) {
	s.BattleLog = append(s.BattleLog, line)
}

// nextAlive searches the team forward from the slot after current for a
// member that can still fight. Returns -1 when none remains.
func nextAlive(team []BattlePokemon, current int) int {
	for i := current + 1; i < len(team); i++ {
		if !team[i].Fainted() {
			return i
		}
	}
	return -1
}
