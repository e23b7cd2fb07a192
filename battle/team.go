package battle

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/fcendesu/poke-deck/database"
	"github.com/google/uuid"
)

// SpeciesSource is the catalog/collection surface the team builder needs.
type SpeciesSource interface {
	SpeciesByPokeAPIID(ctx context.Context, pokeAPIID int) (*database.Species, error)
	SpeciesCount(ctx context.Context) (int64, error)
	SpeciesAt(ctx context.Context, offset int) (*database.Species, error)
	OwnedCard(ctx context.Context, userID, speciesID uuid.UUID) (*database.CollectionEntry, error)
}

// TeamBuilder assembles battle-ready combatants from persisted species.
type TeamBuilder struct {
	store SpeciesSource
	rng   *rand.Rand
}

func NewTeamBuilder(store SpeciesSource, rng *rand.Rand) *TeamBuilder {
	return &TeamBuilder{store: store, rng: rng}
}

// PlayerPokemon builds a combatant for the player's team. The species must
// exist and be present in the user's collection.
func (b *TeamBuilder) PlayerPokemon(ctx context.Context, userID uuid.UUID, pokeAPIID int) (*BattlePokemon, error) {
	species, err := b.store.SpeciesByPokeAPIID(ctx, pokeAPIID)
	if err != nil {
		return nil, fmt.Errorf("load species %d: %w", pokeAPIID, err)
	}
	if species == nil {
		return nil, &NotFoundError{PokeAPIID: pokeAPIID}
	}
	owned, err := b.store.OwnedCard(ctx, userID, species.ID)
	if err != nil {
		return nil, fmt.Errorf("check ownership of species %d: %w", pokeAPIID, err)
	}
	if owned == nil {
		return nil, &NotOwnedError{PokeAPIID: pokeAPIID}
	}
	pokemon := b.fromSpecies(species)
	return &pokemon, nil
}

// botTeamAttempts bounds the random sampling for a bot lineup; even a
// sparse catalog yields three distinct stat-bearing species well within
// this budget.
const botTeamAttempts = 60

// BotTeam assembles three random, distinct, stat-bearing species from the
// full catalog. No ownership check applies to the bot.
func (b *TeamBuilder) BotTeam(ctx context.Context) ([]BattlePokemon, error) {
	count, err := b.store.SpeciesCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("count species: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("species catalog is empty")
	}

	team := make([]BattlePokemon, 0, teamSize)
	used := make(map[int]bool, teamSize)
	for attempt := 0; attempt < botTeamAttempts && len(team) < teamSize; attempt++ {
		species, err := b.store.SpeciesAt(ctx, b.rng.Intn(int(count)))
		if err != nil {
			return nil, fmt.Errorf("sample species: %w", err)
		}
		if species == nil || used[species.PokeAPIID] {
			continue
		}
		if species.HP+species.Attack+species.Defense+species.Speed == 0 {
			// no usable stats imported for this one
			continue
		}
		used[species.PokeAPIID] = true
		team = append(team, b.fromSpecies(species))
	}
	if len(team) < teamSize {
		return nil, fmt.Errorf("could not assemble bot team: %d of %d species found", len(team), teamSize)
	}
	return team, nil
}

// fromSpecies initializes a combatant at full HP with a fresh moveset.
// MaxHP uses the fixed level-50 approximation; other stats copy straight
// from the species with a fallback when the catalog had no value.
func (b *TeamBuilder) fromSpecies(species *database.Species) BattlePokemon {
	hpStat := orDefault(species.HP)
	maxHP := ((hpStat*2+100)*battleLevel)/100 + 10
	types := species.TypeNames()

	return BattlePokemon{
		SpeciesID:             species.ID,
		PokeAPIID:             species.PokeAPIID,
		Name:                  species.Name,
		SpriteDefault:         species.SpriteDefault,
		SpriteOfficialArtwork: species.SpriteOfficialArtwork,
		CurrentHP:             maxHP,
		MaxHP:                 maxHP,
		Attack:                orDefault(species.Attack),
		Defense:               orDefault(species.Defense),
		Speed:                 orDefault(species.Speed),
		Types:                 types,
		Moves:                 AssignMoves(types, b.rng),
	}
}

func orDefault(stat int) int {
	if stat <= 0 {
		return defaultBaseStat
	}
	return stat
}
