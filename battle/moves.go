package battle

import "math/rand"

// CatalogMove is a battle move template. Power 0 marks a non-damaging move;
// accuracy and category are carried on the wire but not consulted by the
// damage formula.
type CatalogMove struct {
	Name     string
	Type     string
	Power    int
	Accuracy int
	PP       int
	Category string
}

var moveCatalog = []CatalogMove{
	{Name: "Tackle", Type: "normal", Power: 40, Accuracy: 100, PP: 35, Category: "physical"},
	{Name: "Scratch", Type: "normal", Power: 40, Accuracy: 100, PP: 35, Category: "physical"},
	{Name: "Ember", Type: "fire", Power: 40, Accuracy: 100, PP: 25, Category: "special"},
	{Name: "Water Gun", Type: "water", Power: 40, Accuracy: 100, PP: 25, Category: "special"},
	{Name: "Thunder Shock", Type: "electric", Power: 40, Accuracy: 100, PP: 30, Category: "special"},
	{Name: "Vine Whip", Type: "grass", Power: 45, Accuracy: 100, PP: 25, Category: "physical"},
	{Name: "Ice Shard", Type: "ice", Power: 40, Accuracy: 100, PP: 30, Category: "physical"},
	{Name: "Rock Throw", Type: "rock", Power: 50, Accuracy: 90, PP: 15, Category: "physical"},
	{Name: "Gust", Type: "flying", Power: 40, Accuracy: 100, PP: 35, Category: "special"},
	{Name: "Poison Sting", Type: "poison", Power: 15, Accuracy: 100, PP: 35, Category: "physical"},
	{Name: "Confusion", Type: "psychic", Power: 50, Accuracy: 100, PP: 25, Category: "special"},
	{Name: "Quick Attack", Type: "normal", Power: 40, Accuracy: 100, PP: 30, Category: "physical"},
	{Name: "Bite", Type: "dark", Power: 60, Accuracy: 100, PP: 25, Category: "physical"},
	{Name: "Steel Wing", Type: "steel", Power: 70, Accuracy: 90, PP: 25, Category: "physical"},
	{Name: "Fairy Wind", Type: "fairy", Power: 40, Accuracy: 100, PP: 30, Category: "special"},
}

func (m CatalogMove) instance() BattleMove {
	return BattleMove{
		Name:      m.Name,
		Type:      m.Type,
		Power:     m.Power,
		Accuracy:  m.Accuracy,
		PP:        m.PP,
		CurrentPP: m.PP,
		Category:  m.Category,
	}
}

// AssignMoves builds a 4-move loadout for a combatant with the given
// elemental types: the neutral baseline first, then the first catalog move
// of each of the species' types, padded with random catalog moves. Names
// never repeat within one loadout.
func AssignMoves(types []string, rng *rand.Rand) []BattleMove {
	moves := []BattleMove{moveCatalog[0].instance()}

	for _, typeName := range types {
		for _, candidate := range moveCatalog {
			if candidate.Type != typeName {
				continue
			}
			if !containsMove(moves, candidate.Name) {
				moves = append(moves, candidate.instance())
			}
			break
		}
	}

	for len(moves) < movesPerPokemon {
		candidate := moveCatalog[rng.Intn(len(moveCatalog))]
		if !containsMove(moves, candidate.Name) {
			moves = append(moves, candidate.instance())
		}
	}

	return moves[:movesPerPokemon]
}

func containsMove(moves []BattleMove, name string) bool {
	for _, m := range moves {
		if m.Name == name {
			return true
		}
	}
	return false
}
