package battle

import "math/rand"

// CalculateDamage applies the fixed level-50 damage formula, the type
// matchup multiplier, and a random variance factor in [0.85, 1.0).
// A not-fully-resisted hit always deals at least 1 damage; an immune
// defender takes none.
func CalculateDamage(attacker, defender *BattlePokemon, move BattleMove, rng *rand.Rand) int {
	if move.Power == 0 {
		return 0
	}

	damage := ((2*battleLevel/5+2)*attacker.Attack*move.Power)/defender.Defense/50 + 2

	effectiveness := Effectiveness(move.Type, defender.Types)
	damage = int(float64(damage) * effectiveness)

	variance := 0.85 + rng.Float64()*0.15
	damage = int(float64(damage) * variance)

	if damage < 1 && effectiveness > 0 {
		damage = 1
	}

	return damage
}
