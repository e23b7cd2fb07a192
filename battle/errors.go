package battle

import "fmt"

// NotFoundError reports a species id that does not exist in the catalog.
type NotFoundError struct {
	PokeAPIID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pokemon with ID %d does not exist", e.PokeAPIID)
}

// NotOwnedError reports an attempt to field a species the user has never
// drawn.
type NotOwnedError struct {
	PokeAPIID int
}

func (e *NotOwnedError) Error() string {
	return fmt.Sprintf("you don't own pokemon with ID %d", e.PokeAPIID)
}

// InvalidTeamSizeError reports a team that is not exactly three members.
type InvalidTeamSizeError struct {
	Size int
}

func (e *InvalidTeamSizeError) Error() string {
	return fmt.Sprintf("team must have exactly 3 pokemon, got %d", e.Size)
}

// ActiveBattleError reports a createBattle while another battle is still in
// progress.
type ActiveBattleError struct{}

func (e *ActiveBattleError) Error() string {
	return "a battle is already in progress"
}

// NoActiveBattleError reports a move with no battle in progress.
type NoActiveBattleError struct{}

func (e *NoActiveBattleError) Error() string {
	return "no active battle found"
}

// GameOverError reports a move against an already concluded battle.
type GameOverError struct{}

func (e *GameOverError) Error() string {
	return "battle is already over"
}

// NotYourTurnError reports a player move while the turn belongs to the bot.
type NotYourTurnError struct{}

func (e *NotYourTurnError) Error() string {
	return "it's not your turn"
}

// InvalidMoveError reports a move index that is out of range or has no PP
// remaining.
type InvalidMoveError struct {
	Index int
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move %d or no PP remaining", e.Index)
}
