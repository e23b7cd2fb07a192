package battle

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/fcendesu/poke-deck/database"
	"github.com/google/uuid"
)

// Store is the persistence surface of the battle engine.
type Store interface {
	SpeciesSource
	ActiveBattle(ctx context.Context, userID uuid.UUID) (*database.Battle, error)
	CreateBattleRecord(ctx context.Context, battle *database.Battle) error
	UpdateBattleRecord(ctx context.Context, battle *database.Battle) error
}

// Engine owns the battle state machine: battle creation, move resolution,
// faint and switch handling. Callers must serialize calls per user; the
// engine itself holds no cross-call state.
type Engine struct {
	store   Store
	teams   *TeamBuilder
	tracker *Tracker
	rng     *rand.Rand
}

func NewEngine(store Store, tracker *Tracker, rng *rand.Rand) *Engine {
	return &Engine{
		store:   store,
		teams:   NewTeamBuilder(store, rng),
		tracker: tracker,
		rng:     rng,
	}
}

// CreateBattle validates the player's team, generates a bot opponent, and
// persists the opening state. At most one battle per user may be in
// progress; a second create is rejected.
func (e *Engine) CreateBattle(ctx context.Context, userID uuid.UUID, pokeAPIIDs []int) (*BattleState, uuid.UUID, error) {
	if len(pokeAPIIDs) != teamSize {
		return nil, uuid.Nil, &InvalidTeamSizeError{Size: len(pokeAPIIDs)}
	}

	existing, err := e.store.ActiveBattle(ctx, userID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("check active battle: %w", err)
	}
	if existing != nil {
		return nil, uuid.Nil, &ActiveBattleError{}
	}

	playerTeam := make([]BattlePokemon, 0, teamSize)
	for _, pokeAPIID := range pokeAPIIDs {
		pokemon, err := e.teams.PlayerPokemon(ctx, userID, pokeAPIID)
		if err != nil {
			return nil, uuid.Nil, err
		}
		playerTeam = append(playerTeam, *pokemon)
	}

	botTeam, err := e.teams.BotTeam(ctx)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("generate bot team: %w", err)
	}

	// Higher lead speed moves first; ties go to the player.
	first := TurnPlayer
	speedLine := fmt.Sprintf("%s is faster and goes first!", playerTeam[0].Name)
	if playerTeam[0].Speed < botTeam[0].Speed {
		first = TurnBot
		speedLine = fmt.Sprintf("%s is faster and goes first!", botTeam[0].Name)
	}

	state := &BattleState{
		PlayerTeam:           playerTeam,
		BotTeam:              botTeam,
		CurrentPlayerPokemon: 0,
		CurrentBotPokemon:    0,
		Turn:                 first,
		BattleLog: []string{
			"Battle started!",
			fmt.Sprintf("%s vs %s!", playerTeam[0].Name, botTeam[0].Name),
			speedLine,
		},
		IsGameOver: false,
	}

	doc, err := database.NewDocument(state)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("encode battle state: %w", err)
	}
	battle := &database.Battle{
		ID:           uuid.New(),
		UserID:       userID,
		OpponentType: "bot",
		State:        doc,
		Completed:    false,
	}
	if err := e.store.CreateBattleRecord(ctx, battle); err != nil {
		return nil, uuid.Nil, fmt.Errorf("persist battle: %w", err)
	}

	return state, battle.ID, nil
}

// CurrentBattle returns the user's in-progress battle state.
func (e *Engine) CurrentBattle(ctx context.Context, userID uuid.UUID) (*BattleState, uuid.UUID, error) {
	battle, state, err := e.loadActive(ctx, userID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return state, battle.ID, nil
}

// PerformMove resolves one full cycle: the player's chosen move, any bot
// faint/switch, then the bot's reply and any player faint/switch. Every
// exit path persists the state it returns.
func (e *Engine) PerformMove(ctx context.Context, userID uuid.UUID, moveIndex int) (*BattleState, error) {
	battle, state, err := e.loadActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	if state.IsGameOver {
		return nil, &GameOverError{}
	}
	if state.Turn != TurnPlayer {
		return nil, &NotYourTurnError{}
	}

	player := state.ActivePlayer()
	if moveIndex < 0 || moveIndex >= len(player.Moves) {
		return nil, &InvalidMoveError{Index: moveIndex}
	}
	move := &player.Moves[moveIndex]
	if move.CurrentPP <= 0 {
		return nil, &InvalidMoveError{Index: moveIndex}
	}

	// Player half-turn.
	e.applyMove(state, player, state.ActiveBot(), move)

	if state.ActiveBot().Fainted() {
		state.log(fmt.Sprintf("%s fainted!", state.ActiveBot().Name))
		next := nextAlive(state.BotTeam, state.CurrentBotPokemon)
		if next == -1 {
			return state, e.conclude(ctx, battle, state, TurnPlayer, userID)
		}
		state.CurrentBotPokemon = next
		state.log(fmt.Sprintf("Bot sent out %s!", state.BotTeam[next].Name))
	}

	// Bot half-turn. A freshly switched-in bot acts in the same cycle.
	state.Turn = TurnBot

	bot := state.ActiveBot()
	available := make([]int, 0, len(bot.Moves))
	for i, m := range bot.Moves {
		if m.CurrentPP > 0 {
			available = append(available, i)
		}
	}
	if len(available) > 0 {
		botMove := &bot.Moves[available[e.rng.Intn(len(available))]]
		e.applyMove(state, bot, state.ActivePlayer(), botMove)

		if state.ActivePlayer().Fainted() {
			state.log(fmt.Sprintf("%s fainted!", state.ActivePlayer().Name))
			next := nextAlive(state.PlayerTeam, state.CurrentPlayerPokemon)
			if next == -1 {
				return state, e.conclude(ctx, battle, state, TurnBot, userID)
			}
			state.CurrentPlayerPokemon = next
			state.log(fmt.Sprintf("You sent out %s!", state.PlayerTeam[next].Name))
		}
	}

	state.Turn = TurnPlayer

	if err := e.persist(ctx, battle, state); err != nil {
		return nil, err
	}
	return state, nil
}

// applyMove deals damage, spends PP and writes the log lines for one move
// use. Effectiveness commentary only appears when the move actually did
// damage.
func (e *Engine) applyMove(state *BattleState, attacker, defender *BattlePokemon, move *BattleMove) {
	damage := CalculateDamage(attacker, defender, *move, e.rng)
	defender.CurrentHP -= damage
	if defender.CurrentHP < 0 {
		defender.CurrentHP = 0
	}
	move.CurrentPP--

	state.log(fmt.Sprintf("%s used %s!", attacker.Name, move.Name))

	if damage > 0 {
		effectiveness := Effectiveness(move.Type, defender.Types)
		switch {
		case effectiveness > 1:
			state.log("It's super effective!")
		case effectiveness < 1 && effectiveness > 0:
			state.log("It's not very effective...")
		case effectiveness == 0:
			state.log("It had no effect!")
		}
		state.log(fmt.Sprintf("%s took %d damage!", defender.Name, damage))
	}
}

// conclude marks the battle finished, records the result, and persists the
// terminal state.
func (e *Engine) conclude(ctx context.Context, battle *database.Battle, state *BattleState, winner Turn, userID uuid.UUID) error {
	state.IsGameOver = true
	state.Winner = winner
	if winner == TurnPlayer {
		state.log("You won the battle!")
	} else {
		state.log("You lost the battle!")
	}

	if err := e.tracker.RecordResult(ctx, userID, winner == TurnPlayer); err != nil {
		return fmt.Errorf("record battle result: %w", err)
	}

	battle.Winner = string(winner)
	battle.Completed = true
	return e.persist(ctx, battle, state)
}

func (e *Engine) persist(ctx context.Context, battle *database.Battle, state *BattleState) error {
	doc, err := database.NewDocument(state)
	if err != nil {
		return fmt.Errorf("encode battle state: %w", err)
	}
	battle.State = doc
	if err := e.store.UpdateBattleRecord(ctx, battle); err != nil {
		return fmt.Errorf("persist battle: %w", err)
	}
	return nil
}

func (e *Engine) loadActive(ctx context.Context, userID uuid.UUID) (*database.Battle, *BattleState, error) {
	battle, err := e.store.ActiveBattle(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load active battle: %w", err)
	}
	if battle == nil {
		return nil, nil, &NoActiveBattleError{}
	}
	var state BattleState
	if err := battle.State.Decode(&state); err != nil {
		return nil, nil, fmt.Errorf("decode battle state: %w", err)
	}
	return battle, &state, nil
}
