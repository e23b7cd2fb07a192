package battle

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/fcendesu/poke-deck/config"
	"github.com/fcendesu/poke-deck/database"
	"github.com/google/uuid"
)

type fakeStore struct {
	species []database.Species
	owned   map[uuid.UUID]map[uuid.UUID]bool
	battles []*database.Battle
	stats   map[uuid.UUID]*database.BattleStatistics
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		owned: make(map[uuid.UUID]map[uuid.UUID]bool),
		stats: make(map[uuid.UUID]*database.BattleStatistics),
	}
}

func (f *fakeStore) addSpecies(pokeAPIID int, name string, hp, attack, defense, speed int, types ...string) database.Species {
	species := database.Species{
		ID:        uuid.New(),
		PokeAPIID: pokeAPIID,
		Name:      name,
		HP:        hp,
		Attack:    attack,
		Defense:   defense,
		Speed:     speed,
	}
	for slot, t := range types {
		species.Types = append(species.Types, database.SpeciesType{Slot: slot + 1, Name: t})
	}
	f.species = append(f.species, species)
	return species
}

func (f *fakeStore) grant(userID uuid.UUID, speciesID uuid.UUID) {
	if f.owned[userID] == nil {
		f.owned[userID] = make(map[uuid.UUID]bool)
	}
	f.owned[userID][speciesID] = true
}

func (f *fakeStore) SpeciesByPokeAPIID(_ context.Context, pokeAPIID int) (*database.Species, error) {
	for i := range f.species {
		if f.species[i].PokeAPIID == pokeAPIID {
			return &f.species[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) SpeciesCount(_ context.Context) (int64, error) {
	return int64(len(f.species)), nil
}

func (f *fakeStore) SpeciesAt(_ context.Context, offset int) (*database.Species, error) {
	if offset < 0 || offset >= len(f.species) {
		return nil, nil
	}
	return &f.species[offset], nil
}

func (f *fakeStore) OwnedCard(_ context.Context, userID, speciesID uuid.UUID) (*database.CollectionEntry, error) {
	if f.owned[userID][speciesID] {
		return &database.CollectionEntry{UserID: userID, SpeciesID: speciesID, Quantity: 1}, nil
	}
	return nil, nil
}

func (f *fakeStore) ActiveBattle(_ context.Context, userID uuid.UUID) (*database.Battle, error) {
	for _, b := range f.battles {
		if b.UserID == userID && !b.Completed {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateBattleRecord(_ context.Context, battle *database.Battle) error {
	f.battles = append(f.battles, battle)
	return nil
}

func (f *fakeStore) UpdateBattleRecord(_ context.Context, battle *database.Battle) error {
	for i, b := range f.battles {
		if b.ID == battle.ID {
			f.battles[i] = battle
			return nil
		}
	}
	return errors.New("battle not found")
}

func (f *fakeStore) StatisticsFor(_ context.Context, userID uuid.UUID) (*database.BattleStatistics, error) {
	return f.stats[userID], nil
}

func (f *fakeStore) SaveStatistics(_ context.Context, stats *database.BattleStatistics) error {
	f.stats[stats.UserID] = stats
	return nil
}

// seedCatalog fills the store with a small catalog and grants the first
// three species to the user. The owned species are fast so the player's
// lead always moves first.
func seedCatalog(store *fakeStore, userID uuid.UUID) []int {
	owned := []database.Species{
		store.addSpecies(25, "pikachu", 35, 55, 40, 150, "electric"),
		store.addSpecies(4, "charmander", 39, 52, 43, 150, "fire"),
		store.addSpecies(7, "squirtle", 44, 48, 65, 150, "water"),
	}
	store.addSpecies(1, "bulbasaur", 45, 49, 49, 45, "grass", "poison")
	store.addSpecies(19, "rattata", 30, 56, 35, 72, "normal")
	store.addSpecies(92, "gastly", 30, 35, 30, 80, "ghost", "poison")

	ids := make([]int, 0, len(owned))
	for _, s := range owned {
		store.grant(userID, s.ID)
		ids = append(ids, s.PokeAPIID)
	}
	return ids
}

func newTestEngine(store *fakeStore, seed int64) *Engine {
	return NewEngine(store, NewTracker(store, nil), rand.New(rand.NewSource(seed)))
}

func TestCreateBattle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	userID := uuid.New()
	ids := seedCatalog(store, userID)
	engine := newTestEngine(store, 1)

	state, battleID, err := engine.CreateBattle(ctx, userID, ids)
	if err != nil {
		t.Fatalf("CreateBattle: %v", err)
	}
	if battleID == uuid.Nil {
		t.Fatal("battle id is nil")
	}
	if len(state.PlayerTeam) != 3 || len(state.BotTeam) != 3 {
		t.Fatalf("team sizes %d vs %d, want 3v3", len(state.PlayerTeam), len(state.BotTeam))
	}
	if state.Turn != TurnPlayer {
		t.Fatalf("turn = %q, want player (faster lead)", state.Turn)
	}
	if state.IsGameOver {
		t.Fatal("fresh battle is already over")
	}
	if got := state.BattleLog[0]; got != "Battle started!" {
		t.Fatalf("first log line %q", got)
	}
	if len(state.BattleLog) != 3 {
		t.Fatalf("opening log has %d lines, want 3", len(state.BattleLog))
	}
	for _, p := range state.PlayerTeam {
		if p.CurrentHP != p.MaxHP {
			t.Fatalf("%s starts at %d/%d HP", p.Name, p.CurrentHP, p.MaxHP)
		}
		if len(p.Moves) != config.MOVES_PER_POKEMON {
			t.Fatalf("%s has %d moves", p.Name, len(p.Moves))
		}
	}

	persisted, err := store.ActiveBattle(ctx, userID)
	if err != nil || persisted == nil {
		t.Fatalf("no persisted active battle (err %v)", err)
	}
	if persisted.OpponentType != "bot" {
		t.Fatalf("opponent type %q", persisted.OpponentType)
	}
	var decoded BattleState
	if err := persisted.State.Decode(&decoded); err != nil {
		t.Fatalf("decode persisted state: %v", err)
	}
	if decoded.Turn != state.Turn || len(decoded.PlayerTeam) != 3 {
		t.Fatal("persisted state does not match returned state")
	}
}

func TestCreateBattleValidation(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	userID := uuid.New()
	ids := seedCatalog(store, userID)
	engine := newTestEngine(store, 1)

	if _, _, err := engine.CreateBattle(ctx, userID, ids[:2]); err == nil {
		t.Fatal("short team accepted")
	} else {
		var sizeErr *InvalidTeamSizeError
		if !errors.As(err, &sizeErr) || sizeErr.Size != 2 {
			t.Fatalf("got %v, want InvalidTeamSizeError{2}", err)
		}
	}

	if _, _, err := engine.CreateBattle(ctx, userID, []int{ids[0], ids[1], 9999}); err == nil {
		t.Fatal("unknown species accepted")
	} else {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) || notFound.PokeAPIID != 9999 {
			t.Fatalf("got %v, want NotFoundError{9999}", err)
		}
	}

	// bulbasaur exists but was never drawn by this user
	if _, _, err := engine.CreateBattle(ctx, userID, []int{ids[0], ids[1], 1}); err == nil {
		t.Fatal("unowned species accepted")
	} else {
		var notOwned *NotOwnedError
		if !errors.As(err, &notOwned) || notOwned.PokeAPIID != 1 {
			t.Fatalf("got %v, want NotOwnedError{1}", err)
		}
	}
}

func TestCreateBattleRejectsSecondActive(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	userID := uuid.New()
	ids := seedCatalog(store, userID)
	engine := newTestEngine(store, 1)

	if _, _, err := engine.CreateBattle(ctx, userID, ids); err != nil {
		t.Fatalf("first CreateBattle: %v", err)
	}
	_, _, err := engine.CreateBattle(ctx, userID, ids)
	var active *ActiveBattleError
	if !errors.As(err, &active) {
		t.Fatalf("second CreateBattle returned %v, want ActiveBattleError", err)
	}

	// Another user is unaffected.
	otherID := uuid.New()
	for _, s := range store.species[:3] {
		store.grant(otherID, s.ID)
	}
	if _, _, err := engine.CreateBattle(ctx, otherID, ids); err != nil {
		t.Fatalf("other user's CreateBattle: %v", err)
	}
}

// plantBattle persists a hand-built state as the user's active battle.
func plantBattle(t *testing.T, store *fakeStore, userID uuid.UUID, state *BattleState) *database.Battle {
	t.Helper()
	doc, err := database.NewDocument(state)
	if err != nil {
		t.Fatalf("encode state: %v", err)
	}
	battle := &database.Battle{
		ID:           uuid.New(),
		UserID:       userID,
		OpponentType: "bot",
		State:        doc,
	}
	store.battles = append(store.battles, battle)
	return battle
}

func testCombatant(name string, hp int, types ...string) BattlePokemon {
	if len(types) == 0 {
		types = []string{"normal"}
	}
	return BattlePokemon{
		SpeciesID: uuid.New(),
		Name:      name,
		CurrentHP: hp,
		MaxHP:     120,
		Attack:    50,
		Defense:   50,
		Speed:     50,
		Types:     types,
		Moves: []BattleMove{
			{Name: "Tackle", Type: "normal", Power: 40, Accuracy: 100, PP: 35, CurrentPP: 35},
			{Name: "Growl", Type: "normal", Power: 0, Accuracy: 100, PP: 40, CurrentPP: 40},
		},
	}
}

func midBattleState(playerHP, botHP [3]int) *BattleState {
	state := &BattleState{
		Turn:      TurnPlayer,
		BattleLog: []string{"Battle started!"},
	}
	for i, hp := range playerHP {
		state.PlayerTeam = append(state.PlayerTeam, testCombatant("player-"+string(rune('a'+i)), hp))
	}
	for i, hp := range botHP {
		state.BotTeam = append(state.BotTeam, testCombatant("bot-"+string(rune('a'+i)), hp))
	}
	return state
}

func TestPerformMoveCycle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	userID := uuid.New()
	engine := newTestEngine(store, 3)

	plantBattle(t, store, userID, midBattleState([3]int{120, 120, 120}, [3]int{120, 120, 120}))

	state, err := engine.PerformMove(ctx, userID, 0)
	if err != nil {
		t.Fatalf("PerformMove: %v", err)
	}
	if state.Turn != TurnPlayer {
		t.Fatalf("turn after full cycle = %q, want player", state.Turn)
	}
	if state.ActiveBot().CurrentHP >= 120 {
		t.Fatal("bot took no damage")
	}
	if got := state.ActivePlayer().Moves[0].CurrentPP; got != 34 {
		t.Fatalf("player PP after one use = %d, want 34", got)
	}
	botPP := state.ActiveBot().Moves[0].CurrentPP + state.ActiveBot().Moves[1].CurrentPP
	if botPP != 35+40-1 {
		t.Fatalf("bot spent %d PP, want exactly 1", 35+40-botPP)
	}
	joined := strings.Join(state.BattleLog, "\n")
	if !strings.Contains(joined, "player-a used Tackle!") {
		t.Fatalf("log missing player move line:\n%s", joined)
	}
	if !strings.Contains(joined, "took") {
		t.Fatalf("log missing damage line:\n%s", joined)
	}
}

func TestPerformMoveValidation(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	userID := uuid.New()
	engine := newTestEngine(store, 3)

	var noBattle *NoActiveBattleError
	if _, err := engine.PerformMove(ctx, userID, 0); !errors.As(err, &noBattle) {
		t.Fatalf("no battle: got %v, want NoActiveBattleError", err)
	}

	state := midBattleState([3]int{120, 120, 120}, [3]int{120, 120, 120})
	state.PlayerTeam[0].Moves[0].CurrentPP = 0
	plantBattle(t, store, userID, state)

	var invalid *InvalidMoveError
	if _, err := engine.PerformMove(ctx, userID, 5); !errors.As(err, &invalid) {
		t.Fatalf("out-of-range index: got %v, want InvalidMoveError", err)
	}
	if _, err := engine.PerformMove(ctx, userID, -1); !errors.As(err, &invalid) {
		t.Fatalf("negative index: got %v, want InvalidMoveError", err)
	}
	if _, err := engine.PerformMove(ctx, userID, 0); !errors.As(err, &invalid) {
		t.Fatalf("exhausted PP: got %v, want InvalidMoveError", err)
	}
}

func TestPerformMoveRejectsOutOfTurn(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	userID := uuid.New()
	engine := newTestEngine(store, 3)

	state := midBattleState([3]int{120, 120, 120}, [3]int{120, 120, 120})
	state.Turn = TurnBot
	plantBattle(t, store, userID, state)

	var notYourTurn *NotYourTurnError
	if _, err := engine.PerformMove(ctx, userID, 0); !errors.As(err, &notYourTurn) {
		t.Fatalf("got %v, want NotYourTurnError", err)
	}
}

func TestPerformMoveRejectsFinishedState(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	userID := uuid.New()
	engine := newTestEngine(store, 3)

	state := midBattleState([3]int{120, 120, 120}, [3]int{120, 120, 120})
	state.IsGameOver = true
	state.Winner = TurnPlayer
	plantBattle(t, store, userID, state)

	var gameOver *GameOverError
	if _, err := engine.PerformMove(ctx, userID, 0); !errors.As(err, &gameOver) {
		t.Fatalf("got %v, want GameOverError", err)
	}
}

func TestPerformMoveBotFaintAndSwitch(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	userID := uuid.New()
	engine := newTestEngine(store, 3)

	plantBattle(t, store, userID, midBattleState([3]int{120, 120, 120}, [3]int{1, 120, 120}))

	state, err := engine.PerformMove(ctx, userID, 0)
	if err != nil {
		t.Fatalf("PerformMove: %v", err)
	}
	if state.CurrentBotPokemon != 1 {
		t.Fatalf("active bot index %d, want 1", state.CurrentBotPokemon)
	}
	joined := strings.Join(state.BattleLog, "\n")
	if !strings.Contains(joined, "bot-a fainted!") {
		t.Fatalf("log missing faint line:\n%s", joined)
	}
	if !strings.Contains(joined, "Bot sent out bot-b!") {
		t.Fatalf("log missing switch line:\n%s", joined)
	}
	// The replacement acts in the same cycle.
	if state.ActivePlayer().CurrentHP == 120 && !strings.Contains(joined, "bot-b used") {
		t.Fatalf("replacement bot never acted:\n%s", joined)
	}
}

func TestPerformMoveBotSkipsWithNoPP(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	userID := uuid.New()
	engine := newTestEngine(store, 3)

	state := midBattleState([3]int{120, 120, 120}, [3]int{120, 120, 120})
	for i := range state.BotTeam[0].Moves {
		state.BotTeam[0].Moves[i].CurrentPP = 0
	}
	plantBattle(t, store, userID, state)

	result, err := engine.PerformMove(ctx, userID, 0)
	if err != nil {
		t.Fatalf("PerformMove: %v", err)
	}
	if got := result.ActivePlayer().CurrentHP; got != 120 {
		t.Fatalf("player HP %d after exhausted bot, want untouched 120", got)
	}
	joined := strings.Join(result.BattleLog, "\n")
	if strings.Contains(joined, "bot-a used") {
		t.Fatalf("exhausted bot still acted:\n%s", joined)
	}
	if result.Turn != TurnPlayer {
		t.Fatalf("turn %q, want player", result.Turn)
	}
}

func TestPerformMoveWinUpdatesStatistics(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	userID := uuid.New()
	engine := newTestEngine(store, 3)

	battle := plantBattle(t, store, userID, midBattleState([3]int{120, 120, 120}, [3]int{1, 0, 0}))

	state, err := engine.PerformMove(ctx, userID, 0)
	if err != nil {
		t.Fatalf("PerformMove: %v", err)
	}
	if !state.IsGameOver || state.Winner != TurnPlayer {
		t.Fatalf("game over %v winner %q, want player win", state.IsGameOver, state.Winner)
	}
	if got := state.BattleLog[len(state.BattleLog)-1]; got != "You won the battle!" {
		t.Fatalf("final log line %q", got)
	}
	if !battle.Completed || battle.Winner != "player" {
		t.Fatalf("record completed=%v winner=%q", battle.Completed, battle.Winner)
	}

	stats := store.stats[userID]
	if stats == nil {
		t.Fatal("no statistics row created")
	}
	if stats.TotalBattles != 1 || stats.Wins != 1 || stats.WinStreak != 1 {
		t.Fatalf("stats %+v", stats)
	}
	if stats.Rating != config.RATING_START+config.RATING_WIN {
		t.Fatalf("rating %d, want %d", stats.Rating, config.RATING_START+config.RATING_WIN)
	}

	// The finished battle is no longer active.
	var noBattle *NoActiveBattleError
	if _, err := engine.PerformMove(ctx, userID, 0); !errors.As(err, &noBattle) {
		t.Fatalf("move after win: got %v, want NoActiveBattleError", err)
	}
}

func TestPerformMoveLossUpdatesStatistics(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	userID := uuid.New()
	engine := newTestEngine(store, 3)

	// The player's last combatant hangs on at 1 HP against a full-health
	// wall; the bot's reply always lands for at least 1.
	state := midBattleState([3]int{1, 0, 0}, [3]int{120, 120, 120})
	state.BotTeam[0].Defense = 600
	state.BotTeam[0].Moves = state.BotTeam[0].Moves[:1]
	plantBattle(t, store, userID, state)

	result, err := engine.PerformMove(ctx, userID, 0)
	if err != nil {
		t.Fatalf("PerformMove: %v", err)
	}
	if !result.IsGameOver || result.Winner != TurnBot {
		t.Fatalf("game over %v winner %q, want bot win", result.IsGameOver, result.Winner)
	}
	if got := result.BattleLog[len(result.BattleLog)-1]; got != "You lost the battle!" {
		t.Fatalf("final log line %q", got)
	}

	stats := store.stats[userID]
	if stats == nil || stats.Losses != 1 || stats.WinStreak != 0 {
		t.Fatalf("stats %+v", stats)
	}
	if stats.Rating != config.RATING_START-config.RATING_LOSS {
		t.Fatalf("rating %d, want %d", stats.Rating, config.RATING_START-config.RATING_LOSS)
	}
}

func TestPerformMovePlayerFaintSwitches(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	userID := uuid.New()
	engine := newTestEngine(store, 3)

	state := midBattleState([3]int{1, 120, 120}, [3]int{120, 120, 120})
	state.BotTeam[0].Defense = 600
	state.BotTeam[0].Moves = state.BotTeam[0].Moves[:1]
	plantBattle(t, store, userID, state)

	result, err := engine.PerformMove(ctx, userID, 0)
	if err != nil {
		t.Fatalf("PerformMove: %v", err)
	}
	if result.IsGameOver {
		t.Fatal("battle ended with player reserves alive")
	}
	if result.CurrentPlayerPokemon != 1 {
		t.Fatalf("active player index %d, want 1", result.CurrentPlayerPokemon)
	}
	joined := strings.Join(result.BattleLog, "\n")
	if !strings.Contains(joined, "player-a fainted!") {
		t.Fatalf("log missing faint line:\n%s", joined)
	}
	if !strings.Contains(joined, "You sent out player-b!") {
		t.Fatalf("log missing switch line:\n%s", joined)
	}
	if result.Turn != TurnPlayer {
		t.Fatalf("turn %q, want player", result.Turn)
	}
}

func TestCurrentBattle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	userID := uuid.New()
	engine := newTestEngine(store, 3)

	var noBattle *NoActiveBattleError
	if _, _, err := engine.CurrentBattle(ctx, userID); !errors.As(err, &noBattle) {
		t.Fatalf("got %v, want NoActiveBattleError", err)
	}

	planted := plantBattle(t, store, userID, midBattleState([3]int{120, 120, 120}, [3]int{120, 120, 120}))
	state, battleID, err := engine.CurrentBattle(ctx, userID)
	if err != nil {
		t.Fatalf("CurrentBattle: %v", err)
	}
	if battleID != planted.ID {
		t.Fatalf("battle id %s, want %s", battleID, planted.ID)
	}
	if len(state.PlayerTeam) != 3 {
		t.Fatalf("decoded team size %d", len(state.PlayerTeam))
	}
}
