package draw

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/fcendesu/poke-deck/config"
	"github.com/fcendesu/poke-deck/database"
	"github.com/google/uuid"
)

const (
	dailyCap  = config.DAILY_DRAW_CAP
	batchSize = config.DRAW_BATCH_SIZE
)

// Store is the persistence surface of the draw allocator.
type Store interface {
	SpeciesCount(ctx context.Context) (int64, error)
	SpeciesAt(ctx context.Context, offset int) (*database.Species, error)
	OwnedCard(ctx context.Context, userID, speciesID uuid.UUID) (*database.CollectionEntry, error)
	SaveOwnedCard(ctx context.Context, entry *database.CollectionEntry) error
	DailyDrawFor(ctx context.Context, userID uuid.UUID, from, to time.Time) (*database.DailyDraw, error)
	SaveDailyDraw(ctx context.Context, record *database.DailyDraw) error
}

// DrawnCard is one card handed out by a draw, flagged when the user had
// never owned the species before.
type DrawnCard struct {
	Species  database.Species `json:"species"`
	IsNew    bool             `json:"isNew"`
	Quantity int              `json:"quantity"`
}

// Result reports one draw request. Success is false only when the daily
// quota was already exhausted.
type Result struct {
	Success        bool        `json:"success"`
	Message        string      `json:"message"`
	Cards          []DrawnCard `json:"cards"`
	NewCards       []DrawnCard `json:"newCards"`
	CardsDrawn     int         `json:"cardsDrawn"`
	RemainingDraws int         `json:"remainingDraws"`
}

// Status is the read-only view of today's quota.
type Status struct {
	CardsDrawn     int  `json:"cardsDrawn"`
	RemainingDraws int  `json:"remainingDraws"`
	CanDraw        bool `json:"canDraw"`
}

// Allocator hands out random cards against a per-user daily quota. The
// clock is injectable so tests can pin the day boundary. Callers must
// serialize draws per user: the quota row and the collection entries are
// written without a shared transaction, so concurrent draws for one user
// could exceed the cap or lose a quantity increment.
type Allocator struct {
	store Store
	rng   *rand.Rand
	now   func() time.Time
}

func NewAllocator(store Store, rng *rand.Rand) *Allocator {
	return &Allocator{store: store, rng: rng, now: time.Now}
}

// dayWindow returns the local-midnight bounds of the current draw day.
func (a *Allocator) dayWindow() (time.Time, time.Time) {
	now := a.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.Add(24 * time.Hour)
}

// Draw hands out the next batch of random cards, up to the daily cap. A
// partial batch is handed out when fewer than a full batch remains.
func (a *Allocator) Draw(ctx context.Context, userID uuid.UUID) (*Result, error) {
	from, to := a.dayWindow()
	record, err := a.store.DailyDrawFor(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load daily draw: %w", err)
	}
	if record == nil {
		record = &database.DailyDraw{
			ID:       uuid.New(),
			UserID:   userID,
			DrawDate: from,
		}
	}

	remaining := dailyCap - record.CardsDrawn
	if remaining <= 0 {
		return &Result{
			Success:  false,
			Message:  "You've reached your daily draw limit. Come back tomorrow!",
			Cards:    []DrawnCard{},
			NewCards: []DrawnCard{},
		}, nil
	}
	batch := batchSize
	if batch > remaining {
		batch = remaining
	}

	count, err := a.store.SpeciesCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("count species: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("species catalog is empty")
	}

	now := a.now()
	cards := make([]DrawnCard, 0, batch)
	newCards := make([]DrawnCard, 0, batch)
	for i := 0; i < batch; i++ {
		species, err := a.store.SpeciesAt(ctx, a.rng.Intn(int(count)))
		if err != nil {
			return nil, fmt.Errorf("sample species: %w", err)
		}
		if species == nil {
			return nil, fmt.Errorf("species catalog changed mid-draw")
		}

		entry, err := a.store.OwnedCard(ctx, userID, species.ID)
		if err != nil {
			return nil, fmt.Errorf("load collection entry: %w", err)
		}
		isNew := entry == nil
		if isNew {
			entry = &database.CollectionEntry{
				ID:        uuid.New(),
				UserID:    userID,
				SpeciesID: species.ID,
			}
		}
		entry.Quantity++
		entry.LastDrawnAt = now
		if err := a.store.SaveOwnedCard(ctx, entry); err != nil {
			return nil, fmt.Errorf("save collection entry: %w", err)
		}

		card := DrawnCard{Species: *species, IsNew: isNew, Quantity: entry.Quantity}
		cards = append(cards, card)
		if isNew {
			newCards = append(newCards, card)
		}
	}

	record.CardsDrawn += batch
	if err := a.store.SaveDailyDraw(ctx, record); err != nil {
		return nil, fmt.Errorf("save daily draw: %w", err)
	}

	return &Result{
		Success:        true,
		Message:        fmt.Sprintf("You drew %d cards!", batch),
		Cards:          cards,
		NewCards:       newCards,
		CardsDrawn:     batch,
		RemainingDraws: dailyCap - record.CardsDrawn,
	}, nil
}

// StatusFor reports today's quota without consuming any of it.
func (a *Allocator) StatusFor(ctx context.Context, userID uuid.UUID) (*Status, error) {
	from, to := a.dayWindow()
	record, err := a.store.DailyDrawFor(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load daily draw: %w", err)
	}
	drawn := 0
	if record != nil {
		drawn = record.CardsDrawn
	}
	remaining := dailyCap - drawn
	if remaining < 0 {
		remaining = 0
	}
	return &Status{
		CardsDrawn:     drawn,
		RemainingDraws: remaining,
		CanDraw:        remaining > 0,
	}, nil
}
