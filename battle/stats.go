package battle

import (
	"context"
	"fmt"

	"github.com/fcendesu/poke-deck/config"
	"github.com/fcendesu/poke-deck/database"
	"github.com/google/uuid"
)

// StatsStore persists per-user battle statistics.
type StatsStore interface {
	StatisticsFor(ctx context.Context, userID uuid.UUID) (*database.BattleStatistics, error)
	SaveStatistics(ctx context.Context, stats *database.BattleStatistics) error
}

// Ranker is notified whenever a rating changes. The redis leaderboard
// implements it; a nil ranker disables ranking.
type Ranker interface {
	UpdateRating(ctx context.Context, userID uuid.UUID, rating int) error
}

// Tracker applies battle outcomes to a user's statistics row.
type Tracker struct {
	store  StatsStore
	ranker Ranker
}

func NewTracker(store StatsStore, ranker Ranker) *Tracker {
	return &Tracker{store: store, ranker: ranker}
}

// RecordResult updates counters, streaks and rating for one finished
// battle. The rating never drops below the floor.
func (t *Tracker) RecordResult(ctx context.Context, userID uuid.UUID, won bool) error {
	stats, err := t.store.StatisticsFor(ctx, userID)
	if err != nil {
		return fmt.Errorf("load statistics: %w", err)
	}
	if stats == nil {
		stats = &database.BattleStatistics{
			ID:     uuid.New(),
			UserID: userID,
			Rating: config.RATING_START,
		}
	}

	stats.TotalBattles++
	if won {
		stats.Wins++
		stats.WinStreak++
		if stats.WinStreak > stats.BestWinStreak {
			stats.BestWinStreak = stats.WinStreak
		}
		stats.Rating += config.RATING_WIN
	} else {
		stats.Losses++
		stats.WinStreak = 0
		stats.Rating -= config.RATING_LOSS
		if stats.Rating < config.RATING_FLOOR {
			stats.Rating = config.RATING_FLOOR
		}
	}

	if err := t.store.SaveStatistics(ctx, stats); err != nil {
		return fmt.Errorf("save statistics: %w", err)
	}

	if t.ranker != nil {
		if err := t.ranker.UpdateRating(ctx, userID, stats.Rating); err != nil {
			return fmt.Errorf("update leaderboard: %w", err)
		}
	}
	return nil
}

// For returns the user's statistics, synthesizing an empty row for users
// who have never battled.
func (t *Tracker) For(ctx context.Context, userID uuid.UUID) (*database.BattleStatistics, error) {
	stats, err := t.store.StatisticsFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load statistics: %w", err)
	}
	if stats == nil {
		stats = &database.BattleStatistics{
			UserID: userID,
			Rating: config.RATING_START,
		}
	}
	return stats, nil
}
