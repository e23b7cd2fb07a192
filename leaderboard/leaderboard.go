package leaderboard

import (
	"context"
	"fmt"

	"github.com/fcendesu/poke-deck/config"
	"github.com/fcendesu/poke-deck/database"
	"github.com/fcendesu/poke-deck/logger"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const ratingKey = "leaderboard:rating"

// Entry is one ranked row of the leaderboard.
type Entry struct {
	Rank   int       `json:"rank"`
	UserID uuid.UUID `json:"userId"`
	Rating int       `json:"rating"`
}

// Leaderboard keeps battle ratings in a redis sorted set for cheap ranked
// reads. It satisfies battle.Ranker.
type Leaderboard struct {
	client *redis.Client
}

// New connects to redis and verifies the connection.
func New(ctx context.Context, cfg config.ConfigRedis) (*Leaderboard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Address, err)
	}
	return &Leaderboard{client: client}, nil
}

func (l *Leaderboard) Close() error {
	return l.client.Close()
}

// UpdateRating writes the user's current rating into the sorted set.
func (l *Leaderboard) UpdateRating(ctx context.Context, userID uuid.UUID, rating int) error {
	err := l.client.ZAdd(ctx, ratingKey, &redis.Z{
		Score:  float64(rating),
		Member: userID.String(),
	}).Err()
	if err != nil {
		return fmt.Errorf("update rating for %s: %w", userID, err)
	}
	return nil
}

// Top returns the highest-rated users, best first.
func (l *Leaderboard) Top(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := l.client.ZRevRangeWithScores(ctx, ratingKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		member, ok := row.Member.(string)
		if !ok {
			continue
		}
		userID, err := uuid.Parse(member)
		if err != nil {
			logger.Sugar().Warnw("skipping malformed leaderboard member", "member", member)
			continue
		}
		entries = append(entries, Entry{
			Rank:   i + 1,
			UserID: userID,
			Rating: int(row.Score),
		})
	}
	return entries, nil
}

// Rank returns the user's 1-based position, or 0 for an unranked user.
func (l *Leaderboard) Rank(ctx context.Context, userID uuid.UUID) (int, error) {
	rank, err := l.client.ZRevRank(ctx, ratingKey, userID.String()).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("rank for %s: %w", userID, err)
	}
	return int(rank) + 1, nil
}

// Rebuild replaces the sorted set from persisted statistics. Called at
// startup so redis restarts do not lose the board.
func (l *Leaderboard) Rebuild(ctx context.Context, stats []database.BattleStatistics) error {
	if err := l.client.Del(ctx, ratingKey).Err(); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	if len(stats) == 0 {
		return nil
	}
	members := make([]*redis.Z, 0, len(stats))
	for _, s := range stats {
		members = append(members, &redis.Z{
			Score:  float64(s.Rating),
			Member: s.UserID.String(),
		})
	}
	if err := l.client.ZAdd(ctx, ratingKey, members...).Err(); err != nil {
		return fmt.Errorf("rebuild leaderboard: %w", err)
	}
	logger.Sugar().Infow("leaderboard rebuilt", "entries", len(members))
	return nil
}
