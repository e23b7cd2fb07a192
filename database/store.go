package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// The methods below are the persistence surface consumed by the battle
// engine, the draw allocator and the statistics tracker. Reads go through
// the read resolver, writes through the write resolver. "Not found" is
// reported as a nil row with a nil error so callers can separate absence
// from infrastructure failure.

// SpeciesByPokeAPIID returns one species with its types, or nil when the
// catalog has no such entry.
func (d *Database) SpeciesByPokeAPIID(ctx context.Context, pokeAPIID int) (*Species, error) {
	var species Species
	err := d.DB.Clauses(dbresolver.Read).WithContext(ctx).
		Where("poke_api_id = ?", pokeAPIID).
		Preload("Types", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }).
		First(&species).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &species, nil
}

// SpeciesCount returns the size of the imported catalog.
func (d *Database) SpeciesCount(ctx context.Context) (int64, error) {
	var count int64
	err := d.DB.Clauses(dbresolver.Read).WithContext(ctx).
		Model(&Species{}).Count(&count).Error
	return count, err
}

// SpeciesAt returns the species at the given offset in catalog order.
// Random selection is done by the caller picking a random offset.
func (d *Database) SpeciesAt(ctx context.Context, offset int) (*Species, error) {
	var species Species
	err := d.DB.Clauses(dbresolver.Read).WithContext(ctx).
		Order("poke_api_id ASC").
		Offset(offset).
		Preload("Types", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }).
		First(&species).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &species, nil
}

// ListSpecies returns one page of the catalog plus the total count.
func (d *Database) ListSpecies(ctx context.Context, offset, limit int) ([]Species, int64, error) {
	var total int64
	tx := d.DB.Clauses(dbresolver.Read).WithContext(ctx)
	if err := tx.Model(&Species{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []Species
	err := tx.
		Order("poke_api_id ASC").
		Offset(offset).
		Limit(limit).
		Preload("Types", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// OwnedCard returns the user's collection entry for a species, or nil when
// the user does not own it.
func (d *Database) OwnedCard(ctx context.Context, userID, speciesID uuid.UUID) (*CollectionEntry, error) {
	var entry CollectionEntry
	err := d.DB.Clauses(dbresolver.Read).WithContext(ctx).
		Where("user_id = ? AND species_id = ?", userID, speciesID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveOwnedCard inserts or updates a collection entry.
func (d *Database) SaveOwnedCard(ctx context.Context, entry *CollectionEntry) error {
	return d.DB.Clauses(dbresolver.Write).WithContext(ctx).Save(entry).Error
}

// Collection returns every card the user owns, most recently drawn first.
func (d *Database) Collection(ctx context.Context, userID uuid.UUID) ([]CollectionEntry, error) {
	var entries []CollectionEntry
	err := d.DB.Clauses(dbresolver.Read).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_drawn_at DESC").
		Preload("Species").
		Preload("Species.Types", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }).
		Find(&entries).Error
	return entries, err
}

// ActiveBattle returns the user's single in-progress battle, oldest first,
// or nil when none exists.
func (d *Database) ActiveBattle(ctx context.Context, userID uuid.UUID) (*Battle, error) {
	var battle Battle
	err := d.DB.Clauses(dbresolver.Read).WithContext(ctx).
		Where("user_id = ? AND completed = ?", userID, false).
		Order("created_at ASC").
		First(&battle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &battle, nil
}

// CreateBattleRecord persists a new battle row.
func (d *Database) CreateBattleRecord(ctx context.Context, battle *Battle) error {
	return d.DB.Clauses(dbresolver.Write).WithContext(ctx).Create(battle).Error
}

// UpdateBattleRecord persists the battle's current state blob and
// completion flags.
func (d *Database) UpdateBattleRecord(ctx context.Context, battle *Battle) error {
	return d.DB.Clauses(dbresolver.Write).WithContext(ctx).Save(battle).Error
}

// DailyDrawFor returns the user's draw record inside the day window, or nil
// when the user has not drawn yet that day.
func (d *Database) DailyDrawFor(ctx context.Context, userID uuid.UUID, from, to time.Time) (*DailyDraw, error) {
	var record DailyDraw
	err := d.DB.Clauses(dbresolver.Read).WithContext(ctx).
		Where("user_id = ? AND draw_date >= ? AND draw_date < ?", userID, from, to).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// SaveDailyDraw inserts or updates a daily draw record.
func (d *Database) SaveDailyDraw(ctx context.Context, record *DailyDraw) error {
	return d.DB.Clauses(dbresolver.Write).WithContext(ctx).Save(record).Error
}

// StatisticsFor returns the user's battle statistics, or nil before their
// first concluded battle.
func (d *Database) StatisticsFor(ctx context.Context, userID uuid.UUID) (*BattleStatistics, error) {
	var stats BattleStatistics
	err := d.DB.Clauses(dbresolver.Read).WithContext(ctx).
		Where("user_id = ?", userID).
		First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// SaveStatistics inserts or updates a statistics row.
func (d *Database) SaveStatistics(ctx context.Context, stats *BattleStatistics) error {
	return d.DB.Clauses(dbresolver.Write).WithContext(ctx).Save(stats).Error
}

// TopRatings returns the highest rated users, for leaderboard refreshes.
func (d *Database) TopRatings(ctx context.Context, limit int) ([]BattleStatistics, error) {
	var rows []BattleStatistics
	err := d.DB.Clauses(dbresolver.Read).WithContext(ctx).
		Order("rating DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
