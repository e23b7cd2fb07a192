package database

import (
	"time"

	"github.com/google/uuid"
)

// Species is an immutable Pokémon definition imported from the external
// catalog. Battle combatants are built from it; it is never mutated after
// import.
type Species struct {
	ID             uuid.UUID `gorm:"primarykey" json:"id"`
	PokeAPIID      int       `gorm:"index:uq_species_pokeapi,unique;not null" json:"pokeApiId"`
	Name           string    `gorm:"not null" json:"name"`
	BaseExperience int       `json:"baseExperience"`
	Height         int       `json:"height"`
	Weight         int       `json:"weight"`

	SpriteDefault         string `json:"spriteDefault"`
	SpriteShiny           string `json:"spriteShiny"`
	SpriteOfficialArtwork string `json:"spriteOfficialArtwork"`

	// Base stats. Zero means the catalog had no value; consumers fall back
	// to a default.
	HP      int `json:"hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`

	Types     []SpeciesType `gorm:"foreignKey:SpeciesID" json:"types"`
	CreatedAt time.Time     `json:"-"`
}

// TypeNames returns the species' 1-2 elemental types in slot order.
func (s Species) TypeNames() []string {
	names := make([]string, 0, len(s.Types))
	for _, t := range s.Types {
		names = append(names, t.Name)
	}
	return names
}

type SpeciesType struct {
	ID        uuid.UUID `gorm:"primarykey" json:"-"`
	SpeciesID uuid.UUID `gorm:"index:idx_species_type_species;not null" json:"-"`
	Slot      int       `gorm:"not null" json:"slot"`
	Name      string    `gorm:"not null" json:"name"`
}

// CollectionEntry records that a user owns one or more cards of a species.
// Quantity only ever grows.
type CollectionEntry struct {
	ID          uuid.UUID `gorm:"primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"index:uq_collection_user_species,unique;not null" json:"userId"`
	SpeciesID   uuid.UUID `gorm:"index:uq_collection_user_species,unique;not null" json:"-"`
	Species     *Species  `gorm:"foreignKey:SpeciesID" json:"species,omitempty"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	LastDrawnAt time.Time `gorm:"not null" json:"lastDrawnAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DailyDraw tracks how many cards a user has consumed on one calendar day.
// Created lazily on the first draw of the day.
type DailyDraw struct {
	ID         uuid.UUID `gorm:"primarykey" json:"id"`
	UserID     uuid.UUID `gorm:"index:idx_daily_draw_user;not null" json:"userId"`
	DrawDate   time.Time `gorm:"not null" json:"drawDate"`
	CardsDrawn int       `gorm:"not null" json:"cardsDrawn"`
	CreatedAt  time.Time `json:"-"`
}

// Battle is one battle session. The full turn state lives in the State blob;
// at most one incomplete battle exists per user.
type Battle struct {
	ID           uuid.UUID     `gorm:"primarykey" json:"id"`
	UserID       uuid.UUID     `gorm:"index:idx_battle_user;not null" json:"userId"`
	OpponentType string        `gorm:"not null" json:"opponentType"`
	State        DocumentField `gorm:"not null" json:"-"`
	Winner       string        `json:"winner,omitempty"`
	Completed    bool          `gorm:"index:idx_battle_completed;not null" json:"completed"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// BattleStatistics accumulates per-user battle outcomes. Never deleted.
type BattleStatistics struct {
	ID            uuid.UUID `gorm:"primarykey" json:"-"`
	UserID        uuid.UUID `gorm:"index:uq_statistics_user,unique;not null" json:"userId"`
	TotalBattles  int       `gorm:"not null" json:"totalBattles"`
	Wins          int       `gorm:"not null" json:"wins"`
	Losses        int       `gorm:"not null" json:"losses"`
	WinStreak     int       `gorm:"not null" json:"winStreak"`
	BestWinStreak int       `gorm:"not null" json:"bestWinStreak"`
	Rating        int       `gorm:"not null" json:"rating"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
