package database

import (
	"context"
	"time"

	"github.com/fcendesu/poke-deck/logger"
	"github.com/fcendesu/poke-deck/pokeapi"
	"github.com/google/uuid"
	"gorm.io/plugin/dbresolver"
)

// SeedSpecies imports the species catalog when the table is empty. Fetch
// failures for individual species are logged and skipped so a flaky
// upstream never blocks startup.
func (d *Database) SeedSpecies(ctx context.Context, client *pokeapi.Client, limit int) error {
	count, err := d.SpeciesCount(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Sugar().Debugf("species catalog already imported (%d entries)", count)
		return nil
	}

	refs, err := client.ListSpecies(ctx, limit)
	if err != nil {
		return err
	}
	logger.Sugar().Infof("importing %d species from catalog", len(refs))

	imported := 0
	for _, ref := range refs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		detail, err := client.GetSpecies(ctx, ref)
		if err != nil {
			logger.Sugar().Warnf("skipping species %q: %v", ref.Name, err)
			continue
		}

		species := Species{
			ID:                    uuid.New(),
			PokeAPIID:             detail.ID,
			Name:                  detail.Name,
			BaseExperience:        detail.BaseExperience,
			Height:                detail.Height,
			Weight:                detail.Weight,
			SpriteDefault:         detail.Sprites.FrontDefault,
			SpriteShiny:           detail.Sprites.FrontShiny,
			SpriteOfficialArtwork: detail.Sprites.Other.OfficialArtwork.FrontDefault,
			HP:                    detail.BaseStat("hp"),
			Attack:                detail.BaseStat("attack"),
			Defense:               detail.BaseStat("defense"),
			Speed:                 detail.BaseStat("speed"),
			CreatedAt:             time.Now(),
		}
		for _, t := range detail.Types {
			species.Types = append(species.Types, SpeciesType{
				ID:        uuid.New(),
				SpeciesID: species.ID,
				Slot:      t.Slot,
				Name:      t.Type.Name,
			})
		}

		if err := d.DB.Clauses(dbresolver.Write).WithContext(ctx).Create(&species).Error; err != nil {
			logger.Sugar().Warnf("failed to insert species %q: %v", detail.Name, err)
			continue
		}
		imported++
	}

	logger.Sugar().Infof("species import finished: %d/%d imported", imported, len(refs))
	return nil
}
