package config

const (
	// Battles are fought 3v3 with a fixed 4-move loadout at level 50.
	TEAM_SIZE         = 3
	MOVES_PER_POKEMON = 4
	BATTLE_LEVEL      = 50

	// Species with a missing base stat fall back to this value.
	DEFAULT_BASE_STAT = 50

	// Daily draws: per-user cap per calendar day, handed out in batches.
	DAILY_DRAW_CAP  = 200
	DRAW_BATCH_SIZE = 5

	// Battle rating.
	RATING_START = 1000
	RATING_WIN   = 25
	RATING_LOSS  = 20
	RATING_FLOOR = 800

	LEADERBOARD_SIZE = 100
)
