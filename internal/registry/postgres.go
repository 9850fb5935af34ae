package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/norsetcg/cardengine/internal/game/card"
	"go.uber.org/zap"
)

// Schema creates the cards table. Ability descriptors live in one JSONB column keyed by
// trigger.
const Schema = `
CREATE TABLE IF NOT EXISTS cards (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	mana_cost    INTEGER NOT NULL DEFAULT 0,
	card_type    TEXT NOT NULL,
	rarity       TEXT NOT NULL DEFAULT 'common',
	card_class   TEXT NOT NULL DEFAULT 'neutral',
	keywords     TEXT[] NOT NULL DEFAULT '{}',
	collectible  BOOLEAN NOT NULL DEFAULT TRUE,
	spell_damage INTEGER NOT NULL DEFAULT 0,
	attack       INTEGER NOT NULL DEFAULT 0,
	health       INTEGER NOT NULL DEFAULT 0,
	race         TEXT NOT NULL DEFAULT '',
	durability   INTEGER NOT NULL DEFAULT 0,
	armor        INTEGER NOT NULL DEFAULT 0,
	abilities    JSONB NOT NULL DEFAULT '{}'
)`

const selectCards = `
SELECT id, name, description, mana_cost, card_type, rarity, card_class, keywords,
       collectible, spell_damage, attack, health, race, durability, armor, abilities
FROM cards
ORDER BY id`

const upsertCard = `
INSERT INTO cards (
	id, name, description, mana_cost, card_type, rarity, card_class, keywords,
	collectible, spell_damage, attack, health, race, durability, armor, abilities
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	mana_cost = EXCLUDED.mana_cost,
	card_type = EXCLUDED.card_type,
	rarity = EXCLUDED.rarity,
	card_class = EXCLUDED.card_class,
	keywords = EXCLUDED.keywords,
	collectible = EXCLUDED.collectible,
	spell_damage = EXCLUDED.spell_damage,
	attack = EXCLUDED.attack,
	health = EXCLUDED.health,
	race = EXCLUDED.race,
	durability = EXCLUDED.durability,
	armor = EXCLUDED.armor,
	abilities = EXCLUDED.abilities`

// importBatchSize is the number of rows written per transaction.
const importBatchSize = 1000

type abilityColumn struct {
	Battlecry   *card.Ability `json:"battlecry,omitempty"`
	Deathrattle *card.Ability `json:"deathrattle,omitempty"`
	Spell       *card.Ability `json:"spellEffect,omitempty"`
	Combo       *card.Ability `json:"comboEffect,omitempty"`
	Frenzy      *card.Ability `json:"frenzyEffect,omitempty"`
}

// Connect opens a connection pool and checks it.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// LoadPostgres reads every card from the cards table.
func LoadPostgres(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rows, err := pool.Query(ctx, selectCards)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	flat, err := pgx.CollectRows(rows, scanFlat)
	if err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}
	r, err := FromFlat(flat)
	if err != nil {
		return nil, err
	}
	logger.Info("card registry loaded",
		zap.String("source", "postgres"),
		zap.Int("cards", r.Len()),
	)
	return r, nil
}

func scanFlat(row pgx.CollectableRow) (card.Flat, error) {
	var (
		f           card.Flat
		keywords    []string
		collectible bool
		abilities   []byte
	)
	err := row.Scan(
		&f.ID, &f.Name, &f.Description, &f.ManaCost, &f.Type, &f.Rarity, &f.Class, &keywords,
		&collectible, &f.SpellDamage, &f.Attack, &f.Health, &f.Race, &f.Durability, &f.Armor, &abilities,
	)
	if err != nil {
		return f, err
	}
	for _, k := range keywords {
		f.Keywords = append(f.Keywords, card.Keyword(k))
	}
	f.Collectible = &collectible

	var col abilityColumn
	if len(abilities) > 0 {
		if err := json.Unmarshal(abilities, &col); err != nil {
			return f, fmt.Errorf("card %s abilities: %w", f.ID, err)
		}
	}
	f.Battlecry = col.Battlecry
	f.Deathrattle = col.Deathrattle
	f.Spell = col.Spell
	f.Combo = col.Combo
	f.Frenzy = col.Frenzy
	return f, nil
}

// Import writes every card of the registry into the cards table, creating it if needed.
// Existing rows with the same id are overwritten. It returns the number of rows written.
func Import(ctx context.Context, pool *pgxpool.Pool, r *Registry, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return 0, fmt.Errorf("failed to create cards table: %w", err)
	}

	cards := r.All()
	imported := 0
	for i := 0; i < len(cards); i += importBatchSize {
		end := min(i+importBatchSize, len(cards))
		n, err := importBatch(ctx, pool, cards[i:end])
		if err != nil {
			return imported, err
		}
		imported += n
		logger.Debug("import progress", zap.Int("imported", imported), zap.Int("total", len(cards)))
	}

	logger.Info("cards imported", zap.Int("cards", imported))
	return imported, nil
}

func importBatch(ctx context.Context, pool *pgxpool.Pool, batch []*card.Data) (int, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range batch {
		f := card.Flatten(d)
		abilities, err := json.Marshal(abilityColumn{
			Battlecry:   f.Battlecry,
			Deathrattle: f.Deathrattle,
			Spell:       f.Spell,
			Combo:       f.Combo,
			Frenzy:      f.Frenzy,
		})
		if err != nil {
			return 0, fmt.Errorf("card %s abilities: %w", d.ID, err)
		}
		keywords := make([]string, len(f.Keywords))
		for i, k := range f.Keywords {
			keywords[i] = string(k)
		}
		_, err = tx.Exec(ctx, upsertCard,
			f.ID, f.Name, f.Description, f.ManaCost, string(f.Type), string(f.Rarity), string(f.Class), keywords,
			d.Collectible, f.SpellDamage, f.Attack, f.Health, string(f.Race), f.Durability, f.Armor, abilities,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert card %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return len(batch), nil
}
