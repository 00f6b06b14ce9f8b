package deck

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS catalog_cards (
	id         SERIAL PRIMARY KEY,
	kind       TEXT NOT NULL,
	name       TEXT NOT NULL,
	definition JSONB NOT NULL,
	UNIQUE (kind, name)
)`

// Row kinds in catalog_cards.
const (
	kindSpell       = "spell"
	kindAttack      = "attack"
	kindMonster     = "monster"
	kindMonsterPool = "monster_pool"
)

// Store keeps a catalog in PostgreSQL, one row per template.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewStore wraps an existing connection pool.
func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{pool: pool, logger: logger}
}

// Connect opens a pool for databaseURL and checks the connection.
func Connect(ctx context.Context, databaseURL string, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to catalog database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping catalog database: %w", err)
	}
	return NewStore(pool, logger), nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the catalog table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create catalog schema: %w", err)
	}
	return nil
}

// ImportCatalog writes every template of c in one transaction. With replace
// set the table is truncated first; otherwise rows with the same kind and
// name are overwritten. It returns the number of rows written.
func (s *Store) ImportCatalog(ctx context.Context, c *Catalog, replace bool) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	rows, err := catalogRows(c)
	if err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin catalog import: %w", err)
	}
	defer tx.Rollback(ctx)

	if replace {
		if _, err := tx.Exec(ctx, "TRUNCATE catalog_cards RESTART IDENTITY"); err != nil {
			return 0, fmt.Errorf("clear catalog: %w", err)
		}
	}

	for _, r := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO catalog_cards (kind, name, definition)
			VALUES ($1, $2, $3)
			ON CONFLICT (kind, name) DO UPDATE SET definition = EXCLUDED.definition
		`, r.kind, r.name, r.definition)
		if err != nil {
			return 0, fmt.Errorf("insert %s %q: %w", r.kind, r.name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit catalog import: %w", err)
	}

	s.logger.Info("catalog imported",
		zap.Int("rows", len(rows)),
		zap.Bool("replace", replace))
	return len(rows), nil
}

// LoadCatalog reads the stored catalog and validates it.
func (s *Store) LoadCatalog(ctx context.Context) (*Catalog, error) {
	rows, err := s.pool.Query(ctx, "SELECT kind, name, definition FROM catalog_cards ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	stored, err := pgx.CollectRows(rows, pgx.RowToStructByPos[storedRow])
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	for _, r := range stored {
		if err := c.addRow(r.Kind, r.Definition); err != nil {
			return nil, fmt.Errorf("decode %s %q: %w", r.Kind, r.Name, err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	s.logger.Debug("catalog loaded",
		zap.Int("spells", len(c.Spells)),
		zap.Int("attack_tiers", len(c.Attacks)),
		zap.Int("monsters", len(c.Monsters)))
	return &c, nil
}

// Count returns the number of stored templates.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM catalog_cards").Scan(&n); err != nil {
		return 0, fmt.Errorf("count catalog: %w", err)
	}
	return n, nil
}

type storedRow struct {
	Kind       string
	Name       string
	Definition []byte
}

type catalogRow struct {
	kind       string
	name       string
	definition []byte
}

func catalogRows(c *Catalog) ([]catalogRow, error) {
	var rows []catalogRow
	add := func(kind, name string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s %q: %w", kind, name, err)
		}
		rows = append(rows, catalogRow{kind: kind, name: name, definition: data})
		return nil
	}

	for _, sp := range c.Spells {
		if err := add(kindSpell, sp.Name, sp); err != nil {
			return nil, err
		}
	}
	for _, a := range c.Attacks {
		if err := add(kindAttack, a.Name, a); err != nil {
			return nil, err
		}
	}
	for _, m := range c.Monsters {
		if err := add(kindMonster, m.Name, m); err != nil {
			return nil, err
		}
	}
	if c.MonsterPool.Size > 0 {
		if err := add(kindMonsterPool, "default", c.MonsterPool); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (c *Catalog) addRow(kind string, definition []byte) error {
	switch kind {
	case kindSpell:
		var sp SpellTemplate
		if err := json.Unmarshal(definition, &sp); err != nil {
			return err
		}
		c.Spells = append(c.Spells, sp)
	case kindAttack:
		var a AttackTier
		if err := json.Unmarshal(definition, &a); err != nil {
			return err
		}
		c.Attacks = append(c.Attacks, a)
	case kindMonster:
		var m MonsterTemplate
		if err := json.Unmarshal(definition, &m); err != nil {
			return err
		}
		c.Monsters = append(c.Monsters, m)
	case kindMonsterPool:
		return json.Unmarshal(definition, &c.MonsterPool)
	default:
		return fmt.Errorf("unknown row kind %q", kind)
	}
	return nil
}
