package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RishiReddii/AgreementHub/pkg/domain"
)

// Postgres is the PostgreSQL-backed Store. Each entity is persisted as a
// jsonb document alongside the columns the engine filters and groups on;
// the contract version column carries the compare-and-swap counter.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS blueprints (
	id         text PRIMARY KEY,
	doc        jsonb NOT NULL,
	created_at timestamptz NOT NULL
);
CREATE TABLE IF NOT EXISTS contracts (
	id           text PRIMARY KEY,
	blueprint_id text NOT NULL,
	status       text NOT NULL,
	version      bigint NOT NULL,
	doc          jsonb NOT NULL,
	created_at   timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS contracts_blueprint_id_idx ON contracts (blueprint_id);
CREATE INDEX IF NOT EXISTS contracts_status_idx ON contracts (status);
`

// Init creates the backing tables if they do not exist.
func (p *Postgres) Init(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schema)
	return err
}

func (p *Postgres) ListBlueprints(ctx context.Context, limit int64) ([]domain.Blueprint, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT doc FROM blueprints ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Blueprint
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var b domain.Blueprint
		if err := json.Unmarshal(doc, &b); err != nil {
			return nil, fmt.Errorf("decode blueprint: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (p *Postgres) GetBlueprint(ctx context.Context, id string) (domain.Blueprint, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM blueprints WHERE id=$1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Blueprint{}, ErrNotFound
	}
	if err != nil {
		return domain.Blueprint{}, err
	}
	var b domain.Blueprint
	if err := json.Unmarshal(doc, &b); err != nil {
		return domain.Blueprint{}, fmt.Errorf("decode blueprint: %w", err)
	}
	return b, nil
}

func (p *Postgres) InsertBlueprint(ctx context.Context, b domain.Blueprint) error {
	doc, err := json.Marshal(b)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO blueprints(id, doc, created_at) VALUES($1, $2, $3)`,
		b.ID, doc, b.CreatedAt)
	return err
}

func (p *Postgres) UpdateBlueprint(ctx context.Context, b domain.Blueprint) error {
	doc, err := json.Marshal(b)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, `UPDATE blueprints SET doc=$1 WHERE id=$2`, doc, b.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteBlueprint(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM blueprints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) CountBlueprints(ctx context.Context) (int64, error) {
	var n int64
	err := p.pool.QueryRow(ctx, `SELECT count(*) FROM blueprints`).Scan(&n)
	return n, err
}

func (p *Postgres) ListContracts(ctx context.Context, f ContractFilter, limit int64) ([]domain.Contract, error) {
	q := `SELECT doc, version FROM contracts`
	var args []any
	var where []string
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if f.BlueprintID != "" {
		args = append(args, f.BlueprintID)
		where = append(where, fmt.Sprintf("blueprint_id = $%d", len(args)))
	}
	for i, w := range where {
		if i == 0 {
			q += " WHERE " + w
		} else {
			q += " AND " + w
		}
	}
	args = append(args, limit)
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Contract
	for rows.Next() {
		var doc []byte
		var version int64
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, err
		}
		var c domain.Contract
		if err := json.Unmarshal(doc, &c); err != nil {
			return nil, fmt.Errorf("decode contract: %w", err)
		}
		c.Version = version
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) GetContract(ctx context.Context, id string) (domain.Contract, error) {
	var doc []byte
	var version int64
	err := p.pool.QueryRow(ctx,
		`SELECT doc, version FROM contracts WHERE id=$1`, id).Scan(&doc, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Contract{}, ErrNotFound
	}
	if err != nil {
		return domain.Contract{}, err
	}
	var c domain.Contract
	if err := json.Unmarshal(doc, &c); err != nil {
		return domain.Contract{}, fmt.Errorf("decode contract: %w", err)
	}
	c.Version = version
	return c, nil
}

func (p *Postgres) InsertContract(ctx context.Context, c domain.Contract) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO contracts(id, blueprint_id, status, version, doc, created_at)
VALUES($1, $2, $3, $4, $5, $6)`,
		c.ID, c.BlueprintID, c.Status, c.Version, doc, c.CreatedAt)
	return err
}

func (p *Postgres) ReplaceContract(ctx context.Context, c domain.Contract) (domain.Contract, error) {
	next := c
	next.Version = c.Version + 1
	doc, err := json.Marshal(next)
	if err != nil {
		return domain.Contract{}, err
	}
	tag, err := p.pool.Exec(ctx,
		`UPDATE contracts SET doc=$1, status=$2, version=$3 WHERE id=$4 AND version=$5`,
		doc, next.Status, next.Version, c.ID, c.Version)
	if err != nil {
		return domain.Contract{}, err
	}
	if tag.RowsAffected() == 0 {
		var n int64
		if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM contracts WHERE id=$1`, c.ID).Scan(&n); err != nil {
			return domain.Contract{}, err
		}
		if n == 0 {
			return domain.Contract{}, ErrNotFound
		}
		return domain.Contract{}, ErrVersionConflict
	}
	return next, nil
}

func (p *Postgres) DeleteContract(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM contracts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) CountContractsByBlueprint(ctx context.Context, blueprintID string) (int64, error) {
	var n int64
	err := p.pool.QueryRow(ctx,
		`SELECT count(*) FROM contracts WHERE blueprint_id=$1`, blueprintID).Scan(&n)
	return n, err
}

func (p *Postgres) CountContractsByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	rows, err := p.pool.Query(ctx, `SELECT status, count(*) FROM contracts GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[domain.Status]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[domain.Status(status)] = n
	}
	return out, rows.Err()
}
