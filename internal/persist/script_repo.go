package persist

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/caolo-go/sim/internal/compiler"
	"github.com/caolo-go/sim/internal/world"
)

// Script is the persisted artifact behind a world.ScriptID: its source
// CompilationUnit plus the last compiled program, if any (spec.md §6). The
// compiled form is cached alongside the source so a reload doesn't have to
// recompile every script in the world before the first tick can run.
type Script struct {
	ID       world.ScriptID
	Owner    world.UserID
	Name     string
	Unit     compiler.CompilationUnit
	Compiled *compiler.CompiledProgram
}

// EncodeScript serializes a Script as a self-describing gob blob. gob
// rather than a hand-rolled format because CompilationUnit and
// CompiledProgram are plain structs of slices and maps with no interface
// fields — exactly what gob round-trips without any custom wire code.
func EncodeScript(s *Script) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("encode script: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeScript(data []byte) (*Script, error) {
	var s Script
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return &s, nil
}

// ScriptRepo persists Script blobs in Postgres, one row per script.
type ScriptRepo struct {
	db *DB
}

func NewScriptRepo(db *DB) *ScriptRepo {
	return &ScriptRepo{db: db}
}

func (r *ScriptRepo) Save(ctx context.Context, s *Script) error {
	blob, err := EncodeScript(s)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO scripts (id, owner_id, name, blob)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = $3, blob = $4
	`, s.ID, s.Owner, s.Name, blob)
	if err != nil {
		return fmt.Errorf("save script %s: %w", s.ID, err)
	}
	return nil
}

// Load returns nil, nil if no script with that id exists.
func (r *ScriptRepo) Load(ctx context.Context, id world.ScriptID) (*Script, error) {
	var blob []byte
	err := r.db.Pool.QueryRow(ctx, `SELECT blob FROM scripts WHERE id = $1`, id).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", id, err)
	}
	return DecodeScript(blob)
}

// LoadAllForOwner loads every script belonging to owner, e.g. to warm the
// in-memory script cache for a player's bots at world boot.
func (r *ScriptRepo) LoadAllForOwner(ctx context.Context, owner world.UserID) ([]*Script, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT blob FROM scripts WHERE owner_id = $1`, owner)
	if err != nil {
		return nil, fmt.Errorf("load scripts for owner %s: %w", owner, err)
	}
	defer rows.Close()

	var out []*Script
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan script row: %w", err)
		}
		s, err := DecodeScript(blob)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ScriptRepo) Delete(ctx context.Context, id world.ScriptID) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM scripts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete script %s: %w", id, err)
	}
	return nil
}
