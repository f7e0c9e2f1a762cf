// Package schema carries the DDL of the postgres and clickhouse backends
// statements are idempotent so Apply runs on every boot
package schema

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"leadscore/internal/platform/store"
)

//go:embed pg/*.sql ch/*.sql
var files embed.FS

// Execer runs one DDL statement
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// ExecFunc adapts a func to Execer
type ExecFunc func(ctx context.Context, sql string, args ...any) error

// Exec implements Execer
func (f ExecFunc) Exec(ctx context.Context, sql string, args ...any) error { return f(ctx, sql, args...) }

// Statements lists the statements of dir ("pg" or "ch") in file order
func Statements(dir string) ([]string, error) {
	names, err := fs.Glob(files, dir+"/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var out []string
	for _, n := range names {
		b, err := files.ReadFile(n)
		if err != nil {
			return nil, err
		}
		for _, stmt := range strings.Split(string(b), ";") {
			if s := strings.TrimSpace(stmt); s != "" {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

// ApplyPG creates the postgres tables in one transaction
func ApplyPG(ctx context.Context, db store.TxRunner) error {
	stmts, err := Statements("pg")
	if err != nil {
		return err
	}
	return db.Tx(ctx, func(q store.RowQuerier) error {
		for i, s := range stmts {
			if _, err := q.Exec(ctx, s); err != nil {
				return fmt.Errorf("schema: pg statement %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// ApplyCH creates the clickhouse tables, the client must support Exec
func ApplyCH(ctx context.Context, c store.Clickhouse) error {
	ex, ok := c.(Execer)
	if !ok {
		return fmt.Errorf("schema: clickhouse client %T cannot exec ddl", c)
	}
	stmts, err := Statements("ch")
	if err != nil {
		return err
	}
	for i, s := range stmts {
		if err := ex.Exec(ctx, s); err != nil {
			return fmt.Errorf("schema: ch statement %d: %w", i+1, err)
		}
	}
	return nil
}
