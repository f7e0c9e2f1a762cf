package schema

import (
	"context"
	"errors"
	"strings"
	"testing"

	"leadscore/internal/platform/store"
)

type recorder struct {
	stmts []string
	fail  int
	txs   int
}

func (r *recorder) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	r.stmts = append(r.stmts, sql)
	if r.fail > 0 && len(r.stmts) == r.fail {
		return nil, errors.New("boom")
	}
	return nil, nil
}

func (r *recorder) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (r *recorder) QueryRow(context.Context, string, ...any) store.Row        { return nil }

func (r *recorder) Tx(ctx context.Context, fn func(store.RowQuerier) error) error {
	r.txs++
	return fn(r)
}

type chExec struct {
	store.Clickhouse
	stmts []string
}

func (c *chExec) Exec(_ context.Context, sql string, _ ...any) error {
	c.stmts = append(c.stmts, sql)
	return nil
}

func TestStatements_OrderAndSplit(t *testing.T) {
	pg, err := Statements("pg")
	if err != nil {
		t.Fatal(err)
	}
	if len(pg) != 3 {
		t.Fatalf("pg statements = %d", len(pg))
	}
	if !strings.HasPrefix(pg[0], "create table if not exists users") || !strings.Contains(pg[0], "users_email_key") {
		t.Fatalf("users first: %q", pg[0])
	}
	if !strings.HasPrefix(pg[2], "create index if not exists leads_created_at_idx") {
		t.Fatalf("index last: %q", pg[2])
	}
	if _, err := Statements("nope"); err != nil {
		t.Fatalf("missing dir is empty, got %v", err)
	}
}

func TestApplyPG(t *testing.T) {
	r := &recorder{}
	if err := ApplyPG(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if r.txs != 1 || len(r.stmts) != 3 {
		t.Fatalf("txs=%d stmts=%d", r.txs, len(r.stmts))
	}

	r = &recorder{fail: 2}
	err := ApplyPG(context.Background(), r)
	if err == nil || !strings.Contains(err.Error(), "pg statement 2") {
		t.Fatalf("err = %v", err)
	}
}

func TestApplyCH(t *testing.T) {
	c := &chExec{}
	if err := ApplyCH(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	if len(c.stmts) != 1 || !strings.Contains(c.stmts[0], "lead_events") {
		t.Fatalf("ch stmts = %v", c.stmts)
	}

	var plain store.Clickhouse = struct{ store.Clickhouse }{}
	if err := ApplyCH(context.Background(), plain); err == nil {
		t.Fatal("client without Exec should be rejected")
	}
}
