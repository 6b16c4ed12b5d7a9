package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/msptoolkit/netscout/pkg/plugin"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrateAppliesOnce(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var runs int
	migs := []plugin.Migration{
		{
			Version:     1,
			Description: "create t",
			Up: func(tx *sql.Tx) error {
				runs++
				_, err := tx.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)")
				return err
			},
		},
	}

	if err := s.Migrate(ctx, "discovery", migs); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := s.Migrate(ctx, "discovery", migs); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if runs != 1 {
		t.Errorf("migration ran %d times, want 1", runs)
	}
}

func TestMigrateRollsBackOnFailure(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	migs := []plugin.Migration{
		{
			Version:     1,
			Description: "failing",
			Up: func(tx *sql.Tx) error {
				if _, err := tx.Exec("CREATE TABLE half (id INTEGER)"); err != nil {
					return err
				}
				return fmt.Errorf("boom")
			},
		},
	}

	if err := s.Migrate(ctx, "discovery", migs); err == nil {
		t.Fatal("expected migration error")
	}

	// The partial table must not exist.
	var name string
	err := s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='half'",
	).Scan(&name)
	if err != sql.ErrNoRows {
		t.Errorf("partial table survived rollback: err=%v name=%q", err, name)
	}
}

func TestTxCommitAndRollback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.DB().Exec("CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}

	if err := s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO kv (k, v) VALUES ('a', '1')")
		return err
	}); err != nil {
		t.Fatalf("commit tx: %v", err)
	}

	wantErr := fmt.Errorf("abort")
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO kv (k, v) VALUES ('b', '2')"); err != nil {
			return err
		}
		return wantErr
	})
	if err == nil {
		t.Fatal("expected rollback error")
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM kv").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1 (rollback leaked)", count)
	}
}
