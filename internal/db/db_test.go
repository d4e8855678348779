package db

import (
	"net/url"
	"testing"
)

func TestWithPoolTimeouts(t *testing.T) {
	got, err := withPoolTimeouts("postgres://cms:pw@localhost:5432/cms?sslmode=disable")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	q := u.Query()
	if q.Get("connect_timeout") != "10" {
		t.Errorf("connect_timeout = %q, want 10", q.Get("connect_timeout"))
	}
	if q.Get("statement_timeout") != "10000" {
		t.Errorf("statement_timeout = %q, want 10000", q.Get("statement_timeout"))
	}
	if q.Get("sslmode") != "disable" {
		t.Errorf("sslmode lost: %q", q.Get("sslmode"))
	}
}

func TestWithPoolTimeouts_KeepsOperatorValues(t *testing.T) {
	got, err := withPoolTimeouts("postgres://localhost/cms?connect_timeout=3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, _ := url.Parse(got)
	if u.Query().Get("connect_timeout") != "3" {
		t.Errorf("connect_timeout overwritten: %q", u.Query().Get("connect_timeout"))
	}
}

func TestWithPoolTimeouts_KeyValueDSNUntouched(t *testing.T) {
	dsn := "host=localhost dbname=cms"
	got, err := withPoolTimeouts(dsn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != dsn {
		t.Errorf("got %q, want unchanged %q", got, dsn)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 || len(entries)%2 != 0 {
		t.Fatalf("expected paired up/down migrations, got %d files", len(entries))
	}
}
