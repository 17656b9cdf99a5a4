package creds_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/authdrill/authdrill/internal/creds"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "users.csv", "username,password\nalice,s3cret\nbob,hunter2\n")
	pool, err := creds.LoadFile(path, "")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if pool.Len() != 2 {
		t.Fatalf("expected 2 credentials, got %d", pool.Len())
	}
	if got := pool.At(0); got.Username != "alice" || got.Password != "s3cret" {
		t.Fatalf("unexpected first credential: %+v", got)
	}
}

func TestLoadCSVColumnOrderIndependent(t *testing.T) {
	path := writeFile(t, "users.csv", "password,username\npw,carol\n")
	pool, err := creds.LoadFile(path, "csv")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := pool.At(0); got.Username != "carol" || got.Password != "pw" {
		t.Fatalf("unexpected credential: %+v", got)
	}
}

func TestLoadCSVRejectsMissingColumns(t *testing.T) {
	path := writeFile(t, "users.csv", "user_id,secret\n1,x\n")
	if _, err := creds.LoadFile(path, "csv"); err == nil {
		t.Fatal("expected error for missing username/password columns")
	}
}

func TestLoadCSVRejectsHeaderOnly(t *testing.T) {
	path := writeFile(t, "users.csv", "username,password\n")
	if _, err := creds.LoadFile(path, "csv"); err == nil {
		t.Fatal("expected error for header-only file")
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "users.json", `[{"username":"alice","password":"pw1"},{"username":"bob","password":"pw2"}]`)
	pool, err := creds.LoadFile(path, "")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if pool.Len() != 2 {
		t.Fatalf("expected 2 credentials, got %d", pool.Len())
	}
	if got := pool.At(1); got.Username != "bob" || got.Password != "pw2" {
		t.Fatalf("unexpected second credential: %+v", got)
	}
}

func TestLoadJSONRejectsIncompleteEntry(t *testing.T) {
	path := writeFile(t, "users.json", `[{"username":"alice"}]`)
	if _, err := creds.LoadFile(path, "json"); err == nil {
		t.Fatal("expected error for entry without password")
	}
}

func TestNewPoolRejectsEmpty(t *testing.T) {
	if _, err := creds.NewPool(nil); err == nil {
		t.Fatal("expected error for empty pool")
	}
}
