// Package creds loads the credential pool used to drive login sessions and
// selects a credential for each session.
package creds

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// Credential is one username/password pair. Immutable once loaded.
type Credential struct {
	Username string
	Password string
}

// Pool is a fixed, read-only set of credentials shared by all sessions.
type Pool struct {
	entries []Credential
}

// NewPool wraps an inline credential list.
func NewPool(entries []Credential) (*Pool, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("credential pool is empty")
	}
	out := make([]Credential, len(entries))
	copy(out, entries)
	return &Pool{entries: out}, nil
}

// LoadFile reads a credential pool from a CSV or JSON file. The format is
// inferred from the extension unless format is given explicitly.
func LoadFile(path, format string) (*Pool, error) {
	if format == "" {
		switch {
		case strings.HasSuffix(path, ".json"):
			format = "json"
		default:
			format = "csv"
		}
	}
	switch format {
	case "csv":
		return loadCSV(path)
	case "json":
		return loadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported credential file format %q", format)
	}
}

// loadCSV reads credentials from a CSV file. The first row is the header and
// must contain "username" and "password" columns.
func loadCSV(path string) (*Pool, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open credential file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read credential CSV: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("credential CSV must have a header row and at least one data row")
	}

	userCol, passCol := -1, -1
	for i, name := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "username", "user":
			userCol = i
		case "password", "pass":
			passCol = i
		}
	}
	if userCol < 0 || passCol < 0 {
		return nil, fmt.Errorf("credential CSV header must contain username and password columns")
	}

	entries := make([]Credential, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(rows[0]) {
			return nil, fmt.Errorf("credential CSV row %d has %d fields, expected %d", i+2, len(row), len(rows[0]))
		}
		entries = append(entries, Credential{Username: row[userCol], Password: row[passCol]})
	}
	return NewPool(entries)
}

// loadJSON reads credentials from a JSON array of {"username":..,"password":..}
// objects.
func loadJSON(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open credential file: %w", err)
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("credential JSON must be an array of objects")
	}

	var entries []Credential
	badIndex := -1
	parsed.ForEach(func(_, value gjson.Result) bool {
		user := value.Get("username")
		pass := value.Get("password")
		if !user.Exists() || !pass.Exists() {
			badIndex = len(entries)
			return false
		}
		entries = append(entries, Credential{Username: user.String(), Password: pass.String()})
		return true
	})
	if badIndex >= 0 {
		return nil, fmt.Errorf("credential JSON entry %d is missing username or password", badIndex)
	}
	return NewPool(entries)
}

// Len returns the pool size.
func (p *Pool) Len() int { return len(p.entries) }

// At returns the credential at index i.
func (p *Pool) At(i int) Credential { return p.entries[i] }
