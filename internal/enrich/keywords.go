package enrich

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one row of the keyword table: the category (or counter-wallet
// name) to assign, plus an optional prefix for the transaction description.
type Entry struct {
	Category              string
	AdditionalDescription string
}

// Table is an insertion-ordered mapping from lower-cased keyword to Entry.
// Order matters: the first keyword (in table order) found in a description
// wins, so more specific keywords must be listed before generic ones.
type Table struct {
	keywords []string
	entries  map[string]Entry
}

// NewTable returns an empty keyword table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Entry)}
}

// Add appends a keyword to the table, lower-casing it. Re-adding an
// existing keyword overwrites its entry but keeps its original position.
func (t *Table) Add(keyword string, entry Entry) {
	key := strings.ToLower(keyword)
	if _, ok := t.entries[key]; !ok {
		t.keywords = append(t.keywords, key)
	}
	t.entries[key] = entry
}

// Len returns the number of keywords in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keywords)
}

// Keywords returns the keywords in insertion order.
func (t *Table) Keywords() []string {
	if t == nil {
		return nil
	}
	return t.keywords
}

// Entry returns the entry for a lower-cased keyword.
func (t *Table) Entry(keyword string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[keyword]
	return e, ok
}

// ParseTable reads a keyword table from JSON, preserving key order.
// A value is either a plain string (category only) or a two-element
// array [category, additionalDescription]:
//
//	{
//	  "magnit": "Groceries",
//	  "card2card": ["Cash", "ATM withdrawal"]
//	}
//
// encoding/json's map decoding loses key order, so the object is walked
// token by token instead.
func ParseTable(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read keyword table: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("keyword table must be a JSON object, got %v", tok)
	}

	table := NewTable()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read keyword table key: %w", err)
		}
		keyword, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected keyword table key: %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("read value for keyword %q: %w", keyword, err)
		}
		entry, err := parseEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", keyword, err)
		}
		table.Add(keyword, entry)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read keyword table end: %w", err)
	}
	return table, nil
}

func parseEntry(raw json.RawMessage) (Entry, error) {
	var category string
	if err := json.Unmarshal(raw, &category); err == nil {
		return Entry{Category: category}, nil
	}

	var pair []string
	if err := json.Unmarshal(raw, &pair); err == nil {
		if len(pair) != 2 {
			return Entry{}, fmt.Errorf("value array must have 2 elements, got %d", len(pair))
		}
		return Entry{Category: pair[0], AdditionalDescription: pair[1]}, nil
	}

	return Entry{}, fmt.Errorf("value must be a string or a [category, description] array")
}

// LoadTable reads a keyword table from a JSON file. A missing file is not
// an error: it yields an empty table (no enrichment).
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewTable(), nil
		}
		return nil, fmt.Errorf("open keyword table %q: %w", path, err)
	}
	defer f.Close()

	table, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("parse keyword table %q: %w", path, err)
	}
	return table, nil
}
