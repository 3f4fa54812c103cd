package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/julianstephens/neuroflow/internal/constants"
)

// Record is one flat stored row: snake_case field name to JSON scalar.
// Numbers decode as json.Number.
type Record map[string]any

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dump holds every known table, keyed by table name.
type Dump map[string][]Record

type Option func(*TableStore)

// WithPrefix overrides the key prefix prepended to table names.
func WithPrefix(prefix string) Option {
	return func(s *TableStore) { s.prefix = prefix }
}

// WithTables overrides the set of known tables.
func WithTables(tables ...string) Option {
	return func(s *TableStore) { s.tables = slices.Clone(tables) }
}

// TableStore reads and writes whole record tables on a Medium.
type TableStore struct {
	medium Medium
	prefix string
	tables []string
}

func NewTableStore(m Medium, opts ...Option) *TableStore {
	s := &TableStore{
		medium: m,
		prefix: constants.TablePrefix,
		tables: slices.Clone(constants.Tables),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TableStore) Medium() Medium { return s.medium }

func (s *TableStore) Tables() []string { return slices.Clone(s.tables) }

func (s *TableStore) key(name string) string { return s.prefix + name }

// Init writes an empty list for every known table missing from the medium.
func (s *TableStore) Init(ctx context.Context) error {
	for _, name := range s.tables {
		_, ok, err := s.medium.Get(ctx, s.key(name))
		if err != nil {
			return fmt.Errorf("failed to check table %s: %w", name, err)
		}
		if ok {
			continue
		}
		if err := s.medium.Set(ctx, s.key(name), []byte("[]")); err != nil {
			return fmt.Errorf("failed to initialize table %s: %w", name, err)
		}
	}
	return nil
}

// ReadTable returns the records of name in stored order. A table that was
// never written reads as empty.
func (s *TableStore) ReadTable(ctx context.Context, name string) ([]Record, error) {
	raw, ok, err := s.medium.Get(ctx, s.key(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", name, err)
	}
	if !ok || len(bytes.TrimSpace(raw)) == 0 {
		return []Record{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode table %s: %w", name, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// WriteTable replaces the contents of name.
func (s *TableStore) WriteTable(ctx context.Context, name string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode table %s: %w", name, err)
	}
	if err := s.medium.Set(ctx, s.key(name), raw); err != nil {
		return fmt.Errorf("failed to write table %s: %w", name, err)
	}
	return nil
}

// GenerateID returns a new record identifier.
func (s *TableStore) GenerateID() string { return NewID() }

// NewID returns a UUIDv7: a millisecond timestamp prefix followed by random
// bits. Uniqueness is probabilistic.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Dump reads every known table.
func (s *TableStore) Dump(ctx context.Context) (Dump, error) {
	out := make(Dump, len(s.tables))
	for _, name := range s.tables {
		records, err := s.ReadTable(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = records
	}
	return out, nil
}

// Restore overwrites every table present in d. Tables absent from d are left
// untouched; unknown tables are rejected before anything is written.
func (s *TableStore) Restore(ctx context.Context, d Dump) error {
	for name := range d {
		if !slices.Contains(s.tables, name) {
			return fmt.Errorf("unknown table %q in dump", name)
		}
	}
	for _, name := range s.tables {
		records, ok := d[name]
		if !ok {
			continue
		}
		if err := s.WriteTable(ctx, name, records); err != nil {
			return err
		}
	}
	return nil
}

// Reset empties every table.
func (s *TableStore) Reset(ctx context.Context) error {
	for _, name := range s.tables {
		if err := s.medium.Set(ctx, s.key(name), []byte("[]")); err != nil {
			return fmt.Errorf("failed to reset table %s: %w", name, err)
		}
	}
	return nil
}
