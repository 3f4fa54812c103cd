package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/neuroflow/internal/codec"
	"github.com/julianstephens/neuroflow/internal/kv"
)

var (
	ErrOwnerNotFound  = errors.New("owner not found")
	ErrDuplicateID    = errors.New("duplicate id")
	ErrImmutableField = errors.New("field cannot be updated")
)

// Patch is a sparse update keyed by logical (camelCase) field name.
type Patch = codec.Patch

// Result reports how many stored records an operation touched.
type Result struct {
	Changes int
}

// table implements id-keyed record operations shared by every collection.
type table struct {
	store  *kv.TableStore
	schema codec.Schema
}

func (t table) read(ctx context.Context) ([]kv.Record, error) {
	return t.store.ReadTable(ctx, t.schema.Table)
}

func (t table) write(ctx context.Context, records []kv.Record) error {
	return t.store.WriteTable(ctx, t.schema.Table, records)
}

func recordID(r kv.Record) string {
	id, _ := r["id"].(string)
	return id
}

func (t table) find(ctx context.Context, id string) (kv.Record, bool, error) {
	records, err := t.read(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, r := range records {
		if recordID(r) == id {
			return r, true, nil
		}
	}
	return nil, false, nil
}

func (t table) insert(ctx context.Context, rec kv.Record) error {
	records, err := t.read(ctx)
	if err != nil {
		return err
	}
	id := recordID(rec)
	for _, r := range records {
		if recordID(r) == id {
			return fmt.Errorf("%w: %s %s", ErrDuplicateID, t.schema.Entity, id)
		}
	}
	return t.write(ctx, append(records, rec))
}

// update merges the encoded patch into the record with id. Unknown ids are a
// no-op.
func (t table) update(ctx context.Context, id string, p Patch) (Result, error) {
	if _, ok := p["id"]; ok {
		return Result{}, fmt.Errorf("%w: %s.id", ErrImmutableField, t.schema.Entity)
	}
	fields, err := codec.Encode(t.schema, p)
	if err != nil {
		return Result{}, err
	}

	records, err := t.read(ctx)
	if err != nil {
		return Result{}, err
	}
	for i, r := range records {
		if recordID(r) != id {
			continue
		}
		merged := r.Clone()
		for k, v := range fields {
			merged[k] = v
		}
		records[i] = merged
		if err := t.write(ctx, records); err != nil {
			return Result{}, err
		}
		return Result{Changes: 1}, nil
	}
	return Result{Changes: 0}, nil
}

func (t table) delete(ctx context.Context, id string) (Result, error) {
	records, err := t.read(ctx)
	if err != nil {
		return Result{}, err
	}
	kept := records[:0]
	removed := 0
	for _, r := range records {
		if recordID(r) == id {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return Result{Changes: 0}, nil
	}
	if err := t.write(ctx, kept); err != nil {
		return Result{}, err
	}
	return Result{Changes: removed}, nil
}
