package codec

import (
	"fmt"
	"time"

	"github.com/julianstephens/neuroflow/internal/kv"
)

// values is a full set of logical field values for one entity.
type values map[string]any

// record encodes every schema field from vals. Entity encoders pass values of
// fixed Go types, so a failure here is a bug in the schema table.
func record(s Schema, vals values) kv.Record {
	if len(vals) != len(s.Fields) {
		panic(fmt.Sprintf("codec: %s encoder supplied %d fields, schema has %d", s.Entity, len(vals), len(s.Fields)))
	}
	r := make(kv.Record, len(s.Fields))
	for _, f := range s.Fields {
		v, ok := vals[f.Logical]
		if !ok {
			panic(fmt.Sprintf("codec: %s encoder missing field %q", s.Entity, f.Logical))
		}
		enc, err := encodeValue(f.Kind, v)
		if err != nil {
			panic(fmt.Sprintf("codec: %s.%s: %v", s.Entity, f.Logical, err))
		}
		r[f.Stored] = enc
	}
	return r
}

type reader struct {
	s Schema
	r kv.Record
}

func (d reader) get(logical string) any {
	return d.r[d.s.mustField(logical).Stored]
}

func (d reader) str(logical string) string { return decodeString(d.get(logical)) }

func (d reader) int(logical string) int {
	n, _ := decodeInt(d.get(logical))
	return n
}

func (d reader) optInt(logical string) *int {
	n, ok := decodeInt(d.get(logical))
	if !ok {
		return nil
	}
	return &n
}

func (d reader) float(logical string) float64 { return decodeFloat(d.get(logical)) }

func (d reader) bool(logical string) bool { return decodeBool(d.get(logical)) }

func (d reader) time(logical string) time.Time {
	t, _ := decodeTime(d.get(logical))
	return t
}

func (d reader) optTime(logical string) *time.Time {
	t, ok := decodeTime(d.get(logical))
	if !ok {
		return nil
	}
	return &t
}

func (d reader) strings(logical string) []string { return decodeStrings(d.get(logical)) }

func (d reader) ints(logical string) []int { return decodeInts(d.get(logical)) }

func (d reader) times(logical string) []time.Time { return decodeTimes(d.get(logical)) }

func (d reader) object(logical string, target any) bool { return decodeText(d.get(logical), target) }
