// Package codec maps typed entities to flat stored records and back.
//
// Every entity has an explicit Schema listing each logical (camelCase) field,
// its stored (snake_case) name and its storage kind. Encoders write every
// field in the schema; decoders never fail, substituting the zero value for a
// missing or corrupt field.
package codec

import (
	"errors"
	"fmt"
)

// Kind is the storage representation of a field.
type Kind int

const (
	KindString Kind = iota
	KindOptString
	KindInt
	KindOptInt
	KindFloat
	KindBool
	KindTime
	KindOptTime
	KindStrings
	KindInts
	KindTimes
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindOptString:
		return "optstring"
	case KindInt:
		return "int"
	case KindOptInt:
		return "optint"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindOptTime:
		return "opttime"
	case KindStrings:
		return "strings"
	case KindInts:
		return "ints"
	case KindTimes:
		return "times"
	case KindObject:
		return "object"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var (
	ErrUnknownField = errors.New("unknown field")
	ErrFieldType    = errors.New("field value has wrong type")
)

type Field struct {
	Logical string
	Stored  string
	Kind    Kind
}

// Schema is the field table of one entity type.
type Schema struct {
	Entity string
	Table  string
	Fields []Field
}

// Field looks up a field by its logical name.
func (s Schema) Field(logical string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Logical == logical {
			return f, true
		}
	}
	return Field{}, false
}

func (s Schema) mustField(logical string) Field {
	f, ok := s.Field(logical)
	if !ok {
		panic(fmt.Sprintf("codec: %s schema has no field %q", s.Entity, logical))
	}
	return f
}

// Patch is a sparse update keyed by logical field name.
type Patch map[string]any

// Encode converts a patch into stored field names and stored values.
func Encode(s Schema, p Patch) (map[string]any, error) {
	out := make(map[string]any, len(p))
	for logical, v := range p {
		f, ok := s.Field(logical)
		if !ok {
			return nil, fmt.Errorf("%w %q for %s", ErrUnknownField, logical, s.Entity)
		}
		enc, err := encodeValue(f.Kind, v)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.Entity, logical, err)
		}
		out[f.Stored] = enc
	}
	return out, nil
}
