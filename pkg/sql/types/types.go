// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package types

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Family is the broad category a type belongs to. Types of the same family
// share a physical representation in coldata.
type Family int32

const (
	// UnknownFamily is the family of the NULL-only type.
	UnknownFamily Family = iota
	// BoolFamily is the family of boolean values.
	BoolFamily
	// IntFamily is the family of signed integers of any width.
	IntFamily
	// FloatFamily is the family of double precision floats.
	FloatFamily
	// DecimalFamily is the family of arbitrary precision decimals.
	DecimalFamily
	// StringFamily is the family of UTF-8 strings.
	StringFamily
	// BytesFamily is the family of opaque byte strings.
	BytesFamily
	// TimestampFamily is the family of timestamps without time zone.
	TimestampFamily
)

var familyNames = [...]string{
	UnknownFamily:   "unknown",
	BoolFamily:      "bool",
	IntFamily:       "int",
	FloatFamily:     "float",
	DecimalFamily:   "decimal",
	StringFamily:    "string",
	BytesFamily:     "bytes",
	TimestampFamily: "timestamp",
}

func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return fmt.Sprintf("Family(%d)", int32(f))
	}
	return familyNames[f]
}

// T is the semantic type of an output slot. Values of *T are compared by
// pointer for the predefined types; use Equivalent when the width matters
// less than the family.
type T struct {
	family Family
	width  int32
	name   string
}

var (
	// Unknown is the type of a NULL literal.
	Unknown = &T{family: UnknownFamily, name: "UNKNOWN"}
	// Bool is the boolean type.
	Bool = &T{family: BoolFamily, name: "BOOL"}
	// Int is the 64-bit integer type.
	Int = &T{family: IntFamily, width: 64, name: "INT8"}
	// Int4 is the 32-bit integer type. It is stored in 64-bit columns.
	Int4 = &T{family: IntFamily, width: 32, name: "INT4"}
	// Float is the 64-bit float type.
	Float = &T{family: FloatFamily, width: 64, name: "FLOAT8"}
	// Decimal is the arbitrary precision decimal type.
	Decimal = &T{family: DecimalFamily, name: "DECIMAL"}
	// String is the variable length string type.
	String = &T{family: StringFamily, name: "STRING"}
	// Bytes is the variable length byte string type.
	Bytes = &T{family: BytesFamily, name: "BYTES"}
	// Timestamp is the timestamp type.
	Timestamp = &T{family: TimestampFamily, name: "TIMESTAMP"}
)

// Scalar contains all the predefined types.
var Scalar = []*T{Bool, Int, Int4, Float, Decimal, String, Bytes, Timestamp}

// Family returns the family of the type.
func (t *T) Family() Family { return t.family }

// Width returns the bit width of integer and float types, and 0 otherwise.
func (t *T) Width() int32 { return t.width }

// Name returns the canonical SQL name of the type.
func (t *T) Name() string { return t.name }

func (t *T) String() string { return t.name }

// Equivalent returns whether t and other share a family.
func (t *T) Equivalent(other *T) bool {
	return t.family == other.family
}

// Identical returns whether t and other are the same type.
func (t *T) Identical(other *T) bool {
	return t.family == other.family && t.width == other.width
}

// aliases maps every SQL spelling we accept to a predefined type.
var aliases = map[string]*T{
	"BOOL":      Bool,
	"BOOLEAN":   Bool,
	"INT":       Int,
	"INT8":      Int,
	"INT64":     Int,
	"BIGINT":    Int,
	"INT4":      Int4,
	"INTEGER":   Int4,
	"FLOAT":     Float,
	"FLOAT8":    Float,
	"DOUBLE":    Float,
	"DECIMAL":   Decimal,
	"NUMERIC":   Decimal,
	"STRING":    String,
	"TEXT":      String,
	"VARCHAR":   String,
	"CHAR":      String,
	"BYTES":     Bytes,
	"BLOB":      Bytes,
	"TIMESTAMP": Timestamp,
	"DATETIME":  Timestamp,
}

// FromString returns the predefined type with the given SQL name. Length
// modifiers such as VARCHAR(64) are accepted and ignored.
func FromString(name string) (*T, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if i := strings.IndexByte(n, '('); i >= 0 {
		n = strings.TrimSpace(n[:i])
	}
	if t, ok := aliases[n]; ok {
		return t, nil
	}
	return nil, errors.Newf("unknown type %q", name)
}

// TypeRef is a type as spelled in YAML plan and catalog files.
type TypeRef struct {
	*T
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (r *TypeRef) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	t, err := FromString(s)
	if err != nil {
		return err
	}
	r.T = t
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (r TypeRef) MarshalYAML() (interface{}, error) {
	if r.T == nil {
		return nil, nil
	}
	return r.T.name, nil
}
