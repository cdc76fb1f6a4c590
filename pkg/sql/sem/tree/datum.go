// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
)

// Datum represents a SQL value as produced by a row source.
type Datum interface {
	// ResolvedType returns the type of the datum.
	ResolvedType() *types.T
	// String returns the datum formatted for display.
	String() string
}

// Datums is a slice of Datum values, one row.
type Datums []Datum

func (d Datums) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range d {
		if i > 0 {
			sb.WriteString(", ")
		}
		if v == nil {
			sb.WriteString("NULL")
			continue
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

type dNull struct{}

// DNull is the NULL Datum.
var DNull Datum = dNull{}

func (dNull) ResolvedType() *types.T { return types.Unknown }
func (dNull) String() string          { return "NULL" }

// DBool is the boolean Datum.
type DBool bool

// DBoolTrue and DBoolFalse are the two boolean datums.
var (
	DBoolTrue  = NewDBool(true)
	DBoolFalse = NewDBool(false)
)

// NewDBool returns a *DBool.
func NewDBool(b bool) *DBool {
	d := DBool(b)
	return &d
}

// ResolvedType implements the Datum interface.
func (*DBool) ResolvedType() *types.T { return types.Bool }

func (d *DBool) String() string { return strconv.FormatBool(bool(*d)) }

// DInt is the integer Datum.
type DInt int64

// NewDInt is a helper routine to create a *DInt initialized from its argument.
func NewDInt(d DInt) *DInt {
	return &d
}

// ResolvedType implements the Datum interface.
func (*DInt) ResolvedType() *types.T { return types.Int }

func (d *DInt) String() string { return strconv.FormatInt(int64(*d), 10) }

// DFloat is the float Datum.
type DFloat float64

// NewDFloat is a helper routine to create a *DFloat initialized from its
// argument.
func NewDFloat(d DFloat) *DFloat {
	return &d
}

// ResolvedType implements the Datum interface.
func (*DFloat) ResolvedType() *types.T { return types.Float }

func (d *DFloat) String() string { return strconv.FormatFloat(float64(*d), 'g', -1, 64) }

// DDecimal is the decimal Datum.
type DDecimal struct {
	apd.Decimal
}

// ParseDDecimal parses and returns the *DDecimal Datum value represented by
// the provided string.
func ParseDDecimal(s string) (*DDecimal, error) {
	dd := &DDecimal{}
	if _, _, err := dd.SetString(strings.TrimSpace(s)); err != nil {
		return nil, err
	}
	return dd, nil
}

// ResolvedType implements the Datum interface.
func (*DDecimal) ResolvedType() *types.T { return types.Decimal }

func (d *DDecimal) String() string { return d.Decimal.String() }

// DString is the string Datum.
type DString string

// NewDString is a helper routine to create a *DString initialized from its
// argument.
func NewDString(d string) *DString {
	r := DString(d)
	return &r
}

// ResolvedType implements the Datum interface.
func (*DString) ResolvedType() *types.T { return types.String }

func (d *DString) String() string { return string(*d) }

// DBytes is the bytes Datum.
type DBytes string

// NewDBytes is a helper routine to create a *DBytes initialized from its
// argument.
func NewDBytes(d DBytes) *DBytes {
	return &d
}

// ResolvedType implements the Datum interface.
func (*DBytes) ResolvedType() *types.T { return types.Bytes }

func (d *DBytes) String() string { return string(*d) }

// DTimestamp is the timestamp Datum.
type DTimestamp struct {
	time.Time
}

// MakeDTimestamp creates a DTimestamp rounded to the microsecond.
func MakeDTimestamp(t time.Time) *DTimestamp {
	return &DTimestamp{Time: t.Round(time.Microsecond)}
}

// ResolvedType implements the Datum interface.
func (*DTimestamp) ResolvedType() *types.T { return types.Timestamp }

func (d *DTimestamp) String() string { return d.Time.Format(TimestampOutputFormat) }

// TimestampOutputFormat is the format used to display timestamps.
const TimestampOutputFormat = "2006-01-02 15:04:05.999999"

// timestampInputFormats are the layouts accepted when parsing a string into a
// timestamp.
var timestampInputFormats = []string{
	TimestampOutputFormat,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	time.RFC3339Nano,
	"2006-01-02",
}

// ParseDTimestamp parses a timestamp in one of the accepted layouts.
func ParseDTimestamp(s string) (*DTimestamp, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range timestampInputFormats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return MakeDTimestamp(t), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
