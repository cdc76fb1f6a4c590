// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colconv

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/sem/tree"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
)

// decimalCtx is used when rounding decimals for integer columns.
var decimalCtx = apd.BaseContext.WithPrecision(38)

// castable lists, for each target family, the source families whose values
// can be written into a column of that family.
var castable = map[types.Family][]types.Family{
	types.BoolFamily:      {types.BoolFamily, types.IntFamily, types.StringFamily},
	types.IntFamily:       {types.IntFamily, types.BoolFamily, types.StringFamily, types.DecimalFamily},
	types.FloatFamily:     {types.FloatFamily, types.IntFamily, types.DecimalFamily, types.StringFamily},
	types.DecimalFamily:   {types.DecimalFamily, types.IntFamily, types.FloatFamily, types.StringFamily},
	types.StringFamily:    {types.StringFamily, types.BytesFamily, types.BoolFamily, types.IntFamily, types.FloatFamily, types.DecimalFamily, types.TimestampFamily},
	types.BytesFamily:     {types.BytesFamily, types.StringFamily},
	types.TimestampFamily: {types.TimestampFamily, types.StringFamily},
}

// CanCast returns whether values of type from can be written into a column
// of type to. NULLs fit in every column, and an UNKNOWN column accepts any
// source since it only ever holds NULLs.
func CanCast(from, to *types.T) bool {
	if from.Family() == types.UnknownFamily || to.Family() == types.UnknownFamily {
		return true
	}
	for _, f := range castable[to.Family()] {
		if f == from.Family() {
			return true
		}
	}
	return false
}

// DatumToVec writes d into the idx'th position of vec, converting it to the
// type of vec. A nil datum or DNull sets the null bit.
func DatumToVec(d tree.Datum, vec coldata.Vec, idx int) error {
	if d == nil || d == tree.DNull {
		vec.Nulls().SetNull(idx)
		return nil
	}
	t := vec.Type()
	switch vec.CanonicalTypeFamily() {
	case types.UnknownFamily:
		// The column is all-NULL regardless of the value.
		return nil
	case types.BoolFamily:
		v, err := toBool(d)
		if err != nil {
			return castErr(err, d, t)
		}
		vec.Bool()[idx] = v
	case types.IntFamily:
		v, err := toInt(d)
		if err != nil {
			return castErr(err, d, t)
		}
		if t.Width() == 32 && (v > math.MaxInt32 || v < math.MinInt32) {
			return errors.Newf("integer %d out of range for type %s", v, t)
		}
		vec.Int64()[idx] = v
	case types.FloatFamily:
		v, err := toFloat(d)
		if err != nil {
			return castErr(err, d, t)
		}
		vec.Float64()[idx] = v
	case types.DecimalFamily:
		if err := toDecimal(d, &vec.Decimal()[idx]); err != nil {
			return castErr(err, d, t)
		}
	case types.BytesFamily:
		switch v := d.(type) {
		case *tree.DString:
			vec.Bytes()[idx] = []byte(*v)
		case *tree.DBytes:
			vec.Bytes()[idx] = []byte(*v)
		default:
			if t.Family() != types.StringFamily {
				return castErr(nil, d, t)
			}
			vec.Bytes()[idx] = []byte(d.String())
		}
	case types.TimestampFamily:
		v, err := toTimestamp(d)
		if err != nil {
			return castErr(err, d, t)
		}
		vec.Timestamp()[idx] = v
	default:
		return errors.AssertionFailedf("unhandled type %s", t)
	}
	return nil
}

func castErr(cause error, d tree.Datum, t *types.T) error {
	if cause == nil {
		return errors.Newf("cannot convert %s value %q to %s", d.ResolvedType(), d.String(), t)
	}
	return errors.Wrapf(cause, "cannot convert %s value %q to %s", d.ResolvedType(), d.String(), t)
}

func toBool(d tree.Datum) (bool, error) {
	switch v := d.(type) {
	case *tree.DBool:
		return bool(*v), nil
	case *tree.DInt:
		return *v != 0, nil
	case *tree.DString:
		switch strings.ToLower(strings.TrimSpace(string(*v))) {
		case "on", "yes", "1":
			return true, nil
		case "off", "no", "0":
			return false, nil
		}
		return strconv.ParseBool(strings.TrimSpace(string(*v)))
	}
	return false, errors.New("unsupported conversion")
}

func toInt(d tree.Datum) (int64, error) {
	switch v := d.(type) {
	case *tree.DInt:
		return int64(*v), nil
	case *tree.DBool:
		if *v {
			return 1, nil
		}
		return 0, nil
	case *tree.DString:
		return strconv.ParseInt(strings.TrimSpace(string(*v)), 10, 64)
	case *tree.DDecimal:
		var r apd.Decimal
		if _, err := decimalCtx.RoundToIntegralValue(&r, &v.Decimal); err != nil {
			return 0, err
		}
		return r.Int64()
	}
	return 0, errors.New("unsupported conversion")
}

func toFloat(d tree.Datum) (float64, error) {
	switch v := d.(type) {
	case *tree.DFloat:
		return float64(*v), nil
	case *tree.DInt:
		return float64(*v), nil
	case *tree.DDecimal:
		return v.Float64()
	case *tree.DString:
		return strconv.ParseFloat(strings.TrimSpace(string(*v)), 64)
	}
	return 0, errors.New("unsupported conversion")
}

func toDecimal(d tree.Datum, dst *apd.Decimal) error {
	switch v := d.(type) {
	case *tree.DDecimal:
		dst.Set(&v.Decimal)
		return nil
	case *tree.DInt:
		dst.SetInt64(int64(*v))
		return nil
	case *tree.DFloat:
		_, err := dst.SetFloat64(float64(*v))
		return err
	case *tree.DString:
		_, _, err := dst.SetString(strings.TrimSpace(string(*v)))
		return err
	}
	return errors.New("unsupported conversion")
}

func toTimestamp(d tree.Datum) (time.Time, error) {
	switch v := d.(type) {
	case *tree.DTimestamp:
		return v.Time, nil
	case *tree.DString:
		ts, err := tree.ParseDTimestamp(string(*v))
		if err != nil {
			return time.Time{}, err
		}
		return ts.Time, nil
	}
	return time.Time{}, errors.New("unsupported conversion")
}
