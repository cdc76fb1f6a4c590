// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colconv

import (
	"github.com/cockroachdb/pipexec/pkg/col/coldata"
	"github.com/cockroachdb/pipexec/pkg/sql/sem/tree"
	"github.com/cockroachdb/pipexec/pkg/sql/types"
)

// VecToDatum returns the datum representation of the idx'th value of vec.
func VecToDatum(vec coldata.Vec, idx int) tree.Datum {
	if vec.Nulls().NullAt(idx) {
		return tree.DNull
	}
	switch vec.CanonicalTypeFamily() {
	case types.BoolFamily:
		return tree.NewDBool(vec.Bool()[idx])
	case types.IntFamily:
		return tree.NewDInt(tree.DInt(vec.Int64()[idx]))
	case types.FloatFamily:
		return tree.NewDFloat(tree.DFloat(vec.Float64()[idx]))
	case types.DecimalFamily:
		d := &tree.DDecimal{}
		d.Set(&vec.Decimal()[idx])
		return d
	case types.BytesFamily:
		if vec.Type().Family() == types.StringFamily {
			return tree.NewDString(string(vec.Bytes()[idx]))
		}
		return tree.NewDBytes(tree.DBytes(vec.Bytes()[idx]))
	case types.TimestampFamily:
		return tree.MakeDTimestamp(vec.Timestamp()[idx])
	default:
		return tree.DNull
	}
}

// BatchToDatumRows converts the rows of b into datum rows. It allocates and
// is meant for result printing and tests.
func BatchToDatumRows(b coldata.Batch) []tree.Datums {
	rows := make([]tree.Datums, b.Length())
	vecs := b.ColVecs()
	for i := range rows {
		row := make(tree.Datums, len(vecs))
		for j, v := range vecs {
			row[j] = VecToDatum(v, i)
		}
		rows[i] = row
	}
	return rows
}
