// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// FlattenInto copies the rows of frame, in row-major order, into dst.
// The frame is copied row by row so that views with a stride larger than
// their number of columns are handled correctly. FlattenInto panics if
// dst does not have exactly rows*cols elements.
func FlattenInto(dst []float64, frame *mat.Dense) {
	r, c := frame.Dims()
	if len(dst) != r*c {
		panic(fmt.Sprintf("flattenInto: invalid destination size\n\twant(%v)"+
			"\n\thave(%v)", r*c, len(dst)))
	}

	for i := 0; i < r; i++ {
		copy(dst[i*c:(i+1)*c], frame.RawRowView(i))
	}
}

// Flatten returns a new slice holding the rows of frame in row-major
// order.
func Flatten(frame *mat.Dense) []float64 {
	r, c := frame.Dims()
	data := make([]float64, r*c)
	FlattenInto(data, frame)
	return data
}

// RowMax computes and returns the maximum of each row of a matrix
func RowMax(matrix *mat.Dense) []float64 {
	r, _ := matrix.Dims()
	rowMax := make([]float64, r)

	for i := 0; i < r; i++ {
		rowMax[i] = floats.Max(matrix.RawRowView(i))
	}
	return rowMax
}

// Mean returns the mean of all elements of a matrix
func Mean(matrix *mat.Dense) float64 {
	r, _ := matrix.Dims()
	rowMeans := make([]float64, r)

	for i := 0; i < r; i++ {
		rowMeans[i] = stat.Mean(matrix.RawRowView(i), nil)
	}
	return stat.Mean(rowMeans, nil)
}
