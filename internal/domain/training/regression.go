package training

import (
	"math"

	"github.com/mindgrove/cortex/internal/domain/artifact"
)

// fitScaler computes the per-feature mean and population standard deviation
// over the training matrix. Features with zero spread get scale 1 so the
// transform stays defined.
func fitScaler(x [][]float64) *artifact.Scaler {
	if len(x) == 0 {
		return &artifact.Scaler{}
	}
	nFeatures := len(x[0])
	mean := make([]float64, nFeatures)
	scale := make([]float64, nFeatures)

	for _, row := range x {
		for f, v := range row {
			mean[f] += v
		}
	}
	n := float64(len(x))
	for f := range mean {
		mean[f] /= n
	}

	for _, row := range x {
		for f, v := range row {
			d := v - mean[f]
			scale[f] += d * d
		}
	}
	for f := range scale {
		scale[f] = math.Sqrt(scale[f] / n)
		if scale[f] == 0 {
			scale[f] = 1
		}
	}

	return &artifact.Scaler{Mean: mean, Scale: scale}
}

// fitWindowRegressor solves ordinary least squares over score windows via
// the normal equations. Each row of windows predicts the corresponding
// target score.
func fitWindowRegressor(windows [][]float64, targets []float64) *artifact.Regressor {
	if len(windows) == 0 || len(windows) != len(targets) {
		return nil
	}
	k := len(windows[0])
	dim := k + 1 // intercept column first

	// Accumulate A^T A and A^T y for the augmented design matrix.
	ata := make([][]float64, dim)
	for i := range ata {
		ata[i] = make([]float64, dim)
	}
	aty := make([]float64, dim)

	row := make([]float64, dim)
	for i, w := range windows {
		row[0] = 1
		copy(row[1:], w)
		for a := 0; a < dim; a++ {
			for b := 0; b < dim; b++ {
				ata[a][b] += row[a] * row[b]
			}
			aty[a] += row[a] * targets[i]
		}
	}

	beta, ok := solveLinearSystem(ata, aty)
	if !ok {
		return nil
	}
	return &artifact.Regressor{Intercept: beta[0], Coef: beta[1:]}
}

// solveLinearSystem performs Gaussian elimination with partial pivoting.
func solveLinearSystem(a [][]float64, b []float64) ([]float64, bool) {
	n := len(b)
	// Work on copies so callers keep their accumulators.
	m := make([][]float64, n)
	for i := range m {
		m[i] = append([]float64(nil), a[i]...)
	}
	v := append([]float64(nil), b...)

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, false
		}
		m[col], m[pivot] = m[pivot], m[col]
		v[col], v[pivot] = v[pivot], v[col]

		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c < n; c++ {
				m[r][c] -= factor * m[col][c]
			}
			v[r] -= factor * v[col]
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := v[i]
		for c := i + 1; c < n; c++ {
			sum -= m[i][c] * x[c]
		}
		x[i] = sum / m[i][i]
	}
	return x, true
}
