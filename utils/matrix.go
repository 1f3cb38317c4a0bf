package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix wraps a gonum dense matrix with the column-batch operations used
// throughout the boundary engine, where one column corresponds to one
// boundary node.
type Matrix struct {
	M *mat.Dense
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{m}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)    { return m.M.Dims() }
func (m Matrix) At(i, j int) float64 { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix       { return m.M.T() }

func (m Matrix) Data() []float64 { return m.M.RawMatrix().Data }

func (m Matrix) Set(i, j int, val float64) { m.M.Set(i, j, val) }

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, m.M.RawMatrix().Data)
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Zero() {
	data := m.M.RawMatrix().Data
	for i := range data {
		data[i] = 0.
	}
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.M.Dims()
		_, ncA = A.M.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return R
}

func (m Matrix) Inverse() (R Matrix, err error) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("matrix must be square for inverse, nr,nc = %v,%v", nr, nc)
		return
	}
	R = NewMatrix(nr, nc)
	err = R.M.Inverse(m.M)
	return
}

func (m Matrix) Col(j int) (C []float64) {
	var (
		nr, nc = m.Dims()
	)
	if j < 0 || j > nc-1 {
		panic(fmt.Errorf("column index out of bounds: j = %v, nc = %v", j, nc))
	}
	C = make([]float64, nr)
	for i := 0; i < nr; i++ {
		C[i] = m.At(i, j)
	}
	return
}

func (m Matrix) SetCol(j int, C []float64) {
	var (
		nr, _ = m.Dims()
	)
	if len(C) != nr {
		panic(fmt.Errorf("column length mismatch: len = %v, nr = %v", len(C), nr))
	}
	m.M.SetCol(j, C)
}

// SliceCols extracts the columns listed in J, preserving their order.
func (m Matrix) SliceCols(J Index) (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nr, len(J))
	for jj, j := range J {
		if j < 0 || j > nc-1 {
			panic(fmt.Errorf("unable to subset col from matrix, index out of bounds: j = %v, nc = %v", j, nc))
		}
		for i := 0; i < nr; i++ {
			R.Set(i, jj, m.At(i, j))
		}
	}
	return
}

// AssignCols writes the columns of A into the receiver at the column
// positions listed in J: m[:,J[c]] = A[:,c].
func (m Matrix) AssignCols(J Index, A Matrix) {
	var (
		nr, nc   = m.Dims()
		nrA, ncA = A.Dims()
	)
	if nr != nrA || len(J) != ncA {
		panic(fmt.Errorf("dimension mismatch in AssignCols: nr,nrA = %v,%v, len(J),ncA = %v,%v", nr, nrA, len(J), ncA))
	}
	for c, j := range J {
		if j < 0 || j > nc-1 {
			panic(fmt.Errorf("column index out of bounds: j = %v, nc = %v", j, nc))
		}
		for i := 0; i < nr; i++ {
			m.Set(i, j, A.At(i, c))
		}
	}
}

func (m Matrix) Equal(A Matrix) bool {
	var (
		nr, nc   = m.Dims()
		nrA, ncA = A.Dims()
	)
	if nr != nrA || nc != ncA {
		return false
	}
	dm, da := m.M.RawMatrix().Data, A.M.RawMatrix().Data
	for i, val := range dm {
		if val != da[i] {
			return false
		}
	}
	return true
}
