package utils

import (
	"fmt"
)

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

func NewConstant(N, val int) (r Index) {
	r = make(Index, N)
	for i := 0; i < N; i++ {
		r[i] = val
	}
	return
}

func (I Index) Add(val int) (r Index) {
	r = make(Index, len(I))
	for i, ival := range I {
		r[i] = val + ival
	}
	return r
}

func (I Index) Copy() (r Index) {
	r = make(Index, len(I))
	copy(r, I)
	return
}

func (I Index) Subset(J Index) (r Index) {
	r = make(Index, len(J))
	for j, val := range J {
		r[j] = I[val]
	}
	return
}

func (I Index) Concat(J Index) (r Index) {
	r = make(Index, len(I)+len(J))
	copy(r, I)
	copy(r[len(I):], J)
	return
}

func (I Index) Equal(J Index) bool {
	if len(I) != len(J) {
		return false
	}
	for i, val := range I {
		if val != J[i] {
			return false
		}
	}
	return true
}

func (I Index) Find(op EvalOp, val int) (J Index) {
	switch op {
	case Equal:
		for i, ival := range I {
			if ival == val {
				J = append(J, i)
			}
		}
	case Less:
		for i, ival := range I {
			if ival < val {
				J = append(J, i)
			}
		}
	case Greater:
		for i, ival := range I {
			if ival > val {
				J = append(J, i)
			}
		}
	}
	return
}

// IndexTable is a dense integer table, one column per addressed node. Row 0
// of a destination or load table carries the velocity index, rows 1..dim
// carry the spatial index along each axis.
type IndexTable struct {
	Nr, Nc int
	Data   []int
}

func NewIndexTable(nr, nc int, dataO ...[]int) (T *IndexTable) {
	var data []int
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewIndexTable nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		data = dataO[0]
	} else {
		data = make([]int, nr*nc)
	}
	T = &IndexTable{
		Nr:   nr,
		Nc:   nc,
		Data: data,
	}
	return
}

func (T *IndexTable) At(i, j int) int {
	T.checkBounds(i, j)
	return T.Data[i*T.Nc+j]
}

func (T *IndexTable) Set(i, j, val int) {
	T.checkBounds(i, j)
	T.Data[i*T.Nc+j] = val
}

func (T *IndexTable) checkBounds(i, j int) {
	if i < 0 || i > T.Nr-1 || j < 0 || j > T.Nc-1 {
		panic(fmt.Errorf("index table out of bounds: i,j = %v,%v, nr,nc = %v,%v", i, j, T.Nr, T.Nc))
	}
}

// Row returns row i as an Index sharing no storage with the table.
func (T *IndexTable) Row(i int) (r Index) {
	r = make(Index, T.Nc)
	copy(r, T.Data[i*T.Nc:(i+1)*T.Nc])
	return
}

// Col returns column j, one entry per row.
func (T *IndexTable) Col(j int) (r Index) {
	r = make(Index, T.Nr)
	for i := 0; i < T.Nr; i++ {
		r[i] = T.At(i, j)
	}
	return
}

func (T *IndexTable) Copy() (R *IndexTable) {
	data := make([]int, len(T.Data))
	copy(data, T.Data)
	return NewIndexTable(T.Nr, T.Nc, data)
}

// ConcatRows stacks the rows of A below the receiver's rows, returning a
// new table.
func (T *IndexTable) ConcatRows(A *IndexTable) (R *IndexTable) {
	if T.Nc != A.Nc {
		panic(fmt.Errorf("column count mismatch in ConcatRows: %v vs %v", T.Nc, A.Nc))
	}
	R = NewIndexTable(T.Nr+A.Nr, T.Nc)
	copy(R.Data, T.Data)
	copy(R.Data[T.Nr*T.Nc:], A.Data)
	return
}

// ConcatCols appends the columns of A to the right of the receiver's
// columns, returning a new table.
func (T *IndexTable) ConcatCols(A *IndexTable) (R *IndexTable) {
	if T.Nr != A.Nr {
		panic(fmt.Errorf("row count mismatch in ConcatCols: %v vs %v", T.Nr, A.Nr))
	}
	R = NewIndexTable(T.Nr, T.Nc+A.Nc)
	for i := 0; i < T.Nr; i++ {
		copy(R.Data[i*R.Nc:], T.Data[i*T.Nc:(i+1)*T.Nc])
		copy(R.Data[i*R.Nc+T.Nc:], A.Data[i*A.Nc:(i+1)*A.Nc])
	}
	return
}

func (T *IndexTable) Equal(A *IndexTable) bool {
	if T.Nr != A.Nr || T.Nc != A.Nc {
		return false
	}
	for i, val := range T.Data {
		if val != A.Data[i] {
			return false
		}
	}
	return true
}
