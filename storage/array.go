package storage

import (
	"fmt"

	"github.com/notargets/golbm/utils"
)

// Array stores nv distribution (or moment) components over an arbitrary
// dimensional spatial shape as one flat float64 slice. The storage order is
// a permutation over axes (axis 0 is the component axis, axes 1..dim the
// spatial axes) so that a solver can choose component-major or space-major
// memory layout without touching any indexing code.
type Array struct {
	Nv      int
	Shape   []int
	Order   []int
	Data    []float64
	strides []int // per axis in (component, spatial...) numbering
	consm   map[string]int
}

// NewArray allocates an array of nv components over the given spatial
// shape. The optional order permutes the storage layout; the default is
// component-major.
func NewArray(nv int, shape []int, orderO ...[]int) (a *Array) {
	var (
		dim   = len(shape)
		order []int
	)
	if len(orderO) != 0 {
		order = orderO[0]
		if len(order) != dim+1 {
			panic(fmt.Errorf("storage order must permute %d axes, got %v", dim+1, order))
		}
		seen := make([]bool, dim+1)
		for _, ax := range order {
			if ax < 0 || ax > dim || seen[ax] {
				panic(fmt.Errorf("invalid storage order %v", order))
			}
			seen[ax] = true
		}
	} else {
		order = make([]int, dim+1)
		for i := range order {
			order[i] = i
		}
	}
	sizes := make([]int, dim+1)
	sizes[0] = nv
	copy(sizes[1:], shape)
	total := 1
	for _, s := range sizes {
		total *= s
	}
	// stride of an axis is the product of the sizes of the axes stored
	// after it
	strides := make([]int, dim+1)
	acc := 1
	for i := dim; i >= 0; i-- {
		ax := order[i]
		strides[ax] = acc
		acc *= sizes[ax]
	}
	a = &Array{
		Nv:      nv,
		Shape:   append([]int{}, shape...),
		Order:   append([]int{}, order...),
		Data:    make([]float64, total),
		strides: strides,
	}
	return
}

// SetConservedMoments declares the name to component-row map used by
// prescribed boundary value functions.
func (a *Array) SetConservedMoments(consm map[string]int) {
	a.consm = make(map[string]int, len(consm))
	for name, i := range consm {
		if i < 0 || i > a.Nv-1 {
			panic(fmt.Errorf("conserved moment %q maps to component %d, nv = %d", name, i, a.Nv))
		}
		a.consm[name] = i
	}
}

func (a *Array) MomentIndex(name string) (i int, ok bool) {
	i, ok = a.consm[name]
	return
}

func (a *Array) Dim() int { return len(a.Shape) }

func (a *Array) NPoints() (n int) {
	n = 1
	for _, s := range a.Shape {
		n *= s
	}
	return
}

func (a *Array) index(k int, idx []int) (flat int) {
	if k < 0 || k > a.Nv-1 || len(idx) != len(a.Shape) {
		panic(fmt.Errorf("array index out of bounds: k = %d, idx = %v, nv = %d, shape = %v", k, idx, a.Nv, a.Shape))
	}
	flat = k * a.strides[0]
	for i, ix := range idx {
		if ix < 0 || ix > a.Shape[i]-1 {
			panic(fmt.Errorf("array index out of bounds: k = %d, idx = %v, shape = %v", k, idx, a.Shape))
		}
		flat += ix * a.strides[i+1]
	}
	return
}

func (a *Array) At(k int, idx ...int) float64 { return a.Data[a.index(k, idx)] }

func (a *Array) Set(val float64, k int, idx ...int) { a.Data[a.index(k, idx)] = val }

// pointIndex maps a row-major flattened spatial position to per-axis
// indices.
func (a *Array) pointIndex(p int) (idx []int) {
	idx = make([]int, len(a.Shape))
	for i := len(a.Shape) - 1; i >= 0; i-- {
		idx[i] = p % a.Shape[i]
		p /= a.Shape[i]
	}
	return
}

// Component returns component k over all points in row-major spatial
// order.
func (a *Array) Component(k int) (vals []float64) {
	var (
		np = a.NPoints()
	)
	vals = make([]float64, np)
	for p := 0; p < np; p++ {
		vals[p] = a.Data[a.index(k, a.pointIndex(p))]
	}
	return
}

func (a *Array) SetComponent(k int, vals []float64) {
	var (
		np = a.NPoints()
	)
	if len(vals) != np {
		panic(fmt.Errorf("component length mismatch: len = %d, npoints = %d", len(vals), np))
	}
	for p := 0; p < np; p++ {
		a.Data[a.index(k, a.pointIndex(p))] = vals[p]
	}
}

// SetMoment sets the named conserved moment to vals over all points.
func (a *Array) SetMoment(name string, vals []float64) {
	k, ok := a.consm[name]
	if !ok {
		panic(fmt.Errorf("unknown conserved moment %q", name))
	}
	a.SetComponent(k, vals)
}

// FillMoment sets the named conserved moment to a constant over all
// points.
func (a *Array) FillMoment(name string, val float64) {
	k, ok := a.consm[name]
	if !ok {
		panic(fmt.Errorf("unknown conserved moment %q", name))
	}
	np := a.NPoints()
	for p := 0; p < np; p++ {
		a.Data[a.index(k, a.pointIndex(p))] = val
	}
}

// Gather reads one value per column of T, whose rows are (velocity,
// spatial axes...).
func (a *Array) Gather(T *utils.IndexTable) (vals []float64) {
	if T.Nr != len(a.Shape)+1 {
		panic(fmt.Errorf("gather table has %d rows, want %d", T.Nr, len(a.Shape)+1))
	}
	vals = make([]float64, T.Nc)
	idx := make([]int, len(a.Shape))
	for c := 0; c < T.Nc; c++ {
		for i := range idx {
			idx[i] = T.At(i+1, c)
		}
		vals[c] = a.Data[a.index(T.At(0, c), idx)]
	}
	return
}

// Scatter writes one value per column of T.
func (a *Array) Scatter(T *utils.IndexTable, vals []float64) {
	if T.Nr != len(a.Shape)+1 {
		panic(fmt.Errorf("scatter table has %d rows, want %d", T.Nr, len(a.Shape)+1))
	}
	if len(vals) != T.Nc {
		panic(fmt.Errorf("scatter length mismatch: len = %d, ncols = %d", len(vals), T.Nc))
	}
	idx := make([]int, len(a.Shape))
	for c := 0; c < T.Nc; c++ {
		for i := range idx {
			idx[i] = T.At(i+1, c)
		}
		a.Data[a.index(T.At(0, c), idx)] = vals[c]
	}
}

// Swap returns the array contents as an (nv x npoints) matrix, components
// along rows, points in row-major spatial order, independent of the
// storage order.
func (a *Array) Swap() (R utils.Matrix) {
	var (
		np = a.NPoints()
	)
	R = utils.NewMatrix(a.Nv, np)
	for k := 0; k < a.Nv; k++ {
		for p := 0; p < np; p++ {
			R.Set(k, p, a.Data[a.index(k, a.pointIndex(p))])
		}
	}
	return
}
