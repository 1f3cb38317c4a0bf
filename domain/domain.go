package domain

import (
	"fmt"
	"sort"

	"github.com/notargets/golbm/stencil"
	"github.com/notargets/golbm/utils"
)

// Reserved labels. Periodic and interface cells are handled outside the
// boundary engine; LabelNone marks a cell/velocity pair that crosses no
// boundary within one propagation step.
const (
	LabelPeriodic  = -1
	LabelInterface = -2
	LabelNone      = -3
)

// Domain carries the geometric inputs of the boundary engine: for every
// unique stencil velocity, the label of the boundary a cell would cross
// along that velocity and the fractional distance to it, plus the
// halo-extended per-axis coordinates.
type Domain struct {
	Dim        int
	Dx         float64
	Stencil    *stencil.Stencil
	Shape      []int // halo-extended sizes per axis
	CoordsHalo [][]float64
	Flag       []utils.Index // per unique velocity, row-major over Shape
	Distance   [][]float64   // parallel to Flag
}

// NewDomain allocates an empty domain: all flags LabelNone. Cell centered
// coordinates start at -dx/2 so the first interior layer sits at dx/2.
func NewDomain(st *stencil.Stencil, shape []int, dx float64) (d *Domain) {
	if len(shape) != st.Dim {
		panic(fmt.Errorf("shape %v does not match stencil dimension %d", shape, st.Dim))
	}
	d = &Domain{
		Dim:     st.Dim,
		Dx:      dx,
		Stencil: st,
		Shape:   append([]int{}, shape...),
	}
	for i := 0; i < d.Dim; i++ {
		x := make([]float64, shape[i])
		for j := range x {
			x[j] = (float64(j) - 0.5) * dx
		}
		d.CoordsHalo = append(d.CoordsHalo, x)
	}
	np := d.NPoints()
	for u := 0; u < st.UnvTot(); u++ {
		d.Flag = append(d.Flag, utils.NewConstant(np, LabelNone))
		d.Distance = append(d.Distance, make([]float64, np))
	}
	return
}

func (d *Domain) NPoints() (n int) {
	n = 1
	for _, s := range d.Shape {
		n *= s
	}
	return
}

// Flatten maps per-axis cell indices to the row-major position used by
// the flag and distance arrays.
func (d *Domain) Flatten(idx []int) (p int) {
	for i, ix := range idx {
		if ix < 0 || ix > d.Shape[i]-1 {
			panic(fmt.Errorf("cell index out of bounds: idx = %v, shape = %v", idx, d.Shape))
		}
		p = p*d.Shape[i] + ix
	}
	return
}

func (d *Domain) Unflatten(p int) (idx []int) {
	idx = make([]int, d.Dim)
	for i := d.Dim - 1; i >= 0; i-- {
		idx[i] = p % d.Shape[i]
		p /= d.Shape[i]
	}
	return
}

// SetBoundary flags cell idx as crossing the labeled boundary along unique
// velocity u at fractional distance dist.
func (d *Domain) SetBoundary(u int, idx []int, label int, dist float64) {
	p := d.Flatten(idx)
	d.Flag[u][p] = label
	d.Distance[u][p] = dist
}

// ListOfLabels enumerates the labels present in the flag arrays, sorted
// ascending for a reproducible traversal order.
func (d *Domain) ListOfLabels() (labels utils.Index) {
	seen := make(map[int]bool)
	for _, flag := range d.Flag {
		for _, lab := range flag {
			if lab != LabelNone && !seen[lab] {
				seen[lab] = true
				labels = append(labels, lab)
			}
		}
	}
	sort.Ints(labels)
	return
}

// NewBox builds a rectangular domain of the given interior sizes with one
// halo layer. faceLabels names the boundary met at each face, ordered
// [xmin, xmax, ymin, ymax, ...]. Walls sit halfway between the last
// interior cell and the halo, so grid-aligned crossings carry distance
// 0.5.
func NewBox(st *stencil.Stencil, interior []int, dx float64, faceLabels []int) (d *Domain, err error) {
	if len(interior) != st.Dim {
		err = fmt.Errorf("interior shape %v does not match stencil dimension %d", interior, st.Dim)
		return
	}
	if len(faceLabels) != 2*st.Dim {
		err = fmt.Errorf("need %d face labels, got %d", 2*st.Dim, len(faceLabels))
		return
	}
	shape := make([]int, st.Dim)
	for i, n := range interior {
		if n < 1 {
			err = fmt.Errorf("interior size must be positive, got %v", interior)
			return
		}
		shape[i] = n + 2
	}
	d = NewDomain(st, shape, dx)
	idx := make([]int, st.Dim)
	var fill func(axis int)
	fill = func(axis int) {
		if axis == st.Dim {
			d.flagCell(idx, interior, faceLabels)
			return
		}
		for i := 1; i <= interior[axis]; i++ {
			idx[axis] = i
			fill(axis + 1)
		}
	}
	fill(0)
	return
}

// flagCell finds, for each unique velocity leaving the interior cell, the
// nearest face plane crossed within one propagation step.
func (d *Domain) flagCell(idx, interior, faceLabels []int) {
	for u, v := range d.Stencil.UniqueVelocities {
		var (
			tmin = 2.
			face = -1
		)
		for a, c := range v {
			if c == 0 {
				continue
			}
			var t float64
			var f int
			if c > 0 {
				t = (float64(interior[a]) + 0.5 - float64(idx[a])) / float64(c)
				f = 2*a + 1
			} else {
				t = (0.5 - float64(idx[a])) / float64(c)
				f = 2 * a
			}
			if t < tmin {
				tmin = t
				face = f
			}
		}
		if face >= 0 && tmin < 1. {
			d.SetBoundary(u, idx, faceLabels[face], tmin)
		}
	}
}
