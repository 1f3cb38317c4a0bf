package boundary

import (
	"fmt"
	"sort"

	"github.com/notargets/golbm/domain"
	"github.com/notargets/golbm/scheme"
	"github.com/notargets/golbm/stencil"
	"github.com/notargets/golbm/storage"
	"github.com/notargets/golbm/utils"
)

// Method owns the batched tables of one condition: the destination table
// IStore (row 0 velocity index, rows 1..dim spatial index), the parallel
// label and distance columns, the equilibrium table Feq, the forcing
// column Rhs, and the neighbor read tables ILoad derived by the
// condition's rule. Geometry tables are built once at compile time and
// never mutated by Update; only Feq and Rhs change when prescribed values
// do.
type Method struct {
	Cond     Condition
	IStore   *utils.IndexTable
	ILabel   utils.Index
	Distance []float64
	Feq      utils.Matrix
	Rhs      []float64
	ILoad    []*utils.IndexTable
	S        []float64 // Bouzidi interpolation weight per column
	Stencil  *stencil.Stencil
	ValueBC  map[int]*Value
	rule     rule
}

// NewMethod keeps only the prescribed values of labels actually present
// in its own columns.
func NewMethod(cond Condition, istore *utils.IndexTable, ilabel utils.Index,
	distance []float64, st *stencil.Stencil, valueBC map[int]*Value) (bm *Method, err error) {
	r, ok := rules[cond]
	if !ok {
		err = fmt.Errorf("no rule registered for condition %v", cond)
		return
	}
	bm = &Method{
		Cond:     cond,
		IStore:   istore,
		ILabel:   ilabel,
		Distance: distance,
		Feq:      utils.NewMatrix(st.NvTot(), istore.Nc),
		Rhs:      make([]float64, istore.Nc),
		Stencil:  st,
		ValueBC:  make(map[int]*Value),
		rule:     r,
	}
	for _, label := range ilabel {
		if v, have := valueBC[label]; have {
			bm.ValueBC[label] = v
		}
	}
	return
}

// NCols is the number of boundary columns this method owns.
func (bm *Method) NCols() int { return bm.IStore.Nc }

// SetLoadIndices derives the neighbor read tables from the static
// geometry. Idempotent: repeated calls with unchanged geometry rebuild
// identical tables.
func (bm *Method) SetLoadIndices() {
	bm.ILoad = bm.ILoad[:0]
	bm.S = nil
	bm.rule.loads(bm)
}

// PrepareRHS gathers, for every label with a prescribed value, the
// physical coordinates of its columns interpolated to the true wall
// position, invokes the value function on fresh moment/distribution
// scratch arrays, and stores the resulting equilibrium distribution into
// the matching Feq columns. Labels without a value keep zero equilibrium
// columns.
func (bm *Method) PrepareRHS(dom *domain.Domain, sch *scheme.Scheme) (err error) {
	if sch.Nv != bm.Stencil.NvTot() {
		err = fmt.Errorf("scheme has %d components, stencil has %d velocities", sch.Nv, bm.Stencil.NvTot())
		return
	}
	labels := make([]int, 0, len(bm.ValueBC))
	for label := range bm.ValueBC {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	for _, label := range labels {
		value := bm.ValueBC[label]
		if value == nil {
			continue
		}
		J := bm.ILabel.Find(utils.Equal, label)
		if len(J) == 0 {
			continue
		}
		coords := bm.wallCoords(dom, J)

		m := storage.NewArray(sch.Nv, []int{len(J)})
		m.SetConservedMoments(sch.ConservedMoments())
		f := storage.NewArray(sch.Nv, []int{len(J)})
		f.SetConservedMoments(sch.ConservedMoments())

		value.F(f, m, coords, value.Args...)
		sch.Equilibrium(m)
		sch.M2F(m, f)
		bm.Feq.AssignCols(J, f.Swap())
	}
	return
}

// wallCoords interpolates each column's node position toward the wall:
// x + (1-distance) * v * dx along each axis.
func (bm *Method) wallCoords(dom *domain.Domain, J utils.Index) (coords [][]float64) {
	coords = make([][]float64, dom.Dim)
	for i := 0; i < dom.Dim; i++ {
		x := make([]float64, len(J))
		for c, j := range J {
			k := bm.IStore.At(0, j)
			s := 1. - bm.Distance[j]
			x[c] = dom.CoordsHalo[i][bm.IStore.At(i+1, j)] + s*float64(bm.Stencil.Velocities[k][i])*dom.Dx
		}
		coords[i] = x
	}
	return
}

// SetRHS recomputes the forcing column from the equilibrium table.
// Conditions without a forcing term (Neumann family) leave Rhs zero.
func (bm *Method) SetRHS() {
	if bm.rule.rhs != nil {
		bm.rule.rhs(bm)
	}
}

// Update applies the condition's closed-form rule, writing exactly the
// destination columns.
func (bm *Method) Update(f *storage.Array) {
	bm.rule.update(bm, f)
}
