package boundary

import (
	"fmt"
	"sort"

	"github.com/notargets/golbm/domain"
	"github.com/notargets/golbm/scheme"
	"github.com/notargets/golbm/storage"
	"github.com/notargets/golbm/utils"
)

// ValueFunc prescribes boundary values: it fills the moment array m (and
// may touch the distribution array f) at the wall coordinates, one entry
// per boundary column. coords carries one slice per axis.
type ValueFunc func(f, m *storage.Array, coords [][]float64, args ...float64)

// Value is a prescribed boundary value: a function plus optional fixed
// extra arguments appended after the coordinates.
type Value struct {
	F    ValueFunc
	Args []float64
}

// LabelSpec assigns, per velocity family, a condition to one label, with
// an optional prescribed value.
type LabelSpec struct {
	Methods map[int]Condition
	Value   *Value
}

// Config maps each non-reserved label of the domain to its boundary
// treatment.
type Config map[int]LabelSpec

// Boundary is the compiled set of boundary methods, one per condition
// actually referenced, in first-encountered order.
type Boundary struct {
	Methods []*Method
}

// Compile resolves every (label, velocity) boundary record of the domain
// and batches them into one Method per condition. The traversal is
// deterministic: labels ascending, family ids ascending, velocities in
// family order, so repeated compiles of the same inputs produce identical
// column ordering. All configuration defects surface here, never at
// update time.
func Compile(dom *domain.Domain, cfg Config) (b *Boundary, err error) {
	var (
		st     = dom.Stencil
		labels = dom.ListOfLabels()
	)
	if err = validateConfig(dom, cfg); err != nil {
		return
	}

	type accumulator struct {
		cond     Condition
		istore   *utils.IndexTable
		ilabel   utils.Index
		distance []float64
	}
	var (
		accs    []*accumulator
		accIdx  = make(map[Condition]int)
		valueBC = make(map[int]*Value)
	)
	for _, label := range labels {
		if label == domain.LabelPeriodic || label == domain.LabelInterface {
			continue
		}
		spec, ok := cfg[label]
		if !ok {
			err = fmt.Errorf("no boundary condition configured for label %d", label)
			return
		}
		valueBC[label] = spec.Value

		families := make([]int, 0, len(spec.Methods))
		for k := range spec.Methods {
			families = append(families, k)
		}
		sort.Ints(families)
		for _, kf := range families {
			cond := spec.Methods[kf]
			for p := 0; p < st.FamilySize(kf); p++ {
				bv := NewBoundaryVelocity(dom, label, st.FamilyUnique(kf, p))
				if bv.Empty() {
					continue
				}
				k := st.NvPtr[kf] + p
				for c, dist := range bv.Distance {
					if dist < 0. || dist >= 1. {
						err = fmt.Errorf("label %d, velocity %d: distance %v at cell %v outside [0,1)",
							label, k, dist, bv.Indices.Col(c))
						return
					}
				}
				istore := utils.NewIndexTable(1, bv.Indices.Nc)
				for c := 0; c < bv.Indices.Nc; c++ {
					istore.Set(0, c, k)
				}
				istore = istore.ConcatRows(bv.Indices)
				ai, have := accIdx[cond]
				if !have {
					accIdx[cond] = len(accs)
					accs = append(accs, &accumulator{
						cond:     cond,
						istore:   istore,
						ilabel:   utils.NewConstant(istore.Nc, label),
						distance: append([]float64{}, bv.Distance...),
					})
				} else {
					accs[ai].istore = accs[ai].istore.ConcatCols(istore)
					accs[ai].ilabel = accs[ai].ilabel.Concat(utils.NewConstant(istore.Nc, label))
					accs[ai].distance = append(accs[ai].distance, bv.Distance...)
				}
			}
		}
	}

	b = &Boundary{}
	for _, acc := range accs {
		var bm *Method
		if bm, err = NewMethod(acc.cond, acc.istore, acc.ilabel, acc.distance, st, valueBC); err != nil {
			b = nil
			return
		}
		b.Methods = append(b.Methods, bm)
	}
	if err = b.checkUniqueTargets(); err != nil {
		b = nil
		return
	}
	return
}

// validateConfig rejects reserved label misuse, axis-restricted conditions
// outside the domain dimensionality, unknown families, and malformed
// prescribed values before any table is built.
func validateConfig(dom *domain.Domain, cfg Config) (err error) {
	st := dom.Stencil
	labels := make([]int, 0, len(cfg))
	for label := range cfg {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	for _, label := range labels {
		spec := cfg[label]
		if label == domain.LabelPeriodic || label == domain.LabelInterface {
			return fmt.Errorf("label %d is reserved (periodic/interface) and takes no boundary method", label)
		}
		if len(spec.Methods) == 0 {
			return fmt.Errorf("label %d configures no method", label)
		}
		for kf, cond := range spec.Methods {
			if kf < 0 || kf > st.NFamilies()-1 {
				return fmt.Errorf("label %d references velocity family %d, stencil has %d", label, kf, st.NFamilies())
			}
			if ax := cond.axis(); ax >= dom.Dim {
				return fmt.Errorf("label %d: %v restricts axis %d in a %dD domain", label, cond, ax, dom.Dim)
			}
			if _, ok := rules[cond]; !ok {
				return fmt.Errorf("label %d references unknown condition %v", label, cond)
			}
		}
		if spec.Value != nil && spec.Value.F == nil {
			return fmt.Errorf("label %d prescribes extra value arguments without a value function", label)
		}
	}
	return
}

// checkUniqueTargets enforces the disjoint-destination invariant: no two
// compiled columns, across all methods, may rewrite the same distribution
// component at the same cell.
func (b *Boundary) checkUniqueTargets() (err error) {
	seen := make(map[string]Condition)
	for _, bm := range b.Methods {
		T := bm.IStore
		for c := 0; c < T.Nc; c++ {
			key := fmt.Sprint(T.Col(c))
			if prev, dup := seen[key]; dup {
				return fmt.Errorf("duplicate boundary target: velocity %d at cell %v claimed by both %v and %v (label %d)",
					T.At(0, c), T.Col(c)[1:], prev, bm.Cond, bm.ILabel[c])
			}
			seen[key] = bm.Cond
		}
	}
	return
}

// SetLoadIndices derives the neighbor read tables of every method. Call
// once after Compile, before PrepareRHS or Update.
func (b *Boundary) SetLoadIndices() {
	for _, bm := range b.Methods {
		bm.SetLoadIndices()
	}
}

// PrepareRHS evaluates the prescribed values at the true wall positions
// and recomputes every method's forcing term. May be called again whenever
// prescribed values change.
func (b *Boundary) PrepareRHS(dom *domain.Domain, sch *scheme.Scheme) (err error) {
	for _, bm := range b.Methods {
		if err = bm.PrepareRHS(dom, sch); err != nil {
			return
		}
		bm.SetRHS()
	}
	return
}

// Update applies every method's rule to the distribution field. Methods
// touch disjoint columns, so their order is immaterial; an empty method
// list is a no-op.
func (b *Boundary) Update(f *storage.Array) {
	for _, bm := range b.Methods {
		bm.Update(f)
	}
}
