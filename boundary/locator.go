package boundary

import (
	"github.com/notargets/golbm/domain"
	"github.com/notargets/golbm/utils"
)

// BoundaryVelocity holds, for one label and the unique velocity ksym
// entering the domain, the spatial indices of the exterior cells whose
// distribution must be rewritten and the fractional distance from each to
// the true wall. The search runs from the interior along the symmetric
// (outgoing) velocity; the hit cells are then shifted by that outgoing
// direction to land on the exterior cell itself.
type BoundaryVelocity struct {
	Label    int
	Ksym     int
	Indices  *utils.IndexTable // dim rows, one column per exterior cell
	Distance []float64
}

// NewBoundaryVelocity scans the domain flag array of the velocity
// symmetric to ksym for cells bordering the labeled wall. An empty record
// is a normal outcome.
func NewBoundaryVelocity(dom *domain.Domain, label, ksym int) (bv *BoundaryVelocity) {
	var (
		st  = dom.Stencil
		num = st.USym[ksym] // outgoing unique velocity index
		v   = st.UniqueVelocities[num]
	)
	bv = &BoundaryVelocity{
		Label: label,
		Ksym:  ksym,
	}
	hits := dom.Flag[num].Find(utils.Equal, label)
	bv.Indices = utils.NewIndexTable(dom.Dim, len(hits))
	bv.Distance = make([]float64, len(hits))
	for c, p := range hits {
		idx := dom.Unflatten(p)
		for i := 0; i < dom.Dim; i++ {
			bv.Indices.Set(i, c, idx[i]+v[i])
		}
		bv.Distance[c] = dom.Distance[num][p]
	}
	return
}

// Empty reports whether no exterior cell matches the (label, velocity)
// pair.
func (bv *BoundaryVelocity) Empty() bool { return bv.Indices.Nc == 0 }
