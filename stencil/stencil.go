package stencil

import (
	"fmt"

	"github.com/notargets/golbm/utils"
)

// Stencil holds the discrete velocity set of a scheme. Velocities are
// declared per family (one family per equation in a multi-scheme setup);
// a velocity is addressed either by its full index (family offset +
// position inside the family) or, collapsed across families, by its unique
// index into the deduplicated velocity list. Flag and distance arrays on
// the domain are laid out per unique velocity, while the boundary tables
// carry full indices.
type Stencil struct {
	Dim              int
	UniqueVelocities [][]int     // first-appearance order across families
	NvPtr            utils.Index // family offsets into the full numbering, len = nfamilies+1
	Velocities       [][]int     // full numbering -> direction vector
	Sym              utils.Index // full numbering -> symmetric full index
	USym             utils.Index // unique numbering -> symmetric unique index
	UIndex           utils.Index // full numbering -> unique index
	uindex           map[string]int
}

func vecKey(v []int) string { return fmt.Sprint(v) }

// NewStencil builds a stencil from per-family velocity vector lists. Every
// family must contain the reverse of each of its velocities.
func NewStencil(dim int, families [][][]int) (st *Stencil, err error) {
	st = &Stencil{
		Dim:    dim,
		NvPtr:  utils.Index{0},
		uindex: make(map[string]int),
	}
	for kf, fam := range families {
		for _, v := range fam {
			if len(v) != dim {
				err = fmt.Errorf("velocity %v in family %d has dimension %d, stencil dimension is %d", v, kf, len(v), dim)
				return
			}
			if _, have := st.uindex[vecKey(v)]; !have {
				st.uindex[vecKey(v)] = len(st.UniqueVelocities)
				st.UniqueVelocities = append(st.UniqueVelocities, v)
			}
			st.Velocities = append(st.Velocities, v)
			st.UIndex = append(st.UIndex, st.uindex[vecKey(v)])
		}
		st.NvPtr = append(st.NvPtr, len(st.Velocities))
	}
	if st.Sym, err = symmetricTable(st.Velocities, st.NvPtr); err != nil {
		return
	}
	st.USym = make(utils.Index, len(st.UniqueVelocities))
	for u, v := range st.UniqueVelocities {
		j, have := st.uindex[vecKey(reverse(v))]
		if !have {
			err = fmt.Errorf("unique velocity %v has no symmetric counterpart", v)
			return
		}
		st.USym[u] = j
	}
	return
}

func reverse(v []int) (r []int) {
	r = make([]int, len(v))
	for i, c := range v {
		r[i] = -c
	}
	return
}

// symmetricTable resolves, within each family, the full index of each
// velocity's reversed direction.
func symmetricTable(vel [][]int, nvPtr utils.Index) (sym utils.Index, err error) {
	sym = make(utils.Index, len(vel))
	for kf := 0; kf < len(nvPtr)-1; kf++ {
		lo, hi := nvPtr[kf], nvPtr[kf+1]
		for i := lo; i < hi; i++ {
			found := -1
			rv := reverse(vel[i])
			for j := lo; j < hi; j++ {
				if vecKey(vel[j]) == vecKey(rv) {
					found = j
					break
				}
			}
			if found < 0 {
				err = fmt.Errorf("family %d is not symmetric-closed: velocity %v has no reverse", kf, vel[i])
				return
			}
			sym[i] = found
		}
	}
	return
}

// UnvTot is the number of unique velocities.
func (st *Stencil) UnvTot() int { return len(st.UniqueVelocities) }

// NvTot is the total full-numbering velocity count across families.
func (st *Stencil) NvTot() int { return len(st.Velocities) }

// NFamilies is the number of velocity families.
func (st *Stencil) NFamilies() int { return len(st.NvPtr) - 1 }

// FamilySize is the number of velocities in family k.
func (st *Stencil) FamilySize(k int) int { return st.NvPtr[k+1] - st.NvPtr[k] }

// FamilyUnique returns the unique index of velocity at position p inside
// family k.
func (st *Stencil) FamilyUnique(k, p int) int { return st.UIndex[st.NvPtr[k]+p] }

// D1Q3 is the one dimensional three velocity stencil {0, +1, -1}.
func D1Q3() *Stencil {
	st, err := NewStencil(1, [][][]int{{{0}, {1}, {-1}}})
	if err != nil {
		panic(err)
	}
	return st
}

// D2Q9 is the standard nine velocity stencil, rest velocity first, then
// the four axis neighbors, then the four diagonals.
func D2Q9() *Stencil {
	st, err := NewStencil(2, [][][]int{{
		{0, 0},
		{1, 0}, {0, 1}, {-1, 0}, {0, -1},
		{1, 1}, {-1, 1}, {-1, -1}, {1, -1},
	}})
	if err != nil {
		panic(err)
	}
	return st
}

// D3Q19 is the nineteen velocity stencil: rest, six axis neighbors and
// twelve edge diagonals.
func D3Q19() *Stencil {
	vel := [][]int{{0, 0, 0}}
	for a := 0; a < 3; a++ {
		for _, s := range []int{1, -1} {
			v := []int{0, 0, 0}
			v[a] = s
			vel = append(vel, v)
		}
	}
	for a := 0; a < 3; a++ {
		for b := a + 1; b < 3; b++ {
			for _, sa := range []int{1, -1} {
				for _, sb := range []int{1, -1} {
					v := []int{0, 0, 0}
					v[a], v[b] = sa, sb
					vel = append(vel, v)
				}
			}
		}
	}
	st, err := NewStencil(3, [][][]int{vel})
	if err != nil {
		panic(err)
	}
	return st
}
