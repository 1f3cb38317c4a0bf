package boundary

import (
	"github.com/notargets/golbm/storage"
	"github.com/notargets/golbm/utils"
)

// rule composes a condition from three capabilities: neighbor index
// derivation, forcing term, and the per-step update formula. Variants
// share strategies instead of inheriting from each other; anti bounce-back
// reuses the reflected loads of bounce-back and swaps in a summed
// equilibrium term.
type rule struct {
	loads  func(bm *Method)
	rhs    func(bm *Method) // nil: no forcing term
	update func(bm *Method, f *storage.Array)
}

var rules = map[Condition]rule{
	BounceBack:            {reflectLoads, equilibriumDifference, updateReflect},
	AntiBounceBack:        {reflectLoads, equilibriumSum, updateAntiReflect},
	BouzidiBounceBack:     {bouzidiLoads, equilibriumDifference, updateBouzidi},
	BouzidiAntiBounceBack: {bouzidiLoads, equilibriumSum, updateAntiBouzidi},
	Neumann:               {neumannLoads(-1), nil, updateCopy},
	NeumannX:              {neumannLoads(0), nil, updateCopy},
	NeumannY:              {neumannLoads(1), nil, updateCopy},
	NeumannZ:              {neumannLoads(2), nil, updateCopy},
}

// reflectLoads reads the symmetric velocity one step inward:
// (k*, x + v[k]).
func reflectLoads(bm *Method) {
	var (
		st = bm.Stencil
		T  = bm.IStore
		L  = utils.NewIndexTable(T.Nr, T.Nc)
	)
	for c := 0; c < T.Nc; c++ {
		k := T.At(0, c)
		L.Set(0, c, st.Sym[k])
		for i := 1; i < T.Nr; i++ {
			L.Set(i, c, T.At(i, c)+st.Velocities[k][i-1])
		}
	}
	bm.ILoad = append(bm.ILoad, L)
}

// bouzidiLoads derives two read tables and the per-column interpolation
// weight. Wall nearer the exterior node (distance < 1/2): both reads use
// the symmetric velocity, one and two steps inward, s = 2d. Wall nearer
// the neighbor: one symmetric and one incident read at one step, s =
// 1/(2d).
func bouzidiLoads(bm *Method) {
	var (
		st = bm.Stencil
		T  = bm.IStore
		L1 = utils.NewIndexTable(T.Nr, T.Nc)
		L2 = utils.NewIndexTable(T.Nr, T.Nc)
	)
	bm.S = make([]float64, T.Nc)
	for c := 0; c < T.Nc; c++ {
		var (
			k = T.At(0, c)
			d = bm.Distance[c]
		)
		L1.Set(0, c, st.Sym[k])
		if d < 0.5 {
			L2.Set(0, c, st.Sym[k])
			for i := 1; i < T.Nr; i++ {
				L1.Set(i, c, T.At(i, c)+st.Velocities[k][i-1])
				L2.Set(i, c, T.At(i, c)+2*st.Velocities[k][i-1])
			}
			bm.S[c] = 2. * d
		} else {
			L2.Set(0, c, k)
			for i := 1; i < T.Nr; i++ {
				L1.Set(i, c, T.At(i, c)+st.Velocities[k][i-1])
				L2.Set(i, c, T.At(i, c)+st.Velocities[k][i-1])
			}
			bm.S[c] = 0.5 / d
		}
	}
	bm.ILoad = append(bm.ILoad, L1, L2)
}

// neumannLoads reads the incident velocity one step inward, offsetting
// either every axis (axis < 0) or only the named one.
func neumannLoads(axis int) func(bm *Method) {
	return func(bm *Method) {
		var (
			st = bm.Stencil
			T  = bm.IStore
			L  = utils.NewIndexTable(T.Nr, T.Nc)
		)
		for c := 0; c < T.Nc; c++ {
			k := T.At(0, c)
			L.Set(0, c, k)
			for i := 1; i < T.Nr; i++ {
				off := 0
				if axis < 0 || axis == i-1 {
					off = st.Velocities[k][i-1]
				}
				L.Set(i, c, T.At(i, c)+off)
			}
		}
		bm.ILoad = append(bm.ILoad, L)
	}
}

// equilibriumDifference sets rhs = feq[k] - feq[k*] per column.
func equilibriumDifference(bm *Method) {
	for c := range bm.Rhs {
		k := bm.IStore.At(0, c)
		bm.Rhs[c] = bm.Feq.At(k, c) - bm.Feq.At(bm.Stencil.Sym[k], c)
	}
}

// equilibriumSum sets rhs = feq[k] + feq[k*] per column.
func equilibriumSum(bm *Method) {
	for c := range bm.Rhs {
		k := bm.IStore.At(0, c)
		bm.Rhs[c] = bm.Feq.At(k, c) + bm.Feq.At(bm.Stencil.Sym[k], c)
	}
}

// f[k] = f[load](k*) + rhs
func updateReflect(bm *Method, f *storage.Array) {
	vals := f.Gather(bm.ILoad[0])
	for c := range vals {
		vals[c] += bm.Rhs[c]
	}
	f.Scatter(bm.IStore, vals)
}

// f[k] = -f[load](k*) + rhs
func updateAntiReflect(bm *Method, f *storage.Array) {
	vals := f.Gather(bm.ILoad[0])
	for c := range vals {
		vals[c] = -vals[c] + bm.Rhs[c]
	}
	f.Scatter(bm.IStore, vals)
}

// f[k] = s*f[load1] + (1-s)*f[load2] + rhs
func updateBouzidi(bm *Method, f *storage.Array) {
	var (
		g1 = f.Gather(bm.ILoad[0])
		g2 = f.Gather(bm.ILoad[1])
	)
	for c := range g1 {
		g1[c] = bm.S[c]*g1[c] + (1.-bm.S[c])*g2[c] + bm.Rhs[c]
	}
	f.Scatter(bm.IStore, g1)
}

// f[k] = -s*f[load1] + (s-1)*f[load2] + rhs
func updateAntiBouzidi(bm *Method, f *storage.Array) {
	var (
		g1 = f.Gather(bm.ILoad[0])
		g2 = f.Gather(bm.ILoad[1])
	)
	for c := range g1 {
		g1[c] = -bm.S[c]*g1[c] + (bm.S[c]-1.)*g2[c] + bm.Rhs[c]
	}
	f.Scatter(bm.IStore, g1)
}

// f[k] = f[load](k), no forcing
func updateCopy(bm *Method, f *storage.Array) {
	f.Scatter(bm.IStore, f.Gather(bm.ILoad[0]))
}
