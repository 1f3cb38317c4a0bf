package scheme

import (
	"fmt"

	"github.com/notargets/golbm/stencil"
	"github.com/notargets/golbm/storage"
	"github.com/notargets/golbm/utils"
)

// EqFunc returns the equilibrium value of one moment given the full moment
// vector at a point. Conserved moments carry a nil EqFunc and are left
// untouched by Equilibrium.
type EqFunc func(m []float64) float64

// Scheme maps between distribution and moment space through an invertible
// moment matrix and relaxes the non-conserved moments to their
// equilibrium.
type Scheme struct {
	Nv    int
	M     utils.Matrix // moments = M * f
	Minv  utils.Matrix
	Eq    []EqFunc
	consm map[string]int
}

func NewScheme(M utils.Matrix, consm map[string]int, eq []EqFunc) (s *Scheme, err error) {
	var (
		nr, nc = M.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("moment matrix must be square, dims = %v,%v", nr, nc)
		return
	}
	if len(eq) != nr {
		err = fmt.Errorf("need one equilibrium entry per moment, got %d for nv = %d", len(eq), nr)
		return
	}
	for name, i := range consm {
		if i < 0 || i > nr-1 {
			err = fmt.Errorf("conserved moment %q maps to row %d, nv = %d", name, i, nr)
			return
		}
		if eq[i] != nil {
			err = fmt.Errorf("conserved moment %q must not carry an equilibrium function", name)
			return
		}
	}
	var Minv utils.Matrix
	if Minv, err = M.Inverse(); err != nil {
		err = fmt.Errorf("moment matrix is singular: %w", err)
		return
	}
	s = &Scheme{
		Nv:    nr,
		M:     M,
		Minv:  Minv,
		Eq:    eq,
		consm: consm,
	}
	return
}

// ConservedMoments returns the name to row map handed to storage arrays.
func (s *Scheme) ConservedMoments() map[string]int { return s.consm }

// Equilibrium overwrites the non-conserved components of m with their
// equilibrium values, point by point.
func (s *Scheme) Equilibrium(m *storage.Array) {
	var (
		np  = m.NPoints()
		cur = make([]float64, s.Nv)
	)
	comps := make([][]float64, s.Nv)
	for k := 0; k < s.Nv; k++ {
		comps[k] = m.Component(k)
	}
	for p := 0; p < np; p++ {
		for k := 0; k < s.Nv; k++ {
			cur[k] = comps[k][p]
		}
		for k := 0; k < s.Nv; k++ {
			if s.Eq[k] != nil {
				comps[k][p] = s.Eq[k](cur)
			}
		}
	}
	for k := 0; k < s.Nv; k++ {
		m.SetComponent(k, comps[k])
	}
}

func (s *Scheme) apply(A utils.Matrix, src, dst *storage.Array) {
	var (
		np  = src.NPoints()
		in  = make([]float64, s.Nv)
		out = make([]float64, s.Nv)
	)
	comps := make([][]float64, s.Nv)
	res := make([][]float64, s.Nv)
	for k := 0; k < s.Nv; k++ {
		comps[k] = src.Component(k)
		res[k] = make([]float64, np)
	}
	for p := 0; p < np; p++ {
		for k := 0; k < s.Nv; k++ {
			in[k] = comps[k][p]
		}
		for i := 0; i < s.Nv; i++ {
			out[i] = 0.
			for j := 0; j < s.Nv; j++ {
				out[i] += A.At(i, j) * in[j]
			}
		}
		for k := 0; k < s.Nv; k++ {
			res[k][p] = out[k]
		}
	}
	for k := 0; k < s.Nv; k++ {
		dst.SetComponent(k, res[k])
	}
}

// M2F converts moments to distributions: f = Minv * m.
func (s *Scheme) M2F(m, f *storage.Array) { s.apply(s.Minv, m, f) }

// F2M converts distributions to moments: m = M * f.
func (s *Scheme) F2M(f, m *storage.Array) { s.apply(s.M, f, m) }

// D2Q9 builds the standard athermal nine moment scheme: density and the
// two momentum components conserved, the energy, energy-square, heat flux
// and stress moments relaxing to the usual quadratic equilibria.
func D2Q9() *Scheme {
	var (
		st = stencil.D2Q9()
		nv = st.NvTot()
	)
	M := utils.NewMatrix(nv, nv)
	for j, v := range st.Velocities {
		var (
			x, y = float64(v[0]), float64(v[1])
			c2   = x*x + y*y
		)
		M.Set(0, j, 1.)
		M.Set(1, j, x)
		M.Set(2, j, y)
		M.Set(3, j, 3.*c2-4.)
		M.Set(4, j, 0.5*(9.*c2*c2-21.*c2+8.))
		M.Set(5, j, (3.*c2-5.)*x)
		M.Set(6, j, (3.*c2-5.)*y)
		M.Set(7, j, x*x-y*y)
		M.Set(8, j, x*y)
	}
	consm := map[string]int{"rho": 0, "qx": 1, "qy": 2}
	eq := []EqFunc{
		nil, nil, nil,
		func(m []float64) float64 { return -2.*m[0] + 3.*(m[1]*m[1]+m[2]*m[2]) },
		func(m []float64) float64 { return m[0] - 3.*(m[1]*m[1]+m[2]*m[2]) },
		func(m []float64) float64 { return -m[1] },
		func(m []float64) float64 { return -m[2] },
		func(m []float64) float64 { return m[1]*m[1] - m[2]*m[2] },
		func(m []float64) float64 { return m[1] * m[2] },
	}
	s, err := NewScheme(M, consm, eq)
	if err != nil {
		panic(err)
	}
	return s
}
