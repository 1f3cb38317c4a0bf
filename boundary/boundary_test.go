package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/golbm/domain"
	"github.com/notargets/golbm/scheme"
	"github.com/notargets/golbm/stencil"
	"github.com/notargets/golbm/storage"
	"github.com/notargets/golbm/utils"
)

const (
	labelLeft  = 0
	labelRight = 1
)

// 1D cavity: 4 interior cells, walls labeled 0 (xmin) and 1 (xmax)
func box1D(t *testing.T) *domain.Domain {
	d, err := domain.NewBox(stencil.D1Q3(), []int{4}, 1., []int{labelLeft, labelRight})
	assert.NoError(t, err)
	return d
}

// three velocity scheme: rho = f0+f1+f2, q = f1-f2 conserved, the energy
// moment f1+f2 relaxing to q
func d1q3Scheme(t *testing.T) *scheme.Scheme {
	M := utils.NewMatrix(3, 3, []float64{
		1, 1, 1,
		0, 1, -1,
		0, 1, 1,
	})
	s, err := scheme.NewScheme(M, map[string]int{"rho": 0, "q": 1}, []scheme.EqFunc{
		nil, nil,
		func(m []float64) float64 { return m[1] },
	})
	assert.NoError(t, err)
	return s
}

func TestBoundaryVelocity(t *testing.T) {
	dom := box1D(t)
	// velocity +1 enters through the left wall: one ghost cell at index 0
	{
		bv := NewBoundaryVelocity(dom, labelLeft, 1)
		assert.False(t, bv.Empty())
		assert.Equal(t, 1, bv.Indices.Nc)
		assert.Equal(t, 0, bv.Indices.At(0, 0))
		assert.Equal(t, []float64{0.5}, bv.Distance)
		for _, d := range bv.Distance {
			assert.True(t, d >= 0. && d < 1.)
		}
	}
	// velocity -1 never enters through the left wall: empty, not an error
	{
		bv := NewBoundaryVelocity(dom, labelLeft, 2)
		assert.True(t, bv.Empty())
	}
	// velocity -1 enters through the right wall at ghost cell 5
	{
		bv := NewBoundaryVelocity(dom, labelRight, 2)
		assert.False(t, bv.Empty())
		assert.Equal(t, 5, bv.Indices.At(0, 0))
	}
}

func TestCompile(t *testing.T) {
	bothBounceBack := Config{
		labelLeft:  {Methods: map[int]Condition{0: BounceBack}},
		labelRight: {Methods: map[int]Condition{0: BounceBack}},
	}
	// one method, one column per wall, in label order
	{
		b, err := Compile(box1D(t), bothBounceBack)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(b.Methods))
		bm := b.Methods[0]
		assert.Equal(t, BounceBack, bm.Cond)
		assert.True(t, bm.IStore.Equal(utils.NewIndexTable(2, 2, []int{
			1, 2,
			0, 5,
		})))
		assert.Equal(t, utils.Index{labelLeft, labelRight}, bm.ILabel)
		assert.Equal(t, []float64{0.5, 0.5}, bm.Distance)
	}
	// determinism: identical tables on recompile
	{
		b1, err := Compile(box1D(t), bothBounceBack)
		assert.NoError(t, err)
		b2, err := Compile(box1D(t), bothBounceBack)
		assert.NoError(t, err)
		assert.Equal(t, len(b1.Methods), len(b2.Methods))
		for i := range b1.Methods {
			assert.True(t, b1.Methods[i].IStore.Equal(b2.Methods[i].IStore))
			assert.Equal(t, b1.Methods[i].ILabel, b2.Methods[i].ILabel)
			assert.Equal(t, b1.Methods[i].Distance, b2.Methods[i].Distance)
		}
	}
	// distinct conditions split into methods in first-encountered order
	{
		b, err := Compile(box1D(t), Config{
			labelLeft:  {Methods: map[int]Condition{0: BounceBack}},
			labelRight: {Methods: map[int]Condition{0: Neumann}},
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, len(b.Methods))
		assert.Equal(t, BounceBack, b.Methods[0].Cond)
		assert.Equal(t, Neumann, b.Methods[1].Cond)
	}
	// configuration defects fail the compile
	{
		_, err := Compile(box1D(t), Config{
			domain.LabelPeriodic: {Methods: map[int]Condition{0: BounceBack}},
			labelLeft:            {Methods: map[int]Condition{0: BounceBack}},
			labelRight:           {Methods: map[int]Condition{0: BounceBack}},
		})
		assert.Error(t, err) // reserved label

		_, err = Compile(box1D(t), Config{
			labelLeft: {Methods: map[int]Condition{0: BounceBack}},
		})
		assert.Error(t, err) // label 1 unconfigured

		_, err = Compile(box1D(t), Config{
			labelLeft:  {Methods: map[int]Condition{0: NeumannY}},
			labelRight: {Methods: map[int]Condition{0: BounceBack}},
		})
		assert.Error(t, err) // axis outside domain dimension

		_, err = Compile(box1D(t), Config{
			labelLeft:  {Methods: map[int]Condition{3: BounceBack}},
			labelRight: {Methods: map[int]Condition{0: BounceBack}},
		})
		assert.Error(t, err) // unknown velocity family

		_, err = Compile(box1D(t), Config{
			labelLeft:  {Methods: map[int]Condition{0: BounceBack}, Value: &Value{Args: []float64{1.}}},
			labelRight: {Methods: map[int]Condition{0: BounceBack}},
		})
		assert.Error(t, err) // arguments without a value function
	}
	// empty domain compiles to zero methods and a no-op update
	{
		st := stencil.D1Q3()
		dom := domain.NewDomain(st, []int{6}, 1.)
		b, err := Compile(dom, Config{})
		assert.NoError(t, err)
		assert.Equal(t, 0, len(b.Methods))
		f := storage.NewArray(st.NvTot(), dom.Shape)
		assert.NotPanics(t, func() { b.Update(f) })
	}
	// out-of-range distance is rejected during compilation
	{
		dom := box1D(t)
		dom.Distance[2][dom.Flatten([]int{1})] = 1.25
		_, err := Compile(dom, bothBounceBack)
		assert.Error(t, err)
	}
}

func TestUniqueTargets(t *testing.T) {
	// two methods claiming the same (velocity, cell) target are a defect
	st := stencil.D1Q3()
	istore := utils.NewIndexTable(2, 1, []int{1, 0})
	bm1, err := NewMethod(BounceBack, istore, utils.Index{labelLeft}, []float64{0.5}, st, nil)
	assert.NoError(t, err)
	bm2, err := NewMethod(Neumann, istore.Copy(), utils.Index{labelRight}, []float64{0.5}, st, nil)
	assert.NoError(t, err)

	b := &Boundary{Methods: []*Method{bm1, bm2}}
	assert.Error(t, b.checkUniqueTargets())

	b = &Boundary{Methods: []*Method{bm1}}
	assert.NoError(t, b.checkUniqueTargets())
}

func TestBounceBackRules(t *testing.T) {
	var (
		st     = stencil.D1Q3()
		istore = utils.NewIndexTable(2, 1, []int{1, 2}) // velocity +1 at ghost cell 2
	)
	newMethod := func(cond Condition) *Method {
		bm, err := NewMethod(cond, istore.Copy(), utils.Index{labelLeft}, []float64{0.5}, st, nil)
		assert.NoError(t, err)
		bm.SetLoadIndices()
		return bm
	}
	// absent prescribed value: pure reflection, f[k] = f[load](k*)
	{
		bm := newMethod(BounceBack)
		assert.True(t, bm.ILoad[0].Equal(utils.NewIndexTable(2, 1, []int{2, 3})))
		bm.SetRHS()
		assert.Equal(t, []float64{0.}, bm.Rhs)
		f := storage.NewArray(3, []int{6})
		f.Set(3.0, 2, 3)
		bm.Update(f)
		assert.Equal(t, 3.0, f.At(1, 2))
	}
	// sign check: feq[k]=2, feq[k*]=1, f(load)=0 gives 1.0 for
	// bounce-back and 3.0 for anti bounce-back
	{
		for cond, want := range map[Condition]float64{
			BounceBack:     1.0,
			AntiBounceBack: 3.0,
		} {
			bm := newMethod(cond)
			bm.Feq.Set(1, 0, 2.0)
			bm.Feq.Set(2, 0, 1.0)
			bm.SetRHS()
			f := storage.NewArray(3, []int{6})
			bm.Update(f)
			assert.Equal(t, want, f.At(1, 2), cond.String())
		}
	}
	// load index derivation is idempotent
	{
		bm := newMethod(BouzidiBounceBack)
		l1, l2 := bm.ILoad[0].Copy(), bm.ILoad[1].Copy()
		s := append([]float64{}, bm.S...)
		bm.SetLoadIndices()
		assert.True(t, bm.ILoad[0].Equal(l1))
		assert.True(t, bm.ILoad[1].Equal(l2))
		assert.Equal(t, s, bm.S)
		assert.Equal(t, 2, len(bm.ILoad))
	}
}

func TestBouzidiContinuity(t *testing.T) {
	var (
		st     = stencil.D1Q3()
		istore = utils.NewIndexTable(2, 1, []int{1, 1}) // velocity +1 at ghost cell 1
		eps    = 1.e-9
	)
	update := func(d float64) float64 {
		bm, err := NewMethod(BouzidiBounceBack, istore.Copy(), utils.Index{labelLeft}, []float64{d}, st, nil)
		assert.NoError(t, err)
		bm.SetLoadIndices()
		f := storage.NewArray(3, []int{6})
		f.Set(1.7, 2, 2) // f[load1]: k* one step in
		f.Set(4.1, 2, 3) // f[load2] below: k* two steps in
		f.Set(2.9, 1, 2) // f[load2] above: k one step in
		bm.Update(f)
		return f.At(1, 1)
	}
	below := update(0.5 - eps)
	above := update(0.5 + eps)
	// both branches converge to f[load1] as d -> 1/2
	assert.InDelta(t, 1.7, below, 1.e-7)
	assert.InDelta(t, 1.7, above, 1.e-7)
	assert.InDelta(t, below, above, 1.e-7)
}

func TestNeumannRules(t *testing.T) {
	// plain Neumann copies the incident velocity one step inward
	{
		st := stencil.D1Q3()
		bm, err := NewMethod(Neumann, utils.NewIndexTable(2, 1, []int{1, 1}), utils.Index{labelLeft}, []float64{0.5}, st, nil)
		assert.NoError(t, err)
		bm.SetLoadIndices()
		assert.True(t, bm.ILoad[0].Equal(utils.NewIndexTable(2, 1, []int{1, 2})))
		f := storage.NewArray(3, []int{6})
		f.Set(2.5, 1, 2)
		bm.Update(f)
		assert.Equal(t, 2.5, f.At(1, 1))
	}
	// axis-restricted variants move along the named axis only
	{
		st := stencil.D2Q9()
		var k int
		for i, v := range st.Velocities {
			if v[0] == 1 && v[1] == 1 {
				k = i
			}
		}
		istore := utils.NewIndexTable(3, 1, []int{k, 0, 0})
		bmx, err := NewMethod(NeumannX, istore.Copy(), utils.Index{labelLeft}, []float64{0.5}, st, nil)
		assert.NoError(t, err)
		bmx.SetLoadIndices()
		assert.True(t, bmx.ILoad[0].Equal(utils.NewIndexTable(3, 1, []int{k, 1, 0})))

		bmy, err := NewMethod(NeumannY, istore.Copy(), utils.Index{labelLeft}, []float64{0.5}, st, nil)
		assert.NoError(t, err)
		bmy.SetLoadIndices()
		assert.True(t, bmy.ILoad[0].Equal(utils.NewIndexTable(3, 1, []int{k, 0, 1})))

		bm, err := NewMethod(Neumann, istore.Copy(), utils.Index{labelLeft}, []float64{0.5}, st, nil)
		assert.NoError(t, err)
		bm.SetLoadIndices()
		assert.True(t, bm.ILoad[0].Equal(utils.NewIndexTable(3, 1, []int{k, 1, 1})))
	}
	// forcing stays zero regardless of prescribed values
	{
		dom := box1D(t)
		sch := d1q3Scheme(t)
		b, err := Compile(dom, Config{
			labelLeft: {
				Methods: map[int]Condition{0: Neumann},
				Value: &Value{F: func(f, m *storage.Array, coords [][]float64, args ...float64) {
					m.FillMoment("rho", 1.)
					m.FillMoment("q", 0.3)
				}},
			},
			labelRight: {Methods: map[int]Condition{0: Neumann}},
		})
		assert.NoError(t, err)
		b.SetLoadIndices()
		assert.NoError(t, b.PrepareRHS(dom, sch))
		for _, bm := range b.Methods {
			for _, r := range bm.Rhs {
				assert.Equal(t, 0., r)
			}
		}
	}
}

func TestPrepareRHS(t *testing.T) {
	dom := box1D(t)
	sch := d1q3Scheme(t)
	var gotCoords []float64
	cfg := Config{
		labelLeft: {
			Methods: map[int]Condition{0: BounceBack},
			Value: &Value{F: func(f, m *storage.Array, coords [][]float64, args ...float64) {
				gotCoords = append([]float64{}, coords[0]...)
				m.FillMoment("rho", 1.)
				m.FillMoment("q", 0.3)
			}},
		},
		labelRight: {Methods: map[int]Condition{0: BounceBack}},
	}
	b, err := Compile(dom, cfg)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(b.Methods))
	bm := b.Methods[0]
	b.SetLoadIndices()
	assert.NoError(t, b.PrepareRHS(dom, sch))

	// the evaluation point is the true wall position x = 0
	assert.Equal(t, 1, len(gotCoords))
	assert.InDelta(t, 0., gotCoords[0], utils.NODETOL)

	// with rho=1, q=0.3 and e relaxed to q: feq = (0.7, 0.3, 0),
	// so rhs = feq[1] - feq[2] = 0.3 on the valued column
	assert.InDelta(t, 0.7, bm.Feq.At(0, 0), utils.NODETOL)
	assert.InDelta(t, 0.3, bm.Feq.At(1, 0), utils.NODETOL)
	assert.InDelta(t, 0., bm.Feq.At(2, 0), utils.NODETOL)
	assert.InDelta(t, 0.3, bm.Rhs[0], utils.NODETOL)

	// the unvalued label keeps zero equilibrium and zero forcing
	for k := 0; k < 3; k++ {
		assert.Equal(t, 0., bm.Feq.At(k, 1))
	}
	assert.Equal(t, 0., bm.Rhs[1])

	// forcing recompute does not require re-deriving load indices
	l := bm.ILoad[0].Copy()
	assert.NoError(t, b.PrepareRHS(dom, sch))
	assert.True(t, bm.ILoad[0].Equal(l))

	// scheme/stencil size mismatch is reported
	assert.Error(t, bm.PrepareRHS(dom, scheme.D2Q9()))
}

func TestCavityUpdate(t *testing.T) {
	// end to end on a 2D cavity: compile, derive, force, update; only
	// ghost columns owned by the methods change
	st := stencil.D2Q9()
	sch := scheme.D2Q9()
	dom, err := domain.NewBox(st, []int{3, 3}, 1., []int{0, 0, 0, 1})
	assert.NoError(t, err)
	b, err := Compile(dom, Config{
		0: {Methods: map[int]Condition{0: BounceBack}},
		1: {
			Methods: map[int]Condition{0: BouzidiBounceBack},
			Value: &Value{F: func(f, m *storage.Array, coords [][]float64, args ...float64) {
				m.FillMoment("rho", 1.)
				m.FillMoment("qx", 0.05)
				m.FillMoment("qy", 0.)
			}},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(b.Methods))
	b.SetLoadIndices()
	assert.NoError(t, b.PrepareRHS(dom, sch))

	m := storage.NewArray(sch.Nv, dom.Shape)
	m.SetConservedMoments(sch.ConservedMoments())
	m.FillMoment("rho", 1.)
	sch.Equilibrium(m)
	f := storage.NewArray(sch.Nv, dom.Shape)
	sch.M2F(m, f)
	ref := storage.NewArray(sch.Nv, dom.Shape)
	copy(ref.Data, f.Data)

	b.Update(f)

	// interior cells are untouched by the boundary update
	for i := 1; i <= 3; i++ {
		for j := 1; j <= 3; j++ {
			for k := 0; k < sch.Nv; k++ {
				assert.Equal(t, ref.At(k, i, j), f.At(k, i, j))
			}
		}
	}
	// the lid forcing moved at least one ghost value off equilibrium
	var moved bool
	for _, bm := range b.Methods {
		if bm.Cond != BouzidiBounceBack {
			continue
		}
		for c := 0; c < bm.IStore.Nc; c++ {
			k := bm.IStore.At(0, c)
			i, j := bm.IStore.At(1, c), bm.IStore.At(2, c)
			if f.At(k, i, j) != ref.At(k, i, j) {
				moved = true
			}
		}
	}
	assert.True(t, moved)
}
