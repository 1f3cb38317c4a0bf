package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/golbm/boundary"
	"github.com/notargets/golbm/storage"
)

// BCParameters describes the boundary treatment of one label in the input
// file: a condition name per velocity family and, optionally, constant
// prescribed values keyed by conserved moment name.
type BCParameters struct {
	Method map[int]string     `yaml:"Method"`
	Value  map[string]float64 `yaml:"Value,omitempty"`
}

// Parameters obtained from the YAML input file
type InputParametersLBM struct {
	Title string               `yaml:"Title"`
	Nx    int                  `yaml:"Nx"`
	Ny    int                  `yaml:"Ny"`
	Dx    float64              `yaml:"Dx"`
	Steps int                  `yaml:"Steps"`
	BCs   map[int]BCParameters `yaml:"BCs"` // First key is the boundary label, second the velocity family
}

func (ip *InputParametersLBM) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersLBM) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d x %d]\t\t= Grid\n", ip.Nx, ip.Ny)
	fmt.Printf("%8.5f\t\t= Dx\n", ip.Dx)
	fmt.Printf("[%d]\t\t\t= Steps\n", ip.Steps)
	keys := make([]int, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Ints(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%d] = %v\n", key, ip.BCs[key])
	}
}

// BoundaryConfig translates the parsed BCs section into the compiler's
// configuration, turning constant moment values into prescribed value
// functions.
func (ip *InputParametersLBM) BoundaryConfig() (cfg boundary.Config, err error) {
	cfg = make(boundary.Config, len(ip.BCs))
	for label, bc := range ip.BCs {
		spec := boundary.LabelSpec{
			Methods: make(map[int]boundary.Condition, len(bc.Method)),
		}
		for family, name := range bc.Method {
			var cond boundary.Condition
			if cond, err = boundary.ParseCondition(name); err != nil {
				err = fmt.Errorf("label %d, family %d: %w", label, family, err)
				return
			}
			spec.Methods[family] = cond
		}
		if len(bc.Value) != 0 {
			spec.Value = ConstantValue(bc.Value)
		}
		cfg[label] = spec
	}
	return
}

// ConstantValue builds a prescribed value setting the named conserved
// moments to fixed constants at every boundary column.
func ConstantValue(moments map[string]float64) *boundary.Value {
	names := make([]string, 0, len(moments))
	for name := range moments {
		names = append(names, name)
	}
	sort.Strings(names)
	vals := make([]float64, len(names))
	for i, name := range names {
		vals[i] = moments[name]
	}
	return &boundary.Value{
		F: func(f, m *storage.Array, coords [][]float64, args ...float64) {
			for i, name := range names {
				m.FillMoment(name, vals[i])
			}
		},
	}
}
