package bandmath

import "fmt"

// Formula is a parsed, ready-to-evaluate band-math expression.
type Formula struct {
	Source string
	root   Node
}

// Compile parses formula text once so it can be evaluated against many
// scenes without re-parsing.
func Compile(formula string) (*Formula, error) {
	root, err := Parse(formula)
	if err != nil {
		return nil, fmt.Errorf("parsing formula %q: %w", formula, err)
	}
	return &Formula{Source: formula, root: root}, nil
}

// Apply runs the shape discipline from the data model and then evaluates:
// band1Cube may have more than one band only when the formula is the bare
// identity "band1", in which case the whole cube passes through untouched
// (used to serve RGB composites); otherwise both cubes are squeezed from
// (1, H, W) to (H, W) before per-pixel evaluation.
func (f *Formula) Apply(band1Cube, band2Cube [][][]float64) ([][][]float64, error) {
	if len(band1Cube) > 1 {
		if !IsIdentityBand1(f.root) {
			return nil, fmt.Errorf("formula %q cannot be applied to a multi-band cube (only the bare 'band1' formula may pass one through)", f.Source)
		}
		return band1Cube, nil
	}

	band1 := Squeeze(band1Cube)
	var band2 [][]float64
	if len(band2Cube) > 0 {
		band2 = Squeeze(band2Cube)
	}

	result, err := EvaluateGrid(f.root, band1, band2)
	if err != nil {
		return nil, err
	}
	return [][][]float64{result}, nil
}
