package bandmath

import (
	"fmt"
	"math"
)

// Eval evaluates node at a single pixel given band1/band2 values.
func Eval(node Node, band1, band2 float64) (float64, error) {
	switch n := node.(type) {
	case *NumberNode:
		return n.Value, nil
	case *VarNode:
		switch n.Name {
		case "band1":
			return band1, nil
		case "band2":
			return band2, nil
		default:
			return 0, fmt.Errorf("unknown variable %q", n.Name)
		}
	case *UnaryOpNode:
		v, err := Eval(n.Operand, band1, band2)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case *BinaryOpNode:
		l, err := Eval(n.Left, band1, band2)
		if err != nil {
			return 0, err
		}
		r, err := Eval(n.Right, band1, band2)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case "+":
			return l + r, nil
		case "-":
			return l - r, nil
		case "*":
			return l * r, nil
		case "/":
			if r == 0 {
				return math.NaN(), nil
			}
			return l / r, nil
		case "**":
			return math.Pow(l, r), nil
		default:
			return 0, fmt.Errorf("unknown operator %q", n.Op)
		}
	default:
		return 0, fmt.Errorf("unknown node type %T", node)
	}
}

// IsIdentityBand1 reports whether node is exactly the bare expression
// "band1", the one formula that triggers the multi-band passthrough rule.
func IsIdentityBand1(node Node) bool {
	v, ok := node.(*VarNode)
	return ok && v.Name == "band1"
}

// EvaluateGrid applies node element-wise over two equal-shaped (H, W)
// grids, used after band1's shape has already been squeezed from (1,H,W).
// band2 may be nil when the formula only references band1.
func EvaluateGrid(node Node, band1, band2 [][]float64) ([][]float64, error) {
	h := len(band1)
	if h == 0 {
		return nil, nil
	}
	w := len(band1[0])

	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		out[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			b1 := band1[y][x]
			b2 := 0.0
			if band2 != nil {
				b2 = band2[y][x]
			}
			v, err := Eval(node, b1, b2)
			if err != nil {
				return nil, fmt.Errorf("evaluating pixel (%d,%d): %w", y, x, err)
			}
			out[y][x] = v
		}
	}
	return out, nil
}

// Squeeze drops a leading singleton band axis, turning a (1, H, W) cube
// into a plain (H, W) grid. It returns nil for a cube with zero or more
// than one band, so a multi-band cube has to go through the
// IsIdentityBand1 passthrough rule rather than being squeezed.
func Squeeze(cube [][][]float64) [][]float64 {
	if len(cube) != 1 {
		return nil
	}
	return cube[0]
}
