package angleutil

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"exusiai.dev/posecoach/internal/model"
)

// Formulation is the way an included angle is derived from a landmark triplet. References and
// live frames must be measured with the same formulation.
type Formulation string

const (
	// FormulationCosine uses the inverse cosine of the normalized dot product.
	FormulationCosine Formulation = "cosine"
	// FormulationBearing uses the difference of the two arm bearings, folded into [0, 180].
	FormulationBearing Formulation = "bearing"
)

const epsilon = 1e-6

func ParseFormulation(s string) (Formulation, error) {
	switch f := Formulation(s); f {
	case FormulationCosine, FormulationBearing:
		return f, nil
	default:
		return "", fmt.Errorf("angleutil: unknown angle formulation %q (available: cosine, bearing)", s)
	}
}

// Included returns the angle at v between a and b in degrees, always within [0, 180].
func Included(f Formulation, a, v, b model.Point) float64 {
	vertex := r2.Point{X: v.X, Y: v.Y}
	arm1 := r2.Point{X: a.X, Y: a.Y}.Sub(vertex)
	arm2 := r2.Point{X: b.X, Y: b.Y}.Sub(vertex)

	if f == FormulationBearing {
		deg := math.Abs(math.Atan2(arm2.Y, arm2.X)-math.Atan2(arm1.Y, arm1.X)) * 180 / math.Pi
		if deg > 180 {
			deg = 360 - deg
		}
		return deg
	}

	dot := arm1.Dot(arm2)
	// epsilon floors the denominator so coincident landmarks never divide by zero while
	// exactly colinear arms still measure exactly 0 or 180
	norm := math.Max(arm1.Norm()*arm2.Norm(), epsilon)
	cos := math.Max(-1, math.Min(1, dot/norm))
	return math.Acos(cos) * 180 / math.Pi
}
