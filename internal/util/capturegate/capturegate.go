// Package capturegate decides whether a landmark snapshot captured enough of the body to be compared.
package capturegate

import (
	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/pkg/poseschema"
)

type Outcome int

const (
	Passed Outcome = iota
	// Undetected means the provider reported no landmarks at all.
	Undetected
	// Incomplete means landmarks were reported but too few of them are usable.
	Incomplete
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Undetected:
		return "undetected"
	case Incomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}

// Env is what a gate expression is evaluated against.
type Env struct {
	Visible   int                    `expr:"visible"`
	Total     int                    `expr:"total"`
	Fraction  float64                `expr:"fraction"`
	Landmarks model.LandmarkSnapshot `expr:"landmarks"`
}

// Usable reports whether the landmark at index i is present and at or above the gate's cutoff.
func (e Env) Usable(i int, cutoff float64) bool {
	l := e.Landmarks.At(i)
	return l != nil && l.Confidence >= cutoff
}

type Gate struct {
	// MinConfidence is the confidence a landmark needs to count as visible.
	MinConfidence float64
	// VisibleFraction is the fraction of the schema's landmarks that need to be visible.
	VisibleFraction float64

	program *vm.Program
	source  string
}

func New(minConfidence, visibleFraction float64, rule string) (*Gate, error) {
	g := &Gate{
		MinConfidence:   minConfidence,
		VisibleFraction: visibleFraction,
	}
	if rule == "" {
		return g, nil
	}

	program, err := expr.Compile(rule, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, errors.Wrap(err, "capturegate: failed to compile rule")
	}
	g.program = program
	g.source = rule
	return g, nil
}

// Check gates snapshot against schema. The visible count is the number of present landmarks
// at or above MinConfidence; it has to reach VisibleFraction of the schema size. When a rule is
// configured it has to hold as well; a rule that fails to evaluate does not reject the capture.
func (g *Gate) Check(snapshot model.LandmarkSnapshot, schema *poseschema.Schema) (Outcome, Env) {
	env := Env{
		Total:     schema.Size,
		Landmarks: snapshot,
	}
	if snapshot.Present() == 0 {
		return Undetected, env
	}

	for _, l := range snapshot {
		if l != nil && l.Confidence >= g.MinConfidence {
			env.Visible++
		}
	}
	env.Fraction = float64(env.Visible) / float64(schema.Size)

	if env.Fraction < g.VisibleFraction {
		return Incomplete, env
	}

	if g.program != nil {
		result, err := expr.Run(g.program, env)
		if err != nil {
			log.Error().
				Str("evt.name", "capturegate.rule.eval_error").
				Str("rule", g.source).
				Err(err).
				Msg("failed to evaluate capture gate rule; ignoring the rule for this frame")
			return Passed, env
		}
		if ok, _ := result.(bool); !ok {
			return Incomplete, env
		}
	}

	return Passed, env
}
