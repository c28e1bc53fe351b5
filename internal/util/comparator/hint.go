package comparator

import (
	"fmt"
	"math"
	"strings"

	"exusiai.dev/posecoach/internal/model"
)

const GoodPosture = "Good posture!"

// Hint renders a verdict as an instruction, e.g. "straighten left elbow by 25.0°".
// Verdicts within tolerance have no hint.
func Hint(v *model.JointVerdict) string {
	if v.Direction == model.DirectionNone {
		return ""
	}
	return fmt.Sprintf("%s %s by %.1f°", v.Direction, v.Joint.Humanized(), math.Abs(v.DeviationDegrees))
}

// Summary joins the hints of every joint out of tolerance, or reports a good posture when
// there are verdicts and all of them are within tolerance.
func Summary(verdicts []*model.JointVerdict) string {
	if len(verdicts) == 0 {
		return ""
	}

	hints := make([]string, 0, len(verdicts))
	for _, v := range verdicts {
		if h := Hint(v); h != "" {
			hints = append(hints, h)
		}
	}
	if len(hints) == 0 {
		return GoodPosture
	}
	return strings.Join(hints, ", ")
}
