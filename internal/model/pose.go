package model

import (
	"math"

	"exusiai.dev/posecoach/internal/pkg/poseschema"
)

type Landmark struct {
	// X and Y are normalized to [0, 1] relative to the frame size.
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	// Confidence is also known as visibility by some landmark providers.
	Confidence float64 `json:"confidence" msgpack:"c"`
}

func (l *Landmark) Finite() bool {
	return !math.IsNaN(l.X) && !math.IsInf(l.X, 0) &&
		!math.IsNaN(l.Y) && !math.IsInf(l.Y, 0) &&
		!math.IsNaN(l.Confidence) && !math.IsInf(l.Confidence, 0)
}

// LandmarkSnapshot is an ordered sequence of landmark records indexed by a schema's landmark
// indices. A nil record means the landmark was not detected.
type LandmarkSnapshot []*Landmark

// At returns the landmark at index, or nil when it is absent or out of range.
func (s LandmarkSnapshot) At(index int) *Landmark {
	if index < 0 || index >= len(s) {
		return nil
	}
	return s[index]
}

// Present counts the records that are not absent.
func (s LandmarkSnapshot) Present() int {
	n := 0
	for _, l := range s {
		if l != nil {
			n++
		}
	}
	return n
}

// AngleMap maps joints to their included angle in degrees. A joint whose landmarks were
// unusable is absent from the map.
type AngleMap map[poseschema.Joint]float64

// Joints returns the joints of m in the catalog order of schema.
func (m AngleMap) Joints(schema *poseschema.Schema) []poseschema.Joint {
	joints := make([]poseschema.Joint, 0, len(m))
	for _, def := range schema.Angles {
		if _, ok := m[def.Joint]; ok {
			joints = append(joints, def.Joint)
		}
	}
	return joints
}

type Direction string

const (
	DirectionNone       Direction = ""
	DirectionStraighten Direction = "straighten"
	DirectionBend       Direction = "bend"
)

type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Segment is a bone projected to pixel space.
type Segment struct {
	From      Point `json:"from" msgpack:"f"`
	To        Point `json:"to" msgpack:"t"`
	FromIndex int   `json:"fromIndex" msgpack:"fi"`
	ToIndex   int   `json:"toIndex" msgpack:"ti"`
}

type JointVerdict struct {
	Joint            poseschema.Joint `json:"joint"`
	ReferenceAngle   float64          `json:"referenceAngle"`
	CurrentAngle     float64          `json:"currentAngle"`
	DeviationDegrees float64          `json:"deviation"`
	ToleranceDegrees float64          `json:"tolerance"`
	Direction        Direction        `json:"direction,omitempty"`
	IsCorrect        bool             `json:"isCorrect"`
	// PixelPosition is the joint vertex in pixel space. Nil when no frame dimensions were known.
	PixelPosition *Point `json:"pixelPosition,omitempty"`
	Hint          string `json:"hint,omitempty"`
}

const (
	OverallCorrect = "correct"
	OverallWrong   = "wrong"
)

type ComparisonResult struct {
	Verdicts        []*JointVerdict `json:"joints"`
	Comparable      int             `json:"comparable"`
	Correct         int             `json:"correct"`
	AccuracyPercent float64         `json:"accuracyPercent"`
	OverallLabel    string          `json:"overallLabel"`
}
