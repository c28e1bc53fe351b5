package angleutil

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/pkg/poseschema"
)

var formulations = []Formulation{FormulationCosine, FormulationBearing}

func TestIncludedKnownAngles(t *testing.T) {
	for _, f := range formulations {
		t.Run(string(f), func(t *testing.T) {
			// colinear with the vertex in between
			assert.InDelta(t, 180, Included(f, model.Point{X: 0, Y: 0.5}, model.Point{X: 0.5, Y: 0.5}, model.Point{X: 1, Y: 0.5}), 1e-9)
			// right angle
			assert.InDelta(t, 90, Included(f, model.Point{X: 0.5, Y: 0.2}, model.Point{X: 0.5, Y: 0.5}, model.Point{X: 0.8, Y: 0.5}), 1e-9)
			// outer points coincide
			assert.InDelta(t, 0, Included(f, model.Point{X: 0.2, Y: 0.3}, model.Point{X: 0.5, Y: 0.5}, model.Point{X: 0.2, Y: 0.3}), 1e-9)
		})
	}
}

func TestIncludedCoincidentVertexDoesNotPanic(t *testing.T) {
	p := model.Point{X: 0.4, Y: 0.4}
	for _, f := range formulations {
		assert.NotPanics(t, func() {
			deg := Included(f, p, p, p)
			assert.GreaterOrEqual(t, deg, 0.0)
			assert.LessOrEqual(t, deg, 180.0)
		})
	}
}

func TestIncludedRangeAndFormulationsAgree(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	point := func() model.Point { return model.Point{X: r.Float64(), Y: r.Float64()} }

	for i := 0; i < 2000; i++ {
		a, v, b := point(), point(), point()
		cos := Included(FormulationCosine, a, v, b)
		bearing := Included(FormulationBearing, a, v, b)

		assert.GreaterOrEqual(t, cos, 0.0)
		assert.LessOrEqual(t, cos, 180.0)
		assert.GreaterOrEqual(t, bearing, 0.0)
		assert.LessOrEqual(t, bearing, 180.0)
		assert.InDelta(t, cos, bearing, 1e-5)
	}
}

func TestParseFormulation(t *testing.T) {
	f, err := ParseFormulation("bearing")
	require.NoError(t, err)
	assert.Equal(t, FormulationBearing, f)

	_, err = ParseFormulation("atan")
	assert.Error(t, err)
}

// straightArms builds a full blazepose33 snapshot standing upright with arms held out horizontally.
func straightArms() model.LandmarkSnapshot {
	s := make(model.LandmarkSnapshot, poseschema.BlazePose33.Size)
	for i := range s {
		s[i] = &model.Landmark{X: 0.5, Y: 0.1, Confidence: 0.9}
	}
	set := func(i int, x, y float64) { s[i] = &model.Landmark{X: x, Y: y, Confidence: 0.9} }
	set(poseschema.BPLeftShoulder, 0.6, 0.3)
	set(poseschema.BPLeftElbow, 0.7, 0.3)
	set(poseschema.BPLeftWrist, 0.8, 0.3)
	set(poseschema.BPRightShoulder, 0.4, 0.3)
	set(poseschema.BPRightElbow, 0.3, 0.3)
	set(poseschema.BPRightWrist, 0.2, 0.3)
	set(poseschema.BPLeftHip, 0.6, 0.6)
	set(poseschema.BPRightHip, 0.4, 0.6)
	set(poseschema.BPLeftKnee, 0.6, 0.8)
	set(poseschema.BPRightKnee, 0.4, 0.8)
	set(poseschema.BPLeftAnkle, 0.6, 0.95)
	set(poseschema.BPRightAnkle, 0.4, 0.95)
	set(poseschema.BPLeftFootIndex, 0.65, 0.95)
	set(poseschema.BPRightFootIndex, 0.35, 0.95)
	return s
}

func TestExtract(t *testing.T) {
	angles := Extract(straightArms(), poseschema.BlazePose33, DefaultOptions())

	require.Len(t, angles, 10)
	assert.InDelta(t, 180, angles[poseschema.LeftElbow], 1e-6)
	assert.InDelta(t, 180, angles[poseschema.RightElbow], 1e-6)
	assert.InDelta(t, 90, angles[poseschema.LeftShoulder], 1e-6)
	assert.InDelta(t, 180, angles[poseschema.LeftKnee], 1e-6)
	assert.InDelta(t, 90, angles[poseschema.RightAnkle], 1e-6)
}

func TestExtractOmitsAbsentLandmarks(t *testing.T) {
	snapshot := straightArms()
	snapshot[poseschema.BPLeftWrist] = nil

	angles := Extract(snapshot, poseschema.BlazePose33, DefaultOptions())

	_, ok := angles[poseschema.LeftElbow]
	assert.False(t, ok, "left elbow must be omitted, not zero-filled")
	assert.Len(t, angles, 9)
}

func TestExtractOmitsLowConfidenceLandmarks(t *testing.T) {
	snapshot := straightArms()
	snapshot[poseschema.BPRightKnee].Confidence = 0.2

	angles := Extract(snapshot, poseschema.BlazePose33, DefaultOptions())

	assert.NotContains(t, angles, poseschema.RightKnee)
	assert.NotContains(t, angles, poseschema.RightHip)
	assert.NotContains(t, angles, poseschema.RightAnkle)
	assert.Len(t, angles, 7)

	lenient := DefaultOptions()
	lenient.MinConfidence = 0
	assert.Len(t, Extract(snapshot, poseschema.BlazePose33, lenient), 10)
}

func TestExtractIncompleteSnapshotYieldsEmptyMap(t *testing.T) {
	snapshot := straightArms()[:20]

	angles := Extract(snapshot, poseschema.BlazePose33, DefaultOptions())

	assert.NotNil(t, angles)
	assert.Empty(t, angles)
	assert.Empty(t, Extract(nil, poseschema.BlazePose33, DefaultOptions()))
}
