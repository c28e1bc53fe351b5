package comparator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/pkg/poseschema"
)

func TestCompareIdenticalMapsAlwaysCorrect(t *testing.T) {
	angles := model.AngleMap{
		poseschema.LeftElbow:  90,
		poseschema.RightElbow: 170,
		poseschema.LeftKnee:   45,
		poseschema.RightHip:   0,
	}

	for _, tol := range []float64{0, 0.01, 0.2, 1} {
		policy := DefaultPolicy()
		policy.Tolerance = tol

		result := Compare(angles, angles, policy)

		assert.Equal(t, 4, result.Comparable)
		assert.Equal(t, 4, result.Correct)
		assert.Equal(t, 100.0, result.AccuracyPercent)
		assert.Equal(t, model.OverallCorrect, result.OverallLabel)
		for _, v := range result.Verdicts {
			assert.True(t, v.IsCorrect)
			assert.Equal(t, model.DirectionNone, v.Direction)
			assert.Zero(t, v.DeviationDegrees)
		}
	}
}

func TestCompareElbowExample(t *testing.T) {
	reference := model.AngleMap{poseschema.LeftElbow: 90}

	result := Compare(model.AngleMap{poseschema.LeftElbow: 105}, reference, DefaultPolicy())
	require.Len(t, result.Verdicts, 1)
	v := result.Verdicts[0]
	assert.InDelta(t, 18, v.ToleranceDegrees, 1e-9)
	assert.InDelta(t, 15, v.DeviationDegrees, 1e-9)
	assert.True(t, v.IsCorrect)
	assert.Equal(t, model.DirectionNone, v.Direction)
	assert.Empty(t, v.Hint)

	result = Compare(model.AngleMap{poseschema.LeftElbow: 115}, reference, DefaultPolicy())
	require.Len(t, result.Verdicts, 1)
	v = result.Verdicts[0]
	assert.InDelta(t, 25, v.DeviationDegrees, 1e-9)
	assert.False(t, v.IsCorrect)
	assert.Equal(t, model.DirectionStraighten, v.Direction)
	assert.Equal(t, "straighten left elbow by 25.0°", v.Hint)
	assert.Equal(t, 0.0, result.AccuracyPercent)
	assert.Equal(t, model.OverallWrong, result.OverallLabel)

	result = Compare(model.AngleMap{poseschema.LeftElbow: 60}, reference, DefaultPolicy())
	assert.Equal(t, model.DirectionBend, result.Verdicts[0].Direction)
	assert.Equal(t, "bend left elbow by 30.0°", result.Verdicts[0].Hint)
}

func TestCompareToleranceBoundaryIsInclusive(t *testing.T) {
	result := Compare(model.AngleMap{poseschema.LeftKnee: 120}, model.AngleMap{poseschema.LeftKnee: 100}, DefaultPolicy())
	require.Len(t, result.Verdicts, 1)
	assert.True(t, result.Verdicts[0].IsCorrect)
	assert.Equal(t, model.DirectionNone, result.Verdicts[0].Direction)
}

func TestCompareReferenceOnlyJointsAreNotPenalized(t *testing.T) {
	reference := model.AngleMap{poseschema.LeftKnee: 170, poseschema.RightKnee: 170}
	current := model.AngleMap{poseschema.LeftKnee: 170}

	result := Compare(current, reference, DefaultPolicy())

	assert.Equal(t, 1, result.Comparable)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 100.0, result.AccuracyPercent)
	require.Len(t, result.Verdicts, 1)
	assert.Equal(t, poseschema.LeftKnee, result.Verdicts[0].Joint)
}

func TestCompareCurrentOnlyJointsAreIgnored(t *testing.T) {
	reference := model.AngleMap{poseschema.LeftKnee: 170}
	current := model.AngleMap{poseschema.LeftKnee: 170, poseschema.LeftElbow: 10}

	result := Compare(current, reference, DefaultPolicy())

	assert.Equal(t, 1, result.Comparable)
}

func TestCompareEmptyMaps(t *testing.T) {
	full := model.AngleMap{poseschema.LeftKnee: 170}

	for _, pair := range [][2]model.AngleMap{{nil, full}, {full, nil}, {{}, {}}} {
		result := Compare(pair[0], pair[1], DefaultPolicy())
		assert.NotNil(t, result.Verdicts)
		assert.Empty(t, result.Verdicts)
		assert.Zero(t, result.Comparable)
		assert.Zero(t, result.AccuracyPercent)
	}
}

func TestCompareNoOverlapHasZeroAccuracy(t *testing.T) {
	result := Compare(model.AngleMap{poseschema.LeftKnee: 170}, model.AngleMap{poseschema.RightKnee: 170}, DefaultPolicy())

	assert.Empty(t, result.Verdicts)
	assert.Zero(t, result.AccuracyPercent)
	assert.Equal(t, model.OverallWrong, result.OverallLabel)
}

func TestToleranceScalesLinearly(t *testing.T) {
	policy := DefaultPolicy()
	for _, ref := range []float64{10, 45, 90} {
		assert.InDelta(t, 2*policy.ToleranceDegrees(ref), policy.ToleranceDegrees(2*ref), 1e-9)
	}
}

func TestCompareThreshold(t *testing.T) {
	reference := model.AngleMap{
		poseschema.LeftElbow:  90,
		poseschema.RightElbow: 90,
		poseschema.LeftKnee:   90,
		poseschema.RightKnee:  90,
		poseschema.LeftHip:    90,
	}
	current := model.AngleMap{
		poseschema.LeftElbow:  90,
		poseschema.RightElbow: 90,
		poseschema.LeftKnee:   90,
		poseschema.RightKnee:  90,
		poseschema.LeftHip:    150,
	}

	result := Compare(current, reference, DefaultPolicy())
	assert.Equal(t, 80.0, result.AccuracyPercent)
	assert.Equal(t, model.OverallCorrect, result.OverallLabel)

	policy := DefaultPolicy()
	policy.Threshold = 90
	result = Compare(current, reference, policy)
	assert.Equal(t, model.OverallWrong, result.OverallLabel)
}

func TestCompareFollowsCatalogOrder(t *testing.T) {
	angles := model.AngleMap{
		poseschema.RightAnkle:    90,
		poseschema.LeftElbow:     90,
		poseschema.LeftKnee:      90,
		poseschema.RightShoulder: 90,
	}

	result := Compare(angles, angles, DefaultPolicy())

	joints := make([]poseschema.Joint, 0, len(result.Verdicts))
	for _, v := range result.Verdicts {
		joints = append(joints, v.Joint)
	}
	assert.Equal(t, []poseschema.Joint{poseschema.LeftElbow, poseschema.RightShoulder, poseschema.LeftKnee, poseschema.RightAnkle}, joints)
}

func TestSummary(t *testing.T) {
	assert.Empty(t, Summary(nil))

	ok := Compare(model.AngleMap{poseschema.LeftElbow: 90}, model.AngleMap{poseschema.LeftElbow: 90}, DefaultPolicy())
	assert.Equal(t, GoodPosture, Summary(ok.Verdicts))

	bad := Compare(
		model.AngleMap{poseschema.LeftElbow: 150, poseschema.RightKnee: 100},
		model.AngleMap{poseschema.LeftElbow: 90, poseschema.RightKnee: 170},
		DefaultPolicy(),
	)
	assert.Equal(t, "straighten left elbow by 60.0°, bend right knee by 70.0°", Summary(bad.Verdicts))
}
