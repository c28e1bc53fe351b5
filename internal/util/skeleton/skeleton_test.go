package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/pkg/poseschema"
)

func fullSnapshot(size int) model.LandmarkSnapshot {
	s := make(model.LandmarkSnapshot, size)
	for i := range s {
		s[i] = &model.Landmark{X: 0.5, Y: 0.25, Confidence: 1}
	}
	return s
}

func TestProjectScalesToPixels(t *testing.T) {
	s := fullSnapshot(poseschema.COCO15.Size)
	s[poseschema.COCONeck] = &model.Landmark{X: 0.5, Y: 0.1, Confidence: 1}
	s[poseschema.COCORightShoulder] = &model.Landmark{X: 0.25, Y: 0.2, Confidence: 1}

	segments := Project(s, poseschema.COCO15.Bones, 640, 480)

	require.Len(t, segments, len(poseschema.COCO15.Bones))
	first := segments[0]
	assert.Equal(t, poseschema.COCONeck, first.FromIndex)
	assert.Equal(t, poseschema.COCORightShoulder, first.ToIndex)
	assert.InDelta(t, 320, first.From.X, 1e-9)
	assert.InDelta(t, 48, first.From.Y, 1e-9)
	assert.InDelta(t, 160, first.To.X, 1e-9)
	assert.InDelta(t, 96, first.To.Y, 1e-9)
}

func TestProjectOmitsBonesWithMissingEndpoint(t *testing.T) {
	bones := poseschema.BlazePose33.Bones
	for i, bone := range bones {
		s := fullSnapshot(poseschema.BlazePose33.Size)
		s[bone.To] = nil

		expected := 0
		for _, b := range bones {
			if b.From != bone.To && b.To != bone.To {
				expected++
			}
		}

		segments := Project(s, bones, 100, 100)
		assert.Len(t, segments, expected, "bone %d", i)
		for _, seg := range segments {
			assert.NotEqual(t, bone.To, seg.FromIndex)
			assert.NotEqual(t, bone.To, seg.ToIndex)
		}
	}
}

func TestProjectShortSnapshot(t *testing.T) {
	assert.Empty(t, Project(nil, poseschema.BlazePose33.Bones, 100, 100))
	assert.Empty(t, Project(fullSnapshot(5), poseschema.BlazePose33.Bones, 100, 100))
}

func TestLocate(t *testing.T) {
	s := fullSnapshot(poseschema.BlazePose33.Size)
	s[poseschema.BPLeftElbow] = &model.Landmark{X: 0.1, Y: 0.9, Confidence: 1}
	s[poseschema.BPRightKnee] = nil

	verdicts := []*model.JointVerdict{
		{Joint: poseschema.LeftElbow},
		{Joint: poseschema.RightKnee},
	}
	Locate(verdicts, s, poseschema.BlazePose33, 200, 100)

	require.NotNil(t, verdicts[0].PixelPosition)
	assert.InDelta(t, 20, verdicts[0].PixelPosition.X, 1e-9)
	assert.InDelta(t, 90, verdicts[0].PixelPosition.Y, 1e-9)
	assert.Nil(t, verdicts[1].PixelPosition)
}
