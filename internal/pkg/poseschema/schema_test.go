package poseschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogsReferenceValidIndices(t *testing.T) {
	for _, name := range Names() {
		s := MustLookup(name)
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.validate())
			for _, def := range s.Angles {
				assert.Less(t, def.A, s.Size)
				assert.Less(t, def.Vertex, s.Size)
				assert.Less(t, def.B, s.Size)
			}
			for _, bone := range s.Bones {
				assert.Less(t, bone.From, s.Size)
				assert.Less(t, bone.To, s.Size)
			}
		})
	}
}

func TestCatalogSizes(t *testing.T) {
	assert.Equal(t, 33, BlazePose33.Size)
	assert.Len(t, BlazePose33.Angles, 10)
	assert.Len(t, BlazePose33.Bones, 12)

	assert.Equal(t, 15, COCO15.Size)
	assert.Len(t, COCO15.Angles, 8)
	assert.Len(t, COCO15.Bones, 12)
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	s := &Schema{
		Name:         "broken",
		Size:         3,
		MinLandmarks: 3,
		Angles:       []AngleDefinition{{Joint: LeftElbow, A: 0, Vertex: 1, B: 3}},
	}
	assert.Error(t, s.validate())

	s = &Schema{
		Name:         "broken",
		Size:         3,
		MinLandmarks: 3,
		Bones:        []Bone{{From: 0, To: 7}},
	}
	assert.Error(t, s.validate())

	s = &Schema{
		Name:         "broken",
		Size:         3,
		MinLandmarks: 3,
		Angles: []AngleDefinition{
			{Joint: LeftElbow, A: 0, Vertex: 1, B: 2},
			{Joint: LeftElbow, A: 2, Vertex: 1, B: 0},
		},
	}
	assert.Error(t, s.validate())
}

func TestLookup(t *testing.T) {
	s, err := Lookup("blazepose33")
	require.NoError(t, err)
	assert.Same(t, BlazePose33, s)

	_, err = Lookup("openpose25")
	assert.Error(t, err)
}

func TestCatalogHashDiffers(t *testing.T) {
	assert.NotEmpty(t, BlazePose33.CatalogHash())
	assert.Len(t, BlazePose33.CatalogHash(), 16)
	assert.NotEqual(t, BlazePose33.CatalogHash(), COCO15.CatalogHash())

	clone := *BlazePose33
	clone.Angles = append([]AngleDefinition(nil), BlazePose33.Angles[:9]...)
	clone.computeHash()
	assert.NotEqual(t, BlazePose33.CatalogHash(), clone.CatalogHash())
}

func TestJointText(t *testing.T) {
	for _, j := range Joints() {
		text, err := j.MarshalText()
		require.NoError(t, err)

		var parsed Joint
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, j, parsed)
	}

	assert.Equal(t, "left elbow", LeftElbow.Humanized())

	_, err := JointUnknown.MarshalText()
	assert.Error(t, err)

	_, err = ParseJoint("left_wing")
	assert.Error(t, err)
}

func TestAngleIndexFollowsCatalogOrder(t *testing.T) {
	for i, def := range COCO15.Angles {
		assert.Equal(t, i, COCO15.AngleIndex(def.Joint))
	}
	assert.Equal(t, -1, COCO15.AngleIndex(LeftAnkle))
}
