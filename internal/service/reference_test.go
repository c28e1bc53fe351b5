package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/model/types"
	"exusiai.dev/posecoach/internal/pkg/pcerr"
	"exusiai.dev/posecoach/internal/pkg/poseschema"
	"exusiai.dev/posecoach/internal/util/angleutil"
)

type fakeReferenceRepo struct {
	byKey   map[string]*model.ReferencePose
	lookups int
	created []*model.ReferencePose
}

func newFakeReferenceRepo(refs ...*model.ReferencePose) *fakeReferenceRepo {
	r := &fakeReferenceRepo{byKey: map[string]*model.ReferencePose{}}
	for _, ref := range refs {
		r.byKey[ref.ReferenceID] = ref
	}
	return r
}

func (r *fakeReferenceRepo) GetReferenceByID(_ context.Context, id string) (*model.ReferencePose, error) {
	r.lookups++
	if ref, ok := r.byKey[id]; ok {
		return ref, nil
	}
	return nil, pcerr.ErrNotFound
}

func (r *fakeReferenceRepo) GetReferenceByGroupAndSequence(_ context.Context, group string, sequence int) (*model.ReferencePose, error) {
	r.lookups++
	for _, ref := range r.byKey {
		if ref.Group == group && ref.Sequence == sequence {
			return ref, nil
		}
	}
	return nil, pcerr.ErrNotFound
}

func (r *fakeReferenceRepo) GetReferencesByGroup(context.Context, string) ([]*model.ReferencePose, error) {
	return nil, nil
}

func (r *fakeReferenceRepo) GetGroups(context.Context) ([]*model.ReferenceGroup, error) {
	return nil, nil
}

func (r *fakeReferenceRepo) CreateReference(_ context.Context, ref *model.ReferencePose) error {
	r.created = append(r.created, ref)
	return nil
}

func (r *fakeReferenceRepo) DeleteReference(context.Context, string) error {
	return nil
}

func testReferenceService(t *testing.T, refs ...*model.ReferencePose) (*Reference, *fakeReferenceRepo) {
	repo := newFakeReferenceRepo(refs...)
	return &Reference{repo: repo, pipeline: testPipeline(t)}, repo
}

func TestBuild(t *testing.T) {
	s, _ := testReferenceService(t)

	ref, err := s.Build(testPose(), "warrior", 2, null.StringFrom("Warrior II"))
	require.NoError(t, err)

	assert.Len(t, ref.ReferenceID, 26)
	assert.Equal(t, "warrior", ref.Group)
	assert.Equal(t, 2, ref.Sequence)
	assert.Equal(t, "Warrior II", ref.Name.String)
	assert.Equal(t, poseschema.BlazePose33.Name, ref.Schema)
	assert.Equal(t, string(angleutil.FormulationCosine), ref.Formulation)
	assert.Equal(t, poseschema.BlazePose33.CatalogHash(), ref.CatalogHash)
	assert.Len(t, ref.Angles, len(poseschema.BlazePose33.Angles))
}

func TestBuildRejectsUnusableSnapshots(t *testing.T) {
	s, _ := testReferenceService(t)

	_, err := s.Build(nil, "warrior", 0, null.String{})
	assert.ErrorIs(t, err, pcerr.ErrDetectionFailure)

	pose := testPose()
	for i := 0; i < 20; i++ {
		pose[i].Confidence = 0
	}
	_, err = s.Build(pose, "warrior", 0, null.String{})
	assert.ErrorIs(t, err, pcerr.ErrIncompleteCapture)

	pose = testPose()
	pose[0].Confidence = -1
	_, err = s.Build(pose, "warrior", 0, null.String{})
	assert.ErrorIs(t, err, pcerr.ErrMalformedInput)
}

func TestResolveSelectorArity(t *testing.T) {
	s, repo := testReferenceService(t)
	ctx := context.Background()

	cases := map[string]*types.ReferenceSelector{
		"nothing":           {},
		"id and group":      {ReferenceID: "x", Group: "warrior", Sequence: null.IntFrom(0)},
		"id and landmarks":  {ReferenceID: "x", Landmarks: testPose()},
		"group no sequence": {Group: "warrior"},
		"sequence no group": {Sequence: null.IntFrom(1)},
	}
	for name, sel := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Resolve(ctx, sel)
			assert.ErrorIs(t, err, pcerr.ErrInvalidReq)
		})
	}
	assert.Zero(t, repo.lookups)
}

func TestResolveInlineLandmarksAreNotStored(t *testing.T) {
	s, repo := testReferenceService(t)

	ref, err := s.Resolve(context.Background(), &types.ReferenceSelector{Landmarks: testPose()})
	require.NoError(t, err)
	assert.NotEmpty(t, ref.Angles)
	assert.Empty(t, repo.created)
	assert.Zero(t, repo.lookups)
}

func TestResolveByGroupAndSequence(t *testing.T) {
	p := testPipeline(t)
	stored := referenceOf(p, testPose())
	stored.Group, stored.Sequence = "warrior", 3
	s, _ := testReferenceService(t, stored)

	ref, err := s.Resolve(context.Background(), &types.ReferenceSelector{Group: "warrior", Sequence: null.IntFrom(3)})
	require.NoError(t, err)
	assert.Same(t, stored, ref)

	_, err = s.Resolve(context.Background(), &types.ReferenceSelector{Group: "warrior", Sequence: null.IntFrom(4)})
	assert.ErrorIs(t, err, pcerr.ErrNotFound)
}

func TestStoredReferenceIsReDerived(t *testing.T) {
	p := testPipeline(t)
	stored := referenceOf(p, testPose())
	stored.Group = "warrior"
	stored.Formulation = string(angleutil.FormulationBearing)
	stored.Angles = model.AngleMap{poseschema.LeftElbow: 1}
	s, _ := testReferenceService(t, stored)

	ref, err := s.GetByGroupAndSequence(context.Background(), "warrior", 0)
	require.NoError(t, err)

	assert.NotSame(t, stored, ref)
	assert.Equal(t, stored.ReferenceID, ref.ReferenceID)
	assert.Equal(t, string(angleutil.FormulationCosine), ref.Formulation)
	assert.Equal(t, p.Angles(stored.Landmarks), ref.Angles)

	// the stored value may be shared through caches and stays as it was
	assert.Equal(t, string(angleutil.FormulationBearing), stored.Formulation)
	assert.Equal(t, model.AngleMap{poseschema.LeftElbow: 1}, stored.Angles)
}

func TestStoredReferenceOfAnotherCatalogRevisionIsReDerived(t *testing.T) {
	p := testPipeline(t)
	stored := referenceOf(p, testPose())
	stored.CatalogHash = "0000000000000000"
	stored.Angles = model.AngleMap{}
	s, _ := testReferenceService(t, stored)

	ref, err := s.GetByGroupAndSequence(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, poseschema.BlazePose33.CatalogHash(), ref.CatalogHash)
	assert.Len(t, ref.Angles, len(poseschema.BlazePose33.Angles))
}

func TestStoredReferenceOfAnotherSchemaIsRejected(t *testing.T) {
	p := testPipeline(t)
	stored := referenceOf(p, testPose())
	stored.Schema = poseschema.COCO15.Name
	s, _ := testReferenceService(t, stored)

	_, err := s.GetByGroupAndSequence(context.Background(), "", 0)
	assert.ErrorIs(t, err, pcerr.ErrInvalidReq)
}
