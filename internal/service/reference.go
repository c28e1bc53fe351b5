package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/jinzhu/copier"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/model/cache"
	"exusiai.dev/posecoach/internal/model/types"
	"exusiai.dev/posecoach/internal/pkg/observability"
	"exusiai.dev/posecoach/internal/pkg/pcerr"
	"exusiai.dev/posecoach/internal/repo"
)

type referenceRepo interface {
	GetReferenceByID(ctx context.Context, id string) (*model.ReferencePose, error)
	GetReferenceByGroupAndSequence(ctx context.Context, group string, sequence int) (*model.ReferencePose, error)
	GetReferencesByGroup(ctx context.Context, group string) ([]*model.ReferencePose, error)
	GetGroups(ctx context.Context) ([]*model.ReferenceGroup, error)
	CreateReference(ctx context.Context, ref *model.ReferencePose) error
	DeleteReference(ctx context.Context, id string) error
}

type Reference struct {
	repo     referenceRepo
	pipeline *Pipeline
	redsync  *redsync.Redsync

	sf singleflight.Group
}

func NewReference(referencePoseRepo *repo.ReferencePose, pipeline *Pipeline, redsync *redsync.Redsync) *Reference {
	return &Reference{
		repo:     referencePoseRepo,
		pipeline: pipeline,
		redsync:  redsync,
	}
}

// Build derives a reference from snapshot under the configured schema and formulation. The
// snapshot has to pass the same validation and capture gate as a live frame, and at least
// one joint has to be measurable.
func (s *Reference) Build(snapshot model.LandmarkSnapshot, group string, sequence int, name null.String) (*model.ReferencePose, error) {
	if err := s.pipeline.CheckSnapshot(snapshot); err != nil {
		return nil, err
	}
	if err := s.pipeline.Admit(snapshot); err != nil {
		return nil, err
	}

	angles := s.pipeline.Angles(snapshot)
	if len(angles) == 0 {
		return nil, pcerr.ErrIncompleteCapture.Msg("no joint of the reference could be measured")
	}

	schema := s.pipeline.Schema()
	return &model.ReferencePose{
		ReferenceID: ulid.Make().String(),
		Group:       group,
		Sequence:    sequence,
		Name:        name,
		Schema:      schema.Name,
		Formulation: string(s.pipeline.Formulation()),
		CatalogHash: schema.CatalogHash(),
		Landmarks:   snapshot,
		Angles:      angles,
		CreatedAt:   time.Now(),
	}, nil
}

func (s *Reference) Create(ctx context.Context, req *types.CreateReferenceRequest) (*model.ReferencePose, error) {
	if req.Schema != "" && req.Schema != s.pipeline.Schema().Name {
		return nil, pcerr.ErrInvalidReq.Msg("landmarks captured with schema %s cannot be stored, this instance compares %s", req.Schema, s.pipeline.Schema().Name)
	}

	ref, err := s.Build(req.Landmarks, req.Group, req.Sequence, req.Name)
	if err != nil {
		return nil, err
	}

	mutex := s.redsync.NewMutex("mutex:reference:"+req.Group+":"+strconv.Itoa(req.Sequence),
		redsync.WithExpiry(10*time.Second), redsync.WithTries(3))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, pcerr.ErrConflict.Msg("reference %s#%d is being created by another request", req.Group, req.Sequence)
	}
	defer func() {
		if _, err := mutex.UnlockContext(ctx); err != nil {
			log.Warn().Err(err).Str("evt.name", "reference.unlock").Msg("failed to release reference lock")
		}
	}()

	if err := s.repo.CreateReference(ctx, ref); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ref)

	log.Info().
		Str("evt.name", "reference.created").
		Str("reference.id", ref.ReferenceID).
		Str("reference.group", ref.Group).
		Int("reference.sequence", ref.Sequence).
		Int("reference.joints", len(ref.Angles)).
		Msg("reference created")

	return ref, nil
}

// Cache: reference#referenceId:{referenceId}, 1 hr
func (s *Reference) GetByID(ctx context.Context, id string) (*model.ReferencePose, error) {
	var ref model.ReferencePose
	_, err := cache.ReferenceByID.MutexGetSet(ctx, id, &ref, func() (*model.ReferencePose, error) {
		return s.repo.GetReferenceByID(ctx, id)
	}, time.Hour)
	if err != nil {
		return nil, err
	}
	return s.current(&ref)
}

func (s *Reference) GetByGroupAndSequence(ctx context.Context, group string, sequence int) (*model.ReferencePose, error) {
	v, err, _ := s.sf.Do("reference:"+group+":"+strconv.Itoa(sequence), func() (any, error) {
		return s.repo.GetReferenceByGroupAndSequence(ctx, group, sequence)
	})
	if err != nil {
		return nil, err
	}
	return s.current(v.(*model.ReferencePose))
}

// Cache: references#group:{group}, 10 mins
func (s *Reference) GetByGroup(ctx context.Context, group string) ([]*model.ReferencePose, error) {
	var refs []*model.ReferencePose
	_, err := cache.ReferencesByGroup.MutexGetSet(ctx, group, &refs, func() (*[]*model.ReferencePose, error) {
		refs, err := s.repo.GetReferencesByGroup(ctx, group)
		if err != nil {
			return nil, err
		}
		return &refs, nil
	}, 10*time.Minute)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, pcerr.ErrNotFound.Msg("no reference found in group %q", group)
	}

	results := make([]*model.ReferencePose, 0, len(refs))
	for _, ref := range refs {
		r, err := s.current(ref)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Cache: (singular) referenceGroups, 5 mins
func (s *Reference) GetGroups(ctx context.Context) ([]*model.ReferenceGroup, error) {
	var groups []*model.ReferenceGroup
	err := cache.ReferenceGroups.MutexGetSet(&groups, func() ([]*model.ReferenceGroup, error) {
		return s.repo.GetGroups(ctx)
	}, 5*time.Minute)
	return groups, err
}

func (s *Reference) Delete(ctx context.Context, id string) error {
	ref, err := s.repo.GetReferenceByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteReference(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, ref)

	log.Info().
		Str("evt.name", "reference.deleted").
		Str("reference.id", id).
		Msg("reference deleted")
	return nil
}

// Resolve returns the reference sel names. Exactly one of referenceId, group with sequence
// or landmarks has to be given; inline landmarks produce a reference that is not stored.
func (s *Reference) Resolve(ctx context.Context, sel *types.ReferenceSelector) (*model.ReferencePose, error) {
	given := 0
	if sel.ReferenceID != "" {
		given++
	}
	if sel.Group != "" || sel.Sequence.Valid {
		given++
	}
	if len(sel.Landmarks) > 0 {
		given++
	}
	if given != 1 {
		return nil, pcerr.ErrInvalidReq.Msg("exactly one of referenceId, group with sequence or landmarks has to be given")
	}

	switch {
	case sel.ReferenceID != "":
		return s.GetByID(ctx, sel.ReferenceID)
	case len(sel.Landmarks) > 0:
		return s.Build(sel.Landmarks, "", 0, null.String{})
	default:
		if sel.Group == "" || !sel.Sequence.Valid {
			return nil, pcerr.ErrInvalidReq.Msg("group and sequence have to be given together")
		}
		return s.GetByGroupAndSequence(ctx, sel.Group, int(sel.Sequence.Int64))
	}
}

// current returns ref with its angles derived under the configured formulation and catalog.
// A reference stored under another formulation or catalog revision is re-derived from its
// landmarks into a copy; ref itself is never modified since it may be shared through caches.
func (s *Reference) current(ref *model.ReferencePose) (*model.ReferencePose, error) {
	schema := s.pipeline.Schema()
	if ref.Schema != schema.Name {
		return nil, pcerr.ErrInvalidReq.Msg("reference %s was captured with schema %s, this instance compares %s", ref.ReferenceID, ref.Schema, schema.Name)
	}
	formulation := string(s.pipeline.Formulation())
	if ref.Formulation == formulation && ref.CatalogHash == schema.CatalogHash() {
		return ref, nil
	}

	var derived model.ReferencePose
	if err := copier.CopyWithOption(&derived, ref, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	derived.Formulation = formulation
	derived.CatalogHash = schema.CatalogHash()
	derived.Angles = s.pipeline.Angles(derived.Landmarks)

	observability.ReferenceReDerived.Inc()
	log.Debug().
		Str("evt.name", "reference.rederived").
		Str("reference.id", ref.ReferenceID).
		Str("from.formulation", ref.Formulation).
		Str("from.catalog", ref.CatalogHash).
		Msg("re-derived reference angles")

	return &derived, nil
}

func (s *Reference) invalidate(ctx context.Context, ref *model.ReferencePose) {
	errs := []error{
		cache.ReferenceByID.Delete(ctx, ref.ReferenceID),
		cache.ReferencesByGroup.Delete(ctx, ref.Group),
		cache.ReferenceGroups.Delete(),
	}
	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Str("evt.name", "reference.invalidate").Str("reference.id", ref.ReferenceID).Msg("failed to invalidate reference caches")
		}
	}
}
