package service

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redsync/redsync/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"exusiai.dev/posecoach/internal/app/appconfig"
	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/pkg/archiver"
	"exusiai.dev/posecoach/internal/pkg/pcerr"
	"exusiai.dev/posecoach/internal/repo"
)

const (
	RealmReferencePoses = "reference_poses"

	ArchiveS3Prefix  = "v1/"
	archiveBatchSize = 500
)

type archiveRepo interface {
	GetReferencesCreatedBetween(ctx context.Context, start, end time.Time, afterID string, limit int) ([]*model.ReferencePose, error)
}

type Archive struct {
	repo     archiveRepo
	lock     *redsync.Mutex
	archiver *archiver.Archiver
}

func NewArchive(conf *appconfig.Config, referencePoseRepo *repo.ReferencePose, rs *redsync.Redsync) (*Archive, error) {
	s := &Archive{
		repo: referencePoseRepo,
		lock: rs.NewMutex("mutex:archiver:"+RealmReferencePoses, redsync.WithExpiry(30*time.Minute), redsync.WithTries(2)),
	}
	if conf.ArchiveBucket == "" {
		return s, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(conf.ArchiveRegion)}
	if conf.ArchiveAccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.ArchiveAccessKeyID, conf.ArchiveSecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load aws config")
	}

	s.archiver = &archiver.Archiver{
		S3Client:  s3.NewFromConfig(cfg),
		S3Bucket:  conf.ArchiveBucket,
		S3Prefix:  ArchiveS3Prefix,
		RealmName: RealmReferencePoses,
	}
	return s, nil
}

// ArchiveByDate uploads the references created on the UTC day of date. A day already
// archived is skipped.
func (s *Archive) ArchiveByDate(ctx context.Context, date time.Time) error {
	if s.archiver == nil {
		return pcerr.ErrInvalidReq.Msg("reference archive is not configured")
	}

	if err := s.lock.LockContext(ctx); err != nil {
		return pcerr.ErrConflict.Msg("another archive run is in progress")
	}
	defer s.lock.UnlockContext(context.Background())

	if err := s.archiver.Prepare(ctx, date); err != nil {
		if errors.Is(err, archiver.ErrFileAlreadyExists) {
			log.Info().
				Str("evt.name", "archive.reference_poses").
				Str("realm", RealmReferencePoses).
				Msg("already archived")
			return nil
		}
		return errors.Wrap(err, "failed to prepare reference archiver")
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.archiver.Collect(egCtx)
	})
	eg.Go(func() error {
		return s.populate(egCtx, date)
	})

	err := eg.Wait()
	log.Info().
		Str("evt.name", "archive.finished").
		Str("realm", RealmReferencePoses).
		Err(err).
		Msg("finished archiving")

	return err
}

func (s *Archive) populate(ctx context.Context, date time.Time) error {
	ch := s.archiver.WriterCh()
	defer close(ch)

	start := date.UTC().Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)

	var afterID string
	var page, total int
	for {
		refs, err := s.repo.GetReferencesCreatedBetween(ctx, start, end, afterID, archiveBatchSize)
		if err != nil {
			return errors.Wrap(err, "failed to extract references")
		}
		if len(refs) == 0 {
			break
		}
		log.Debug().
			Str("evt.name", "archive.populate.reference_poses").
			Int("page", page).
			Str("cursor", afterID).
			Int("count", len(refs)).
			Msg("got references")

		for _, ref := range refs {
			select {
			case ch <- ref:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		afterID = refs[len(refs)-1].ReferenceID
		total += len(refs)
		page++
		if len(refs) < archiveBatchSize {
			break
		}
	}

	log.Info().Int("total_count", total).Msg("finished populating references")
	return nil
}
