package archiver

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/sjson"
)

const (
	FileExt                = ".jsonl.gz"
	LocalTempDirPattern    = "posecoach-archiver-*"
	ArchiverChanBufferSize = 16
)

var ErrFileAlreadyExists = errors.New("file already exists")

// ObjectStore is the part of the S3 client the archiver uses.
type ObjectStore interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver writes one day of records of a realm as gzipped JSON lines and uploads the file
// to S3. Each archive file is written once; an existing file is never overwritten.
type Archiver struct {
	S3Client ObjectStore
	S3Bucket string

	// S3Prefix is for the files in the bucket with no leading slash but optionally (typically) with trailing slash
	// e.g. "v1/" or simply "" (empty string)
	S3Prefix string

	RealmName string

	date         time.Time
	localTempDir string
	writerCh     chan any
	logger       *zerolog.Logger
}

func (a *Archiver) initLogger() {
	if a.logger == nil {
		logger := log.With().
			Str("module", "archiver").
			Str("realm", a.RealmName).
			Logger()
		a.logger = &logger
	}
}

// CanonicalFilePath is the path of the archive file relative to the prefix. Days are UTC days.
func (a *Archiver) CanonicalFilePath() string {
	return a.RealmName + "/" + a.RealmName + "_" + a.date.UTC().Format("2006-01-02") + FileExt
}

func (a *Archiver) Prepare(ctx context.Context, date time.Time) error {
	a.initLogger()

	a.logger.Info().Str("date", date.Format("2006-01-02")).Msg("preparing archiver")
	a.date = date
	a.writerCh = make(chan any, ArchiverChanBufferSize)

	if err := a.assertS3FileNonExistence(ctx); err != nil {
		return errors.Wrap(err, "failed to assertFileNonExistence")
	}

	dir, err := os.MkdirTemp(os.TempDir(), LocalTempDirPattern)
	if err != nil {
		return errors.Wrap(err, "failed to create temporary directory")
	}
	a.localTempDir = dir
	a.logger.Trace().Str("localTempDir", a.localTempDir).Msg("created local temp dir")

	return nil
}

func (a *Archiver) assertS3FileNonExistence(ctx context.Context) error {
	key := a.S3Prefix + a.CanonicalFilePath()
	object, err := a.S3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "NotFound" {
			return nil
		}
		return errors.Wrap(err, "failed to invoke HeadObject")
	}
	return errors.Wrap(ErrFileAlreadyExists, fmt.Sprintf("file %q already exists in s3 with LastModified %q", key, object.LastModified))
}

// WriterCh is where records are sent. Caller MUST close the channel when it's done.
func (a *Archiver) WriterCh() chan<- any {
	return a.writerCh
}

// Collect drains WriterCh into the local file and uploads it once the channel is closed. It
// has to run on a different goroutine than the one sending records.
func (a *Archiver) Collect(ctx context.Context) error {
	defer func() {
		if err := os.RemoveAll(a.localTempDir); err != nil {
			a.logger.Warn().Err(err).Msg("failed to remove temporary directory")
		}
	}()

	count, err := a.archiveToLocalFile(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to archiveToLocalFile")
	}
	a.logger.Debug().Int("count", count).Msg("archived to local file")

	if err := a.uploadToS3(ctx); err != nil {
		return errors.Wrap(err, "failed to uploadToS3")
	}
	a.logger.Info().Int("count", count).Str("key", a.S3Prefix+a.CanonicalFilePath()).Msg("uploaded archive")

	return nil
}

func (a *Archiver) localFilePath() string {
	return path.Join(a.localTempDir, a.CanonicalFilePath())
}

func (a *Archiver) archiveToLocalFile(ctx context.Context) (int, error) {
	filePath := a.localFilePath()
	if err := os.MkdirAll(path.Dir(filePath), 0o755); err != nil {
		return 0, errors.Wrap(err, "failed to create directory")
	}

	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	day := a.date.UTC().Format("2006-01-02")

	count := 0
	for {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		case item, ok := <-a.writerCh:
			if !ok {
				return count, gzipWriter.Close()
			}
			line, err := a.line(item, day)
			if err != nil {
				return count, err
			}
			if _, err := gzipWriter.Write(line); err != nil {
				return count, errors.Wrap(err, "failed to write line")
			}
			count++
		}
	}
}

// line encodes item as one JSON line tagged with where it was archived from. Items must
// encode to JSON objects.
func (a *Archiver) line(item any, day string) ([]byte, error) {
	b, err := json.Marshal(item)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode item")
	}
	b, err = sjson.SetBytes(b, "_archive", map[string]string{"realm": a.RealmName, "date": day})
	if err != nil {
		return nil, errors.Wrap(err, "failed to tag item")
	}
	return append(b, '\n'), nil
}

func (a *Archiver) uploadToS3(ctx context.Context) error {
	file, err := os.Open(a.localFilePath())
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	if _, err := a.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:            aws.String(a.S3Bucket),
		Key:               aws.String(a.S3Prefix + a.CanonicalFilePath()),
		Body:              file,
		ContentType:       aws.String("application/x-ndjson"),
		ContentEncoding:   aws.String("gzip"),
		StorageClass:      types.StorageClassStandardIa,
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
	}); err != nil {
		return errors.Wrap(err, "failed to invoke PutObject")
	}
	return nil
}
