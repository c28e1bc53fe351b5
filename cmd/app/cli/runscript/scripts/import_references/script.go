package script_import_references

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/model/types"
	"exusiai.dev/posecoach/internal/util/rekuest"
)

const insertBatchSize = 200

func run(ctx *cli.Context, deps CommandDeps, path string, dryRun bool) error {
	log.Info().Str("file", path).Bool("dryRun", dryRun).Msg("running script")

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	requests, err := decode(f)
	if err != nil {
		return errors.Wrap(err, "failed to decode file")
	}

	refs := make([]*model.ReferencePose, 0, len(requests))
	for i, req := range requests {
		if err := rekuest.Validate.Struct(req); err != nil {
			return errors.Wrapf(err, "entry %d is invalid", i)
		}
		ref, err := deps.ReferenceService.Build(req.Landmarks, req.Group, req.Sequence, req.Name)
		if err != nil {
			return errors.Wrapf(err, "entry %d (%s#%d) cannot be used as a reference", i, req.Group, req.Sequence)
		}
		refs = append(refs, ref)
	}

	log.Info().Int("count", len(refs)).Msg("references derived")
	if dryRun {
		log.Info().Msg("dry run: nothing stored")
		return nil
	}

	inserted := 0
	for _, batch := range lo.Chunk(refs, insertBatchSize) {
		n, err := deps.ReferencePoseRepo.CreateReferencesTx(ctx.Context, batch)
		if err != nil {
			return errors.Wrap(err, "failed to store references")
		}
		inserted += n
	}

	log.Info().
		Int("inserted", inserted).
		Int("skipped", len(refs)-inserted).
		Msg("script finished")

	return nil
}

// decode reads either a JSON array of requests or one request per line. Blank lines are
// ignored.
func decode(r io.Reader) ([]*types.CreateReferenceRequest, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.Peek(1)
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, err
		}
		if !bytes.ContainsAny(b, " \t\r\n") {
			break
		}
		if _, err := br.ReadByte(); err != nil {
			return nil, err
		}
	}

	if b, _ := br.Peek(1); b[0] == '[' {
		var requests []*types.CreateReferenceRequest
		if err := json.NewDecoder(br).Decode(&requests); err != nil {
			return nil, err
		}
		return requests, nil
	}

	var requests []*types.CreateReferenceRequest
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var req types.CreateReferenceRequest
		if err := json.Unmarshal(text, &req); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		requests = append(requests, &req)
	}
	return requests, scanner.Err()
}
