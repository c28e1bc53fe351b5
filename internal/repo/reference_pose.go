package repo

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/pkg/pcerr"
	"exusiai.dev/posecoach/internal/repo/selector"
)

const pgUniqueViolation = "23505"

type ReferencePose struct {
	db  *bun.DB
	sel selector.S[model.ReferencePose]
}

func NewReferencePose(db *bun.DB) *ReferencePose {
	return &ReferencePose{db: db, sel: selector.New[model.ReferencePose](db)}
}

// Migrate creates the reference table and its indices when they do not exist yet.
func (r *ReferencePose) Migrate(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*model.ReferencePose)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.NewCreateIndex().
		Model((*model.ReferencePose)(nil)).
		Index("idx_reference_poses_created_at").
		Column("created_at").
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *ReferencePose) GetReferenceByID(ctx context.Context, id string) (*model.ReferencePose, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("reference_id = ?", id)
	})
}

func (r *ReferencePose) GetReferenceByGroupAndSequence(ctx context.Context, group string, sequence int) (*model.ReferencePose, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("group_name = ?", group).Where("sequence = ?", sequence)
	})
}

func (r *ReferencePose) GetReferencesByGroup(ctx context.Context, group string) ([]*model.ReferencePose, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("group_name = ?", group).Order("sequence ASC")
	})
}

// GetReferencesCreatedBetween pages through references in creation order, used by the archiver.
func (r *ReferencePose) GetReferencesCreatedBetween(ctx context.Context, start, end time.Time, afterID string, limit int) ([]*model.ReferencePose, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("created_at >= ?", start).
			Where("created_at < ?", end).
			Where("reference_id > ?", afterID).
			Order("reference_id ASC").
			Limit(limit)
	})
}

func (r *ReferencePose) GetGroups(ctx context.Context) ([]*model.ReferenceGroup, error) {
	groups := []*model.ReferenceGroup{}
	err := r.db.NewSelect().
		Model((*model.ReferencePose)(nil)).
		ColumnExpr("group_name").
		ColumnExpr("count(*) AS count").
		ColumnExpr("array_agg(sequence ORDER BY sequence) AS sequences").
		Group("group_name").
		Order("group_name ASC").
		Scan(ctx, &groups)
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateReference inserts ref. A reference already stored under the same group and sequence
// is reported as pcerr.ErrConflict.
func (r *ReferencePose) CreateReference(ctx context.Context, ref *model.ReferencePose) error {
	_, err := r.db.NewInsert().
		Model(ref).
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == pgUniqueViolation {
			return pcerr.ErrConflict.Msg("reference %s #%d already exists", ref.Group, ref.Sequence)
		}
		return err
	}
	return nil
}

// CreateReferencesTx inserts refs in a single transaction, skipping those whose group and
// sequence already exist. It returns how many were inserted.
func (r *ReferencePose) CreateReferencesTx(ctx context.Context, refs []*model.ReferencePose) (int, error) {
	if len(refs) == 0 {
		return 0, nil
	}

	var inserted int
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().
			Model(&refs).
			On("CONFLICT (group_name, sequence) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		inserted = int(n)
		return nil
	})
	return inserted, err
}

func (r *ReferencePose) DeleteReference(ctx context.Context, id string) error {
	res, err := r.db.NewDelete().
		Model((*model.ReferencePose)(nil)).
		Where("reference_id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pcerr.ErrNotFound
	}
	return nil
}
