package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/pustakalaya/bookstore-service/internal/errs"
	"github.com/pustakalaya/bookstore-service/internal/model"
)

func (r *Repository) CreateAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error) {
	q, args, err := qb.Insert(announcementsTableName).
		Columns("member_id", "title", "message", "start_date", "end_date", "is_active").
		Values(a.MemberID, a.Title, a.Message, a.StartDate, a.EndDate, a.IsActive).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Announcement{}, err
	}
	var created model.Announcement
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		return model.Announcement{}, err
	}
	return created, nil
}

func (r *Repository) GetAnnouncement(ctx context.Context, id int64) (model.Announcement, error) {
	q, args, err := qb.Select("*").
		From(announcementsTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Announcement{}, err
	}
	var a model.Announcement
	if err := r.db.GetContext(ctx, &a, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Announcement{}, errs.ErrNotFound
		}
		return model.Announcement{}, err
	}
	return a, nil
}

func (r *Repository) ListAnnouncements(ctx context.Context) ([]model.Announcement, error) {
	return r.listAnnouncements(ctx, qb.Select("*").
		From(announcementsTableName).
		OrderBy("created_at desc"))
}

// ListVisibleAnnouncements returns the latest announcements a member may see:
// active, inside the [start, end] window (null end = unbounded) and either
// public or addressed to the member.
func (r *Repository) ListVisibleAnnouncements(ctx context.Context, memberID int64, limit uint64) ([]model.Announcement, error) {
	now := time.Now().UTC()
	return r.listAnnouncements(ctx, qb.Select("*").
		From(announcementsTableName).
		Where(sq.Eq{"is_active": true}).
		Where(sq.LtOrEq{"start_date": now}).
		Where(sq.Or{sq.Eq{"end_date": nil}, sq.GtOrEq{"end_date": now}}).
		Where(sq.Or{sq.Eq{"member_id": nil}, sq.Eq{"member_id": memberID}}).
		OrderBy("created_at desc").
		Limit(limit))
}

func (r *Repository) ListPublicAnnouncements(ctx context.Context) ([]model.Announcement, error) {
	return r.listAnnouncements(ctx, qb.Select("*").
		From(announcementsTableName).
		Where(sq.Eq{"member_id": nil}).
		OrderBy("created_at desc"))
}

func (r *Repository) listAnnouncements(ctx context.Context, sb sq.SelectBuilder) ([]model.Announcement, error) {
	q, args, err := sb.ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Announcement
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) UpdateAnnouncement(ctx context.Context, id int64, req model.AnnouncementRequest) (model.Announcement, error) {
	q, args, err := qb.Update(announcementsTableName).
		Set("title", req.Title).
		Set("message", req.Message).
		Set("start_date", req.StartDate).
		Set("end_date", req.EndDate).
		Set("is_active", req.IsActive).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Announcement{}, err
	}
	var a model.Announcement
	if err := r.db.GetContext(ctx, &a, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Announcement{}, errs.ErrNotFound
		}
		return model.Announcement{}, err
	}
	return a, nil
}

func (r *Repository) DeleteAnnouncement(ctx context.Context, id int64) error {
	q, args, err := qb.Delete(announcementsTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
