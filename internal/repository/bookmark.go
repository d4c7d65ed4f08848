package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/pustakalaya/bookstore-service/internal/errs"
	"github.com/pustakalaya/bookstore-service/internal/model"
)

func (r *Repository) ListBookmarks(ctx context.Context, memberID int64) ([]model.Bookmark, error) {
	q, args, err := qb.Select("bm.id", "bm.member_id", "bm.book_id", "b.title", "b.author",
		"b.price", "bm.created_at").
		From(bookmarksTableName + " bm").
		Join(booksTableName + " b on b.id = bm.book_id").
		Where(sq.Eq{"bm.member_id": memberID}).
		OrderBy("bm.created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	var bookmarks []model.Bookmark
	if err := r.db.SelectContext(ctx, &bookmarks, q, args...); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func (r *Repository) CreateBookmark(ctx context.Context, memberID, bookID int64) error {
	q, args, err := qb.Insert(bookmarksTableName).
		Columns("member_id", "book_id").
		Values(memberID, bookID).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		if isUniqueViolation(err, "") {
			return errs.ErrConflict
		}
		return err
	}
	return nil
}

func (r *Repository) DeleteBookmark(ctx context.Context, memberID, bookID int64) error {
	q, args, err := qb.Delete(bookmarksTableName).
		Where(sq.Eq{"member_id": memberID, "book_id": bookID}).
		ToSql()
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
