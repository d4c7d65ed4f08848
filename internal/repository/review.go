package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/pustakalaya/bookstore-service/internal/errs"
	"github.com/pustakalaya/bookstore-service/internal/model"
)

var reviewColumns = []string{
	"r.id", "r.member_id", "m.name as member_name", "r.book_id", "b.title as book_title",
	"r.rating", "r.comment", "r.created_at", "r.updated_at",
}

func (r *Repository) reviewQuery() sq.SelectBuilder {
	return qb.Select(reviewColumns...).
		From(reviewsTableName + " r").
		Join(membersTableName + " m on m.id = r.member_id").
		Join(booksTableName + " b on b.id = r.book_id")
}

// CreateReview inserts the review and recomputes the book's average rating in
// the same transaction. The (member, book) unique index rejects a second
// review for the same pair.
func (r *Repository) CreateReview(ctx context.Context, review model.Review) (model.Review, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Review{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	q, args, err := qb.Insert(reviewsTableName).
		Columns("member_id", "book_id", "rating", "comment").
		Values(review.MemberID, review.BookID, review.Rating, review.Comment).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Review{}, err
	}
	var id int64
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		if isUniqueViolation(err, "") {
			return model.Review{}, errs.ErrConflict
		}
		return model.Review{}, err
	}

	if err := recomputeAverageRating(ctx, tx, review.BookID); err != nil {
		return model.Review{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Review{}, err
	}
	return r.GetReview(ctx, id)
}

func (r *Repository) UpdateReview(ctx context.Context, id, memberID int64, req model.ReviewUpdateRequest) (model.Review, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Review{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	q := `
	update reviews
	    set rating = $3, comment = $4, updated_at = now()
	where id = $1 and member_id = $2
	returning book_id`
	var bookID int64
	if err := tx.QueryRowContext(ctx, q, id, memberID, req.Rating, req.Comment).Scan(&bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Review{}, errs.ErrNotFound
		}
		return model.Review{}, err
	}

	if err := recomputeAverageRating(ctx, tx, bookID); err != nil {
		return model.Review{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Review{}, err
	}
	return r.GetReview(ctx, id)
}

func (r *Repository) DeleteReview(ctx context.Context, id, memberID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	q := `delete from reviews where id = $1 and member_id = $2 returning book_id`
	var bookID int64
	if err := tx.QueryRowContext(ctx, q, id, memberID).Scan(&bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}

	if err := recomputeAverageRating(ctx, tx, bookID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) GetReview(ctx context.Context, id int64) (model.Review, error) {
	q, args, err := r.reviewQuery().Where(sq.Eq{"r.id": id}).Limit(1).ToSql()
	if err != nil {
		return model.Review{}, err
	}
	var review model.Review
	if err := r.db.GetContext(ctx, &review, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Review{}, errs.ErrNotFound
		}
		return model.Review{}, err
	}
	return review, nil
}

func (r *Repository) ListReviewsByBook(ctx context.Context, bookID int64) ([]model.Review, error) {
	return r.listReviews(ctx, r.reviewQuery().
		Where(sq.Eq{"r.book_id": bookID}).
		OrderBy("r.created_at desc"))
}

func (r *Repository) ListReviewsByMember(ctx context.Context, memberID int64) ([]model.Review, error) {
	return r.listReviews(ctx, r.reviewQuery().
		Where(sq.Eq{"r.member_id": memberID}).
		OrderBy("r.created_at desc"))
}

func (r *Repository) listReviews(ctx context.Context, sb sq.SelectBuilder) ([]model.Review, error) {
	q, args, err := sb.ToSql()
	if err != nil {
		return nil, err
	}
	var reviews []model.Review
	if err := r.db.SelectContext(ctx, &reviews, q, args...); err != nil {
		return nil, err
	}
	return reviews, nil
}

// recomputeAverageRating re-scans all ratings of the book: round(mean, 2),
// 0 when no reviews remain.
func recomputeAverageRating(ctx context.Context, tx sq.ExecerContext, bookID int64) error {
	q := `
	update books
	    set average_rating = coalesce(
	        (select round(avg(rating)::numeric, 2) from reviews where book_id = $1), 0),
	        updated_at = now()
	where id = $1`
	_, err := tx.ExecContext(ctx, q, bookID)
	return err
}
