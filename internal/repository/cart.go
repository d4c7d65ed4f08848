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

// GetCartLines returns the member's cart joined with live book data. An
// absent cart reads as an empty one.
func (r *Repository) GetCartLines(ctx context.Context, memberID int64) ([]model.CartLine, error) {
	q, args, err := qb.Select("ci.book_id", "b.title", "b.price", "b.stock", "ci.quantity").
		From(cartItemsTableName + " ci").
		Join(cartsTableName + " c on c.id = ci.cart_id").
		Join(booksTableName + " b on b.id = ci.book_id").
		Where(sq.Eq{"c.member_id": memberID}).
		OrderBy("ci.date_added").
		ToSql()
	if err != nil {
		return nil, err
	}
	var lines []model.CartLine
	if err := r.db.SelectContext(ctx, &lines, q, args...); err != nil {
		return nil, err
	}
	return lines, nil
}

// EnsureCart returns the member's cart id, creating the row lazily on first use.
func (r *Repository) EnsureCart(ctx context.Context, memberID int64) (int64, error) {
	q := `
	insert into carts (member_id) values ($1)
	on conflict (member_id) do update set updated_at = now()
	returning id`
	var cartID int64
	if err := r.db.QueryRowContext(ctx, q, memberID).Scan(&cartID); err != nil {
		return 0, err
	}
	return cartID, nil
}

func (r *Repository) GetCartItemQuantity(ctx context.Context, cartID, bookID int64) (int, error) {
	q, args, err := qb.Select("quantity").
		From(cartItemsTableName).
		Where(sq.Eq{"cart_id": cartID, "book_id": bookID}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var quantity int
	if err := r.db.GetContext(ctx, &quantity, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return quantity, nil
}

func (r *Repository) UpsertCartItem(ctx context.Context, cartID, bookID int64, quantity int) error {
	q := `
	insert into cart_items (cart_id, book_id, quantity) values ($1, $2, $3)
	on conflict (cart_id, book_id) do update
	    set quantity = $3, updated_at = now()`
	_, err := r.db.ExecContext(ctx, q, cartID, bookID, quantity)
	return err
}

func (r *Repository) SetCartItemQuantity(ctx context.Context, memberID, bookID int64, quantity int) error {
	q := `
	update cart_items ci
	    set quantity = $3, updated_at = now()
	from carts c
	where c.id = ci.cart_id and c.member_id = $1 and ci.book_id = $2`
	res, err := r.db.ExecContext(ctx, q, memberID, bookID, quantity)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *Repository) RemoveCartItem(ctx context.Context, memberID, bookID int64) error {
	q := `
	delete from cart_items ci
	using carts c
	where c.id = ci.cart_id and c.member_id = $1 and ci.book_id = $2`
	res, err := r.db.ExecContext(ctx, q, memberID, bookID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ClearCart empties the member's cart but keeps the cart row; the row is
// consumed only by order placement.
func (r *Repository) ClearCart(ctx context.Context, memberID int64) error {
	q := `
	delete from cart_items ci
	using carts c
	where c.id = ci.cart_id and c.member_id = $1`
	if _, err := r.db.ExecContext(ctx, q, memberID); err != nil {
		return err
	}
	q2, args, err := qb.Update(cartsTableName).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"member_id": memberID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q2, args...)
	return err
}
