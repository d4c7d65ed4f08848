package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	sq "github.com/Masterminds/squirrel"

	"github.com/pustakalaya/bookstore-service/internal/errs"
	"github.com/pustakalaya/bookstore-service/internal/model"
)

func (r *Repository) CountCompletedOrders(ctx context.Context, memberID int64) (int, error) {
	q := `
	select count(*) from orders
	where member_id = $1 and order_status = $2`
	var count int
	if err := r.db.QueryRowContext(ctx, q, memberID, model.OrderStatusCompleted).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CreateOrder persists the order and its line snapshots, decrements stock and
// consumes the cart, all in one transaction. The stock decrement is
// conditional (stock >= quantity), so a concurrent order on the same book
// cannot drive stock negative; the loser fails with InsufficientStockError.
func (r *Repository) CreateOrder(ctx context.Context, order model.Order, items []model.OrderItem) (model.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	q, args, err := qb.Insert(ordersTableName).
		Columns("member_id", "total_price", "discount_amount", "applied_discounts",
			"order_status", "is_paid", "claim_code", "order_date", "pickup_deadline",
			"fulfillment_method").
		Values(order.MemberID, order.TotalPrice, order.DiscountAmount, order.AppliedDiscounts,
			order.OrderStatus, order.IsPaid, order.ClaimCode, order.OrderDate, order.PickupDeadline,
			order.FulfillmentMethod).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Order{}, err
	}
	var created model.Order
	if err := tx.GetContext(ctx, &created, q, args...); err != nil {
		if isUniqueViolation(err, "orders_claim_code_key") {
			return model.Order{}, errs.ErrClaimCodeTaken
		}
		r.log.Error("CreateOrder", zap.String("q", q), zap.Error(err))
		return model.Order{}, err
	}

	const decrementStock = `
	update books
	    set stock = stock - $2, total_sold = total_sold + $2, updated_at = now()
	where id = $1 and stock >= $2`

	for _, item := range items {
		res, err := tx.ExecContext(ctx, decrementStock, item.BookID, item.Quantity)
		if err != nil {
			return model.Order{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var b struct {
				Title string `db:"title"`
				Stock int    `db:"stock"`
			}
			if err := tx.GetContext(ctx, &b, `select title, stock from books where id = $1`, item.BookID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return model.Order{}, errs.ErrNotFound
				}
				return model.Order{}, err
			}
			return model.Order{}, &errs.InsufficientStockError{
				BookTitle: b.Title,
				Available: b.Stock,
				Requested: item.Quantity,
			}
		}

		q, args, err := qb.Insert(orderItemsTableName).
			Columns("order_id", "book_id", "quantity", "unit_price", "discount_applied", "line_total").
			Values(created.ID, item.BookID, item.Quantity, item.UnitPrice, item.DiscountApplied, item.LineTotal).
			ToSql()
		if err != nil {
			return model.Order{}, err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return model.Order{}, err
		}
	}

	// the cart is consumed, not merely emptied
	if _, err := tx.ExecContext(ctx,
		`delete from cart_items ci using carts c where c.id = ci.cart_id and c.member_id = $1`,
		order.MemberID); err != nil {
		return model.Order{}, err
	}
	if _, err := tx.ExecContext(ctx, `delete from carts where member_id = $1`, order.MemberID); err != nil {
		return model.Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	return r.GetOrder(ctx, created.ID)
}

func (r *Repository) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	q, args, err := qb.Select("*").
		From(ordersTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Order{}, err
	}
	var order model.Order
	if err := r.db.GetContext(ctx, &order, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Order{}, errs.ErrNotFound
		}
		return model.Order{}, err
	}
	orders := []model.Order{order}
	if err := r.attachItems(ctx, orders); err != nil {
		return model.Order{}, err
	}
	return orders[0], nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]model.Order, error) {
	return r.listOrders(ctx, qb.Select("*").From(ordersTableName).OrderBy("created_at desc"))
}

func (r *Repository) ListOrdersByMember(ctx context.Context, memberID int64) ([]model.Order, error) {
	return r.listOrders(ctx, qb.Select("*").
		From(ordersTableName).
		Where(sq.Eq{"member_id": memberID}).
		OrderBy("created_at desc"))
}

func (r *Repository) listOrders(ctx context.Context, sb sq.SelectBuilder) ([]model.Order, error) {
	q, args, err := sb.ToSql()
	if err != nil {
		return nil, err
	}
	var orders []model.Order
	if err := r.db.SelectContext(ctx, &orders, q, args...); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Repository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].ID)
	}
	q, args, err := qb.Select("oi.id", "oi.order_id", "oi.book_id", "b.title", "oi.quantity",
		"oi.unit_price", "oi.discount_applied", "oi.line_total", "oi.created_at", "oi.updated_at").
		From(orderItemsTableName + " oi").
		Join(booksTableName + " b on b.id = oi.book_id").
		Where(sq.Eq{"oi.order_id": ids}).
		OrderBy("oi.id").
		ToSql()
	if err != nil {
		return err
	}
	var items []model.OrderItem
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return err
	}
	byOrder := make(map[int64][]model.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return nil
}

// UpdateOrderStatus moves an order from an expected current status to a new
// one; the compare in the where clause keeps concurrent updates from
// clobbering each other.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id int64, from, to model.OrderStatus, isPaid *bool) (model.Order, error) {
	upd := qb.Update(ordersTableName).
		Set("order_status", to).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "order_status": from})
	if isPaid != nil {
		upd = upd.Set("is_paid", *isPaid)
	}
	q, args, err := upd.Suffix("returning id").ToSql()
	if err != nil {
		return model.Order{}, err
	}
	var updated int64
	if err := r.db.GetContext(ctx, &updated, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Order{}, errs.ErrInvalidTransition
		}
		return model.Order{}, err
	}
	return r.GetOrder(ctx, id)
}

func (r *Repository) CancelOrder(ctx context.Context, id, memberID int64) (model.Order, error) {
	q := `
	update orders
	    set order_status = $3, cancelled_at = now(), updated_at = now()
	where id = $1 and member_id = $2 and order_status = $4
	returning id`
	var updated int64
	err := r.db.QueryRowContext(ctx, q, id, memberID, model.OrderStatusCancelled, model.OrderStatusPending).Scan(&updated)
	if err == nil {
		return r.GetOrder(ctx, id)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, err
	}

	// distinguish a missing/foreign order from an illegal transition
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`select exists(select 1 from orders where id = $1 and member_id = $2)`, id, memberID).Scan(&exists); err != nil {
		return model.Order{}, err
	}
	if !exists {
		return model.Order{}, errs.ErrNotFound
	}
	return model.Order{}, errs.ErrInvalidTransition
}

func (r *Repository) ClaimOrder(ctx context.Context, code string) (model.Order, error) {
	q := `
	update orders
	    set order_status = $2, is_paid = true, updated_at = now()
	where claim_code = $1 and order_status = $3
	returning id`
	var id int64
	err := r.db.QueryRowContext(ctx, q, code, model.OrderStatusClaimed, model.OrderStatusPending).Scan(&id)
	if err == nil {
		return r.GetOrder(ctx, id)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, err
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`select exists(select 1 from orders where claim_code = $1)`, code).Scan(&exists); err != nil {
		return model.Order{}, err
	}
	if !exists {
		return model.Order{}, errs.ErrNotFound
	}
	return model.Order{}, errs.ErrInvalidTransition
}

func (r *Repository) DeleteOrder(ctx context.Context, id int64) (model.Order, error) {
	order, err := r.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	q, args, err := qb.Delete(ordersTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return model.Order{}, err
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return model.Order{}, err
	}
	return order, nil
}
