package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pustakalaya/bookstore-service/internal/errs"
	"github.com/pustakalaya/bookstore-service/internal/model"
	"github.com/pustakalaya/bookstore-service/internal/repository"
)

const (
	// bulk discount: 5% off once the order reaches 5 units
	bulkQuantityThreshold = 5
	bulkDiscountRate      = 0.05
	// loyalty discount: a further 10% on every 11th completed order,
	// compounding on the post-bulk total
	loyaltyOrderInterval = 11
	loyaltyDiscountRate  = 0.10

	pickupWindow      = 7 * 24 * time.Hour
	claimCodeAttempts = 5

	ordersTopic = "orders"
)

type OrderService struct {
	log       *zap.Logger
	repo      *repository.Repository
	publisher Publisher
	mailer    Mailer
}

func NewOrderService(repo *repository.Repository, publisher Publisher, mailer Mailer, log *zap.Logger) *OrderService {
	return &OrderService{
		log:       log.Named("order"),
		repo:      repo,
		publisher: publisher,
		mailer:    mailer,
	}
}

// PlaceOrder converts the member's cart into an immutable order: stock is
// validated and decremented, line snapshots taken at current prices, tiered
// discounts applied sequentially and the cart consumed, all atomically.
func (s *OrderService) PlaceOrder(ctx context.Context, memberID int64) (model.Order, error) {
	lines, err := s.repo.GetCartLines(ctx, memberID)
	if err != nil {
		return model.Order{}, err
	}
	if len(lines) == 0 {
		return model.Order{}, errs.ErrEmptyCart
	}
	for _, line := range lines {
		if line.Quantity > line.Stock {
			return model.Order{}, &errs.InsufficientStockError{
				BookTitle: line.Title,
				Available: line.Stock,
				Requested: line.Quantity,
			}
		}
	}

	completed, err := s.repo.CountCompletedOrders(ctx, memberID)
	if err != nil {
		return model.Order{}, err
	}

	order, items := buildOrder(memberID, lines, completed, time.Now())

	created, err := createWithFreshCode(order, func(o model.Order) (model.Order, error) {
		return s.repo.CreateOrder(ctx, o, items)
	})
	if err != nil {
		return model.Order{}, err
	}

	s.notifyPlaced(ctx, created)
	return created, nil
}

// createWithFreshCode draws a claim code per attempt and retries creation on a
// code collision, up to claimCodeAttempts attempts in total.
func createWithFreshCode(order model.Order, create func(model.Order) (model.Order, error)) (model.Order, error) {
	for attempt := 1; ; attempt++ {
		code, err := newClaimCode()
		if err != nil {
			return model.Order{}, err
		}
		order.ClaimCode = code
		created, err := create(order)
		if err == nil {
			return created, nil
		}
		if errors.Is(err, errs.ErrClaimCodeTaken) && attempt < claimCodeAttempts {
			continue
		}
		return model.Order{}, err
	}
}

// buildOrder computes line snapshots and the sequentially-discounted total.
func buildOrder(memberID int64, lines []model.CartLine, completedOrders int, now time.Time) (model.Order, []model.OrderItem) {
	items := make([]model.OrderItem, 0, len(lines))
	var subtotal float64
	var totalQuantity int
	for _, line := range lines {
		lineTotal := round2(line.Price * float64(line.Quantity))
		items = append(items, model.OrderItem{
			BookID:          line.BookID,
			Title:           line.Title,
			Quantity:        line.Quantity,
			UnitPrice:       line.Price,
			DiscountApplied: 0,
			LineTotal:       lineTotal,
		})
		subtotal += lineTotal
		totalQuantity += line.Quantity
	}

	total := subtotal
	var discountAmount float64
	var discounts []string

	if totalQuantity >= bulkQuantityThreshold {
		d := round2(total * bulkDiscountRate)
		total -= d
		discountAmount += d
		discounts = append(discounts, "bulk")
	}
	if (completedOrders+1)%loyaltyOrderInterval == 0 {
		d := round2(total * loyaltyDiscountRate)
		total -= d
		discountAmount += d
		discounts = append(discounts, "loyalty")
	}

	orderDate := now.UTC()
	return model.Order{
		MemberID:          memberID,
		TotalPrice:        round2(total),
		DiscountAmount:    round2(discountAmount),
		AppliedDiscounts:  strings.Join(discounts, ","),
		OrderStatus:       model.OrderStatusPending,
		IsPaid:            false,
		OrderDate:         orderDate,
		PickupDeadline:    orderDate.Add(pickupWindow),
		FulfillmentMethod: "pickup",
	}, items
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// newClaimCode draws a fresh random 6-digit code; uniqueness is enforced by
// the orders.claim_code index with regeneration on conflict.
func newClaimCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", errors.Wrap(err, "claim code")
	}
	return fmt.Sprintf("%06d", n), nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]model.Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s *OrderService) ListMyOrders(ctx context.Context, memberID int64) ([]model.Order, error) {
	return s.repo.ListOrdersByMember(ctx, memberID)
}

// UpdateStatus is the staff status correction endpoint, constrained to the
// same transition table as cancel/claim instead of free-form writes.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, req model.OrderStatusUpdateRequest) (model.Order, error) {
	if !req.OrderStatus.Valid() {
		return model.Order{}, errs.ErrInvalidTransition
	}
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, err
	}
	if !order.OrderStatus.CanTransitionTo(req.OrderStatus) {
		return model.Order{}, errs.ErrInvalidTransition
	}
	return s.repo.UpdateOrderStatus(ctx, id, order.OrderStatus, req.OrderStatus, req.IsPaid)
}

func (s *OrderService) CancelOrder(ctx context.Context, id, memberID int64) (model.Order, error) {
	order, err := s.repo.CancelOrder(ctx, id, memberID)
	if err != nil {
		return model.Order{}, err
	}
	s.notifyCancelled(ctx, order)
	return order, nil
}

func (s *OrderService) ClaimOrder(ctx context.Context, code string) (model.Order, error) {
	return s.repo.ClaimOrder(ctx, code)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int64) (model.Order, error) {
	return s.repo.DeleteOrder(ctx, id)
}

func (s *OrderService) notifyPlaced(ctx context.Context, order model.Order) {
	if err := s.publisher.Publish(ordersTopic, "order.placed", order); err != nil {
		s.log.Error("publish order.placed", zap.Int64("order_id", order.ID), zap.Error(err))
	}
	member, err := s.repo.GetMemberByID(ctx, order.MemberID)
	if err != nil {
		s.log.Error("member for order mail", zap.Int64("member_id", order.MemberID), zap.Error(err))
		return
	}
	if err := s.mailer.Send(member.Email, "Order Confirmation - Pustakalaya", orderPlacedBody(member.Name, order)); err != nil {
		s.log.Error("order placed mail", zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

func (s *OrderService) notifyCancelled(ctx context.Context, order model.Order) {
	if err := s.publisher.Publish(ordersTopic, "order.cancelled", order); err != nil {
		s.log.Error("publish order.cancelled", zap.Int64("order_id", order.ID), zap.Error(err))
	}
	member, err := s.repo.GetMemberByID(ctx, order.MemberID)
	if err != nil {
		s.log.Error("member for order mail", zap.Int64("member_id", order.MemberID), zap.Error(err))
		return
	}
	if err := s.mailer.Send(member.Email, "Your Order Was Cancelled", orderCancelledBody(member.Name, order)); err != nil {
		s.log.Error("order cancelled mail", zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

func orderPlacedBody(name string, order model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Hi %s,</h2>", name)
	b.WriteString("<p>Thanks for placing an order at Pustakalaya!</p>")
	fmt.Fprintf(&b, "<p><strong>Claim Code:</strong> %s</p>", order.ClaimCode)
	fmt.Fprintf(&b, "<p><strong>Pickup Deadline:</strong> %s</p>", order.PickupDeadline.Format("2006-01-02"))
	b.WriteString("<h3>Items:</h3><ul>")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "<li>%s — %d x $%.2f</li>", item.Title, item.Quantity, item.UnitPrice)
	}
	b.WriteString("</ul>")
	if order.AppliedDiscounts != "" {
		fmt.Fprintf(&b, "<p><strong>Discounts:</strong> $%.2f (%s)</p>", order.DiscountAmount, order.AppliedDiscounts)
	}
	fmt.Fprintf(&b, "<p><strong>Total:</strong> $%.2f</p>", order.TotalPrice)
	b.WriteString("<p>We hope you enjoy your books!</p>")
	return b.String()
}

func orderCancelledBody(name string, order model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Hello %s,</h2>", name)
	fmt.Fprintf(&b, "<p>Your order with Claim Code <strong>%s</strong> has been <strong>cancelled</strong>.</p>", order.ClaimCode)
	b.WriteString("<p>If this was a mistake or you have questions, please contact us.</p>")
	b.WriteString("<p>Thank you,<br/><strong>Pustakalaya Team</strong></p>")
	return b.String()
}
