package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrEmptyCart         = errors.New("your cart is empty")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrClaimCodeTaken    = errors.New("claim code already in use")
)

// InsufficientStockError names the first cart line whose requested quantity
// exceeds the book's stock. No partial order is created.
type InsufficientStockError struct {
	BookTitle string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %q: available %d, requested %d",
		e.BookTitle, e.Available, e.Requested)
}
