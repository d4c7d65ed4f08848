package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pustakalaya/bookstore-service/internal/errs"
	"github.com/pustakalaya/bookstore-service/internal/model"
	"github.com/pustakalaya/bookstore-service/internal/repository"
)

type CartService struct {
	log  *zap.Logger
	repo *repository.Repository
}

func NewCartService(repo *repository.Repository, log *zap.Logger) *CartService {
	return &CartService{
		log:  log.Named("cart"),
		repo: repo,
	}
}

func (s *CartService) GetCart(ctx context.Context, memberID int64) ([]model.CartLine, error) {
	return s.repo.GetCartLines(ctx, memberID)
}

// AddToCart merges the requested quantity into an existing line for the same
// book, bounded by the book's current stock.
func (s *CartService) AddToCart(ctx context.Context, memberID int64, req model.AddToCartRequest) ([]model.CartLine, error) {
	book, err := s.repo.GetBook(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	cartID, err := s.repo.EnsureCart(ctx, memberID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.GetCartItemQuantity(ctx, cartID, req.BookID)
	if err != nil {
		return nil, err
	}

	quantity := existing + req.Quantity
	if quantity > book.Stock {
		return nil, &errs.InsufficientStockError{
			BookTitle: book.Title,
			Available: book.Stock,
			Requested: quantity,
		}
	}
	if err := s.repo.UpsertCartItem(ctx, cartID, req.BookID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetCartLines(ctx, memberID)
}

func (s *CartService) UpdateQuantity(ctx context.Context, memberID, bookID int64, quantity int) ([]model.CartLine, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if quantity > book.Stock {
		return nil, &errs.InsufficientStockError{
			BookTitle: book.Title,
			Available: book.Stock,
			Requested: quantity,
		}
	}
	if err := s.repo.SetCartItemQuantity(ctx, memberID, bookID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetCartLines(ctx, memberID)
}

func (s *CartService) RemoveItem(ctx context.Context, memberID, bookID int64) ([]model.CartLine, error) {
	if err := s.repo.RemoveCartItem(ctx, memberID, bookID); err != nil {
		return nil, err
	}
	return s.repo.GetCartLines(ctx, memberID)
}

func (s *CartService) ClearCart(ctx context.Context, memberID int64) error {
	return s.repo.ClearCart(ctx, memberID)
}
