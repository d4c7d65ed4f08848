package handler

import (
	"context"
	"mime/multipart"

	"github.com/pustakalaya/bookstore-service/internal/model"
	"github.com/pustakalaya/bookstore-service/internal/service"
	"github.com/pustakalaya/bookstore-service/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var (
	_ AccountService      = (*service.AccountService)(nil)
	_ CatalogService      = (*service.CatalogService)(nil)
	_ CartService         = (*service.CartService)(nil)
	_ OrderService        = (*service.OrderService)(nil)
	_ ReviewService       = (*service.ReviewService)(nil)
	_ BookmarkService     = (*service.BookmarkService)(nil)
	_ AnnouncementService = (*service.AnnouncementService)(nil)
)

type AccountService interface {
	Signup(ctx context.Context, req model.SignupRequest) (model.AuthResponse, error)
	RegisterAdmin(ctx context.Context, req model.AdminRegisterRequest) (model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	Profile(ctx context.Context, identity auth.Identity) (any, error)
	UpdateProfile(ctx context.Context, memberID int64, req model.ProfileUpdateRequest) (model.Member, error)
}

type CatalogService interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	FilterBooks(ctx context.Context, f model.BookFilter) ([]model.Book, error)
	CreateBook(ctx context.Context, adminID int64, req model.BookCreateRequest, images []*multipart.FileHeader) (int64, error)
	UpdateBook(ctx context.Context, id int64, req model.BookCreateRequest, images []*multipart.FileHeader, deleteImages []string) error
	DeleteBook(ctx context.Context, id int64) error

	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenre(ctx context.Context, id int64) (model.Genre, error)
	CreateGenre(ctx context.Context, name string) (model.Genre, error)
	UpdateGenre(ctx context.Context, id int64, name string) error
	DeleteGenre(ctx context.Context, id int64) error
}

type CartService interface {
	GetCart(ctx context.Context, memberID int64) ([]model.CartLine, error)
	AddToCart(ctx context.Context, memberID int64, req model.AddToCartRequest) ([]model.CartLine, error)
	UpdateQuantity(ctx context.Context, memberID, bookID int64, quantity int) ([]model.CartLine, error)
	RemoveItem(ctx context.Context, memberID, bookID int64) ([]model.CartLine, error)
	ClearCart(ctx context.Context, memberID int64) error
}

type OrderService interface {
	PlaceOrder(ctx context.Context, memberID int64) (model.Order, error)
	GetOrder(ctx context.Context, id int64) (model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListMyOrders(ctx context.Context, memberID int64) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id int64, req model.OrderStatusUpdateRequest) (model.Order, error)
	CancelOrder(ctx context.Context, id, memberID int64) (model.Order, error)
	ClaimOrder(ctx context.Context, code string) (model.Order, error)
	DeleteOrder(ctx context.Context, id int64) (model.Order, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, memberID int64, req model.ReviewCreateRequest) (model.Review, error)
	Get(ctx context.Context, id int64) (model.Review, error)
	UpdateReview(ctx context.Context, id, memberID int64, req model.ReviewUpdateRequest) (model.Review, error)
	DeleteReview(ctx context.Context, id, memberID int64) error
	ListByBook(ctx context.Context, bookID int64) ([]model.Review, error)
	ListMine(ctx context.Context, memberID int64) ([]model.Review, error)
}

type BookmarkService interface {
	List(ctx context.Context, memberID int64) ([]model.Bookmark, error)
	Add(ctx context.Context, memberID, bookID int64) error
	Remove(ctx context.Context, memberID, bookID int64) error
}

type AnnouncementService interface {
	Create(ctx context.Context, req model.AnnouncementRequest) (model.Announcement, error)
	Update(ctx context.Context, id int64, req model.AnnouncementRequest) (model.Announcement, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (model.Announcement, error)
	ListAll(ctx context.Context) ([]model.Announcement, error)
	ListVisible(ctx context.Context, memberID int64) ([]model.Announcement, error)
	ListPublic(ctx context.Context) ([]model.Announcement, error)
}
