package model

import (
	"time"
)

type SignupRequest struct {
	Name        string     `json:"name" validate:"required"`
	Username    string     `json:"username" validate:"required,min=3"`
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=6"`
	Phone       string     `json:"phone"`
	Gender      string     `json:"gender"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Role        string     `json:"role" validate:"required,eq=member"`
}

type AdminRegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=member admin"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ProfileUpdateRequest struct {
	Name        string     `json:"name" validate:"required"`
	Phone       string     `json:"phone"`
	Gender      string     `json:"gender"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
}

// AuthResponse is returned by signup/login: a bearer token plus the profile
// the storefront renders.
type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type BookCreateRequest struct {
	Title              string     `form:"title" json:"title" validate:"required"`
	Author             string     `form:"author" json:"author" validate:"required"`
	Isbn               string     `form:"isbn" json:"isbn"`
	Language           string     `form:"language" json:"language"`
	Format             string     `form:"format" json:"format"`
	Price              float64    `form:"price" json:"price" validate:"gte=0"`
	Stock              int        `form:"stock" json:"stock" validate:"gte=0"`
	GenreID            int64      `form:"genreId" json:"genreId" validate:"required"`
	PublicationDate    *time.Time `form:"publicationDate" json:"publicationDate"`
	IsPhysicalAccess   bool       `form:"isPhysicalAccess" json:"isPhysicalAccess"`
	IsOnSale           bool       `form:"isOnSale" json:"isOnSale"`
	DiscountPercentage float64    `form:"discountPercentage" json:"discountPercentage" validate:"gte=0,lte=100"`
	DiscountStart      *time.Time `form:"discountStart" json:"discountStart"`
	DiscountEnd        *time.Time `form:"discountEnd" json:"discountEnd"`
	Description        string     `form:"description" json:"description"`
	Publisher          string     `form:"publisher" json:"publisher"`
	BookType           string     `form:"bookType" json:"bookType"`
	IsExclusiveEdition bool       `form:"isExclusiveEdition" json:"isExclusiveEdition"`
}

type BookFilter struct {
	Search   string   `query:"search"`
	GenreID  *int64   `query:"genreId"`
	MinPrice *float64 `query:"minPrice"`
	MaxPrice *float64 `query:"maxPrice"`
	Sort     string   `query:"sort"`
}

type GenreRequest struct {
	Name string `json:"name" validate:"required"`
}

type AddToCartRequest struct {
	BookID   int64 `json:"bookId" validate:"required"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type OrderStatusUpdateRequest struct {
	OrderStatus OrderStatus `json:"orderStatus" validate:"required"`
	IsPaid      *bool       `json:"isPaid"`
}

type ReviewCreateRequest struct {
	BookID  int64  `json:"bookId" validate:"required"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

type ReviewUpdateRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

type AnnouncementRequest struct {
	MemberID  *int64     `json:"memberId"`
	Title     string     `json:"title" validate:"required"`
	Message   string     `json:"message" validate:"required"`
	StartDate time.Time  `json:"startDate" validate:"required"`
	EndDate   *time.Time `json:"endDate"`
	IsActive  bool       `json:"isActive"`
}
