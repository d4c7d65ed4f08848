package model

import (
	"strconv"
	"time"
)

type Member struct {
	ID                 int64      `json:"id" db:"id"`
	Name               string     `json:"name" db:"name"`
	Username           string     `json:"username" db:"username"`
	Email              string     `json:"email" db:"email"`
	Password           string     `json:"-" db:"password"`
	Phone              string     `json:"phone" db:"phone"`
	Gender             string     `json:"gender" db:"gender"`
	DateOfBirth        *time.Time `json:"dateOfBirth" db:"date_of_birth"`
	MembershipID       string     `json:"membershipId" db:"membership_id"`
	MembershipStatus   string     `json:"membershipStatus" db:"membership_status"`
	DateOfRegistration time.Time  `json:"dateOfRegistration" db:"date_of_registration"`
	LastLogin          *time.Time `json:"lastLogin" db:"last_login"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at"`
}

type Admin struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Phone     string    `json:"phone" db:"phone"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type Genre struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Book struct {
	ID                 int64      `json:"id" db:"id"`
	Title              string     `json:"title" db:"title"`
	Author             string     `json:"author" db:"author"`
	Isbn               string     `json:"isbn" db:"isbn"`
	Language           string     `json:"language" db:"language"`
	Format             string     `json:"format" db:"format"`
	Price              float64    `json:"price" db:"price"`
	Stock              int        `json:"stock" db:"stock"`
	GenreID            int64      `json:"genreId" db:"genre_id"`
	GenreName          string     `json:"genreName" db:"genre_name"`
	AdminID            int64      `json:"-" db:"admin_id"`
	PublicationDate    *time.Time `json:"publicationDate" db:"publication_date"`
	IsPhysicalAccess   bool       `json:"isPhysicalAccess" db:"is_physical_access"`
	IsOnSale           bool       `json:"isOnSale" db:"is_on_sale"`
	DiscountPercentage float64    `json:"discountPercentage" db:"discount_percentage"`
	DiscountStart      *time.Time `json:"discountStart" db:"discount_start"`
	DiscountEnd        *time.Time `json:"discountEnd" db:"discount_end"`
	Description        string     `json:"description" db:"description"`
	Publisher          string     `json:"publisher" db:"publisher"`
	BookType           string     `json:"bookType" db:"book_type"`
	IsExclusiveEdition bool       `json:"isExclusiveEdition" db:"is_exclusive_edition"`
	AverageRating      float64    `json:"averageRating" db:"average_rating"`
	TotalSold          int        `json:"totalSold" db:"total_sold"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at"`
	Images             []string   `json:"images" db:"-"`
}

type BookImage struct {
	ID     int64  `json:"id" db:"id"`
	BookID int64  `json:"bookId" db:"book_id"`
	URL    string `json:"url" db:"url"`
}

type Cart struct {
	ID        int64     `json:"id" db:"id"`
	MemberID  int64     `json:"memberId" db:"member_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	CartID    int64     `json:"cartId" db:"cart_id"`
	BookID    int64     `json:"bookId" db:"book_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	DateAdded time.Time `json:"dateAdded" db:"date_added"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartLine is a cart item joined with its book, as the order workflow and
// the cart listing consume it.
type CartLine struct {
	BookID   int64   `json:"bookId" db:"book_id"`
	Title    string  `json:"title" db:"title"`
	Price    float64 `json:"price" db:"price"`
	Stock    int     `json:"stock" db:"stock"`
	Quantity int     `json:"quantity" db:"quantity"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusClaimed   OrderStatus = "claimed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled, OrderStatusClaimed:
		return true
	}
	return false
}

// CanTransitionTo constrains status changes to the order state machine:
// pending is the only non-terminal state.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	if !to.Valid() || s == to {
		return false
	}
	return s == OrderStatusPending
}

type Order struct {
	ID                int64       `json:"id" db:"id"`
	MemberID          int64       `json:"memberId" db:"member_id"`
	TotalPrice        float64     `json:"totalPrice" db:"total_price"`
	DiscountAmount    float64     `json:"discountAmount" db:"discount_amount"`
	AppliedDiscounts  string      `json:"appliedDiscounts" db:"applied_discounts"`
	OrderStatus       OrderStatus `json:"orderStatus" db:"order_status"`
	IsPaid            bool        `json:"isPaid" db:"is_paid"`
	ClaimCode         string      `json:"claimCode" db:"claim_code"`
	OrderDate         time.Time   `json:"orderDate" db:"order_date"`
	PickupDeadline    time.Time   `json:"pickupDeadline" db:"pickup_deadline"`
	CancelledAt       *time.Time  `json:"cancelledAt" db:"cancelled_at"`
	FulfillmentMethod string      `json:"fulfillmentMethod" db:"fulfillment_method"`
	CreatedAt         time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time   `json:"updatedAt" db:"updated_at"`
	Items             []OrderItem `json:"items" db:"-"`
}

type OrderItem struct {
	ID              int64     `json:"id" db:"id"`
	OrderID         int64     `json:"orderId" db:"order_id"`
	BookID          int64     `json:"bookId" db:"book_id"`
	Title           string    `json:"title" db:"title"`
	Quantity        int       `json:"quantity" db:"quantity"`
	UnitPrice       float64   `json:"unitPrice" db:"unit_price"`
	DiscountApplied float64   `json:"discountApplied" db:"discount_applied"`
	LineTotal       float64   `json:"lineTotal" db:"line_total"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

type Review struct {
	ID         int64     `json:"id" db:"id"`
	MemberID   int64     `json:"memberId" db:"member_id"`
	MemberName string    `json:"memberName" db:"member_name"`
	BookID     int64     `json:"bookId" db:"book_id"`
	BookTitle  string    `json:"bookTitle" db:"book_title"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    string    `json:"comment" db:"comment"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

type Bookmark struct {
	ID        int64     `json:"id" db:"id"`
	MemberID  int64     `json:"memberId" db:"member_id"`
	BookID    int64     `json:"bookId" db:"book_id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	Price     float64   `json:"price" db:"price"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Announcement struct {
	ID        int64      `json:"id" db:"id"`
	MemberID  *int64     `json:"memberId" db:"member_id"`
	Title     string     `json:"title" db:"title"`
	Message   string     `json:"message" db:"message"`
	StartDate time.Time  `json:"startDate" db:"start_date"`
	EndDate   *time.Time `json:"endDate" db:"end_date"`
	IsActive  bool       `json:"isActive" db:"is_active"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// Channel names the push audience of an announcement.
func (a Announcement) Channel() string {
	if a.MemberID != nil {
		return "announcement.user." + strconv.FormatInt(*a.MemberID, 10)
	}
	return "announcement.public"
}
