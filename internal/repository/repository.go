package repository

import (
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	sq "github.com/Masterminds/squirrel"
)

type Repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*Repository, error) {
	return &Repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	membersTableName       = `members`
	adminsTableName        = `admins`
	genresTableName        = `genres`
	booksTableName         = `books`
	bookImagesTableName    = `book_images`
	cartsTableName         = `carts`
	cartItemsTableName     = `cart_items`
	ordersTableName        = `orders`
	orderItemsTableName    = `order_items`
	reviewsTableName       = `reviews`
	bookmarksTableName     = `bookmarks`
	announcementsTableName = `announcements`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return constraint == "" || pgErr.ConstraintName == constraint
	}
	return false
}
