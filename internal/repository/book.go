package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	sq "github.com/Masterminds/squirrel"

	"github.com/pustakalaya/bookstore-service/internal/errs"
	"github.com/pustakalaya/bookstore-service/internal/model"
)

var bookColumns = []string{
	"b.id", "b.title", "b.author", "b.isbn", "b.language", "b.format", "b.price", "b.stock",
	"b.genre_id", "g.name as genre_name", "b.admin_id", "b.publication_date",
	"b.is_physical_access", "b.is_on_sale", "b.discount_percentage", "b.discount_start",
	"b.discount_end", "b.description", "b.publisher", "b.book_type", "b.is_exclusive_edition",
	"b.average_rating", "b.total_sold", "b.created_at", "b.updated_at",
}

func (r *Repository) bookQuery() sq.SelectBuilder {
	return qb.Select(bookColumns...).
		From(booksTableName + " b").
		Join(genresTableName + " g on g.id = b.genre_id")
}

func (r *Repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := r.bookQuery().OrderBy("b.id").ToSql()
	if err != nil {
		return nil, err
	}
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	if err := r.attachImages(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *Repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := r.bookQuery().Where(sq.Eq{"b.id": id}).Limit(1).ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	books := []model.Book{book}
	if err := r.attachImages(ctx, books); err != nil {
		return model.Book{}, err
	}
	return books[0], nil
}

// FilterBooks applies catalog filtering: substring search over title/author,
// genre, price range and a fixed set of sort keys. An unknown sort key keeps
// the original order.
func (r *Repository) FilterBooks(ctx context.Context, f model.BookFilter) ([]model.Book, error) {
	q := r.bookQuery()

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(sq.Or{
			sq.ILike{"b.title": pattern},
			sq.ILike{"b.author": pattern},
		})
	}
	if f.GenreID != nil {
		q = q.Where(sq.Eq{"b.genre_id": *f.GenreID})
	}
	if f.MinPrice != nil {
		q = q.Where(sq.GtOrEq{"b.price": *f.MinPrice})
	}
	if f.MaxPrice != nil {
		q = q.Where(sq.LtOrEq{"b.price": *f.MaxPrice})
	}

	switch f.Sort {
	case "price_asc":
		q = q.OrderBy("b.price asc")
	case "price_desc":
		q = q.OrderBy("b.price desc")
	case "title_asc":
		q = q.OrderBy("b.title asc")
	case "title_desc":
		q = q.OrderBy("b.title desc")
	default:
		q = q.OrderBy("b.id")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("FilterBooks", zap.String("query", query), zap.Any("args", args))

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	if err := r.attachImages(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *Repository) CreateBook(ctx context.Context, b model.Book, imageURLs []string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() //nolint:errcheck

	q, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "isbn", "language", "format", "price", "stock", "genre_id",
			"admin_id", "publication_date", "is_physical_access", "is_on_sale",
			"discount_percentage", "discount_start", "discount_end", "description", "publisher",
			"book_type", "is_exclusive_edition").
		Values(b.Title, b.Author, b.Isbn, b.Language, b.Format, b.Price, b.Stock, b.GenreID,
			b.AdminID, b.PublicationDate, b.IsPhysicalAccess, b.IsOnSale,
			b.DiscountPercentage, b.DiscountStart, b.DiscountEnd, b.Description, b.Publisher,
			b.BookType, b.IsExclusiveEdition).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var bookID int64
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&bookID); err != nil {
		r.log.Error("CreateBook", zap.String("q", q), zap.Error(err))
		return 0, err
	}

	if err := insertImages(ctx, tx, bookID, imageURLs); err != nil {
		return 0, err
	}

	return bookID, tx.Commit()
}

func (r *Repository) UpdateBook(ctx context.Context, id int64, b model.Book, addImageURLs, deleteImageURLs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	q, args, err := qb.Update(booksTableName).
		Set("title", b.Title).
		Set("author", b.Author).
		Set("isbn", b.Isbn).
		Set("language", b.Language).
		Set("format", b.Format).
		Set("price", b.Price).
		Set("stock", b.Stock).
		Set("genre_id", b.GenreID).
		Set("publication_date", b.PublicationDate).
		Set("is_physical_access", b.IsPhysicalAccess).
		Set("is_on_sale", b.IsOnSale).
		Set("discount_percentage", b.DiscountPercentage).
		Set("discount_start", b.DiscountStart).
		Set("discount_end", b.DiscountEnd).
		Set("description", b.Description).
		Set("publisher", b.Publisher).
		Set("book_type", b.BookType).
		Set("is_exclusive_edition", b.IsExclusiveEdition).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}

	if len(deleteImageURLs) > 0 {
		q, args, err = qb.Delete(bookImagesTableName).
			Where(sq.Eq{"book_id": id, "url": deleteImageURLs}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}

	if err := insertImages(ctx, tx, id, addImageURLs); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) DeleteBook(ctx context.Context, id int64) error {
	q, args, err := qb.Delete(booksTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *Repository) GetBookImages(ctx context.Context, bookID int64) ([]model.BookImage, error) {
	q, args, err := qb.Select("id", "book_id", "url").
		From(bookImagesTableName).
		Where(sq.Eq{"book_id": bookID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var images []model.BookImage
	if err := r.db.SelectContext(ctx, &images, q, args...); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *Repository) attachImages(ctx context.Context, books []model.Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(books))
	for i := range books {
		ids = append(ids, books[i].ID)
	}
	q, args, err := qb.Select("id", "book_id", "url").
		From(bookImagesTableName).
		Where(sq.Eq{"book_id": ids}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return err
	}
	var images []model.BookImage
	if err := r.db.SelectContext(ctx, &images, q, args...); err != nil {
		return err
	}
	byBook := make(map[int64][]string, len(books))
	for _, img := range images {
		byBook[img.BookID] = append(byBook[img.BookID], img.URL)
	}
	for i := range books {
		books[i].Images = byBook[books[i].ID]
	}
	return nil
}

func insertImages(ctx context.Context, tx sq.ExecerContext, bookID int64, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	ins := qb.Insert(bookImagesTableName).Columns("book_id", "url")
	for _, u := range urls {
		ins = ins.Values(bookID, u)
	}
	q, args, err := ins.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}

// ===== genres =====

func (r *Repository) ListGenres(ctx context.Context) ([]model.Genre, error) {
	q, args, err := qb.Select("id", "name").From(genresTableName).OrderBy("name").ToSql()
	if err != nil {
		return nil, err
	}
	var genres []model.Genre
	if err := r.db.SelectContext(ctx, &genres, q, args...); err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *Repository) GetGenre(ctx context.Context, id int64) (model.Genre, error) {
	q, args, err := qb.Select("id", "name").
		From(genresTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Genre{}, err
	}
	var g model.Genre
	if err := r.db.GetContext(ctx, &g, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Genre{}, errs.ErrNotFound
		}
		return model.Genre{}, err
	}
	return g, nil
}

func (r *Repository) CreateGenre(ctx context.Context, name string) (model.Genre, error) {
	q, args, err := qb.Insert(genresTableName).
		Columns("name").
		Values(name).
		Suffix("returning id, name").
		ToSql()
	if err != nil {
		return model.Genre{}, err
	}
	var g model.Genre
	if err := r.db.GetContext(ctx, &g, q, args...); err != nil {
		if isUniqueViolation(err, "") {
			return model.Genre{}, errs.ErrConflict
		}
		return model.Genre{}, err
	}
	return g, nil
}

func (r *Repository) UpdateGenre(ctx context.Context, id int64, name string) error {
	q, args, err := qb.Update(genresTableName).
		Set("name", name).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		if isUniqueViolation(err, "") {
			return errs.ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteGenre(ctx context.Context, id int64) error {
	q, args, err := qb.Delete(genresTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
