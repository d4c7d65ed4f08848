package service

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pustakalaya/bookstore-service/internal/model"
	"github.com/pustakalaya/bookstore-service/internal/repository"
)

type CatalogService struct {
	log       *zap.Logger
	repo      *repository.Repository
	uploadDir string
	uploadURL string
}

func NewCatalogService(repo *repository.Repository, uploadDir, uploadURL string, log *zap.Logger) *CatalogService {
	return &CatalogService{
		log:       log.Named("catalog"),
		repo:      repo,
		uploadDir: uploadDir,
		uploadURL: uploadURL,
	}
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *CatalogService) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *CatalogService) FilterBooks(ctx context.Context, f model.BookFilter) ([]model.Book, error) {
	return s.repo.FilterBooks(ctx, f)
}

func (s *CatalogService) CreateBook(ctx context.Context, adminID int64, req model.BookCreateRequest, images []*multipart.FileHeader) (int64, error) {
	if _, err := s.repo.GetGenre(ctx, req.GenreID); err != nil {
		return 0, err
	}
	urls, err := s.saveImages(ctx, images)
	if err != nil {
		return 0, err
	}
	return s.repo.CreateBook(ctx, bookFromRequest(adminID, req), urls)
}

func (s *CatalogService) UpdateBook(ctx context.Context, id int64, req model.BookCreateRequest, images []*multipart.FileHeader, deleteImages []string) error {
	if _, err := s.repo.GetGenre(ctx, req.GenreID); err != nil {
		return err
	}
	urls, err := s.saveImages(ctx, images)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateBook(ctx, id, bookFromRequest(0, req), urls, deleteImages); err != nil {
		return err
	}
	for _, u := range deleteImages {
		s.removeImageFile(u)
	}
	return nil
}

func (s *CatalogService) DeleteBook(ctx context.Context, id int64) error {
	images, err := s.repo.GetBookImages(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}
	for _, img := range images {
		s.removeImageFile(img.URL)
	}
	return nil
}

func bookFromRequest(adminID int64, req model.BookCreateRequest) model.Book {
	return model.Book{
		Title:              req.Title,
		Author:             req.Author,
		Isbn:               req.Isbn,
		Language:           req.Language,
		Format:             req.Format,
		Price:              req.Price,
		Stock:              req.Stock,
		GenreID:            req.GenreID,
		AdminID:            adminID,
		PublicationDate:    req.PublicationDate,
		IsPhysicalAccess:   req.IsPhysicalAccess,
		IsOnSale:           req.IsOnSale,
		DiscountPercentage: req.DiscountPercentage,
		DiscountStart:      req.DiscountStart,
		DiscountEnd:        req.DiscountEnd,
		Description:        req.Description,
		Publisher:          req.Publisher,
		BookType:           req.BookType,
		IsExclusiveEdition: req.IsExclusiveEdition,
	}
}

// saveImages writes uploaded files under the public upload dir with fresh
// uuid names and returns their serving URLs.
func (s *CatalogService) saveImages(ctx context.Context, images []*multipart.FileHeader) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "mkdir uploads")
	}

	urls := make([]string, len(images))

	g, _ := errgroup.WithContext(ctx)
	for i, fh := range images {
		i, fh := i, fh
		g.Go(func() error {
			name := uuid.NewString() + filepath.Ext(fh.Filename)
			if err := saveFile(fh, filepath.Join(s.uploadDir, name)); err != nil {
				return err
			}
			urls[i] = s.uploadURL + "/" + name
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func saveFile(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "open upload")
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create file")
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (s *CatalogService) removeImageFile(url string) {
	name := filepath.Base(url)
	if err := os.Remove(filepath.Join(s.uploadDir, name)); err != nil && !os.IsNotExist(err) {
		s.log.Warn("remove image", zap.String("url", url), zap.Error(err))
	}
}

// ===== genres =====

func (s *CatalogService) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.repo.ListGenres(ctx)
}

func (s *CatalogService) GetGenre(ctx context.Context, id int64) (model.Genre, error) {
	return s.repo.GetGenre(ctx, id)
}

func (s *CatalogService) CreateGenre(ctx context.Context, name string) (model.Genre, error) {
	return s.repo.CreateGenre(ctx, name)
}

func (s *CatalogService) UpdateGenre(ctx context.Context, id int64, name string) error {
	return s.repo.UpdateGenre(ctx, id, name)
}

func (s *CatalogService) DeleteGenre(ctx context.Context, id int64) error {
	return s.repo.DeleteGenre(ctx, id)
}
