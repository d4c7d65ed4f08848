package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pustakalaya/bookstore-service/internal/model"
	"github.com/pustakalaya/bookstore-service/internal/repository"
)

type BookmarkService struct {
	log  *zap.Logger
	repo *repository.Repository
}

func NewBookmarkService(repo *repository.Repository, log *zap.Logger) *BookmarkService {
	return &BookmarkService{
		log:  log.Named("bookmark"),
		repo: repo,
	}
}

func (s *BookmarkService) List(ctx context.Context, memberID int64) ([]model.Bookmark, error) {
	return s.repo.ListBookmarks(ctx, memberID)
}

func (s *BookmarkService) Add(ctx context.Context, memberID, bookID int64) error {
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		return err
	}
	return s.repo.CreateBookmark(ctx, memberID, bookID)
}

func (s *BookmarkService) Remove(ctx context.Context, memberID, bookID int64) error {
	return s.repo.DeleteBookmark(ctx, memberID, bookID)
}
