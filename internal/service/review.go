package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pustakalaya/bookstore-service/internal/model"
	"github.com/pustakalaya/bookstore-service/internal/repository"
)

type ReviewService struct {
	log  *zap.Logger
	repo *repository.Repository
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) *ReviewService {
	return &ReviewService{
		log:  log.Named("review"),
		repo: repo,
	}
}

func (s *ReviewService) CreateReview(ctx context.Context, memberID int64, req model.ReviewCreateRequest) (model.Review, error) {
	if _, err := s.repo.GetBook(ctx, req.BookID); err != nil {
		return model.Review{}, err
	}
	return s.repo.CreateReview(ctx, model.Review{
		MemberID: memberID,
		BookID:   req.BookID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
}

func (s *ReviewService) Get(ctx context.Context, id int64) (model.Review, error) {
	return s.repo.GetReview(ctx, id)
}

func (s *ReviewService) UpdateReview(ctx context.Context, id, memberID int64, req model.ReviewUpdateRequest) (model.Review, error) {
	return s.repo.UpdateReview(ctx, id, memberID, req)
}

func (s *ReviewService) DeleteReview(ctx context.Context, id, memberID int64) error {
	return s.repo.DeleteReview(ctx, id, memberID)
}

func (s *ReviewService) ListByBook(ctx context.Context, bookID int64) ([]model.Review, error) {
	return s.repo.ListReviewsByBook(ctx, bookID)
}

func (s *ReviewService) ListMine(ctx context.Context, memberID int64) ([]model.Review, error) {
	return s.repo.ListReviewsByMember(ctx, memberID)
}
