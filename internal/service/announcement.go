package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pustakalaya/bookstore-service/internal/model"
	"github.com/pustakalaya/bookstore-service/internal/repository"
)

const (
	announcementsTopic = "announcements"
	// storefront banner shows at most the five freshest announcements
	visibleAnnouncementsLimit = 5
)

type AnnouncementService struct {
	log       *zap.Logger
	repo      *repository.Repository
	publisher Publisher
}

func NewAnnouncementService(repo *repository.Repository, publisher Publisher, log *zap.Logger) *AnnouncementService {
	return &AnnouncementService{
		log:       log.Named("announcement"),
		repo:      repo,
		publisher: publisher,
	}
}

func (s *AnnouncementService) Create(ctx context.Context, req model.AnnouncementRequest) (model.Announcement, error) {
	created, err := s.repo.CreateAnnouncement(ctx, model.Announcement{
		MemberID:  req.MemberID,
		Title:     req.Title,
		Message:   req.Message,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
	})
	if err != nil {
		return model.Announcement{}, err
	}
	if created.IsActive {
		s.push(created)
	}
	return created, nil
}

func (s *AnnouncementService) Update(ctx context.Context, id int64, req model.AnnouncementRequest) (model.Announcement, error) {
	updated, err := s.repo.UpdateAnnouncement(ctx, id, req)
	if err != nil {
		return model.Announcement{}, err
	}
	if updated.IsActive {
		s.push(updated)
	}
	return updated, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteAnnouncement(ctx, id)
}

func (s *AnnouncementService) Get(ctx context.Context, id int64) (model.Announcement, error) {
	return s.repo.GetAnnouncement(ctx, id)
}

func (s *AnnouncementService) ListAll(ctx context.Context) ([]model.Announcement, error) {
	return s.repo.ListAnnouncements(ctx)
}

func (s *AnnouncementService) ListVisible(ctx context.Context, memberID int64) ([]model.Announcement, error) {
	return s.repo.ListVisibleAnnouncements(ctx, memberID, visibleAnnouncementsLimit)
}

func (s *AnnouncementService) ListPublic(ctx context.Context) ([]model.Announcement, error) {
	return s.repo.ListPublicAnnouncements(ctx)
}

func (s *AnnouncementService) push(a model.Announcement) {
	if err := s.publisher.Publish(announcementsTopic, a.Channel(), a); err != nil {
		s.log.Error("publish announcement", zap.Int64("announcement_id", a.ID), zap.Error(err))
	}
}
