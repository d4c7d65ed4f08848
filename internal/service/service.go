package service

import (
	"go.uber.org/zap"

	"github.com/pustakalaya/bookstore-service/internal/repository"
)

// Publisher pushes json payloads to a broadcast channel (kafka topic keyed by
// audience). Failures never fail the request that triggered them.
type Publisher interface {
	Publish(topic, channel string, payload any) error
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type Service struct {
	Account      *AccountService
	Catalog      *CatalogService
	Cart         *CartService
	Order        *OrderService
	Review       *ReviewService
	Bookmark     *BookmarkService
	Announcement *AnnouncementService
}

type Deps struct {
	Repo      *repository.Repository
	Publisher Publisher
	Mailer    Mailer
	JWTKey    []byte
	UploadDir string
	UploadURL string
}

func NewService(deps Deps, log *zap.Logger) *Service {
	return &Service{
		Account:      NewAccountService(deps.Repo, deps.Mailer, deps.JWTKey, log),
		Catalog:      NewCatalogService(deps.Repo, deps.UploadDir, deps.UploadURL, log),
		Cart:         NewCartService(deps.Repo, log),
		Order:        NewOrderService(deps.Repo, deps.Publisher, deps.Mailer, log),
		Review:       NewReviewService(deps.Repo, log),
		Bookmark:     NewBookmarkService(deps.Repo, log),
		Announcement: NewAnnouncementService(deps.Repo, deps.Publisher, log),
	}
}
