package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pustakalaya/bookstore-service/config"
	"github.com/pustakalaya/bookstore-service/internal/handler"
	"github.com/pustakalaya/bookstore-service/internal/repository"
	"github.com/pustakalaya/bookstore-service/internal/server"
	"github.com/pustakalaya/bookstore-service/internal/service"
	"github.com/pustakalaya/bookstore-service/migrations"
	"github.com/pustakalaya/bookstore-service/pkg/email"
	"github.com/pustakalaya/bookstore-service/pkg/kafka"
	"github.com/pustakalaya/bookstore-service/pkg/logger"
	"github.com/pustakalaya/bookstore-service/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "bookstore")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	producer, err := kafka.NewPublisher(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewPublisher", zap.Error(err))
	}
	mailer := email.NewSender(cfg.SMTP, log)

	svc := service.NewService(service.Deps{
		Repo:      repo,
		Publisher: producer,
		Mailer:    mailer,
		JWTKey:    []byte(cfg.JWT.Key),
		UploadDir: cfg.Uploads.Dir,
		UploadURL: cfg.Uploads.URL,
	}, log)

	h := handler.New(handler.Services{
		Account:      svc.Account,
		Catalog:      svc.Catalog,
		Cart:         svc.Cart,
		Order:        svc.Order,
		Review:       svc.Review,
		Bookmark:     svc.Bookmark,
		Announcement: svc.Announcement,
	}, []byte(cfg.JWT.Key), cfg.Uploads.Dir, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err = producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
