package email

import (
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/pustakalaya/bookstore-service/pkg/circuitbreaker"
)

type Config struct {
	Host     string `yaml:"host" envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port     int    `yaml:"port" envconfig:"SMTP_PORT" default:"587"`
	From     string `yaml:"from" envconfig:"SMTP_FROM"`
	Password string `yaml:"password" envconfig:"SMTP_PASSWORD" json:"-"`
}

// Sender delivers transactional mail through an SMTP relay. Sends go through
// a circuit breaker so a dead relay does not wedge request handling.
type Sender struct {
	dialer *gomail.Dialer
	from   string
	cb     circuitbreaker.CircuitBreaker
	log    *zap.Logger
}

func NewSender(cfg Config, log *zap.Logger) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.From, cfg.Password),
		from:   cfg.From,
		cb:     circuitbreaker.New(20, 30*time.Second, 0.5, 3),
		log:    log.Named("email"),
	}
}

func (s *Sender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	err := s.cb.Call(func() error {
		return s.dialer.DialAndSend(m)
	})
	if err != nil {
		s.log.Error("send mail", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
	}
	return err
}
