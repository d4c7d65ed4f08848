package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pustakalaya/bookstore-service/internal/errs"
	"github.com/pustakalaya/bookstore-service/internal/model"
	"github.com/pustakalaya/bookstore-service/internal/repository"
	"github.com/pustakalaya/bookstore-service/pkg/auth"
)

const tokenTTL = 24 * time.Hour

type AccountService struct {
	log    *zap.Logger
	repo   *repository.Repository
	mailer Mailer
	jwtKey []byte
}

func NewAccountService(repo *repository.Repository, mailer Mailer, jwtKey []byte, log *zap.Logger) *AccountService {
	return &AccountService{
		log:    log.Named("account"),
		repo:   repo,
		mailer: mailer,
		jwtKey: jwtKey,
	}
}

func (s *AccountService) Signup(ctx context.Context, req model.SignupRequest) (model.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.AuthResponse{}, errors.Wrap(err, "hash password")
	}

	now := time.Now().UTC()
	member, err := s.repo.CreateMember(ctx, model.Member{
		Name:               req.Name,
		Username:           req.Username,
		Email:              req.Email,
		Password:           string(hash),
		Phone:              req.Phone,
		Gender:             req.Gender,
		DateOfBirth:        req.DateOfBirth,
		MembershipID:       uuid.NewString(),
		MembershipStatus:   "Active",
		DateOfRegistration: now,
	})
	if err != nil {
		return model.AuthResponse{}, err
	}

	token, err := auth.NewToken(s.jwtKey, member.ID, member.Email, auth.RoleMember, tokenTTL)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{Token: token, User: member}, nil
}

func (s *AccountService) RegisterAdmin(ctx context.Context, req model.AdminRegisterRequest) (model.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.AuthResponse{}, errors.Wrap(err, "hash password")
	}

	admin, err := s.repo.CreateAdmin(ctx, model.Admin{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Phone:    req.Phone,
		Role:     string(auth.RoleAdmin),
	})
	if err != nil {
		return model.AuthResponse{}, err
	}

	token, err := auth.NewToken(s.jwtKey, admin.ID, admin.Email, auth.RoleAdmin, tokenTTL)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{Token: token, User: admin}, nil
}

func (s *AccountService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	switch auth.Role(req.Role) {
	case auth.RoleMember:
		member, err := s.repo.GetMemberByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return model.AuthResponse{}, errs.ErrUnauthorized
			}
			return model.AuthResponse{}, err
		}
		if bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(req.Password)) != nil {
			return model.AuthResponse{}, errs.ErrUnauthorized
		}
		if err := s.repo.TouchMemberLogin(ctx, member.ID); err != nil {
			s.log.Warn("touch last_login", zap.Int64("member_id", member.ID), zap.Error(err))
		}
		token, err := auth.NewToken(s.jwtKey, member.ID, member.Email, auth.RoleMember, tokenTTL)
		if err != nil {
			return model.AuthResponse{}, err
		}
		return model.AuthResponse{Token: token, User: member}, nil

	case auth.RoleAdmin:
		admin, err := s.repo.GetAdminByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return model.AuthResponse{}, errs.ErrUnauthorized
			}
			return model.AuthResponse{}, err
		}
		if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
			return model.AuthResponse{}, errs.ErrUnauthorized
		}
		token, err := auth.NewToken(s.jwtKey, admin.ID, admin.Email, auth.RoleAdmin, tokenTTL)
		if err != nil {
			return model.AuthResponse{}, err
		}
		return model.AuthResponse{Token: token, User: admin}, nil
	}
	return model.AuthResponse{}, errors.Errorf("unsupported role %q", req.Role)
}

// ForgotPassword mails a reset code to the member. The code is not persisted;
// matching the original behavior, verification happens out of band.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	member, err := s.repo.GetMemberByEmail(ctx, email)
	if err != nil {
		return err
	}
	code := strings.ToUpper(uuid.NewString()[:8])
	body := fmt.Sprintf("Hello,<br/><br/>Use this code to reset your password: <strong>%s</strong><br/><br/>– Pustakalaya Team", code)
	return s.mailer.Send(member.Email, "Reset Your Password", body)
}

func (s *AccountService) Profile(ctx context.Context, identity auth.Identity) (any, error) {
	switch identity.Role {
	case auth.RoleMember:
		return s.repo.GetMemberByID(ctx, identity.ID)
	case auth.RoleAdmin, auth.RoleStaff:
		return s.repo.GetAdminByID(ctx, identity.ID)
	}
	return nil, errs.ErrForbidden
}

func (s *AccountService) UpdateProfile(ctx context.Context, memberID int64, req model.ProfileUpdateRequest) (model.Member, error) {
	return s.repo.UpdateMemberProfile(ctx, memberID, req)
}
