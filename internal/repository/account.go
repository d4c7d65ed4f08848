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

func (r *Repository) CreateMember(ctx context.Context, m model.Member) (model.Member, error) {
	q, args, err := qb.Insert(membersTableName).
		Columns("name", "username", "email", "password", "phone", "gender", "date_of_birth",
			"membership_id", "membership_status", "date_of_registration").
		Values(m.Name, m.Username, m.Email, m.Password, m.Phone, m.Gender, m.DateOfBirth,
			m.MembershipID, m.MembershipStatus, m.DateOfRegistration).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Member{}, err
	}
	var member model.Member
	if err := r.db.GetContext(ctx, &member, q, args...); err != nil {
		if isUniqueViolation(err, "") {
			return model.Member{}, errs.ErrConflict
		}
		r.log.Error("CreateMember", zap.String("q", q), zap.Error(err))
		return model.Member{}, err
	}
	return member, nil
}

func (r *Repository) GetMemberByEmail(ctx context.Context, email string) (model.Member, error) {
	q, args, err := qb.Select("*").
		From(membersTableName).
		Where(sq.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Member{}, err
	}
	var m model.Member
	if err := r.db.GetContext(ctx, &m, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Member{}, errs.ErrNotFound
		}
		return model.Member{}, err
	}
	return m, nil
}

func (r *Repository) GetMemberByID(ctx context.Context, id int64) (model.Member, error) {
	q, args, err := qb.Select("*").
		From(membersTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Member{}, err
	}
	var m model.Member
	if err := r.db.GetContext(ctx, &m, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Member{}, errs.ErrNotFound
		}
		return model.Member{}, err
	}
	return m, nil
}

func (r *Repository) TouchMemberLogin(ctx context.Context, id int64) error {
	q, args, err := qb.Update(membersTableName).
		Set("last_login", time.Now().UTC()).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}

func (r *Repository) UpdateMemberProfile(ctx context.Context, id int64, req model.ProfileUpdateRequest) (model.Member, error) {
	q, args, err := qb.Update(membersTableName).
		Set("name", req.Name).
		Set("phone", req.Phone).
		Set("gender", req.Gender).
		Set("date_of_birth", req.DateOfBirth).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Member{}, err
	}
	var m model.Member
	if err := r.db.GetContext(ctx, &m, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Member{}, errs.ErrNotFound
		}
		return model.Member{}, err
	}
	return m, nil
}

func (r *Repository) CreateAdmin(ctx context.Context, a model.Admin) (model.Admin, error) {
	q, args, err := qb.Insert(adminsTableName).
		Columns("name", "email", "password", "phone", "role").
		Values(a.Name, a.Email, a.Password, a.Phone, a.Role).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Admin{}, err
	}
	var admin model.Admin
	if err := r.db.GetContext(ctx, &admin, q, args...); err != nil {
		if isUniqueViolation(err, "") {
			return model.Admin{}, errs.ErrConflict
		}
		r.log.Error("CreateAdmin", zap.String("q", q), zap.Error(err))
		return model.Admin{}, err
	}
	return admin, nil
}

func (r *Repository) GetAdminByEmail(ctx context.Context, email string) (model.Admin, error) {
	q, args, err := qb.Select("*").
		From(adminsTableName).
		Where(sq.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Admin{}, err
	}
	var a model.Admin
	if err := r.db.GetContext(ctx, &a, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Admin{}, errs.ErrNotFound
		}
		return model.Admin{}, err
	}
	return a, nil
}

func (r *Repository) GetAdminByID(ctx context.Context, id int64) (model.Admin, error) {
	q, args, err := qb.Select("*").
		From(adminsTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Admin{}, err
	}
	var a model.Admin
	if err := r.db.GetContext(ctx, &a, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Admin{}, errs.ErrNotFound
		}
		return model.Admin{}, err
	}
	return a, nil
}
