package auth

import (
	"context"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMember, RoleAdmin, RoleStaff:
		return Role(s), nil
	}
	return "", errors.Errorf("unknown role %q", s)
}

type Profile struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Claims struct {
	Profile Profile `json:"profile"`
	jwt.RegisteredClaims
}

// Identity is the authenticated principal, parsed once per request.
type Identity struct {
	ID    int64
	Email string
	Role  Role
}

func (i Identity) Is(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

func NewToken(key []byte, id int64, email string, role Role, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Profile: Profile{ID: id, Email: email, Role: string(role)},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(key)
}

func ParseToken(key []byte, tokenStr string) (Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return Identity{}, errors.Wrap(err, "parse token")
	}
	if !token.Valid {
		return Identity{}, errors.New("invalid token")
	}
	role, err := ParseRole(claims.Profile.Role)
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		ID:    claims.Profile.ID,
		Email: claims.Profile.Email,
		Role:  role,
	}, nil
}

type contextKey int

const identityKey contextKey = iota + 1

func SetAuthContext(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
