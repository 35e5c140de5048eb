package auth

import (
	"errors"
	"strconv"
	"time"

	"pos/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
	idGen     IDGenerator
}

// HS256で署名。jtiはidGenから
func NewJWTIssuer(secret string, accessTTL time.Duration, idGen IDGenerator) (AccessTokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret required")
	}
	if accessTTL <= 0 {
		return nil, errors.New("access ttl must be positive")
	}
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		idGen:     idGen,
	}, nil
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"jti":  i.idGen.NewID(),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
