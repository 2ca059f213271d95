package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	customErrors "github.com/kvistberg/noteboard/auth-service/internal/domain/auth/errors"
	"github.com/kvistberg/noteboard/auth-service/internal/domain/auth/token"
	"github.com/kvistberg/noteboard/auth-service/internal/infra/config"
)

// JwtIssuer signs HS256 bearer tokens with a shared secret and a fixed TTL.
// Tokens are stateless: once issued, a token with a valid signature is
// accepted until it expires — there is no revocation.
type JwtIssuer struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
}

func NewJwtIssuer(cfg *config.Config) (*JwtIssuer, error) {
	if len(cfg.JWTSecret) == 0 {
		return nil, customErrors.WrapInternal(errors.New("empty JWT secret"), "NewJwtIssuer")
	}
	return &JwtIssuer{
		secret:   []byte(cfg.JWTSecret),
		ttl:      cfg.AccessTokenTTL,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}, nil
}

func (j *JwtIssuer) Issue(subject string) (string, error) {
	now := time.Now()

	claims := token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", customErrors.WrapInternal(err, "sign token")
	}
	return signed, nil
}

func (j *JwtIssuer) Validate(raw string) (token.Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &token.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrTokenInvalid
		}
		return j.secret, nil
	}, jwt.WithIssuedAt())

	if err != nil {
		// An expired token with a valid signature is a distinct failure.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return token.Claims{}, customErrors.ErrTokenExpired
		}
		return token.Claims{}, customErrors.ErrTokenInvalid
	}
	if !parsed.Valid {
		return token.Claims{}, customErrors.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*token.Claims)
	if !ok {
		return token.Claims{}, customErrors.WrapInternal(
			errors.New("claims not token.Claims"), "Validate",
		)
	}

	if j.issuer != "" && claims.Issuer != j.issuer {
		return token.Claims{}, customErrors.ErrTokenInvalid
	}

	if j.audience != "" {
		okAudi := false
		for _, a := range claims.Audience {
			if a == j.audience {
				okAudi = true
				break
			}
		}
		if !okAudi {
			return token.Claims{}, customErrors.ErrTokenInvalid
		}
	}

	return *claims, nil
}
