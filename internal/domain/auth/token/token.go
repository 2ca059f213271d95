package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded token payload: subject plus the registered
// timestamps. Validity is fully determined by signature and expiry; there is
// no server-side token state.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and verifies bearer tokens for a subject.
type Issuer interface {
	Issue(subject string) (token string, err error)
	Validate(token string) (claims Claims, err error)
}
