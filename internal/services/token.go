package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = time.Hour

// TokenCodec issues and checks HS256 tokens whose subject is a username.
// It is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret string) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}, nil
}

// Issue signs a token for subject, valid from now until now+TokenTTL.
func (c *TokenCodec) Issue(subject string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify returns the subject of a genuine, unexpired token. The signature is
// checked before expiry, so ErrTokenExpired always means the token was ours.
func (c *TokenCodec) Verify(tokenString string) (string, error) {
	return c.parse(tokenString, jwt.WithTimeFunc(c.now))
}

// ExtractSubjectUnsafe returns the subject of a genuine token even when it
// has expired. Malformed and forged tokens are still rejected.
func (c *TokenCodec) ExtractSubjectUnsafe(tokenString string) (string, error) {
	return c.parse(tokenString, jwt.WithoutClaimsValidation())
}

func (c *TokenCodec) parse(tokenString string, opts ...jwt.ParserOption) (string, error) {
	// Strict decoding rejects non-zero padding bits in the last character of
	// a segment, so every distinct string is a distinct token.
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
	)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return "", classifyTokenError(err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenForged
	default:
		return ErrTokenMalformed
	}
}
