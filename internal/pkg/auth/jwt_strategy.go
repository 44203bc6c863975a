package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwtIssuer = "merchpay"

// JWTStrategy issues HS256 JSON Web Tokens whose subject is the wallet.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	return &JWTStrategy{secret: []byte(secret), ttl: opts.ttl(), now: time.Now}
}

// IssueToken signs a token for the wallet.
func (s *JWTStrategy) IssueToken(wallet string) (string, error) {
	if wallet == "" {
		return "", ErrInvalidToken
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    jwtIssuer,
		Subject:   wallet,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken verifies signature, issuer and expiry and returns the wallet.
func (s *JWTStrategy) ParseToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithIssuer(jwtIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}
