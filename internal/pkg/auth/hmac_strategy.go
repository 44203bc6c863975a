package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid auth token")

// HMACStrategy signs "wallet:expiry" payloads with HMAC-SHA256.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	return &HMACStrategy{secret: []byte(secret), ttl: opts.ttl(), now: time.Now}
}

// IssueToken generates signed session token for the wallet.
func (s *HMACStrategy) IssueToken(wallet string) (string, error) {
	if wallet == "" || strings.Contains(wallet, ":") {
		return "", ErrInvalidToken
	}
	expires := s.now().Add(s.ttl).Unix()
	payload := fmt.Sprintf("%s:%d", wallet, expires)
	token := fmt.Sprintf("%s:%s", payload, s.sign(payload))
	return base64.StdEncoding.EncodeToString([]byte(token)), nil
}

// ParseToken validates token and returns the wallet it was issued for.
func (s *HMACStrategy) ParseToken(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 || parts[0] == "" {
		return "", ErrInvalidToken
	}

	payload := strings.Join(parts[:2], ":")
	if !hmac.Equal([]byte(s.sign(payload)), []byte(parts[2])) {
		return "", ErrInvalidToken
	}

	expires, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	if time.Unix(expires, 0).Before(s.now()) {
		return "", ErrInvalidToken
	}

	return parts[0], nil
}

func (s *HMACStrategy) Name() string {
	return "hmac"
}

func (s *HMACStrategy) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
