package auth

import "time"

// Strategy issues and verifies wallet session tokens.
type Strategy interface {
	IssueToken(wallet string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}

const defaultTTL = 24 * time.Hour

func (o Options) ttl() time.Duration {
	if o.TTL <= 0 {
		return defaultTTL
	}
	return o.TTL
}
