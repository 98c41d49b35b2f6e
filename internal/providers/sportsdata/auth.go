package sportsdata

import (
	"fmt"
	"net/http"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/config"
)

// SubscriptionKeyHeader carries the API key in header auth mode
const SubscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

// AuthStrategy decorates an outbound request with credentials
type AuthStrategy interface {
	Apply(req *http.Request)
}

// QueryKeyAuth sends the key as the `key` query parameter
type QueryKeyAuth struct {
	Key string
}

func (a QueryKeyAuth) Apply(req *http.Request) {
	q := req.URL.Query()
	q.Set("key", a.Key)
	req.URL.RawQuery = q.Encode()
}

// HeaderKeyAuth sends the key in the subscription header
type HeaderKeyAuth struct {
	Key string
}

func (a HeaderKeyAuth) Apply(req *http.Request) {
	req.Header.Set(SubscriptionKeyHeader, a.Key)
}

// NoAuth leaves the request untouched; a proxy injects the key
type NoAuth struct{}

func (NoAuth) Apply(*http.Request) {}

// NewAuthStrategy picks the strategy for a configured auth mode
func NewAuthStrategy(mode, key string) (AuthStrategy, error) {
	switch mode {
	case config.AuthModeQuery, "":
		if key == "" {
			return nil, fmt.Errorf("auth mode %q requires an API key", config.AuthModeQuery)
		}
		return QueryKeyAuth{Key: key}, nil
	case config.AuthModeHeader:
		if key == "" {
			return nil, fmt.Errorf("auth mode %q requires an API key", config.AuthModeHeader)
		}
		return HeaderKeyAuth{Key: key}, nil
	case config.AuthModeProxy:
		return NoAuth{}, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", mode)
	}
}
