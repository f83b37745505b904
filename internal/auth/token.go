package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EnvVar holds the token when it is not passed as an argument.
const EnvVar = "JWT_TOKEN"

// ErrNoToken is returned when neither the environment nor the
// arguments carry a token.
var ErrNoToken = errors.New("token required")

type TokenInfo struct {
	Token  string
	Source string // "env" | "arg"
}

// Resolve looks the token up in the environment first, then falls back
// to the first positional argument.
func Resolve(getenv func(string) string, args []string) (*TokenInfo, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if env := stripBearer(strings.TrimSpace(getenv(EnvVar))); env != "" {
		return &TokenInfo{Token: env, Source: "env"}, nil
	}
	if len(args) > 0 {
		if arg := stripBearer(strings.TrimSpace(args[0])); arg != "" {
			return &TokenInfo{Token: arg, Source: "arg"}, nil
		}
	}
	return nil, ErrNoToken
}

// Claims is what we can learn about a JWT without the signing key.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// Expired reports whether the token carried an exp claim in the past.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// Inspect decodes a JWT's claims without verifying its signature.
// Opaque tokens return an error; they are still valid credentials.
func Inspect(token string) (*Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("not a jwt: %w", err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("not a jwt: unexpected claims type %T", parsed.Claims)
	}

	c := &Claims{}
	c.Subject, _ = mc.GetSubject()
	c.Issuer, _ = mc.GetIssuer()
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		c.IssuedAt = &t
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		c.ExpiresAt = &t
	}
	return c, nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
