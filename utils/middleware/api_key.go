package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/utils/response"
)

// APIKeyGuard rejects requests that do not carry the shared API config key
type APIKeyGuard struct {
	header string
	key    []byte
}

// NewAPIKeyGuard creates a guard comparing the given header against key
func NewAPIKeyGuard(header, key string) *APIKeyGuard {
	return &APIKeyGuard{header: header, key: []byte(key)}
}

// Valid reports whether the presented key matches. An empty configured key
// never matches.
func (g *APIKeyGuard) Valid(presented string) bool {
	if len(g.key) == 0 || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), g.key) == 1
}

// Handler returns the fiber middleware
func (g *APIKeyGuard) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !g.Valid(c.Get(g.header)) {
			rejected("api_key", "invalid")
			return response.Unauthorized(c, "Invalid API Key")
		}
		return c.Next()
	}
}
