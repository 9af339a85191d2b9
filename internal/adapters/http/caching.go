package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// cachePolicies maps path prefixes to Cache-Control values, checked in
// order. First match wins, so put exact paths before their prefixes.
var cachePolicies = []struct {
	prefix string
	value  string
}{
	{"/v1/health", "public, max-age=10"},
	{"/v1/ready", "public, max-age=10"},
	{"/metrics", "no-cache"},
	{"/graphql", "private, max-age=0"},
	{"/v1/categories/top", "public, max-age=600"},
	{"/v1/attractions", "public, max-age=300"},
	{"/v1/", "public, max-age=60"},
}

// CachingMiddleware sets a default Cache-Control header on GET responses.
// Handlers that set their own header win.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if c.GetRespHeader(fiber.HeaderCacheControl) != "" {
			return err
		}

		path := c.Path()
		for _, p := range cachePolicies {
			if strings.HasPrefix(path, p.prefix) {
				c.Set(fiber.HeaderCacheControl, p.value)
				break
			}
		}
		return err
	}
}
