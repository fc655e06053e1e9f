package api

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gofiber/fiber/v2"
)

// AdminClaims is the custom part of an admin access token
type AdminClaims struct {
	Scope string `json:"scope"`
}

func (c AdminClaims) Validate(ctx context.Context) error {
	return nil
}

func (c AdminClaims) HasScope(expected string) bool {
	for _, scope := range strings.Split(c.Scope, " ") {
		if scope == expected {
			return true
		}
	}

	return false
}

const AdminScope = "ticketoffice:admin"

// EnsureValidToken only lets requests through that carry an RS256 bearer token issued
// by the Auth0 domain with the admin scope
func EnsureValidToken(domain string, audience string) (fiber.Handler, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &AdminClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)

		jwtToken, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || jwtToken == "" {
			c.Status(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "Authorization header is required",
			})
		}

		claimsI, jwtErr := jwtValidator.ValidateToken(c.UserContext(), jwtToken)
		if jwtErr != nil {
			c.Status(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "Invalid auth token",
			})
		}

		claims := claimsI.(*validator.ValidatedClaims)

		customClaims, ok := claims.CustomClaims.(*AdminClaims)
		if !ok || !customClaims.HasScope(AdminScope) {
			c.Status(fiber.StatusForbidden)
			return c.JSON(fiber.Map{
				"error": "Token lacks the admin scope",
			})
		}

		c.Locals("admin_subject", claims.RegisteredClaims.Subject)

		return c.Next()
	}, nil
}
