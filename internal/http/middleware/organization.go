package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// OrganizationHeader carries the caller's organization.
	OrganizationHeader = "X-Organization-ID"
	// OrganizationLocalKey is the key used to store the organization ID in Fiber's context locals.
	OrganizationLocalKey = "organization_id"
)

// ErrOrganizationRequired is returned for requests without a valid organization header.
// The global error handler renders it as 401 ORGANIZATION_REQUIRED.
var ErrOrganizationRequired = fiber.NewError(fiber.StatusUnauthorized, "organization is required")

// Organization scopes a request to the organization named in X-Organization-ID.
// The value must be a UUID; it is stored in canonical lower-case form.
func Organization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Get(OrganizationHeader))
		if err != nil {
			return ErrOrganizationRequired
		}
		c.Locals(OrganizationLocalKey, id.String())
		return c.Next()
	}
}

// OrganizationID returns the organization stored by Organization, or "".
func OrganizationID(c *fiber.Ctx) string {
	id, _ := c.Locals(OrganizationLocalKey).(string)
	return id
}
