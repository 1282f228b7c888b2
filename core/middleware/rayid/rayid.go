package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// LocalsKey is where the RayID is stored in the Fiber context.
	LocalsKey = "ray_id"
	// Header carries the RayID on requests and responses.
	Header = "X-Ray-ID"
)

// New returns a middleware that tags every request with a RayID.
// A RayID supplied by the caller is reused so traces can span services.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalsKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}
