package rayid

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayID(t *testing.T) {
	var seen string
	app := fiber.New()
	app.Use(New())
	app.Get("/", func(c *fiber.Ctx) error {
		seen, _ = c.Locals(LocalsKey).(string)
		return nil
	})

	t.Run("generated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		rid := resp.Header.Get(HeaderName)
		_, parseErr := uuid.Parse(rid)
		assert.NoError(t, parseErr)
		assert.Equal(t, rid, seen)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(HeaderName, "client-id")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "client-id", resp.Header.Get(HeaderName))
		assert.Equal(t, "client-id", seen)
	})
}
