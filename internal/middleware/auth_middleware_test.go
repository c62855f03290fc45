package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// guardedApp routes /guarded behind the given handler, with the user's
// privileges preloaded into the request context the way RequireAuth does.
func guardedApp(privileges []string, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if privileges != nil {
			c.Locals("user_privileges", privileges)
		}
		return c.Next()
	})
	app.Get("/guarded", guard, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func get(t *testing.T, app *fiber.App) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil), -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequirePrivilege(t *testing.T) {
	assert.Equal(t, 200, get(t, guardedApp([]string{"stock:out"}, RequirePrivilege("stock:out"))))
	assert.Equal(t, 403, get(t, guardedApp([]string{"stock:in"}, RequirePrivilege("stock:out"))))
	assert.Equal(t, 403, get(t, guardedApp(nil, RequirePrivilege("stock:out"))))
}

func TestRequireAnyPrivilege(t *testing.T) {
	guard := RequireAnyPrivilege("user:view", "user:update")

	assert.Equal(t, 200, get(t, guardedApp([]string{"user:view"}, guard)))
	assert.Equal(t, 200, get(t, guardedApp([]string{"alert:view", "user:update"}, guard)))
	assert.Equal(t, 403, get(t, guardedApp([]string{"alert:view"}, guard)))
	assert.Equal(t, 403, get(t, guardedApp(nil, guard)))
}
