package http

import (
	"embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed static/dashboard.html
var staticFS embed.FS

// registerDashboardPage serves the embedded single-page dashboard on / and
// /dashboard. Everything ships in the binary; no CDN assets.
func registerDashboardPage(app *fiber.App) {
	page := func(c *fiber.Ctx) error {
		data, err := staticFS.ReadFile("static/dashboard.html")
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(data)
	}
	app.Get("/", page)
	app.Get("/dashboard", page)
}
