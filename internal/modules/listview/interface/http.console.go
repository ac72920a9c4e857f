package transport

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"acornAdmin/internal/modules/listview/infrastructure"
	"acornAdmin/internal/shared/httputil"
)

type unmounter interface {
	Unmount(sessionID string) bool
}

// Console owns the routes shared by every screen and the navigation between them.
type Console struct {
	echo       *echo.Echo
	group      *echo.Group
	mapper     *httputil.ErrorMapper
	sessionTTL time.Duration
	nav        []navItem
	screens    []unmounter
}

// NewConsole registers the shared routes. Every route except /health goes through RequireToken.
func NewConsole(e *echo.Echo, hub *infrastructure.Hub, validator Authenticator, sessionTTL time.Duration, sendBuffer int) *Console {
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	console := &Console{
		echo:       e,
		group:      e.Group("", RequireToken(validator)),
		mapper:     NewErrorMapper(),
		sessionTTL: sessionTTL,
	}
	e.GET("/health", healthHandler)
	console.group.GET("/", console.home)
	console.group.DELETE("/session", console.endSession)
	console.group.GET("/ws/notifications", NewNotificationsWebsocketHandler(hub, console.screenNames, sendBuffer))
	return console
}

func (c *Console) screenNames() []string {
	names := make([]string, 0, len(c.nav))
	for _, item := range c.nav {
		names = append(names, item.Name)
	}
	return names
}

func (c *Console) navFor(active string) []navItem {
	items := make([]navItem, 0, len(c.nav))
	for _, item := range c.nav {
		item.Active = item.Name == active
		items = append(items, item)
	}
	return items
}

func (c *Console) home(ctx echo.Context) error {
	if len(c.nav) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no screens registered")
	}
	return ctx.Redirect(http.StatusFound, "/"+c.nav[0].Name)
}

// endSession unmounts the caller's views on every screen and drops the cookie.
func (c *Console) endSession(ctx echo.Context) error {
	id := sessionFromRequest(ctx)
	for _, screen := range c.screens {
		screen.Unmount(id)
	}
	clearSession(ctx)
	return ctx.NoContent(http.StatusNoContent)
}
