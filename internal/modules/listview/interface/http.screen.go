package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"acornAdmin/internal/modules/listview/application/port"
	"acornAdmin/internal/modules/listview/application/usecase"
	"acornAdmin/internal/modules/listview/domain"
)

type screenHandler[T any, P any] struct {
	console *Console
	svc     *usecase.ScreenService[T, P]
}

// RegisterScreen exposes one list screen: the HTML page and its modals under /<name> and the JSON
// view under /api/<name>.
func RegisterScreen[T any, P any](console *Console, svc *usecase.ScreenService[T, P]) {
	h := &screenHandler[T, P]{console: console, svc: svc}
	screen := svc.Screen()
	console.nav = append(console.nav, navItem{Name: screen.Name, Title: screen.Title})
	console.screens = append(console.screens, svc)

	base := "/" + screen.Name
	g := console.group
	g.GET(base, h.list)
	g.POST(base+"/filter", h.filter)
	g.POST(base+"/refresh", h.refresh)
	g.GET(base+"/records/:id", h.detail)
	g.POST(base+"/modal/close", h.closeModal)
	g.GET(base+"/new", h.newRecord)
	g.POST(base+"/records", h.createRecord)
	g.GET(base+"/records/:id/delete", h.openDelete)
	g.POST(base+"/records/:id/delete", h.deleteAction)
	g.DELETE(base+"/session", h.unmount)
	g.GET("/api"+base, h.api)
	slog.Info("screen registered", slog.String("screen", screen.Name))
}

func (h *screenHandler[T, P]) mount(c echo.Context) (*usecase.ScreenView[T, P], error) {
	id, view, err := h.svc.Mount(c.Request().Context(), sessionFromRequest(c))
	if err != nil {
		slog.Error("screen mount failed", slog.String("screen", h.svc.Name()), slog.Any("error", err))
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "screen unavailable")
	}
	writeSession(c, id, h.console.sessionTTL)
	return view, nil
}

func (h *screenHandler[T, P]) back(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/"+h.svc.Name())
}

// render writes the page. A handler error sets the status; otherwise a failed load without any
// data reports its mapped status and a failed refresh only shows the banner.
func (h *screenHandler[T, P]) render(c echo.Context, view *usecase.ScreenView[T, P], err error) error {
	page := buildPage(h.svc.Screen(), view, h.console.navFor(h.svc.Name()))
	status := http.StatusOK
	switch {
	case err != nil:
		info := h.console.mapper.Map(err)
		logMapped(c, info, err)
		status = info.Status
		if page.Create != nil {
			page.Create.Error = info.Message
		} else {
			page.Error = info.Message
		}
	case view.Controller.LastError() != nil:
		info := h.console.mapper.Map(view.Controller.LastError())
		page.Error = info.Message
		if !view.Controller.Loaded() {
			status = info.Status
		}
	}
	return c.Render(status, "screen", page)
}

func (h *screenHandler[T, P]) list(c echo.Context) error {
	view, err := h.mount(c)
	if err != nil {
		return err
	}
	return h.render(c, view, applyPaging(c, view.Controller))
}

func (h *screenHandler[T, P]) filter(c echo.Context) error {
	view, err := h.mount(c)
	if err != nil {
		return err
	}
	ctrl := view.Controller
	start, err := parseDate(c.FormValue("start"))
	if err != nil {
		return h.render(c, view, err)
	}
	end, err := parseDate(c.FormValue("end"))
	if err != nil {
		return h.render(c, view, err)
	}
	ctrl.SetFilterTerm(c.FormValue("term"))
	if field := strings.TrimSpace(c.FormValue("field")); field != "" {
		if err := ctrl.SetFilterField(field); err != nil {
			return h.render(c, view, err)
		}
	}
	if err := ctrl.SetDateRange(start, end); err != nil {
		return h.render(c, view, err)
	}
	ctrl.ApplyFilter()
	return h.back(c)
}

func (h *screenHandler[T, P]) refresh(c echo.Context) error {
	view, err := h.mount(c)
	if err != nil {
		return err
	}
	if err := view.Controller.Initialize(c.Request().Context()); err != nil && !errors.Is(err, port.ErrStaleFetch) {
		return h.render(c, view, err)
	}
	return h.back(c)
}

func (h *screenHandler[T, P]) detail(c echo.Context) error {
	view, err := h.mount(c)
	if err != nil {
		return err
	}
	record, ok := view.Controller.Find(c.Param("id"))
	if !ok {
		return h.render(c, view, port.ErrRecordNotFound)
	}
	view.CloseModals()
	view.Detail.Open(&record)
	return h.render(c, view, nil)
}

func (h *screenHandler[T, P]) closeModal(c echo.Context) error {
	view, err := h.mount(c)
	if err != nil {
		return err
	}
	view.CloseModals()
	return h.back(c)
}

func (h *screenHandler[T, P]) newRecord(c echo.Context) error {
	view, err := h.mount(c)
	if err != nil {
		return err
	}
	if view.Create == nil {
		return h.render(c, view, errUnsupported)
	}
	view.CloseModals()
	view.Create.Open(nil)
	return h.render(c, view, nil)
}

func (h *screenHandler[T, P]) createRecord(c echo.Context) error {
	view, err := h.mount(c)
	if err != nil {
		return err
	}
	if view.Create == nil {
		return h.render(c, view, errUnsupported)
	}
	var payload P
	if err := c.Bind(&payload); err != nil {
		return h.render(c, view, fmt.Errorf("%w: %v", usecase.ErrInvalidPayload, err))
	}
	if err := view.Create.Submit(c.Request().Context(), payload); err != nil {
		return h.render(c, view, err)
	}
	return h.back(c)
}

func (h *screenHandler[T, P]) openDelete(c echo.Context) error {
	view, err := h.mount(c)
	if err != nil {
		return err
	}
	if view.Delete == nil {
		return h.render(c, view, errUnsupported)
	}
	record, ok := view.Controller.Find(c.Param("id"))
	if !ok {
		return h.render(c, view, port.ErrRecordNotFound)
	}
	view.CloseModals()
	view.Delete.Open(&record)
	return h.render(c, view, nil)
}

// deleteAction only deletes on an explicit confirm of the record the dialog was opened for.
func (h *screenHandler[T, P]) deleteAction(c echo.Context) error {
	view, err := h.mount(c)
	if err != nil {
		return err
	}
	if view.Delete == nil {
		return h.render(c, view, errUnsupported)
	}
	switch strings.ToLower(strings.TrimSpace(c.FormValue("action"))) {
	case "cancel":
		view.Delete.Cancel()
		return h.back(c)
	case "confirm":
		selected, ok := view.Delete.Selected()
		if !ok || h.svc.Screen().List.IDOf(selected) != strings.TrimSpace(c.Param("id")) {
			return h.render(c, view, usecase.ErrNothingSelected)
		}
		if err := view.Delete.Confirm(c.Request().Context()); err != nil {
			return h.render(c, view, err)
		}
		return h.back(c)
	default:
		return h.render(c, view, fmt.Errorf("%w: unknown delete action", usecase.ErrInvalidPayload))
	}
}

func (h *screenHandler[T, P]) unmount(c echo.Context) error {
	h.svc.Unmount(sessionFromRequest(c))
	return c.NoContent(http.StatusNoContent)
}

type filterResponse struct {
	Term  string `json:"term"`
	Field string `json:"field"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

type listResponse[T any] struct {
	Screen string         `json:"screen"`
	Page   domain.Page[T] `json:"page"`
	Filter filterResponse `json:"filter"`
	Loaded bool           `json:"loaded"`
	Error  string         `json:"error,omitempty"`
}

func (h *screenHandler[T, P]) api(c echo.Context) error {
	view, err := h.mount(c)
	if err != nil {
		return err
	}
	if err := applyPaging(c, view.Controller); err != nil {
		return jsonError(c, h.console.mapper, err)
	}
	filter := view.Controller.Filter()
	res := listResponse[T]{
		Screen: h.svc.Name(),
		Page:   view.Controller.VisiblePage(),
		Filter: filterResponse{Term: filter.Term, Field: filter.Field, Start: formatDate(filter.DateStart), End: formatDate(filter.DateEnd)},
		Loaded: view.Controller.Loaded(),
	}
	status := http.StatusOK
	if lastErr := view.Controller.LastError(); lastErr != nil {
		info := h.console.mapper.Map(lastErr)
		res.Error = info.Message
		if !res.Loaded {
			status = info.Status
		}
	}
	return c.JSON(status, res)
}

type pager interface {
	SetItemsPerPage(n int) int
	SetPage(n int) int
}

// applyPaging honours ?size= then ?page=, both clamped by the controller.
func applyPaging(c echo.Context, ctrl pager) error {
	if raw := strings.TrimSpace(c.QueryParam("size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: size %q", errMalformedNumber, raw)
		}
		ctrl.SetItemsPerPage(size)
	}
	if raw := strings.TrimSpace(c.QueryParam("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: page %q", errMalformedNumber, raw)
		}
		ctrl.SetPage(page)
	}
	return nil
}

func parseDate(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	at, err := time.Parse(dateLayout, trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errMalformedDate, trimmed)
	}
	return &at, nil
}
