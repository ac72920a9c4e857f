package transport

import (
	"net/url"
	"strings"
	"time"

	"acornAdmin/internal/modules/listview/application/usecase"
	"acornAdmin/internal/modules/listview/domain"
)

const dateLayout = "2006-01-02"

type navItem struct {
	Name   string
	Title  string
	Active bool
}

type fieldOption struct {
	Key      string
	Label    string
	Selected bool
}

type filterView struct {
	Term  string
	Start string
	End   string
}

type pageMeta struct {
	Current       int
	Total         int
	ItemsPerPage  int
	FilteredCount int
	TotalCount    int
	Numbers       []int
	HasPrevious   bool
	HasNext       bool
}

type rowView struct {
	Href  string
	Cells []domain.Cell
}

type detailView struct {
	Title string
	Lines []usecase.DetailLine
}

type createView struct {
	Title  string
	Fields []usecase.FormField
	Error  string
}

type deleteView struct {
	Action string
	Prompt string
}

// screenPage is everything the screen template needs.
type screenPage struct {
	Screen       string
	Title        string
	Nav          []navItem
	Error        string
	DateSearch   bool
	Fields       []fieldOption
	Filter       filterView
	CanCreate    bool
	CanDelete    bool
	CreateTitle  string
	Columns      []domain.Column
	Rows         []rowView
	EmptyMessage string
	Page         pageMeta
	PageSizes    []int
	Detail       *detailView
	Create       *createView
	Delete       *deleteView
}

func buildPage[T any, P any](screen usecase.Screen[T, P], view *usecase.ScreenView[T, P], nav []navItem) screenPage {
	ctrl := view.Controller
	visible := ctrl.VisiblePage()
	filter := ctrl.Filter()

	page := screenPage{
		Screen:       screen.Name,
		Title:        screen.Title,
		Nav:          nav,
		DateSearch:   screen.List.DateOf != nil,
		Filter:       filterView{Term: filter.Term, Start: formatDate(filter.DateStart), End: formatDate(filter.DateEnd)},
		CanCreate:    view.Create != nil,
		CanDelete:    view.Delete != nil,
		CreateTitle:  screen.CreateTitle,
		Columns:      screen.Table.Columns,
		Rows:         make([]rowView, 0, len(visible.Items)),
		EmptyMessage: screen.Table.EmptyMessage,
		PageSizes:    screen.PageSizes,
		Page: pageMeta{
			Current:       visible.CurrentPage,
			Total:         visible.TotalPages,
			ItemsPerPage:  visible.ItemsPerPage,
			FilteredCount: visible.FilteredCount,
			TotalCount:    visible.TotalCount,
			Numbers:       visible.PageNumbers(),
			HasPrevious:   visible.HasPrevious(),
			HasNext:       visible.HasNext(),
		},
	}
	for _, field := range ctrl.Fields() {
		page.Fields = append(page.Fields, fieldOption{Key: field.Key, Label: field.Label, Selected: strings.EqualFold(field.Key, filter.Field)})
	}
	for _, record := range visible.Items {
		row := screen.Table.Render(record)
		page.Rows = append(page.Rows, rowView{Href: recordPath(screen.Name, row.ID), Cells: row.Cells})
	}

	if record, ok := view.Detail.Selected(); ok && screen.Detail != nil {
		page.Detail = &detailView{Title: "상세 정보", Lines: screen.Detail(record)}
	}
	if view.Create != nil && view.Create.Visible() {
		page.Create = &createView{Title: screen.CreateTitle, Fields: screen.FormFields}
	}
	if view.Delete != nil {
		if record, ok := view.Delete.Selected(); ok {
			prompt := "정말로 삭제하시겠습니까?"
			if screen.DeletePrompt != nil {
				prompt = screen.DeletePrompt(record)
			}
			page.Delete = &deleteView{Action: recordPath(screen.Name, screen.List.IDOf(record)) + "/delete", Prompt: prompt}
		}
	}
	return page
}

func recordPath(screen, id string) string {
	return "/" + screen + "/records/" + url.PathEscape(id)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(dateLayout)
}
