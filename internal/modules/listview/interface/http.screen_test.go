package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acornAdmin/internal/modules/listview/application/port"
	"acornAdmin/internal/modules/listview/application/usecase"
	"acornAdmin/internal/modules/listview/domain"
	"acornAdmin/internal/modules/listview/infrastructure"
	"acornAdmin/internal/shared/auth"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Day  string `json:"day"`
}

type itemPayload struct {
	Name string `form:"name" validate:"required"`
}

type itemBackend struct {
	mu      sync.Mutex
	records []item
	err     error
	deleted []string
	created []itemPayload
	tokens  []string
}

func (b *itemBackend) FetchAll(ctx context.Context) ([]item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = append(b.tokens, auth.TokenFromContext(ctx))
	if b.err != nil {
		return nil, b.err
	}
	return append([]item(nil), b.records...), nil
}

func (b *itemBackend) Create(_ context.Context, p itemPayload) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, p)
	b.records = append(b.records, item{ID: fmt.Sprint(len(b.records) + 1), Name: p.Name})
	return nil
}

func (b *itemBackend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, id)
	return nil
}

func items(n int) []item {
	out := make([]item, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, item{ID: fmt.Sprint(i), Name: fmt.Sprintf("item-%02d", i), Day: fmt.Sprintf("2024-01-%02d", i)})
	}
	return out
}

func itemScreen(backend *itemBackend) usecase.Screen[item, itemPayload] {
	return usecase.Screen[item, itemPayload]{
		Name:   "items",
		Title:  "Items",
		Entity: "item",
		Table: domain.Table[item]{
			Columns:      []domain.Column{{ID: "id", Label: "ID"}, {ID: "name", Label: "Name"}},
			EmptyMessage: "등록된 항목이 없습니다.",
			Render: func(i item) domain.Row {
				return domain.Row{ID: i.ID, Cells: []domain.Cell{{Text: i.ID}, {Text: i.Name, Link: true}}}
			},
		},
		List: usecase.ControllerConfig[item]{
			Name:   "items",
			Source: backend,
			Fields: []domain.Field[item]{{Key: "name", Label: "Name", Values: func(i item) []string { return []string{i.Name} }}},
			DateOf: func(i item) (time.Time, bool) {
				at, err := time.Parse("2006-01-02", i.Day)
				return at, err == nil
			},
			IDOf:         func(i item) string { return i.ID },
			ItemsPerPage: 15,
		},
		PageSizes: []int{5, 15},
		Detail: func(i item) []usecase.DetailLine {
			return []usecase.DetailLine{{Label: "Name", Value: i.Name}}
		},
		CreateTitle:  "New item",
		FormFields:   []usecase.FormField{{Name: "name", Label: "Name", Type: "text", Required: true}},
		Creator:      backend,
		Deleter:      backend,
		DeletePrompt: func(i item) string { return "정말로 '" + i.Name + "'을 삭제하시겠습니까?" },
	}
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(context.Context, *domain.Message) {}

type testConsole struct {
	e       *echo.Echo
	svc     *usecase.ScreenService[item, itemPayload]
	cookies []*http.Cookie
}

func newTestConsole(t *testing.T, backend *itemBackend, validator Authenticator) *testConsole {
	t.Helper()
	e := echo.New()
	renderer, err := NewRenderer()
	require.NoError(t, err)
	e.Renderer = renderer
	console := NewConsole(e, infrastructure.NewHub(), validator, time.Minute, 4)
	svc := usecase.NewScreenService(itemScreen(backend), time.Minute, nil, usecase.NewBroadcastUseCase(nopBroadcaster{}))
	RegisterScreen(console, svc)
	return &testConsole{e: e, svc: svc}
}

func (tc *testConsole) do(t *testing.T, method, target string, form url.Values, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	for _, cookie := range tc.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	tc.e.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookie && cookie.Value != "" {
			tc.cookies = []*http.Cookie{cookie}
		}
	}
	return rec
}

func TestListPaginatesSixteenRecords(t *testing.T) {
	tc := newTestConsole(t, &itemBackend{records: items(16)}, nil)

	rec := tc.do(t, http.MethodGet, "/items", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "item-15")
	assert.NotContains(t, body, "item-16")
	require.Len(t, tc.cookies, 1)

	rec = tc.do(t, http.MethodGet, "/items?page=2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "item-16")
	assert.NotContains(t, rec.Body.String(), "item-15")

	rec = tc.do(t, http.MethodGet, "/items?page=99", nil, nil)
	assert.Contains(t, rec.Body.String(), "item-16")

	rec = tc.do(t, http.MethodGet, "/items?page=two", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEmptyAndFailedLoad(t *testing.T) {
	tc := newTestConsole(t, &itemBackend{}, nil)
	rec := tc.do(t, http.MethodGet, "/items", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "등록된 항목이 없습니다.")

	failing := newTestConsole(t, &itemBackend{err: port.ErrFetchFailed}, nil)
	rec = failing.do(t, http.MethodGet, "/items", nil, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "등록된 항목이 없습니다.")
	assert.Contains(t, rec.Body.String(), "데이터를 가져오는데 실패했습니다.")
}

func TestFilterAppliesOnSubmit(t *testing.T) {
	tc := newTestConsole(t, &itemBackend{records: items(16)}, nil)
	tc.do(t, http.MethodGet, "/items", nil, nil)

	rec := tc.do(t, http.MethodPost, "/items/filter", url.Values{"term": {"ITEM-1"}, "field": {"name"}, "start": {"2024-01-10"}, "end": {"2024-01-12"}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = tc.do(t, http.MethodGet, "/api/items", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res listResponse[item]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 3, res.Page.FilteredCount)
	assert.Equal(t, 16, res.Page.TotalCount)
	assert.Equal(t, 1, res.Page.CurrentPage)
	assert.Equal(t, "2024-01-10", res.Filter.Start)
}

func TestFilterRejectsBadInput(t *testing.T) {
	tc := newTestConsole(t, &itemBackend{records: items(3)}, nil)

	rec := tc.do(t, http.MethodPost, "/items/filter", url.Values{"start": {"2024-02-01"}, "end": {"2024-01-01"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "시작일이 종료일보다 늦습니다.")

	rec = tc.do(t, http.MethodPost, "/items/filter", url.Values{"field": {"colour"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = tc.do(t, http.MethodPost, "/items/filter", url.Values{"start": {"01/02/2024"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	backend := &itemBackend{records: items(3)}
	tc := newTestConsole(t, backend, nil)
	tc.do(t, http.MethodGet, "/items", nil, nil)

	rec := tc.do(t, http.MethodPost, "/items/records/2/delete", url.Values{"action": {"confirm"}}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = tc.do(t, http.MethodGet, "/items/records/2/delete", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "정말로 &#39;item-02&#39;을 삭제하시겠습니까?")

	rec = tc.do(t, http.MethodPost, "/items/records/2/delete", url.Values{"action": {"cancel"}}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, backend.deleted)

	tc.do(t, http.MethodGet, "/items/records/2/delete", nil, nil)
	rec = tc.do(t, http.MethodPost, "/items/records/2/delete", url.Values{"action": {"confirm"}}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"2"}, backend.deleted)

	rec = tc.do(t, http.MethodGet, "/items/records/42/delete", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAndDetail(t *testing.T) {
	backend := &itemBackend{records: items(1)}
	tc := newTestConsole(t, backend, nil)

	rec := tc.do(t, http.MethodGet, "/items/new", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New item")

	rec = tc.do(t, http.MethodPost, "/items/records", url.Values{"name": {""}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, backend.created)

	rec = tc.do(t, http.MethodPost, "/items/records", url.Values{"name": {"fresh"}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, backend.created, 1)

	rec = tc.do(t, http.MethodGet, "/items/records/2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "상세 정보")
	assert.Contains(t, rec.Body.String(), "fresh")

	rec = tc.do(t, http.MethodPost, "/items/modal/close", url.Values{}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestSessionUnmount(t *testing.T) {
	tc := newTestConsole(t, &itemBackend{records: items(2)}, nil)
	tc.do(t, http.MethodGet, "/items", nil, nil)
	require.Equal(t, 1, tc.svc.Sessions())

	rec := tc.do(t, http.MethodDelete, "/session", nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, tc.svc.Sessions())
}

func TestHomeAndHealth(t *testing.T) {
	tc := newTestConsole(t, &itemBackend{}, nil)

	rec := tc.do(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/items", rec.Header().Get(echo.HeaderLocation))

	rec = tc.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenRequiredAndForwarded(t *testing.T) {
	validator, err := auth.NewJWTValidator("secret", "")
	require.NoError(t, err)
	backend := &itemBackend{records: items(1)}
	tc := newTestConsole(t, backend, validator)

	rec := tc.do(t, http.MethodGet, "/items", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Name:  "admin",
		Roles: []string{"admin"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	rec = tc.do(t, http.MethodGet, "/items", nil, http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, rec.Code)
	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, []string{token}, backend.tokens)

	rec = tc.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestedTopics(t *testing.T) {
	known := []string{"customers", "products", "categories"}

	assert.Equal(t, []string{"customers.invalidated", "products.invalidated", "categories.invalidated"}, requestedTopics("", known))
	assert.Equal(t, []string{"categories.invalidated"}, requestedTopics("productB, category,orders", known))
	assert.Empty(t, requestedTopics("orders", known))
}
