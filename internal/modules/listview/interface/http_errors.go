package transport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"acornAdmin/internal/modules/listview/application/port"
	"acornAdmin/internal/modules/listview/application/usecase"
	"acornAdmin/internal/modules/listview/domain"
	"acornAdmin/internal/shared/auth"
	"acornAdmin/internal/shared/httputil"
)

var (
	errMalformedDate   = errors.New("malformed date")
	errMalformedNumber = errors.New("malformed number")
	errUnsupported     = errors.New("operation not available on this screen")
)

// NewErrorMapper maps list view errors onto HTTP statuses with user-facing messages.
func NewErrorMapper() *httputil.ErrorMapper {
	return httputil.NewErrorMapper().
		WithMapping(usecase.ErrInvalidPayload, http.StatusBadRequest, "입력값을 확인해 주세요.").
		WithMapping(domain.ErrInvalidDateRange, http.StatusBadRequest, "시작일이 종료일보다 늦습니다.").
		WithMapping(domain.ErrUnknownField, http.StatusBadRequest, "알 수 없는 검색 항목입니다.").
		WithMapping(errMalformedDate, http.StatusBadRequest, "날짜 형식이 올바르지 않습니다.").
		WithMapping(errMalformedNumber, http.StatusBadRequest, "숫자 형식이 올바르지 않습니다.").
		WithMapping(port.ErrMutationRejected, http.StatusBadRequest, "요청이 거부되었습니다.").
		WithMapping(usecase.ErrNothingSelected, http.StatusConflict, "선택된 항목이 없습니다.").
		WithMapping(usecase.ErrModalClosed, http.StatusConflict, "창이 닫혀 있습니다.").
		WithMapping(port.ErrRecordNotFound, http.StatusNotFound, "항목을 찾을 수 없습니다.").
		WithMapping(errUnsupported, http.StatusNotFound, "지원하지 않는 기능입니다.").
		WithMapping(auth.ErrMissingToken, http.StatusUnauthorized, "로그인이 필요합니다.").
		WithMapping(auth.ErrInvalidToken, http.StatusUnauthorized, "인증이 만료되었습니다.").
		WithMapping(auth.ErrForbidden, http.StatusForbidden, "권한이 없습니다.").
		WithMapping(port.ErrCollectionForbidden, http.StatusForbidden, "권한이 없습니다.").
		WithMapping(port.ErrFetchFailed, http.StatusBadGateway, "데이터를 가져오는데 실패했습니다.").
		WithDefault(http.StatusInternalServerError, "서버 오류가 발생했습니다.")
}

// jsonError writes the mapped error as JSON.
func jsonError(c echo.Context, mapper *httputil.ErrorMapper, err error) error {
	info := mapper.Map(err)
	logMapped(c, info, err)
	return c.JSON(info.Status, info)
}

func logMapped(c echo.Context, info httputil.HTTPErrorInfo, err error) {
	attrs := []any{
		slog.String("method", c.Request().Method),
		slog.String("path", c.Path()),
		slog.Int("status", info.Status),
		slog.Any("error", err),
	}
	if info.Status >= http.StatusInternalServerError {
		slog.Error("request failed", attrs...)
		return
	}
	slog.Warn("request rejected", attrs...)
}
