package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"job-scraping/internal/pkg/response"
	"job-scraping/internal/pkg/serrors"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

func TestNormalizeError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"app 4xx keeps message", NewAppError(fiber.StatusConflict, "Job already saved", nil, nil), 409, "Job already saved"},
		{"app 500 hides message", NewAppError(fiber.StatusInternalServerError, "db exploded", nil, errors.New("x")), 500, response.MessageInternalServerError},
		{"app 502 keeps message", NewAppError(fiber.StatusBadGateway, "Failed to send email", nil, nil), 502, "Failed to send email"},
		{"app default message", NewAppError(fiber.StatusNotFound, "", nil, nil), 404, "not found"},
		{"fiber error", fiber.ErrUnauthorized, 401, "Unauthorized"},
		{"fiber 5xx hides message", fiber.NewError(fiber.StatusServiceUnavailable, "redis down"), 503, "service unavailable"},
		{"plain error", errors.New("boom"), 500, response.MessageInternalServerError},
		{"nil error", nil, 500, response.MessageInternalServerError},
		{"public conflict", Public(serrors.With(serrors.ErrConflict, "dup"), "Job already saved"), 409, "Job already saved"},
		{"public transport", Public(fmt.Errorf("send: %w", serrors.Wrap(serrors.ErrTransport, errors.New("eof"), "smtp")), "Failed to send email"), 502, "Failed to send email"},
		{"public internal hides message", Public(serrors.KindOnly(serrors.ErrInternal), "Should not show"), 500, response.MessageInternalServerError},
		{"public without message", Public(serrors.KindOnly(serrors.ErrUnprocessable), ""), 422, "unprocessable entity"},
		{"public untyped cause", Public(errors.New("boom"), "Nope"), 500, response.MessageInternalServerError},
		{"bare kind", fmt.Errorf("lookup: %w", serrors.KindOnly(serrors.ErrNotFound)), 404, "not found"},
		{"bare network kind", serrors.With(serrors.ErrNetwork, "timeout"), 503, "service unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg, _ := normalizeError(tc.err)
			require.Equal(t, tc.status, status)
			require.Equal(t, tc.msg, msg)
		})
	}
}

func TestNormalizeError_DataExposure(t *testing.T) {
	fields := []string{"keyword"}

	_, _, data := normalizeError(NewAppError(fiber.StatusBadRequest, "Invalid request payload", fields, nil))
	require.Equal(t, fields, data)

	_, _, data = normalizeError(NewAppError(fiber.StatusBadGateway, "upstream", fields, nil))
	require.Nil(t, data)
}

func TestStatusForKind(t *testing.T) {
	require.Equal(t, fiber.StatusBadRequest, StatusForKind(serrors.ErrBadRequest))
	require.Equal(t, fiber.StatusUnauthorized, StatusForKind(serrors.ErrUnauthorized))
	require.Equal(t, fiber.StatusNotFound, StatusForKind(serrors.ErrNotFound))
	require.Equal(t, fiber.StatusConflict, StatusForKind(serrors.ErrConflict))
	require.Equal(t, fiber.StatusUnprocessableEntity, StatusForKind(serrors.ErrUnprocessable))
	require.Equal(t, fiber.StatusBadGateway, StatusForKind(serrors.ErrTransport))
	require.Equal(t, fiber.StatusServiceUnavailable, StatusForKind(serrors.ErrRenderTimeout))
	require.Equal(t, fiber.StatusInternalServerError, StatusForKind(serrors.ErrInternal))
	require.Equal(t, fiber.StatusInternalServerError, StatusForKind(nil))
}

func TestBearerTokenFromHeader(t *testing.T) {
	tok, ok := bearerTokenFromHeader("bearer  abc ")
	require.True(t, ok)
	require.Equal(t, "abc", tok)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer   "} {
		_, ok := bearerTokenFromHeader(h)
		require.False(t, ok, h)
	}
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Get("/panic", func(fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestAccessLog_SetsRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(nil).Middleware())
	app.Get("/", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "rid-1", resp.Header.Get("X-Request-ID"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
