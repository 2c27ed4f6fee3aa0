package response

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	require.Equal(t, MessageOK, Message(fiber.StatusOK))
	require.Equal(t, "not found", Message(fiber.StatusNotFound))
	require.Equal(t, "bad gateway", Message(fiber.StatusBadGateway))
	require.Equal(t, "error", Message(fiber.StatusTeapot))
	require.Equal(t, MessageInternalServerError, Message(fiber.StatusGatewayTimeout))
	require.Equal(t, MessageOK, Message(fiber.StatusNoContent))
}

func TestWrite_Envelope(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c fiber.Ctx) error { return Success(c, fiber.StatusCreated, "Job saved", map[string]int{"n": 1}) })
	app.Get("/default", func(c fiber.Ctx) error { return Error(c, fiber.StatusServiceUnavailable, "", nil) })
	app.Get("/bogus", func(c fiber.Ctx) error { return Error(c, 42, "", nil) })

	for _, tc := range []struct {
		path   string
		status int
		msg    string
	}{
		{"/ok", fiber.StatusCreated, "Job saved"},
		{"/default", fiber.StatusServiceUnavailable, "service unavailable"},
		{"/bogus", fiber.StatusInternalServerError, MessageInternalServerError},
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		_ = resp.Body.Close()

		var env SemanticResponse
		require.NoError(t, json.Unmarshal(raw, &env))
		require.Equal(t, tc.status, resp.StatusCode, tc.path)
		require.Equal(t, tc.status, env.Status, tc.path)
		require.Equal(t, tc.msg, env.Message, tc.path)
	}
}
