package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/sahilchouksey/thats-my-college/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decode(t *testing.T, app *fiber.App, method, path string) (int, response.Response) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body response.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandlerUnknownRoute(t *testing.T) {
	app := fiber.New(Config(zap.NewNop()))

	status, body := decode(t, app, fiber.MethodGet, "/nowhere")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, body.Status)
	require.NotNil(t, body.Error)
	assert.Equal(t, string(apperror.KindNotFound), body.Error.Code)
}

func TestErrorHandlerAppError(t *testing.T) {
	app := fiber.New(Config(zap.NewNop()))
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return apperror.Conflict("College already exists")
	})
	app.Get("/bad", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad input")
	})

	status, body := decode(t, app, fiber.MethodGet, "/conflict")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "College already exists", body.Message)

	status, body = decode(t, app, fiber.MethodGet, "/bad")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "bad input", body.Message)
}
