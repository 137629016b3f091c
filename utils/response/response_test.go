package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serve(t *testing.T, handler fiber.Handler) (int, Response) {
	t.Helper()
	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out Response
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestFromErrorStatusCodes(t *testing.T) {
	cases := map[apperror.Kind]int{
		apperror.KindNotFound:     fiber.StatusNotFound,
		apperror.KindUnauthorized: fiber.StatusUnauthorized,
		apperror.KindForbidden:    fiber.StatusForbidden,
		apperror.KindValidation:   fiber.StatusUnprocessableEntity,
		apperror.KindConflict:     fiber.StatusConflict,
		apperror.KindInternal:     fiber.StatusInternalServerError,
	}

	for kind, want := range cases {
		t.Run(string(kind), func(t *testing.T) {
			status, body := serve(t, func(c *fiber.Ctx) error {
				return FromError(c, apperror.New(kind, "boom"), zap.NewNop())
			})
			assert.Equal(t, want, status)
			assert.False(t, body.Status)
			require.NotNil(t, body.Error)
			assert.Equal(t, string(kind), body.Error.Code)
			assert.Equal(t, "boom", body.Error.Message)
		})
	}
}

func TestFromErrorHidesUnknownErrors(t *testing.T) {
	status, body := serve(t, func(c *fiber.Ctx) error {
		return FromError(c, errors.New("pq: connection refused"), zap.NewNop())
	})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body.Error.Message)
}

func TestFromErrorHidesInternalCause(t *testing.T) {
	_, body := serve(t, func(c *fiber.Ctx) error {
		return FromError(c, apperror.Internal("Failed to load user", errors.New("secret dsn")), zap.NewNop())
	})
	assert.Equal(t, "Failed to load user", body.Error.Message)
	assert.NotContains(t, body.Message, "secret")
}

func TestPaginated(t *testing.T) {
	status, body := serve(t, func(c *fiber.Ctx) error {
		return Paginated(c, []int{1, 2}, CalculatePagination(2, 5, 12))
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, body.Status)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 3, body.Pagination.TotalPages)
	assert.Equal(t, 2, body.Pagination.CurrentPage)
}

func TestCalculatePaginationClamps(t *testing.T) {
	meta := CalculatePagination(0, 500, 250)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 100, meta.PerPage)
	assert.Equal(t, 3, meta.TotalPages)
}
