package callback

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/handlers"
	"github.com/sahilchouksey/thats-my-college/services"
	"github.com/sahilchouksey/thats-my-college/utils/middleware"
	"github.com/sahilchouksey/thats-my-college/utils/query"
	"github.com/sahilchouksey/thats-my-college/utils/response"
	"go.uber.org/zap"
)

// CallbackHandler handles callback request endpoints
type CallbackHandler struct {
	callbacks *services.CallbackService
	authMW    *middleware.AuthMiddleware
	log       *zap.Logger
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(callbacks *services.CallbackService, authMW *middleware.AuthMiddleware, log *zap.Logger) *CallbackHandler {
	return &CallbackHandler{callbacks: callbacks, authMW: authMW, log: log}
}

// CreateCallback handles POST /api/callback-requests. The caller is the
// requesting user; at the limit the response reports the existing requests
// instead of creating one.
func (h *CallbackHandler) CreateCallback(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "callback.create")
	log.Info("initiated")

	caller, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	result, err := h.callbacks.Create(c.UserContext(), caller.ID, h.authMW.Actor(c))
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	if result.IsCallbackRequestExists {
		log.Info("succeeded", zap.Bool("limit_reached", true))
		return response.SuccessWithMessage(c, result.Message, result)
	}

	log.Info("succeeded", zap.Uint("callback_id", result.Request.ID))
	return response.Created(c, result.Message, result)
}

// ListCallbacks handles GET /api/callback-requests/:userId
func (h *CallbackHandler) ListCallbacks(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "callback.list")
	log.Info("initiated")

	userID, err := query.ID(c, "userId")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	requests, err := h.callbacks.ListByUser(c.UserContext(), userID)
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Int("count", len(requests)))
	return response.Success(c, requests)
}

// DeleteCallbacks handles DELETE /api/callback-requests/:userId
func (h *CallbackHandler) DeleteCallbacks(c *fiber.Ctx) error {
	log := handlers.OpLogger(h.log, c, "callback.delete")
	log.Info("initiated")

	userID, err := query.ID(c, "userId")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	deleted, err := h.callbacks.DeleteByUser(c.UserContext(), userID, h.authMW.Actor(c))
	if err != nil {
		return handlers.Fail(c, log, err)
	}

	log.Info("succeeded", zap.Int64("deleted", deleted))
	return response.SuccessWithMessage(c, "Callback requests deleted successfully", fiber.Map{"deleted": deleted})
}
