package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/utils/response"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type APIServer struct {
	app           *fiber.App
	listenAddress string
	log           *zap.Logger
}

func NewAPIServer(listenAddress string, log *zap.Logger) *APIServer {
	return &APIServer{
		app:           fiber.New(Config(log)),
		listenAddress: listenAddress,
		log:           log,
	}
}

// Config is the fiber configuration shared by the server and route tests
func Config(log *zap.Logger) fiber.Config {
	return fiber.Config{
		AppName:      "thats-my-college-api",
		ErrorHandler: ErrorHandler(log),
	}
}

// ErrorHandler renders errors that escape the handlers in the response
// envelope. Fiber errors keep their status; anything else is a 500.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusNotFound:
				return response.NotFound(c, "Route not found")
			case fiber.StatusMethodNotAllowed:
				return response.Error(c, fe.Code, fe.Message, "METHOD_NOT_ALLOWED")
			case fiber.StatusRequestEntityTooLarge:
				return response.Error(c, fe.Code, fe.Message, "PAYLOAD_TOO_LARGE")
			}
			if fe.Code < fiber.StatusInternalServerError {
				return response.Error(c, fe.Code, fe.Message, "BAD_REQUEST")
			}
		}
		return response.FromError(c, err, log)
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

// Run listens until ctx is cancelled, then drains in-flight requests
func (s *APIServer) Run(ctx context.Context) error {
	s.log.Info("starting API server", zap.String("address", s.listenAddress))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.listenAddress)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.app.ShutdownWithContext(shutdownCtx)
}
