package http

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/winkingcatstudios/video-streaming-backend/internal/api/dto"
	"github.com/winkingcatstudios/video-streaming-backend/internal/api/http/handlers"
	"github.com/winkingcatstudios/video-streaming-backend/internal/events"
	"github.com/winkingcatstudios/video-streaming-backend/internal/observability"
	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

var (
	allowedMethods = strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPatch, fiber.MethodDelete, fiber.MethodOptions}, ", ")
	allowedHeaders = "Origin, X-Requested-With, Content-Type, Accept, Authorization"
)

// MiddlewareOptions tunes the global middleware chain.
type MiddlewareOptions struct {
	Timeout      time.Duration
	RateLimitRPM int
	Dispatcher   events.Dispatcher
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, opts MiddlewareOptions) {
	app.Use(errorHandlingMiddleware(logger, metrics, opts.Dispatcher))
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(recoverMiddleware(logger))
	app.Use(cors.New(cors.Config{
		Next:         func(c *fiber.Ctx) bool { return c.Method() == fiber.MethodOptions },
		AllowOrigins: "*",
		AllowMethods: allowedMethods,
		AllowHeaders: allowedHeaders,
	}))
	app.Options("/*", preflight)
	if opts.RateLimitRPM > 0 {
		app.Use(NewRateLimiter(opts.RateLimitRPM).Handler())
	}
	if opts.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(opts.Timeout))
	}
}

// preflight answers every OPTIONS request with 200.
func preflight(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, allowedMethods)
	c.Set(fiber.HeaderAccessControlAllowHeaders, allowedHeaders)
	return c.SendStatus(fiber.StatusOK)
}

// recoverMiddleware turns a handler panic into an ordinary 500 so the request
// logger still records it.
func recoverMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewAppError(apperrors.KindUnknown, "", 0, nil)
			}
		}()
		return c.Next()
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware is the terminal error pipeline. It schedules removal
// of any upload saved for a failed request and renders {"message": ...} with
// the error's status. Panics raised outside recoverMiddleware end here too.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, dispatcher events.Dispatcher) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewAppError(apperrors.KindUnknown, "", 0, nil)
			}
			if err == nil {
				return
			}

			appErr := apperrors.ToAppError(err)
			if file := handlers.UploadedFile(c); file != "" && dispatcher != nil {
				event := events.NewEvent(events.EventFileOrphaned, "", events.FileOrphanedPayload{Path: file, Reason: "request failed"})
				if pubErr := dispatcher.Publish(c.UserContext(), event); pubErr != nil {
					logger.Warn("upload cleanup failed", zap.String("path", file), zap.Error(pubErr))
				}
			}
			metrics.RecordError(observability.RouteKey(c), c.Method(), string(appErr.Kind))

			if appErr.HTTPStatus >= fiber.StatusInternalServerError {
				logger.Error("request failed",
					zap.String("request_id", observability.RequestID(c)),
					zap.String("kind", string(appErr.Kind)),
					zap.Error(appErr))
			} else if len(appErr.Violations) > 0 {
				logger.Debug("validation failed", zap.Any("violations", appErr.Violations))
			}

			if c.Response().IsBodyStream() {
				// headers already committed; let fiber's ErrorHandler deal with it
				return
			}
			c.Status(appErr.HTTPStatus)
			err = c.JSON(dto.MessageResponse{Message: appErr.Message})
		}()
		return c.Next()
	}
}

// ErrorHandler is installed as fiber's ErrorHandler. It only sees errors the
// pipeline could not render itself.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := apperrors.ToAppError(err)
		if c.Response().IsBodyStream() {
			logger.Warn("error after response started", zap.Error(err))
			return nil
		}
		return c.Status(appErr.HTTPStatus).JSON(dto.MessageResponse{Message: appErr.Message})
	}
}

// NotFound is the last handler in the chain.
func NotFound(c *fiber.Ctx) error {
	return apperrors.NewNotFound("Could not find this route")
}
