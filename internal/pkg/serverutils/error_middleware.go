package serverutils

import (
	"errors"
	"strings"

	"docdecode-be/internal/constant"
	"docdecode-be/internal/service"
	"docdecode-be/pkg/analyzer"
	"docdecode-be/pkg/capture"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps service sentinel errors to HTTP statuses so
// controllers can simply bubble errors up.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		switch {
		case errors.Is(err, capture.ErrNoInputSelected),
			errors.Is(err, capture.ErrInputReadError),
			errors.Is(err, capture.ErrCameraUnavailable),
			errors.Is(err, service.ErrNoStagedInput),
			errors.Is(err, service.ErrUnknownModality),
			strings.HasPrefix(err.Error(), "validation failed"):
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse(400, err.Error()))

		case errors.Is(err, service.ErrSessionNotFound),
			errors.Is(err, service.ErrHistoryNotFound):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse(404, err.Error()))

		case errors.Is(err, service.ErrSubmissionInFlight),
			errors.Is(err, service.ErrChatBusy),
			errors.Is(err, service.ErrChatUnavailable),
			errors.Is(err, service.ErrNoAnalysis),
			errors.Is(err, service.ErrStaleSubmission):
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse(409, err.Error()))

		case errors.Is(err, service.ErrAnalysisFailed),
			errors.Is(err, analyzer.ErrMalformedModelResponse):
			// The caller gets the same generic message as a transport failure;
			// the distinction only matters for logs and audit events.
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse(502, constant.AnalysisFailedMessage))
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, err.Error()))
	}
}
