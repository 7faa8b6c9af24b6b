package handlers

import (
	"errors"
	"fmt"

	"shopsphere/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidProduct),
		errors.Is(err, services.ErrEmptyCart):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrCheckoutInProgress):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrSubmissionFailed):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// errorResponse writes the standard error body for err.
func errorResponse(c *fiber.Ctx, message string, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// validationResponse writes a 400 listing the failed fields.
func validationResponse(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// parseAndValidate binds the request body into req and validates it.
// A non-nil return means the response has already been written.
func parseAndValidate(c *fiber.Ctx, validate *validator.Validate, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validate.Struct(req); err != nil {
		return false, validationResponse(c, err)
	}
	return true, nil
}
