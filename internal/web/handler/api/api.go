// Package api holds the response helpers shared by the external API handlers.
package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// UnexpectedMessage is the error text of every 500 answer.
const UnexpectedMessage = "An error occurred while processing your request"

// ParseJSON decodes the request body into out whatever the Content-Type header says.
func ParseJSON(c *fiber.Ctx, out any) error {
	if err := c.App().Config().JSONDecoder(c.Body(), out); err != nil {
		return errors.Wrap(err, "decode request body")
	}

	return nil
}

// Error answers status with {"error": message}.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// Unexpected logs err and answers 500 with its message. The stack is only sent in dev mode.
func Unexpected(c *fiber.Ctx, devMode bool, scope string, err error) error {
	log.Error().Err(err).Str("path", c.Path()).Msg(scope + " failed")

	body := fiber.Map{
		"error":   UnexpectedMessage,
		"details": err.Error(),
	}

	if devMode {
		body["stack"] = fmt.Sprintf("%+v", err)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(body)
}
