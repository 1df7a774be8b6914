package response

import "github.com/gofiber/fiber/v3"

// SemanticResponse is the envelope every JSON endpoint answers with.
type SemanticResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

const (
	MessageOK                   = "ok"
	MessageBadRequest           = "bad request"
	MessageNotFound             = "not found"
	MessageRequestTooLarge      = "request entity too large"
	MessageUnsupportedMediaType = "unsupported media type"
	MessageUnprocessableEntity  = "unprocessable entity"
	MessageInternalServerError  = "internal server error"
	MessageServiceUnavailable   = "service unavailable"
	MessageError                = "error"
)

const ContentTypeMarkdown = "text/markdown; charset=utf-8"

func Success(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data)
}

func Error(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data)
}

// Markdown sends body as text/markdown outside the JSON envelope.
func Markdown(c fiber.Ctx, status int, body string) error {
	c.Set(fiber.HeaderContentType, ContentTypeMarkdown)
	return c.Status(NormalizeStatus(status)).SendString(body)
}

func write(c fiber.Ctx, status int, message string, data interface{}) error {
	st := NormalizeStatus(status)
	if message == "" {
		message = DefaultMessage(st)
	}
	return c.Status(st).JSON(SemanticResponse{Status: st, Message: message, Data: data})
}

func NormalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func DefaultMessage(status int) string {
	switch status {
	case fiber.StatusOK:
		return MessageOK
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusRequestEntityTooLarge:
		return MessageRequestTooLarge
	case fiber.StatusUnsupportedMediaType:
		return MessageUnsupportedMediaType
	case fiber.StatusUnprocessableEntity:
		return MessageUnprocessableEntity
	case fiber.StatusServiceUnavailable:
		return MessageServiceUnavailable
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}
