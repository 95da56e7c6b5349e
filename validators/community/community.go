package communityValidators

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"peerlearn/middleware"
)

var validate = validator.New()

type CreateCommunityRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"required,min=2,max=50"`
}

type AddResourceRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=200"`
	ResourceType string `json:"resource_type" validate:"required,oneof=video document link meet_link"`
	URL          string `json:"url" validate:"required,url"`
}

type CreateSessionRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	MeetLink    string `json:"meet_link" validate:"required,url"`
	ScheduledAt string `json:"scheduled_at" validate:"required"`
}

// fieldErrors flattens validator errors into the response map shape.
func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				errors[field] = "This field is required!"
			case "oneof":
				errors[field] = "Must be one of: " + fe.Param()
			case "url":
				errors[field] = "Must be a valid URL!"
			case "min":
				errors[field] = "Too short (min " + fe.Param() + ")!"
			case "max":
				errors[field] = "Too long (max " + fe.Param() + ")!"
			default:
				errors[field] = "Invalid value!"
			}
		}
	}
	return errors
}

func CreateCommunity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCommunityRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedCommunity", reqData)
		return c.Next()
	}
}

func AddResource() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddResourceRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedResource", reqData)
		return c.Next()
	}
}

func CreateSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateSessionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedSession", reqData)
		return c.Next()
	}
}
