package controller

import (
	"docdecode-be/internal/dto"
	"docdecode-be/internal/pkg/serverutils"
	"docdecode-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	GetTranscript(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post(":id/message", c.SendMessage)
	h.Get(":id/transcript", c.GetTranscript)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	id, err := sessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.SendChatMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reply received", res))
}

func (c *chatController) GetTranscript(ctx *fiber.Ctx) error {
	id, err := sessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetTranscript(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get transcript", res))
}
