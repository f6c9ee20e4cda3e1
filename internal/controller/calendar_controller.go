package controller

import (
	"docdecode-be/internal/dto"
	"docdecode-be/internal/entity"
	"docdecode-be/internal/pkg/serverutils"
	"docdecode-be/pkg/calendar"

	"github.com/gofiber/fiber/v2"
)

type ICalendarController interface {
	RegisterRoutes(r fiber.Router)
	BuildLink(ctx *fiber.Ctx) error
}

type calendarController struct{}

func NewCalendarController() ICalendarController {
	return &calendarController{}
}

func (c *calendarController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/calendar/v1")
	h.Post("link", c.BuildLink)
}

func (c *calendarController) BuildLink(ctx *fiber.Ctx) error {
	var req dto.CalendarLinkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	url := calendar.EventURL(entity.Reminder{
		Title:       req.Title,
		Date:        req.Date,
		Description: req.Description,
	})

	return ctx.JSON(serverutils.SuccessResponse("Calendar link built", dto.CalendarLinkResponse{Url: url}))
}
