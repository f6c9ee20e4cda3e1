package controller

import (
	"docdecode-be/internal/dto"
	"docdecode-be/internal/pkg/serverutils"
	"docdecode-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAnalysisController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	SwitchModality(ctx *fiber.Ctx) error
	StageText(ctx *fiber.Ctx) error
	StageFile(ctx *fiber.Ctx) error
	StageCameraFrame(ctx *fiber.Ctx) error
	ClearStagedInput(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	SetSlide(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	LoadFromHistory(ctx *fiber.Ctx) error
}

type analysisController struct {
	service service.IAnalysisService
}

func NewAnalysisController(service service.IAnalysisService) IAnalysisController {
	return &analysisController{service: service}
}

func (c *analysisController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/analysis/v1")
	h.Post("", c.CreateSession)
	h.Get(":id", c.GetSession)
	h.Put(":id/modality", c.SwitchModality)
	h.Post(":id/input/text", c.StageText)
	h.Post(":id/input/file", c.StageFile)
	h.Post(":id/input/camera", c.StageCameraFrame)
	h.Delete(":id/input", c.ClearStagedInput)
	h.Post(":id/analyze", c.Analyze)
	h.Put(":id/slide", c.SetSlide)
	h.Post(":id/reset", c.Reset)
	h.Post(":id/load/:recordId", c.LoadFromHistory)
}

func sessionId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	return id, nil
}

func (c *analysisController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *analysisController) GetSession(ctx *fiber.Ctx) error {
	id, err := sessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetSession(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *analysisController) SwitchModality(ctx *fiber.Ctx) error {
	id, err := sessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.SwitchModalityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SwitchModality(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Modality switched", res))
}

func (c *analysisController) StageText(ctx *fiber.Ctx) error {
	id, err := sessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.StageTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.StageText(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Text staged", res))
}

func (c *analysisController) StageFile(ctx *fiber.Ctx) error {
	id, err := sessionId(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Document file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	res, err := c.service.StageFile(ctx.Context(), id, file, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("File staged", res))
}

func (c *analysisController) StageCameraFrame(ctx *fiber.Ctx) error {
	id, err := sessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.StageCameraFrameRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.StageCameraFrame(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Frame staged", res))
}

func (c *analysisController) ClearStagedInput(ctx *fiber.Ctx) error {
	id, err := sessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ClearStagedInput(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Staged input cleared", res))
}

func (c *analysisController) Analyze(ctx *fiber.Ctx) error {
	id, err := sessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.AnalyzeRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	res, err := c.service.Analyze(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Analysis complete", res))
}

func (c *analysisController) SetSlide(ctx *fiber.Ctx) error {
	id, err := sessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.SetSlideRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.service.SetSlide(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Slide updated", res))
}

func (c *analysisController) Reset(ctx *fiber.Ctx) error {
	id, err := sessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Reset(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session reset", res))
}

func (c *analysisController) LoadFromHistory(ctx *fiber.Ctx) error {
	id, err := sessionId(ctx)
	if err != nil {
		return err
	}

	recordId, err := uuid.Parse(ctx.Params("recordId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid record id")
	}

	res, err := c.service.LoadFromHistory(ctx.Context(), id, recordId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("History loaded", res))
}
