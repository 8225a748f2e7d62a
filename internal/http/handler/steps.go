package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"caseflow/internal/model"
	"caseflow/internal/service"
)

type replyRequest struct {
	Content string `json:"content"`
}

type completeRequest struct {
	Summary string `json:"summary"`
}

func stepID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// stepAction wraps the boilerplate shared by the step endpoints.
func stepAction(do func(c *fiber.Ctx, id string) (*model.WorkflowStep, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := stepID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		step, err := do(c, id)
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return writeError(c, fe.Code, "INVALID_BODY", fe.Message)
			}
			return writeServiceError(c, err)
		}
		return c.JSON(step)
	}
}

// AcceptStep acknowledges receipt by the assigned unit.
//
// @Summary Accept a workflow step
// @Tags workflow
// @Produce json
// @Param id path string true "step id"
// @Success 200 {object} model.WorkflowStep
// @Failure 409 {object} errorPayload
// @Router /steps/{id}/accept [post]
func AcceptStep(svc service.RoutingService) fiber.Handler {
	return stepAction(func(c *fiber.Ctx, id string) (*model.WorkflowStep, error) {
		return svc.Accept(c.UserContext(), id)
	})
}

// ReplyStep records the unit's reply.
func ReplyStep(svc service.RoutingService) fiber.Handler {
	return stepAction(func(c *fiber.Ctx, id string) (*model.WorkflowStep, error) {
		var req replyRequest
		if err := c.BodyParser(&req); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		return svc.Reply(c.UserContext(), id, req.Content)
	})
}

// TransferStep hands the document to another unit.
//
// @Summary Transfer a workflow step
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path string true "step id"
// @Param body body service.TransferInput true "target unit"
// @Success 200 {object} model.WorkflowStep
// @Router /steps/{id}/transfer [post]
func TransferStep(svc service.RoutingService) fiber.Handler {
	return stepAction(func(c *fiber.Ctx, id string) (*model.WorkflowStep, error) {
		var in service.TransferInput
		if err := c.BodyParser(&in); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		in.StepID = id
		return svc.Transfer(c.UserContext(), in)
	})
}

// CompleteStep closes the step with a result summary.
func CompleteStep(svc service.RoutingService) fiber.Handler {
	return stepAction(func(c *fiber.Ctx, id string) (*model.WorkflowStep, error) {
		var req completeRequest
		if err := c.BodyParser(&req); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		return svc.Complete(c.UserContext(), id, req.Summary)
	})
}
