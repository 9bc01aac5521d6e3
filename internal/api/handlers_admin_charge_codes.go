package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/timesheet/internal/services"
)

func (handler *Handler) ListChargeCodes(c *fiber.Ctx) error {
	codes, err := handler.chargeCodes.List()
	if err != nil {
		return handler.internalError(c, "error.charge_codes_fetch", err)
	}
	return c.JSON(codes)
}

func (handler *Handler) CreateChargeCode(c *fiber.Ctx) error {
	input := services.ChargeCodeInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.mutationFailed(c, fiber.StatusBadRequest, "error.invalid_body", nil)
	}

	code, err := handler.chargeCodes.Create(actorID(c), input)
	if err != nil {
		return handler.chargeCodeMutationFailed(c, "error.charge_code_create", err)
	}

	handler.toastSuccess(c, "toast.charge_code_created")
	return c.Status(fiber.StatusCreated).JSON(code)
}

func (handler *Handler) UpdateChargeCode(c *fiber.Ctx) error {
	input := services.ChargeCodeInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.mutationFailed(c, fiber.StatusBadRequest, "error.invalid_body", nil)
	}

	code, err := handler.chargeCodes.Update(actorID(c), input)
	if err != nil {
		return handler.chargeCodeMutationFailed(c, "error.charge_code_update", err)
	}

	handler.toastSuccess(c, "toast.charge_code_updated")
	return c.JSON(code)
}

func (handler *Handler) DeleteChargeCode(c *fiber.Ctx) error {
	if err := handler.chargeCodes.Delete(actorID(c), c.Query("id")); err != nil {
		return handler.chargeCodeMutationFailed(c, "error.charge_code_delete", err)
	}

	handler.toastSuccess(c, "toast.charge_code_deleted")
	return c.JSON(fiber.Map{"success": true})
}

func (handler *Handler) chargeCodeMutationFailed(c *fiber.Ctx, fallbackKey string, err error) error {
	status, key, known := classifyError(err, chargeCodeErrorMappings)
	if !known {
		handler.toastError(c, fallbackKey)
		return handler.internalError(c, fallbackKey, err)
	}

	var inUse *services.ChargeCodeInUseError
	if errors.As(err, &inUse) {
		return handler.mutationFailed(c, status, key, fiber.Map{"entriesCount": inUse.EntriesCount})
	}
	return handler.mutationFailed(c, status, key, nil)
}
