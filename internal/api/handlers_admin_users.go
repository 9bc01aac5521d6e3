package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/timesheet/internal/models"
	"github.com/terraincognita07/timesheet/internal/services"
)

type createdUserResponse struct {
	models.User
	TemporaryPassword string `json:"temporaryPassword"`
}

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := handler.userService.List()
	if err != nil {
		return handler.internalError(c, "error.users_fetch", err)
	}
	return c.JSON(users)
}

func (handler *Handler) CreateUser(c *fiber.Ctx) error {
	input := services.UserInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.mutationFailed(c, fiber.StatusBadRequest, "error.invalid_body", nil)
	}

	created, err := handler.userService.Create(actorID(c), input)
	if err != nil {
		return handler.userMutationFailed(c, "error.user_create", err)
	}

	handler.toastSuccess(c, "toast.user_created")
	return c.Status(fiber.StatusCreated).JSON(createdUserResponse{
		User:              created.User,
		TemporaryPassword: created.TemporaryPassword,
	})
}

func (handler *Handler) UpdateUser(c *fiber.Ctx) error {
	input := services.UserInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.mutationFailed(c, fiber.StatusBadRequest, "error.invalid_body", nil)
	}

	user, err := handler.userService.Update(actorID(c), input)
	if err != nil {
		return handler.userMutationFailed(c, "error.user_update", err)
	}

	handler.toastSuccess(c, "toast.user_updated")
	return c.JSON(user)
}

func (handler *Handler) DeleteUser(c *fiber.Ctx) error {
	if err := handler.userService.Delete(actorID(c), c.Query("id")); err != nil {
		return handler.userMutationFailed(c, "error.user_delete", err)
	}

	handler.toastSuccess(c, "toast.user_deleted")
	return c.JSON(fiber.Map{"success": true})
}

func (handler *Handler) userMutationFailed(c *fiber.Ctx, fallbackKey string, err error) error {
	status, key, known := classifyError(err, userErrorMappings)
	if !known {
		handler.toastError(c, fallbackKey)
		return handler.internalError(c, fallbackKey, err)
	}
	return handler.mutationFailed(c, status, key, nil)
}

func actorID(c *fiber.Ctx) string {
	user, ok := currentUser(c)
	if !ok {
		return ""
	}
	return user.ID
}
