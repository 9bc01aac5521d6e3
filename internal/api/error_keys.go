package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/timesheet/internal/services"
)

type errorMapping struct {
	target error
	status int
	key    string
}

var userErrorMappings = []errorMapping{
	{services.ErrUserFieldsRequired, fiber.StatusBadRequest, "error.user_fields_required"},
	{services.ErrUserEmailInvalid, fiber.StatusBadRequest, "error.user_email_invalid"},
	{services.ErrUserFMNOInvalid, fiber.StatusBadRequest, "error.user_fmno_invalid"},
	{services.ErrUserRolesRequired, fiber.StatusBadRequest, "error.user_roles_required"},
	{services.ErrUserRoleInvalid, fiber.StatusBadRequest, "error.user_role_invalid"},
	{services.ErrUserAlreadyExists, fiber.StatusBadRequest, "error.user_exists"},
	{services.ErrUserIDRequired, fiber.StatusBadRequest, "error.user_id_required"},
	{services.ErrUserSelfDelete, fiber.StatusBadRequest, "error.user_self_delete"},
	{services.ErrUserNotFound, fiber.StatusNotFound, "error.user_not_found"},
	{services.ErrUserNameInvalid, fiber.StatusBadRequest, "error.user_name_invalid"},
}

var chargeCodeErrorMappings = []errorMapping{
	{services.ErrChargeCodeFieldsRequired, fiber.StatusBadRequest, "error.charge_code_fields_required"},
	{services.ErrChargeCodeInvalid, fiber.StatusBadRequest, "error.charge_code_invalid"},
	{services.ErrChargeCodeTextInvalid, fiber.StatusBadRequest, "error.charge_code_text_invalid"},
	{services.ErrChargeCodeExists, fiber.StatusBadRequest, "error.charge_code_exists"},
	{services.ErrChargeCodeIDRequired, fiber.StatusBadRequest, "error.charge_code_id_required"},
	{services.ErrChargeCodeImmutable, fiber.StatusBadRequest, "error.charge_code_immutable"},
	{services.ErrChargeCodeInUse, fiber.StatusBadRequest, "error.charge_code_in_use"},
	{services.ErrChargeCodeNotFound, fiber.StatusNotFound, "error.charge_code_not_found"},
}

var settingsErrorMappings = []errorMapping{
	{services.ErrInvalidPeriodStart, fiber.StatusBadRequest, "error.settings_invalid_period"},
	{services.ErrEditableWindowInverted, fiber.StatusBadRequest, "error.settings_inverted"},
}

var timeEntryErrorMappings = []errorMapping{
	{services.ErrTimeEntryDateInvalid, fiber.StatusBadRequest, "error.entry_date_invalid"},
	{services.ErrTimeEntryWeekend, fiber.StatusBadRequest, "error.entry_weekend"},
	{services.ErrTimeEntryOutsideWindow, fiber.StatusBadRequest, "error.entry_outside_window"},
	{services.ErrTimeEntryChargeCodeEmpty, fiber.StatusBadRequest, "error.charge_code_id_required"},
	{services.ErrHoursOutOfRange, fiber.StatusBadRequest, "error.entry_hours_range"},
	{services.ErrHoursExceedBudget, fiber.StatusBadRequest, "error.entry_hours_budget"},
	{services.ErrChargeCodeInactive, fiber.StatusBadRequest, "error.charge_code_inactive"},
	{services.ErrChargeCodeNotFound, fiber.StatusNotFound, "error.charge_code_not_found"},
	{services.ErrTimeEntryIDRequired, fiber.StatusBadRequest, "error.entry_id_required"},
	{services.ErrTimeEntryNotFound, fiber.StatusNotFound, "error.entry_not_found"},
}

var passwordErrorMappings = []errorMapping{
	{services.ErrWeakPassword, fiber.StatusBadRequest, "error.weak_password"},
	{services.ErrAuthCurrentPasswordWrong, fiber.StatusBadRequest, "error.current_password_wrong"},
	{services.ErrAuthPasswordUnchanged, fiber.StatusBadRequest, "error.password_unchanged"},
	{services.ErrUserNotFound, fiber.StatusUnauthorized, "error.unauthorized"},
}

// classifyError finds the first mapping err matches; ok is false for unexpected errors.
func classifyError(err error, mappings []errorMapping) (int, string, bool) {
	for _, mapping := range mappings {
		if errors.Is(err, mapping.target) {
			return mapping.status, mapping.key, true
		}
	}
	return fiber.StatusInternalServerError, "", false
}
