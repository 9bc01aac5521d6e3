package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (handler *Handler) ExportWorkbook(c *fiber.Ctx) error {
	workbook, err := handler.exportService.BuildWorkbook()
	if err != nil {
		return handler.internalError(c, "error.export", err)
	}

	filename := fmt.Sprintf("timesheet-%s.xlsx", handler.today().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(workbook)
}
