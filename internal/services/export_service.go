package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/terraincognita07/timesheet/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	ExportSheetEmployees   = "Employees"
	ExportSheetChargeCodes = "Charge Codes"
	ExportSheetTimeEntries = "Time Entries"
)

type ExportUserSource interface {
	List() ([]models.User, error)
}

type ExportChargeCodeSource interface {
	ListWithEntryCounts() ([]models.ChargeCode, error)
}

type ExportTimeEntrySource interface {
	ListAll() ([]models.TimeEntry, error)
}

type ExportService struct {
	users   ExportUserSource
	codes   ExportChargeCodeSource
	entries ExportTimeEntrySource
}

func NewExportService(users ExportUserSource, codes ExportChargeCodeSource, entries ExportTimeEntrySource) *ExportService {
	return &ExportService{users: users, codes: codes, entries: entries}
}

// BuildWorkbook renders employees, charge codes and time entries as an XLSX file.
func (service *ExportService) BuildWorkbook() ([]byte, error) {
	users, err := service.users.List()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	codes, err := service.codes.ListWithEntryCounts()
	if err != nil {
		return nil, fmt.Errorf("list charge codes: %w", err)
	}
	entries, err := service.entries.ListAll()
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}

	workbook := excelize.NewFile()
	defer func() { _ = workbook.Close() }()

	if err := workbook.SetSheetName(workbook.GetSheetName(0), ExportSheetEmployees); err != nil {
		return nil, err
	}
	employeeRows := make([][]any, 0, len(users)+1)
	employeeRows = append(employeeRows, []any{"Name", "Email", "FMNO", "Roles", "Created"})
	emailByID := make(map[string]string, len(users))
	for _, user := range users {
		emailByID[user.ID] = user.Email
		name := ""
		if user.Name != nil {
			name = *user.Name
		}
		employeeRows = append(employeeRows, []any{
			name,
			user.Email,
			user.FMNO,
			strings.Join(user.Roles.Strings(), ", "),
			user.CreatedAt.UTC().Format(periodDateLayout),
		})
	}
	if err := writeSheetRows(workbook, ExportSheetEmployees, employeeRows); err != nil {
		return nil, err
	}

	codeRows := make([][]any, 0, len(codes)+1)
	codeRows = append(codeRows, []any{"Code", "Description", "Active", "Time Entries"})
	codeByID := make(map[string]string, len(codes))
	for _, code := range codes {
		codeByID[code.ID] = code.Code
		codeRows = append(codeRows, []any{code.Code, code.Description, code.IsActive, code.Count.TimeEntries})
	}
	if err := writeNewSheet(workbook, ExportSheetChargeCodes, codeRows); err != nil {
		return nil, err
	}

	entryRows := make([][]any, 0, len(entries)+1)
	entryRows = append(entryRows, []any{"Date", "Period", "Employee", "Charge Code", "Hours"})
	for _, entry := range entries {
		entryRows = append(entryRows, []any{
			entry.Date.UTC().Format(periodDateLayout),
			PeriodFor(entry.Date.UTC()).Label(),
			emailByID[entry.UserID],
			codeByID[entry.ChargeCodeID],
			entry.Hours,
		})
	}
	if err := writeNewSheet(workbook, ExportSheetTimeEntries, entryRows); err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	if err := workbook.Write(&buffer); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buffer.Bytes(), nil
}

func writeNewSheet(workbook *excelize.File, sheet string, rows [][]any) error {
	if _, err := workbook.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	return writeSheetRows(workbook, sheet, rows)
}

func writeSheetRows(workbook *excelize.File, sheet string, rows [][]any) error {
	for index, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, index+1)
		if err != nil {
			return err
		}
		if err := workbook.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, index+1, err)
		}
	}
	return nil
}
