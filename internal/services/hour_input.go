package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	MinHours      = 1
	MaxDailyHours = 7
)

var (
	ErrHoursOutOfRange   = errors.New("hours must be between 1 and 7")
	ErrHoursExceedBudget = errors.New("hours exceed the remaining daily budget")
)

// Hours is a committed hour count or NoHours.
type Hours struct {
	value int
	set   bool
}

var NoHours = Hours{}

func HoursOf(value int) Hours {
	return Hours{value: value, set: true}
}

func (hours Hours) Value() (int, bool) {
	return hours.value, hours.set
}

func (hours Hours) IsSet() bool {
	return hours.set
}

func (hours Hours) String() string {
	if !hours.set {
		return "—"
	}
	return strconv.Itoa(hours.value)
}

func (hours Hours) MarshalJSON() ([]byte, error) {
	if !hours.set {
		return []byte("null"), nil
	}
	return json.Marshal(hours.value)
}

func (hours *Hours) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*hours = NoHours
		return nil
	}
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("hours: %w", err)
	}
	*hours = HoursOf(value)
	return nil
}

// ValidateHours accepts value when it lies in [1,7] and does not exceed maxHours.
func ValidateHours(value int, maxHours int) error {
	if value < MinHours || value > MaxDailyHours {
		return ErrHoursOutOfRange
	}
	if value > maxHours {
		return fmt.Errorf("%w: %d > %d", ErrHoursExceedBudget, value, maxHours)
	}
	return nil
}

// DigitsOnly drops every non-digit rune from raw.
func DigitsOnly(raw string) string {
	var builder strings.Builder
	for _, char := range raw {
		if char <= unicode.MaxASCII && unicode.IsDigit(char) {
			builder.WriteRune(char)
		}
	}
	return builder.String()
}

type HourButton struct {
	Hour     int  `json:"hour"`
	Disabled bool `json:"disabled"`
	Selected bool `json:"selected"`
}

// HourInput holds the editing state of one day cell.
type HourInput struct {
	value    Hours
	maxHours int
	readOnly bool
}

func NewHourInput(value Hours, maxHours int, readOnly bool) *HourInput {
	return &HourInput{value: value, maxHours: clampMaxHours(maxHours), readOnly: readOnly}
}

func (input *HourInput) Value() Hours {
	return input.value
}

func (input *HourInput) MaxHours() int {
	return input.maxHours
}

func (input *HourInput) ReadOnly() bool {
	return input.readOnly
}

// SetMaxHours changes the budget. A committed value above the new budget is kept.
func (input *HourInput) SetMaxHours(maxHours int) {
	input.maxHours = clampMaxHours(maxHours)
}

// Type handles keystrokes: non-digits are stripped and the value commits only when valid.
func (input *HourInput) Type(raw string) bool {
	if input.readOnly {
		return false
	}
	return input.commitDigits(DigitsOnly(raw))
}

// Confirm behaves like Type, except that an empty value or "0" clears the cell.
func (input *HourInput) Confirm(raw string) bool {
	if input.readOnly {
		return false
	}
	digits := DigitsOnly(raw)
	if digits == "" || digits == "0" {
		input.value = NoHours
		return true
	}
	return input.commitDigits(digits)
}

func (input *HourInput) Select(hour int) bool {
	if input.readOnly {
		return false
	}
	if ValidateHours(hour, input.maxHours) != nil {
		return false
	}
	input.value = HoursOf(hour)
	return true
}

func (input *HourInput) Clear() bool {
	if input.readOnly {
		return false
	}
	input.value = NoHours
	return true
}

func (input *HourInput) Buttons() []HourButton {
	current, hasCurrent := input.value.Value()
	buttons := make([]HourButton, 0, MaxDailyHours)
	for hour := MinHours; hour <= MaxDailyHours; hour++ {
		buttons = append(buttons, HourButton{
			Hour:     hour,
			Disabled: input.readOnly || hour > input.maxHours,
			Selected: hasCurrent && current == hour,
		})
	}
	return buttons
}

func (input *HourInput) commitDigits(digits string) bool {
	if digits == "" {
		return false
	}
	value, err := strconv.Atoi(digits)
	if err != nil {
		return false
	}
	if ValidateHours(value, input.maxHours) != nil {
		return false
	}
	input.value = HoursOf(value)
	return true
}

func clampMaxHours(maxHours int) int {
	if maxHours < 0 {
		return 0
	}
	if maxHours > MaxDailyHours {
		return MaxDailyHours
	}
	return maxHours
}
