package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

// TestValidatorInit ensures all custom validations are registered
func TestValidatorInit(t *testing.T) {
	validate := validator.New()

	assert.NotPanics(t, func() {
		err := validate.RegisterValidation("nonblank", validateNonBlank)
		assert.NoError(t, err)
	})
	assert.NotPanics(t, func() {
		err := validate.RegisterValidation("period", validatePeriod)
		assert.NoError(t, err)
	})
}

func TestValidateNonBlank(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Text", "Fees are due on Friday", false},
		{"Padded text", "  hello \n", false},
		{"Empty", "", true},
		{"Spaces", "   ", true},
		{"Mixed whitespace", " \t\r\n ", true},
		{"Non-breaking space", "\u00a0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(struct {
				Message string `validate:"nonblank"`
			}{tt.input})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePeriod(t *testing.T) {
	tests := []struct {
		name    string
		period  string
		wantErr bool
	}{
		{"Week", "week", false},
		{"Month", "month", false},
		{"Quarter", "quarter", false},
		{"Year", "year", false},
		{"Empty", "", false},
		{"Unknown", "decade", true},
		{"Wrong case", "Week", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePeriod(tt.period)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	type TestStruct struct {
		Message    string   `validate:"nonblank"`
		Recipients []string `validate:"min=1"`
		Period     string   `validate:"required,period"`
		Email      string   `validate:"required,email"`
	}

	test := TestStruct{
		Message: "  ",
		Period:  "decade",
		Email:   "not-an-email",
	}

	err := Validate(&test)
	assert.Error(t, err)

	errors := FormatError(err)
	assert.Len(t, errors, 4)

	fields := make(map[string]string)
	for _, e := range errors {
		fields[e.Field] = e.Error
		assert.NotEmpty(t, e.Error)
	}

	assert.Equal(t, "Message must not be blank", fields["message"])
	assert.Equal(t, "Recipients must have at least 1 entries", fields["recipients"])
	assert.Contains(t, fields["period"], "week")
	assert.Equal(t, "Invalid email format", fields["email"])

	assert.True(t, HasTag(err, "Message", "nonblank"))
	assert.False(t, HasTag(err, "Message", "required"))
	assert.Empty(t, FormatError(nil))
}

func TestFormatError_Datetime(t *testing.T) {
	type dateRange struct {
		DateFrom string `validate:"omitempty,datetime=2006-01-02"`
		DateTo   string `validate:"omitempty,datetime=2006-01-02"`
	}

	assert.NoError(t, Validate(dateRange{}))
	assert.NoError(t, Validate(dateRange{DateFrom: "2024-01-01", DateTo: "2024-03-31"}))

	err := Validate(dateRange{DateTo: "March"})
	errs := FormatError(err)
	assert.Len(t, errs, 1)
	assert.Equal(t, "dateto", errs[0].Field)
	assert.Equal(t, "DateTo must be a date (YYYY-MM-DD)", errs[0].Error)
}
