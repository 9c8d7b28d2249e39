package validator

import (
	"strings"
	"testing"

	"courtfinder/pkg/logger"
	"courtfinder/pkg/model"
)

func testValidator() *CourtValidator {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewCourtValidator(log)
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func TestValidateUpdate_OpeningHours(t *testing.T) {
	cv := testValidator()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty string", "", false},
		{"single day", "Mo 09:00-17:00", false},
		{"day range", "Mo-Fr 07:30-22:00", false},
		{"multiple segments", "Mo-Fr 08:00-22:00; Sa-Su 10:00-20:00", false},
		{"comma separated days", "Mo,We,Fr 09:00-17:00", false},
		{"unknown day codes only", "Xx 09:00-17:00", false},
		{"missing end time", "Mo 08:00", true},
		{"mixed valid and half interval", "Mo 09:00-17:00; Tu 08:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cv.ValidateUpdate(&model.CourtUpdate{OpeningHours: strPtr(tt.value)})
			if tt.wantErr && err == nil {
				t.Errorf("expected %q to be rejected", tt.value)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected %q to be accepted, got: %v", tt.value, err)
			}
		})
	}
}

func TestValidateUpdate_FieldRanges(t *testing.T) {
	cv := testValidator()

	tests := []struct {
		name    string
		updates *model.CourtUpdate
		wantErr bool
	}{
		{"valid hoops", &model.CourtUpdate{Hoops: intPtr(4)}, false},
		{"negative hoops", &model.CourtUpdate{Hoops: intPtr(-1)}, true},
		{"too many hoops", &model.CourtUpdate{Hoops: intPtr(51)}, true},
		{"valid netting", &model.CourtUpdate{Netting: intPtr(3)}, false},
		{"netting out of range", &model.CourtUpdate{Netting: intPtr(4)}, true},
		{"rim type out of range", &model.CourtUpdate{RimType: intPtr(9)}, true},
		{"valid rim height", &model.CourtUpdate{RimHeight: floatPtr(3.05)}, false},
		{"rim height out of range", &model.CourtUpdate{RimHeight: floatPtr(6.5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cv.ValidateUpdate(tt.updates)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidationErrors_Message(t *testing.T) {
	errs := ValidationErrors{
		{Field: "Hoops", Message: "must be at least 0"},
		{Field: "OpeningHours", Message: "is not a valid opening hours expression"},
	}

	msg := errs.Error()
	if msg == "" {
		t.Fatal("expected a non-empty message")
	}
	for _, want := range []string{"2 error(s)", "Hoops", "OpeningHours"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q, got %q", want, msg)
		}
	}
}
