package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/hecms/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateLeadFields checks the enumerated fields and the birthdate. The
// browser prototype accepted anything; strict stores call this on every
// write.
func ValidateLeadFields(f entity.LeadFields) []ValidationError {
	var errors []ValidationError

	if !f.Stage.IsValid() {
		errors = append(errors, ValidationError{entity.FieldStage, "must be one of " + joinStages()})
	}
	if !f.Temperature.IsValid() {
		errors = append(errors, ValidationError{entity.FieldTemperature, "must be one of " + joinTemperatures()})
	}
	if f.Birthdate != "" && !isValidDate(f.Birthdate) {
		errors = append(errors, ValidationError{entity.FieldBirthdate, "must be a valid date (YYYY-MM-DD)"})
	}

	return errors
}

// ValidateLead is ValidateLeadFields plus the identity fields.
func ValidateLead(l entity.Lead) []ValidationError {
	errors := ValidateLeadFields(l.Fields())
	if strings.TrimSpace(l.ID) == "" {
		errors = append(errors, ValidationError{entity.FieldID, "is required"})
	}
	if !isValidDate(l.CreatedAt) {
		errors = append(errors, ValidationError{entity.FieldCreatedAt, "must be a valid date (YYYY-MM-DD)"})
	}
	return errors
}

// ValidateLeadChange checks only the fields that differ between before and
// after, so values stored by a lenient install do not block later merges.
func ValidateLeadChange(before, after entity.Lead) []ValidationError {
	var errors []ValidationError
	if after.Stage != before.Stage && !after.Stage.IsValid() {
		errors = append(errors, ValidationError{entity.FieldStage, "must be one of " + joinStages()})
	}
	if after.Temperature != before.Temperature && !after.Temperature.IsValid() {
		errors = append(errors, ValidationError{entity.FieldTemperature, "must be one of " + joinTemperatures()})
	}
	if after.Birthdate != before.Birthdate && after.Birthdate != "" && !isValidDate(after.Birthdate) {
		errors = append(errors, ValidationError{entity.FieldBirthdate, "must be a valid date (YYYY-MM-DD)"})
	}
	return errors
}

func ValidateSortSpec(s entity.SortSpec) []ValidationError {
	var errors []ValidationError
	if s.Key != "" && !entity.IsLeadField(s.Key) {
		errors = append(errors, ValidationError{"sort", "unknown field " + s.Key})
	}
	if s.Dir != "" && !s.Dir.IsValid() {
		errors = append(errors, ValidationError{"dir", "must be asc or desc"})
	}
	return errors
}

func isValidDate(dateStr string) bool {
	_, err := time.Parse(entity.DateLayout, dateStr)
	return err == nil
}

func joinStages() string {
	names := make([]string, len(entity.Stages))
	for i, s := range entity.Stages {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func joinTemperatures() string {
	names := make([]string, len(entity.Temperatures))
	for i, t := range entity.Temperatures {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
