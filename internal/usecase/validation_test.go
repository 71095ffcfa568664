package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/hecms/internal/entity"
)

func TestValidateLeadFields(t *testing.T) {
	valid := entity.LeadFields{Stage: entity.StageLead, Temperature: entity.TemperatureWarm, Birthdate: "1998-04-12"}
	assert.Empty(t, ValidateLeadFields(valid))

	bad := entity.LeadFields{Stage: "Enrolled", Temperature: "Lukewarm", Birthdate: "1998-02-30"}
	errs := ValidateLeadFields(bad)
	assert.Len(t, errs, 3)
}

func TestValidateLead(t *testing.T) {
	l := entity.Lead{Stage: entity.StageLead, Temperature: entity.TemperatureWarm}

	errs := ValidateLead(l)

	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.ElementsMatch(t, []string{entity.FieldID, entity.FieldCreatedAt}, fields)
}

func TestValidateLeadChange(t *testing.T) {
	legacy := entity.Lead{ID: "1", Stage: "Prospect", Temperature: ""}

	t.Run("untouched legacy values pass", func(t *testing.T) {
		after := legacy
		after.Notes = "called"
		assert.Empty(t, ValidateLeadChange(legacy, after))
	})

	t.Run("changed values must be valid", func(t *testing.T) {
		after := legacy
		after.Stage = "Enrolled"
		errs := ValidateLeadChange(legacy, after)
		assert.Len(t, errs, 1)
		assert.Equal(t, entity.FieldStage, errs[0].Field)
	})

	t.Run("valid change passes", func(t *testing.T) {
		after := legacy
		after.Stage = entity.StageApplied
		assert.Empty(t, ValidateLeadChange(legacy, after))
	})
}

func TestValidateSortSpec(t *testing.T) {
	assert.Empty(t, ValidateSortSpec(entity.SortSpec{}))
	assert.Empty(t, ValidateSortSpec(entity.SortSpec{Key: entity.FieldNotes, Dir: entity.SortDesc}))
	assert.Len(t, ValidateSortSpec(entity.SortSpec{Key: "shoeSize", Dir: "sideways"}), 2)
}
