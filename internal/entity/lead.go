package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stage is the lead's position in the admissions pipeline.
type Stage string

const (
	StageLead         Stage = "Lead"
	StageInterested   Stage = "Interested"
	StageApplied      Stage = "Applied"
	StageAccepted     Stage = "Accepted"
	StageDeposited    Stage = "Deposited"
	StageMatriculated Stage = "Matriculated"
	StageDeclined     Stage = "Declined"
)

// Stages is the pipeline in order. The first entry is the initial stage.
var Stages = []Stage{
	StageLead,
	StageInterested,
	StageApplied,
	StageAccepted,
	StageDeposited,
	StageMatriculated,
	StageDeclined,
}

func (s Stage) IsValid() bool {
	for _, v := range Stages {
		if v == s {
			return true
		}
	}
	return false
}

// Temperature is an engagement rating, independent of stage.
type Temperature string

const (
	TemperatureHot           Temperature = "Hot"
	TemperatureWarm          Temperature = "Warm"
	TemperatureCold          Temperature = "Cold"
	TemperatureNonresponsive Temperature = "Nonresponsive"
)

var Temperatures = []Temperature{
	TemperatureHot,
	TemperatureWarm,
	TemperatureCold,
	TemperatureNonresponsive,
}

// DefaultTemperature is applied when a new lead arrives without one.
const DefaultTemperature = TemperatureWarm

func (t Temperature) IsValid() bool {
	for _, v := range Temperatures {
		if v == t {
			return true
		}
	}
	return false
}

// Programs are the suggestions offered by the UI. Program is free text and
// this list is never enforced.
var Programs = []string{
	"RN to BSN (Online)",
	"MS in Health Informatics",
	"Hybrid DPT",
	"MSW Online",
	"MBA Online",
	"MS in Data Science",
}

// DateLayout is the calendar date format used for birthdate and createdAt.
const DateLayout = "2006-01-02"

// Lead is a prospective student. JSON names match the blobs written by the
// browser prototype so existing data loads unchanged.
type Lead struct {
	ID          string      `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	Program     string      `json:"program"`
	Birthdate   string      `json:"birthdate"`
	Stage       Stage       `json:"stage"`
	Temperature Temperature `json:"temperature"`
	CreatedAt   string      `json:"createdAt"`
	Notes       string      `json:"notes"`
}

// LeadFields is the mutable part of a Lead: everything except id and
// createdAt. Create and update both take the full set.
type LeadFields struct {
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	Program     string      `json:"program"`
	Birthdate   string      `json:"birthdate"`
	Stage       Stage       `json:"stage"`
	Temperature Temperature `json:"temperature"`
	Notes       string      `json:"notes"`
}

// Factory
func NewLead(id string, f LeadFields, now time.Time) Lead {
	if id == "" {
		id = uuid.New().String()
	}
	if f.Stage == "" {
		f.Stage = Stages[0]
	}
	if f.Temperature == "" {
		f.Temperature = DefaultTemperature
	}
	l := Lead{ID: id, CreatedAt: now.Format(DateLayout)}
	l.Apply(f)
	return l
}

// Apply replaces every mutable field with the values in f.
func (l *Lead) Apply(f LeadFields) {
	l.FirstName = NormalizeNewlines(f.FirstName)
	l.LastName = NormalizeNewlines(f.LastName)
	l.Email = NormalizeNewlines(f.Email)
	l.Phone = NormalizeNewlines(f.Phone)
	l.Address = NormalizeNewlines(f.Address)
	l.Program = NormalizeNewlines(f.Program)
	l.Birthdate = NormalizeNewlines(f.Birthdate)
	l.Stage = Stage(NormalizeNewlines(string(f.Stage)))
	l.Temperature = Temperature(NormalizeNewlines(string(f.Temperature)))
	l.Notes = NormalizeNewlines(f.Notes)
}

// Normalize rewrites every stored value into the form that survives an
// export and re-import.
func (l *Lead) Normalize() {
	l.ID = NormalizeNewlines(l.ID)
	l.CreatedAt = NormalizeNewlines(l.CreatedAt)
	l.Apply(l.Fields())
}

// NormalizeNewlines turns CRLF into LF. The CSV reader does the same inside
// quoted values, so stored text never holds a CRLF.
func NormalizeNewlines(v string) string {
	for strings.Contains(v, "\r\n") {
		v = strings.ReplaceAll(v, "\r\n", "\n")
	}
	return v
}

func (l Lead) Fields() LeadFields {
	return LeadFields{
		FirstName:   l.FirstName,
		LastName:    l.LastName,
		Email:       l.Email,
		Phone:       l.Phone,
		Address:     l.Address,
		Program:     l.Program,
		Birthdate:   l.Birthdate,
		Stage:       l.Stage,
		Temperature: l.Temperature,
		Notes:       l.Notes,
	}
}

func (l Lead) FullName() string {
	switch {
	case l.FirstName == "":
		return l.LastName
	case l.LastName == "":
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// Field names, shared by the CSV columns, sort keys and import rows.
const (
	FieldID          = "id"
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldAddress     = "address"
	FieldProgram     = "program"
	FieldBirthdate   = "birthdate"
	FieldStage       = "stage"
	FieldTemperature = "temperature"
	FieldCreatedAt   = "createdAt"
	FieldNotes       = "notes"
)

// LeadFieldNames is the canonical field order.
var LeadFieldNames = []string{
	FieldID,
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldAddress,
	FieldProgram,
	FieldBirthdate,
	FieldStage,
	FieldTemperature,
	FieldCreatedAt,
	FieldNotes,
}

// Value returns the string value of the named field.
func (l Lead) Value(field string) (string, bool) {
	switch field {
	case FieldID:
		return l.ID, true
	case FieldFirstName:
		return l.FirstName, true
	case FieldLastName:
		return l.LastName, true
	case FieldEmail:
		return l.Email, true
	case FieldPhone:
		return l.Phone, true
	case FieldAddress:
		return l.Address, true
	case FieldProgram:
		return l.Program, true
	case FieldBirthdate:
		return l.Birthdate, true
	case FieldStage:
		return string(l.Stage), true
	case FieldTemperature:
		return string(l.Temperature), true
	case FieldCreatedAt:
		return l.CreatedAt, true
	case FieldNotes:
		return l.Notes, true
	}
	return "", false
}

// Set assigns the named field. It reports false for unknown names.
func (l *Lead) Set(field, value string) bool {
	value = NormalizeNewlines(value)
	switch field {
	case FieldID:
		l.ID = value
	case FieldFirstName:
		l.FirstName = value
	case FieldLastName:
		l.LastName = value
	case FieldEmail:
		l.Email = value
	case FieldPhone:
		l.Phone = value
	case FieldAddress:
		l.Address = value
	case FieldProgram:
		l.Program = value
	case FieldBirthdate:
		l.Birthdate = value
	case FieldStage:
		l.Stage = Stage(value)
	case FieldTemperature:
		l.Temperature = Temperature(value)
	case FieldCreatedAt:
		l.CreatedAt = value
	case FieldNotes:
		l.Notes = value
	default:
		return false
	}
	return true
}

func IsLeadField(name string) bool {
	for _, f := range LeadFieldNames {
		if f == name {
			return true
		}
	}
	return false
}
