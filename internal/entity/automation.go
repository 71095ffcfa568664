package entity

import "time"

// TriggerStageChange fires when an update moves a lead to another stage.
const TriggerStageChange = "stage-change"

// AutomationRule names the template to dispatch when its trigger fires.
// There is at most one rule per trigger type.
type AutomationRule struct {
	Type     string `json:"type"`
	Template string `json:"template"`
}

type EmailTemplate struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailState is the persisted email workspace: saved templates plus the
// automation rules keyed by trigger type.
type EmailState struct {
	Templates   []EmailTemplate  `json:"templates"`
	Automations []AutomationRule `json:"automations"`
}

// Dispatch describes a message an automation wants sent. Delivering it is
// somebody else's job.
type Dispatch struct {
	LeadID        string    `json:"lead_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Program       string    `json:"program"`
	Template      string    `json:"template"`
	Subject       string    `json:"subject,omitempty"`
	Body          string    `json:"body,omitempty"`
	PreviousStage Stage     `json:"previous_stage"`
	Stage         Stage     `json:"stage"`
	Trigger       string    `json:"trigger"`
	At            time.Time `json:"at"`
}
