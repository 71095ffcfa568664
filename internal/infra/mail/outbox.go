package mail

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/hecms/internal/entity"
)

// defaultBody is used when the rule names a template that was never saved.
const defaultBody = `Hi {{.FirstName}},

Your application status is now {{.Stage}}.

Admissions Team`

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NewOutboxSender writes rendered messages to dir instead of sending them.
func NewOutboxSender(dir, from string) (*OutboxSender, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create outbox: %w", err)
	}
	return &OutboxSender{Dir: dir, From: from}, nil
}

// Deliver renders d as an RFC 822 message and stores it as a .eml file.
func (s *OutboxSender) Deliver(_ context.Context, d entity.Dispatch) error {
	m, err := s.Render(d)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("%s-%s.eml", d.At.UTC().Format("20060102T150405.000000000"), unsafeChars.ReplaceAllString(d.LeadID, "_"))
	path := filepath.Join(s.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}

// Render builds the message for d. Saved template bodies may use the
// MessageData fields as placeholders.
func (s *OutboxSender) Render(d entity.Dispatch) (*gomail.Message, error) {
	if d.Email == "" {
		return nil, fmt.Errorf("lead %s has no email address", d.LeadID)
	}

	data := MessageData{
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Name:          d.Name,
		Email:         d.Email,
		Program:       d.Program,
		Stage:         string(d.Stage),
		PreviousStage: string(d.PreviousStage),
		Template:      d.Template,
	}

	src := d.Body
	if src == "" {
		src = defaultBody
	}
	t, err := template.New(d.Template).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", d.Template, err)
	}
	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render template %q: %w", d.Template, err)
	}

	subject := d.Subject
	if subject == "" {
		subject = d.Template
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetAddressHeader("To", d.Email, d.Name)
	m.SetHeader("Subject", subject)
	m.SetHeader("X-Hecms-Trigger", d.Trigger)
	m.SetBody("text/plain", body.String())
	return m, nil
}
