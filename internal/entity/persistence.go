package entity

import (
	"context"
	"errors"
)

// Persisted keys. The prefix matches the browser prototype's localStorage
// keys so exported blobs can be dropped in as-is.
const (
	KeyLeads   = "hecms_leads"
	KeyProfile = "hecms_profile"
	KeyForms   = "hecms_forms"
	KeySMS     = "hecms_sms"
	KeyEmail   = "hecms_email"
	KeyReports = "hecms_reports"
	KeyEvents  = "hecms_events"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is the persistence port: each key holds one self-describing
// blob that is loaded and saved whole.
type BlobStore interface {
	// Load returns ErrBlobNotFound when nothing was saved under key.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
