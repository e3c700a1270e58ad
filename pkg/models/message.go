package models

import "time"

// RawMessage is a fetched email message as handed over by the mail intake.
// It is immutable once fetched; the pipeline only reads it.
type RawMessage struct {
	UID        uint32    // IMAP UID
	MessageID  string    // Email Message-ID header
	Sender     string    // Sender address
	SenderName string    // Sender display name
	Subject    string    // Decoded subject
	BodyText   string    // Plain text part, if present
	BodyHTML   string    // HTML part, if present
	ReceivedAt time.Time // When the email was received
}
