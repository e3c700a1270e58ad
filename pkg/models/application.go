package models

// Status is the application status derived for a message. The string values
// match the status options used by the tracking database.
type Status string

const (
	StatusNotAppliedYet      Status = "Not Applied Yet"
	StatusApplied            Status = "Applied"
	StatusInterviewScheduled Status = "Interview Scheduled"
	StatusOfferReceived      Status = "Offer Received"
	StatusRejected           Status = "Rejected"
	StatusInProgress         Status = "In Progress"
)
