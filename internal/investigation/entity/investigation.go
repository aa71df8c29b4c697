package entity

import "time"

// Investigation is a diagnostic record (lab report, imaging) attached to a
// patient, optionally pointing at an uploaded file.
type Investigation struct {
	ID        string    `db:"id" json:"id"`
	PatientID string    `db:"patient_id" json:"patient_id"`
	Type      string    `db:"type" json:"type"`
	Details   string    `db:"details" json:"details"`
	Date      time.Time `db:"date" json:"date"`
	FileURL   *string   `db:"file_url" json:"file_url,omitempty"`
}
