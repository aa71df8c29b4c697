package entity

import "time"

// Treatment is a consultation record: what the doctor observed and
// prescribed on a given date.
type Treatment struct {
	ID           string    `db:"id" json:"id"`
	PatientID    string    `db:"patient_id" json:"patient_id"`
	Date         time.Time `db:"date" json:"date"`
	Doctor       string    `db:"doctor" json:"doctor"`
	Observations string    `db:"observations" json:"observations"`
	Medications  string    `db:"medications" json:"medications"`
}
