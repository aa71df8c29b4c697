package entity

import (
	"encoding/json"
	"time"
)

// Patient represents a clinic patient row. The history sections are stored
// as JSONB blobs whose shape is owned by the intake forms, not the backend.
type Patient struct {
	ID               string          `db:"id" json:"id"`
	Name             string          `db:"name" json:"name"`
	GuardianName     *string         `db:"guardian_name" json:"guardian_name,omitempty"`
	Address          string          `db:"address" json:"address"`
	Age              int             `db:"age" json:"age"`
	Sex              string          `db:"sex" json:"sex"`
	Occupation       *string         `db:"occupation" json:"occupation,omitempty"`
	MobileNumber     string          `db:"mobile_number" json:"mobile_number"`
	ChiefComplaints  string          `db:"chief_complaints" json:"chief_complaints"`
	MedicalHistory   json.RawMessage `db:"medical_history" json:"medical_history"`
	PhysicalGenerals json.RawMessage `db:"physical_generals" json:"physical_generals"`
	MenstrualHistory json.RawMessage `db:"menstrual_history" json:"menstrual_history,omitempty"`
	FoodAndHabit     json.RawMessage `db:"food_and_habit" json:"food_and_habit"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}
