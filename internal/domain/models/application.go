// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application statuses.
const (
	ApplicationPending  = "pending"
	ApplicationReviewed = "reviewed"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Application is an admission application submitted by a prospective
// student. Accepting one creates a Learner through the admissions service.
type Application struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
	Email     string             `bson:"email" json:"email"`
	EmailCI   string             `bson:"email_ci" json:"-"`
	Phone     string             `bson:"phone" json:"phone"`

	DateOfBirth *time.Time `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	Gender      string     `bson:"gender,omitempty" json:"gender,omitempty"`
	Citizenship string     `bson:"citizenship,omitempty" json:"citizenship,omitempty"`
	IDNumber    string     `bson:"id_number,omitempty" json:"id_number,omitempty"`

	Qualification      string     `bson:"qualification,omitempty" json:"qualification,omitempty"`
	KCSEGrade          string     `bson:"kcse_grade,omitempty" json:"kcse_grade,omitempty"`
	Course             string     `bson:"course,omitempty" json:"course,omitempty"`
	TrainingMode       string     `bson:"training_mode,omitempty" json:"training_mode,omitempty"`
	PreferredIntake    string     `bson:"preferred_intake,omitempty" json:"preferred_intake,omitempty"`
	PreferredStartDate *time.Time `bson:"preferred_start_date,omitempty" json:"preferred_start_date,omitempty"`

	HowHeardAbout []string `bson:"how_heard_about,omitempty" json:"how_heard_about,omitempty"`
	OtherSource   string   `bson:"other_source,omitempty" json:"other_source,omitempty"`

	FeePayer      string `bson:"fee_payer,omitempty" json:"fee_payer,omitempty"`
	FeePayerPhone string `bson:"fee_payer_phone,omitempty" json:"fee_payer_phone,omitempty"`

	NextOfKinName         string `bson:"next_of_kin_name,omitempty" json:"next_of_kin_name,omitempty"`
	NextOfKinRelationship string `bson:"next_of_kin_relationship,omitempty" json:"next_of_kin_relationship,omitempty"`
	NextOfKinPhone        string `bson:"next_of_kin_phone,omitempty" json:"next_of_kin_phone,omitempty"`

	AgreedToTerms bool `bson:"agreed_to_terms" json:"agreed_to_terms"`

	ApplicationNumber string `bson:"application_number" json:"application_number"`
	Status            string `bson:"status" json:"status"`
	EmailSent         bool   `bson:"email_sent" json:"email_sent"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
