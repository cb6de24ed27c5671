// internal/domain/models/payment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction purposes set when a payment record is consumed.
const (
	PurposeCoursePurchase = "course_purchase"
	PurposeSubscription   = "subscription"
)

// MpesaTransaction is a confirmed mobile-money payment recorded from the
// gateway callback. Used/Purpose are advisory flags set when a service
// consumes the transaction; the record itself does not enforce them.
type MpesaTransaction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TransactionID string             `bson:"transaction_id" json:"transaction_id"`
	Phone         string             `bson:"phone" json:"phone"`
	Amount        float64            `bson:"amount" json:"amount"`

	Used        bool              `bson:"used" json:"used"`
	Purpose     string            `bson:"purpose,omitempty" json:"purpose,omitempty"`
	PurposeMeta map[string]string `bson:"purpose_meta,omitempty" json:"purpose_meta,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
