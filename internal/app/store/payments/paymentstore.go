// internal/app/store/payments/paymentstore.go
package paymentstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/shulehub/shulehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrDuplicateTransaction = errors.New("this transaction is already recorded")
	ErrNotFound             = errors.New("transaction not found")
)

// Store keeps confirmed gateway payments in mpesa_transactions.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("mpesa_transactions")}
}

func (s *Store) Create(ctx context.Context, tx models.MpesaTransaction) (models.MpesaTransaction, error) {
	now := time.Now().UTC()
	tx.ID = primitive.NewObjectID()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, tx); err != nil {
		if wafflemongo.IsDup(err) {
			return models.MpesaTransaction{}, ErrDuplicateTransaction
		}
		return models.MpesaTransaction{}, err
	}
	return tx, nil
}

// GetByTransactionID looks up a payment by its gateway receipt number.
func (s *Store) GetByTransactionID(ctx context.Context, transactionID string) (models.MpesaTransaction, error) {
	var tx models.MpesaTransaction
	if err := s.c.FindOne(ctx, bson.M{"transaction_id": transactionID}).Decode(&tx); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.MpesaTransaction{}, ErrNotFound
		}
		return models.MpesaTransaction{}, err
	}
	return tx, nil
}

// MarkUsed flags the transaction as consumed for a purpose. The flags are
// advisory: marking an already-used transaction overwrites the prior
// purpose, mirroring how enrollment treats the id as proof of payment
// without re-verification.
func (s *Store) MarkUsed(ctx context.Context, transactionID, purpose string, meta map[string]string) error {
	set := bson.M{
		"used":       true,
		"purpose":    purpose,
		"updated_at": time.Now().UTC(),
	}
	if meta != nil {
		set["purpose_meta"] = meta
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"transaction_id": transactionID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByPhone returns payments from one phone number, newest first.
func (s *Store) ListByPhone(ctx context.Context, phone string) ([]models.MpesaTransaction, error) {
	cur, err := s.c.Find(ctx, bson.M{"phone": phone},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.MpesaTransaction
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
