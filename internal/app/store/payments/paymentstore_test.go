package paymentstore_test

import (
	"errors"
	"testing"

	paymentstore "github.com/shulehub/shulehub/internal/app/store/payments"
	"github.com/shulehub/shulehub/internal/app/system/indexes"
	"github.com/shulehub/shulehub/internal/domain/models"
	"github.com/shulehub/shulehub/internal/testutil"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := paymentstore.New(db)

	tx, err := store.Create(ctx, models.MpesaTransaction{
		TransactionID: "NLJ7RT61SV",
		Phone:         "254708374149",
		Amount:        15000,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if tx.ID.IsZero() {
		t.Error("expected generated ID")
	}

	got, err := store.GetByTransactionID(ctx, "NLJ7RT61SV")
	if err != nil {
		t.Fatalf("GetByTransactionID failed: %v", err)
	}
	if got.Amount != 15000 || got.Used {
		t.Errorf("unexpected transaction %+v", got)
	}

	if _, err := store.GetByTransactionID(ctx, "MISSING"); !errors.Is(err, paymentstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := paymentstore.New(db)
	if _, err := store.Create(ctx, models.MpesaTransaction{TransactionID: "TX1", Phone: "254700000001", Amount: 100}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.MpesaTransaction{TransactionID: "TX1", Phone: "254700000002", Amount: 200})
	if !errors.Is(err, paymentstore.ErrDuplicateTransaction) {
		t.Errorf("expected ErrDuplicateTransaction, got %v", err)
	}
}

func TestMarkUsed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateMpesaTransaction(ctx, "TX77", "254711222333", 5000)

	store := paymentstore.New(db)
	err := store.MarkUsed(ctx, "TX77", models.PurposeCoursePurchase, map[string]string{
		"course_id": "abc",
	})
	if err != nil {
		t.Fatalf("MarkUsed failed: %v", err)
	}

	got, err := store.GetByTransactionID(ctx, "TX77")
	if err != nil {
		t.Fatalf("GetByTransactionID failed: %v", err)
	}
	if !got.Used || got.Purpose != models.PurposeCoursePurchase {
		t.Errorf("expected used transaction, got %+v", got)
	}
	if got.PurposeMeta["course_id"] != "abc" {
		t.Errorf("unexpected meta %v", got.PurposeMeta)
	}

	if err := store.MarkUsed(ctx, "NOPE", models.PurposeSubscription, nil); !errors.Is(err, paymentstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListByPhone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateMpesaTransaction(ctx, "TXA", "254700000001", 100)
	fx.CreateMpesaTransaction(ctx, "TXB", "254700000001", 200)
	fx.CreateMpesaTransaction(ctx, "TXC", "254700000002", 300)

	store := paymentstore.New(db)
	got, err := store.ListByPhone(ctx, "254700000001")
	if err != nil {
		t.Fatalf("ListByPhone failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 transactions, got %d", len(got))
	}
}
