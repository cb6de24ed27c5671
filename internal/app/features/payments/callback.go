// internal/app/features/payments/callback.go
package payments

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	paymentstore "github.com/shulehub/shulehub/internal/app/store/payments"
	"github.com/shulehub/shulehub/internal/app/system/mpesa"
	"github.com/shulehub/shulehub/internal/domain/models"
)

// callbackStatus maps Daraja result codes to the statuses the payment
// page polls for.
func callbackStatus(code int) string {
	switch code {
	case 0:
		return "success"
	case 1:
		return "insufficient"
	case 1032:
		return "cancelled"
	case 1037:
		return "timedout"
	default:
		return "failed"
	}
}

// HandleCallback handles the Daraja result POST. Gateway retries are
// absorbed: a duplicate receipt number acknowledges without a second
// insert. The endpoint always answers 200 so Daraja stops retrying;
// failures on our side are logged instead.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	result, err := mpesa.ParseCallback(r.Body)
	if err != nil {
		h.Log.Warn("unparseable mpesa callback", zap.Error(err))
		respond.Error(w, http.StatusBadRequest, "invalid callback payload")
		return
	}

	status := callbackStatus(result.ResultCode)
	if !result.Success() {
		h.Log.Info("mpesa payment not completed",
			zap.String("checkout_request_id", result.CheckoutRequestID),
			zap.Int("result_code", result.ResultCode),
			zap.String("result_desc", result.ResultDesc))
		respond.JSON(w, http.StatusOK, map[string]string{"status": status})
		return
	}

	tx := models.MpesaTransaction{
		TransactionID: result.ReceiptNumber,
		Phone:         result.Phone,
		Amount:        result.Amount,
	}
	if !result.TransactionTime.IsZero() {
		tx.CreatedAt = result.TransactionTime
	}

	saved, err := h.Payments.Create(r.Context(), tx)
	switch {
	case errors.Is(err, paymentstore.ErrDuplicateTransaction):
		h.Log.Info("duplicate mpesa callback ignored",
			zap.String("transaction_id", result.ReceiptNumber))
	case err != nil:
		h.Log.Error("failed to record mpesa payment",
			zap.String("transaction_id", result.ReceiptNumber), zap.Error(err))
	default:
		h.Audit.PaymentRecorded(r.Context(), saved.TransactionID, saved.Phone, saved.Amount)
	}

	respond.JSON(w, http.StatusOK, map[string]string{
		"status":         status,
		"transaction_id": result.ReceiptNumber,
	})
}
