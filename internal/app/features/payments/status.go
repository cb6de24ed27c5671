// internal/app/features/payments/status.go
package payments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	paymentstore "github.com/shulehub/shulehub/internal/app/store/payments"
)

// HandleStatus handles GET /payments/{transactionID}. Clients poll it
// after an STK prompt to confirm the payment landed before quoting the
// transaction id at enrollment.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")
	tx, err := h.Payments.GetByTransactionID(r.Context(), transactionID)
	if err != nil {
		respond.FromError(w, err, map[error]int{
			paymentstore.ErrNotFound: http.StatusNotFound,
		})
		return
	}
	respond.JSON(w, http.StatusOK, tx)
}
