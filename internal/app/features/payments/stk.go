// internal/app/features/payments/stk.go
package payments

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	"github.com/shulehub/shulehub/internal/app/system/mpesa"
	"github.com/shulehub/shulehub/internal/app/system/normalize"
)

type stkRequest struct {
	Phone     string `json:"phone"`
	Amount    int    `json:"amount"`
	Reference string `json:"reference"`
}

// HandleInitiateSTK handles POST /payments/stk. The synchronous response
// only acknowledges the prompt; the payment outcome arrives later on the
// callback endpoint, keyed by CheckoutRequestID.
func (h *Handler) HandleInitiateSTK(w http.ResponseWriter, r *http.Request) {
	var req stkRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	phone, ok := normalize.Phone(req.Phone)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "phone must be a Kenyan mobile number")
		return
	}
	if req.Amount <= 0 {
		respond.Error(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	reference := req.Reference
	if reference == "" {
		reference = "course fees"
	}

	resp, err := h.Mpesa.STKPush(r.Context(), mpesa.STKRequest{
		Phone:            phone,
		Amount:           req.Amount,
		AccountReference: reference,
		Description:      "payment",
	})
	if err != nil {
		h.Log.Warn("stk push failed", zap.String("phone", phone), zap.Error(err))
		respond.Error(w, http.StatusBadGateway, "failed to initiate payment prompt")
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}
