// internal/app/features/finance/overview.go
package finance

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	"github.com/shulehub/shulehub/internal/domain/models"
)

type tutorPayout struct {
	TutorID      primitive.ObjectID `json:"tutor_id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone"`
	Students     int                `json:"students"`
	PaidOut      float64            `json:"paid_out"`
	PendingOwed  float64            `json:"pending_owed"`
	PendingCount int                `json:"pending_count"`
}

type overviewStats struct {
	TotalTutors         int     `json:"total_tutors"`
	TotalStudents       int     `json:"total_students"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalPaidToTutors   float64 `json:"total_paid_to_tutors"`
	TotalPendingPayouts float64 `json:"total_pending_payouts"`
}

// HandleOverview handles GET /finance/tutors: every tutor with what has
// been paid out and what is still owed. Fees come from the course catalog;
// the tutor's cut is a fixed share of the fee.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courses, err := h.Courses.List(ctx, true)
	if err != nil {
		h.Log.Error("failed to list courses", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to load finance data")
		return
	}
	fees := make(map[primitive.ObjectID]float64, len(courses))
	for _, c := range courses {
		fees[c.ID] = c.CourseFee
	}

	tutors, err := h.Tutors.List(ctx, false)
	if err != nil {
		h.Log.Error("failed to list tutors", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to load finance data")
		return
	}

	stats := overviewStats{TotalTutors: len(tutors)}
	payouts := make([]tutorPayout, 0, len(tutors))
	for _, t := range tutors {
		p := tutorPayout{
			TutorID: t.ID,
			Name:    t.FullName(),
			Email:   t.Email,
			Phone:   t.Phone,
		}
		for _, s := range t.MyStudents {
			tally(&p, &stats, fees[s.CourseID], s.Settlement)
		}
		for _, s := range t.CertifiedStudents {
			tally(&p, &stats, fees[s.CourseID], s.Settlement)
		}
		stats.TotalStudents += p.Students
		payouts = append(payouts, p)
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"tutors": payouts,
		"stats":  stats,
	})
}

func tally(p *tutorPayout, stats *overviewStats, fee float64, st *models.Settlement) {
	p.Students++
	stats.TotalRevenue += fee
	if st != nil && st.Status == models.SettlementPaid {
		p.PaidOut += st.Amount
		stats.TotalPaidToTutors += st.Amount
		return
	}
	owed := fee * tutorShare
	p.PendingOwed += owed
	p.PendingCount++
	stats.TotalPendingPayouts += owed
}
