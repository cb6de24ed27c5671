// internal/app/features/curriculum/templates.go
package curriculum

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	curriculumstore "github.com/shulehub/shulehub/internal/app/store/curricula"
	"github.com/shulehub/shulehub/internal/app/system/auth"
	"github.com/shulehub/shulehub/internal/app/system/htmlsanitize"
	"github.com/shulehub/shulehub/internal/domain/models"
)

type templateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CourseID    string `json:"course_id"`
}

type templateItemRequest struct {
	Type        string              `json:"type"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Attachments []models.Attachment `json:"attachments"`
}

// HandleCreateTemplate handles POST /curricula.
func (h *Handler) HandleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	cu := models.Curriculum{
		Name:        req.Name,
		Description: htmlsanitize.Sanitize(req.Description),
	}
	if req.CourseID != "" {
		courseID, ok := respond.ObjectID(w, req.CourseID)
		if !ok {
			return
		}
		cu.CourseID = courseID
	}
	if user, ok := auth.CurrentUser(r); ok {
		if creator, err := primitive.ObjectIDFromHex(user.ID); err == nil {
			cu.CreatedBy = creator
		}
	}

	created, err := h.Curricula.Create(r.Context(), cu)
	if err != nil {
		h.Log.Error("curriculum create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// HandleListTemplates handles GET /curricula with an optional course filter.
func (h *Handler) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	var courseID *primitive.ObjectID
	if raw := r.URL.Query().Get("course_id"); raw != "" {
		id, ok := respond.ObjectID(w, raw)
		if !ok {
			return
		}
		courseID = &id
	}
	list, err := h.Curricula.List(r.Context(), courseID)
	if err != nil {
		h.Log.Error("curriculum list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// HandleGetTemplate handles GET /curricula/{id}.
func (h *Handler) HandleGetTemplate(w http.ResponseWriter, r *http.Request) {
	cu, ok := h.loadTemplate(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, cu)
}

// HandleDeleteTemplate handles DELETE /curricula/{id}. Groups that
// imported the template keep their copies.
func (h *Handler) HandleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	n, err := h.Curricula.Delete(r.Context(), id)
	if err != nil {
		h.Log.Error("curriculum delete failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if n == 0 {
		respond.Error(w, http.StatusNotFound, "curriculum not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddTemplateItem handles POST /curricula/{id}/items. New items go
// to the end of the list.
func (h *Handler) HandleAddTemplateItem(w http.ResponseWriter, r *http.Request) {
	cu, ok := h.loadTemplate(w, r)
	if !ok {
		return
	}
	var req templateItemRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if !validItemType(req.Type) || req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "type and name are required")
		return
	}

	cu.Items = append(cu.Items, models.CurriculumTemplateItem{
		Position:    len(cu.Items),
		Type:        req.Type,
		Name:        req.Name,
		Description: htmlsanitize.Sanitize(req.Description),
		Attachments: cleanAttachments(req.Attachments),
	})
	if err := h.saveTemplate(w, r, cu); err != nil {
		return
	}
	respond.JSON(w, http.StatusCreated, cu)
}

// HandleUpdateTemplateItem handles PUT /curricula/{id}/items/{itemID}.
func (h *Handler) HandleUpdateTemplateItem(w http.ResponseWriter, r *http.Request) {
	cu, ok := h.loadTemplate(w, r)
	if !ok {
		return
	}
	itemID, ok := respond.ObjectID(w, chi.URLParam(r, "itemID"))
	if !ok {
		return
	}
	var req templateItemRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	var item *models.CurriculumTemplateItem
	for i := range cu.Items {
		if cu.Items[i].ID == itemID {
			item = &cu.Items[i]
			break
		}
	}
	if item == nil {
		respond.Error(w, http.StatusNotFound, "item not found")
		return
	}

	if req.Type != "" {
		if !validItemType(req.Type) {
			respond.Error(w, http.StatusBadRequest, "invalid item type")
			return
		}
		item.Type = req.Type
	}
	if req.Name != "" {
		item.Name = req.Name
	}
	item.Description = htmlsanitize.Sanitize(req.Description)
	if req.Attachments != nil {
		item.Attachments = cleanAttachments(req.Attachments)
	}

	if err := h.saveTemplate(w, r, cu); err != nil {
		return
	}
	respond.JSON(w, http.StatusOK, cu)
}

// HandleDeleteTemplateItem handles DELETE /curricula/{id}/items/{itemID}.
func (h *Handler) HandleDeleteTemplateItem(w http.ResponseWriter, r *http.Request) {
	cu, ok := h.loadTemplate(w, r)
	if !ok {
		return
	}
	itemID, ok := respond.ObjectID(w, chi.URLParam(r, "itemID"))
	if !ok {
		return
	}

	kept := cu.Items[:0]
	found := false
	for _, it := range cu.Items {
		if it.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		respond.Error(w, http.StatusNotFound, "item not found")
		return
	}
	cu.Items = kept
	for i := range cu.Items {
		cu.Items[i].Position = i
	}

	if err := h.saveTemplate(w, r, cu); err != nil {
		return
	}
	respond.JSON(w, http.StatusOK, cu)
}

type reorderRequest struct {
	ItemOrder []string `json:"item_order"`
}

// HandleReorderTemplate handles POST /curricula/{id}/reorder. Item ids in
// the request take their index as the new position; unknown ids are
// ignored.
func (h *Handler) HandleReorderTemplate(w http.ResponseWriter, r *http.Request) {
	cu, ok := h.loadTemplate(w, r)
	if !ok {
		return
	}
	var req reorderRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	order := make(map[primitive.ObjectID]int, len(req.ItemOrder))
	for i, raw := range req.ItemOrder {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid item id in order")
			return
		}
		order[id] = i
	}
	for i := range cu.Items {
		if pos, ok := order[cu.Items[i].ID]; ok {
			cu.Items[i].Position = pos
		}
	}
	sortTemplateItems(cu.Items)

	if err := h.saveTemplate(w, r, cu); err != nil {
		return
	}
	respond.JSON(w, http.StatusOK, cu)
}

func (h *Handler) loadTemplate(w http.ResponseWriter, r *http.Request) (models.Curriculum, bool) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return models.Curriculum{}, false
	}
	cu, err := h.Curricula.GetByID(r.Context(), id)
	if err != nil {
		respond.FromError(w, err, map[error]int{curriculumstore.ErrNotFound: http.StatusNotFound})
		return models.Curriculum{}, false
	}
	return cu, true
}

func (h *Handler) saveTemplate(w http.ResponseWriter, r *http.Request, cu models.Curriculum) error {
	if err := h.Curricula.Save(r.Context(), cu); err != nil {
		h.Log.Error("curriculum save failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return err
	}
	return nil
}

func sortTemplateItems(items []models.CurriculumTemplateItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})
	for i := range items {
		items[i].Position = i
	}
}
