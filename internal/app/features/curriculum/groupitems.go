// internal/app/features/curriculum/groupitems.go
package curriculum

import (
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	curriculumstore "github.com/shulehub/shulehub/internal/app/store/curricula"
	"github.com/shulehub/shulehub/internal/app/system/htmlsanitize"
	"github.com/shulehub/shulehub/internal/domain/models"
)

type groupItemRequest struct {
	Type        string              `json:"type"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Attachments []models.Attachment `json:"attachments"`

	ReleaseDate *time.Time `json:"release_date"`
	ReleaseTime string     `json:"release_time"`
	DueDate     *time.Time `json:"due_date"`
	DueTime     string     `json:"due_time"`

	IsCompleted *bool `json:"is_completed"`
}

// HandleGetGroupCurriculum handles GET /group-curriculum/{groupID}.
func (h *Handler) HandleGetGroupCurriculum(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadOwnedGroup(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, group)
}

// HandleAddItem handles POST /group-curriculum/{groupID}/items. New items
// go to the end; IsReleased derives from the release date.
func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadOwnedGroup(w, r)
	if !ok {
		return
	}
	var req groupItemRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if !validItemType(req.Type) || req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "type and name are required")
		return
	}

	item := models.CurriculumItem{
		ID:          primitive.NewObjectID(),
		Position:    len(group.CurriculumItems),
		Type:        req.Type,
		Name:        req.Name,
		Description: htmlsanitize.Sanitize(req.Description),
		Attachments: cleanAttachments(req.Attachments),
		ReleaseDate: req.ReleaseDate,
		ReleaseTime: orDefault(req.ReleaseTime, "00:00"),
		DueDate:     req.DueDate,
		DueTime:     orDefault(req.DueTime, "23:59"),
		CreatedAt:   time.Now().UTC(),
	}
	item.IsReleased = req.ReleaseDate != nil && !req.ReleaseDate.After(time.Now())

	group.CurriculumItems = append(group.CurriculumItems, item)
	if err := h.saveGroup(w, r, group); err != nil {
		return
	}
	respond.JSON(w, http.StatusCreated, group)
}

// HandleUpdateItem handles PUT /group-curriculum/{groupID}/items/{itemID}.
// Marking an item complete is an update with is_completed set.
func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadOwnedGroup(w, r)
	if !ok {
		return
	}
	item, ok := h.itemFromURL(w, r, &group)
	if !ok {
		return
	}
	var req groupItemRequest
	if !respond.Decode(w, r, &req) {
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
	item.ReleaseDate = req.ReleaseDate
	if req.ReleaseTime != "" {
		item.ReleaseTime = req.ReleaseTime
	}
	item.DueDate = req.DueDate
	if req.DueTime != "" {
		item.DueTime = req.DueTime
	}
	item.IsReleased = item.ReleaseDate != nil && !item.ReleaseDate.After(time.Now())
	if req.IsCompleted != nil {
		item.IsCompleted = *req.IsCompleted
	}

	if err := h.saveGroup(w, r, group); err != nil {
		return
	}
	respond.JSON(w, http.StatusOK, group)
}

// HandleDeleteItem handles DELETE /group-curriculum/{groupID}/items/{itemID}.
func (h *Handler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadOwnedGroup(w, r)
	if !ok {
		return
	}
	itemID, ok := respond.ObjectID(w, chi.URLParam(r, "itemID"))
	if !ok {
		return
	}

	kept := group.CurriculumItems[:0]
	found := false
	for _, it := range group.CurriculumItems {
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
	group.CurriculumItems = kept
	for i := range group.CurriculumItems {
		group.CurriculumItems[i].Position = i
	}

	if err := h.saveGroup(w, r, group); err != nil {
		return
	}
	respond.JSON(w, http.StatusOK, group)
}

// HandleImportCurriculum handles
// POST /group-curriculum/{groupID}/import/{curriculumID}. Template items
// append after any existing items, unscheduled and unreleased, each
// remembering its source item.
func (h *Handler) HandleImportCurriculum(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadOwnedGroup(w, r)
	if !ok {
		return
	}
	curriculumID, ok := respond.ObjectID(w, chi.URLParam(r, "curriculumID"))
	if !ok {
		return
	}
	template, err := h.Curricula.GetByID(r.Context(), curriculumID)
	if err != nil {
		respond.FromError(w, err, map[error]int{curriculumstore.ErrNotFound: http.StatusNotFound})
		return
	}

	start := len(group.CurriculumItems)
	for i, t := range template.Items {
		group.CurriculumItems = append(group.CurriculumItems, importedItem(t, start+i))
	}

	if err := h.saveGroup(w, r, group); err != nil {
		return
	}
	respond.JSON(w, http.StatusOK, group)
}

// HandleImportItem handles
// POST /group-curriculum/{groupID}/import/{curriculumID}/{itemID}.
func (h *Handler) HandleImportItem(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadOwnedGroup(w, r)
	if !ok {
		return
	}
	curriculumID, ok := respond.ObjectID(w, chi.URLParam(r, "curriculumID"))
	if !ok {
		return
	}
	itemID, ok := respond.ObjectID(w, chi.URLParam(r, "itemID"))
	if !ok {
		return
	}
	template, err := h.Curricula.GetByID(r.Context(), curriculumID)
	if err != nil {
		respond.FromError(w, err, map[error]int{curriculumstore.ErrNotFound: http.StatusNotFound})
		return
	}

	var source *models.CurriculumTemplateItem
	for i := range template.Items {
		if template.Items[i].ID == itemID {
			source = &template.Items[i]
			break
		}
	}
	if source == nil {
		respond.Error(w, http.StatusNotFound, "item not found")
		return
	}

	group.CurriculumItems = append(group.CurriculumItems, importedItem(*source, len(group.CurriculumItems)))
	if err := h.saveGroup(w, r, group); err != nil {
		return
	}
	respond.JSON(w, http.StatusOK, group)
}

// HandleReorder handles POST /group-curriculum/{groupID}/reorder.
func (h *Handler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadOwnedGroup(w, r)
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
	for i := range group.CurriculumItems {
		if pos, ok := order[group.CurriculumItems[i].ID]; ok {
			group.CurriculumItems[i].Position = pos
		}
	}
	sort.SliceStable(group.CurriculumItems, func(i, j int) bool {
		return group.CurriculumItems[i].Position < group.CurriculumItems[j].Position
	})
	for i := range group.CurriculumItems {
		group.CurriculumItems[i].Position = i
	}

	if err := h.saveGroup(w, r, group); err != nil {
		return
	}
	respond.JSON(w, http.StatusOK, group)
}

func importedItem(t models.CurriculumTemplateItem, position int) models.CurriculumItem {
	return models.CurriculumItem{
		ID:           primitive.NewObjectID(),
		Position:     position,
		Type:         t.Type,
		Name:         t.Name,
		Description:  t.Description,
		Attachments:  t.Attachments,
		ReleaseTime:  "00:00",
		DueTime:      "23:59",
		SourceItemID: t.ID,
		CreatedAt:    time.Now().UTC(),
	}
}

func (h *Handler) itemFromURL(w http.ResponseWriter, r *http.Request, group *models.Group) (*models.CurriculumItem, bool) {
	itemID, ok := respond.ObjectID(w, chi.URLParam(r, "itemID"))
	if !ok {
		return nil, false
	}
	item := group.ItemByID(itemID)
	if item == nil {
		respond.Error(w, http.StatusNotFound, "item not found")
		return nil, false
	}
	return item, true
}

func (h *Handler) saveGroup(w http.ResponseWriter, r *http.Request, group models.Group) error {
	if err := h.Groups.Save(r.Context(), group); err != nil {
		h.Log.Error("group save failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return err
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
