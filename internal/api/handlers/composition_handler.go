package handlers

import (
	"io"
	"net/http"
	"time"

	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/services"
	"example.com/galleria/services/exhibition/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CompositionHandler handles section, placement, storyline, event and
// checklist HTTP requests
type CompositionHandler struct {
	composition *services.CompositionService
	tracer      tracing.Tracer
}

// NewCompositionHandler creates a new composition handler
func NewCompositionHandler(composition *services.CompositionService, tracer tracing.Tracer) *CompositionHandler {
	return &CompositionHandler{
		composition: composition,
		tracer:      tracer,
	}
}

// SectionRequest is the payload for creating a section
type SectionRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    *string  `json:"description"`
	TemperatureMin *float64 `json:"temperature_min"`
	TemperatureMax *float64 `json:"temperature_max"`
	HumidityMin    *float64 `json:"humidity_min"`
	HumidityMax    *float64 `json:"humidity_max"`
	LuxMax         *float64 `json:"lux_max"`
}

// ReorderRequest is the payload for reordering sections or placements
type ReorderRequest struct {
	OrderedIDs []uuid.UUID `json:"ordered_ids" binding:"required"`
}

// PlacementRequest is the payload for placing an object
type PlacementRequest struct {
	ObjectID       uuid.UUID  `json:"object_id" binding:"required"`
	SectionID      *uuid.UUID `json:"section_id"`
	Lighting       *string    `json:"lighting"`
	MountType      *string    `json:"mount_type"`
	SecurityLevel  *string    `json:"security_level"`
	InsuranceValue *float64   `json:"insurance_value"`
}

// PlacementPatchRequest is the payload for a partial placement update
type PlacementPatchRequest struct {
	SectionID      *uuid.UUID `json:"section_id"`
	Lighting       *string    `json:"lighting"`
	MountType      *string    `json:"mount_type"`
	SecurityLevel  *string    `json:"security_level"`
	InsuranceValue *float64   `json:"insurance_value"`
}

// PlacementStatusRequest is the payload for a placement status change
type PlacementStatusRequest struct {
	Status string `json:"status" binding:"required,placement_status"`
	Note   string `json:"note"`
}

// StorylineRequest is the payload for creating a storyline
type StorylineRequest struct {
	Title         string  `json:"title" binding:"required"`
	Slug          *string `json:"slug"`
	Description   *string `json:"description"`
	NarrativeType string  `json:"narrative_type"`
	IsPrimary     bool    `json:"is_primary"`
}

// StopRequest is the payload for adding a storyline stop
type StopRequest struct {
	PlacementID *uuid.UUID `json:"placement_id"`
	Title       string     `json:"title" binding:"required"`
	Content     *string    `json:"content"`
	StopNumber  string     `json:"stop_number"`
}

// EventRequest is the payload for scheduling an event
type EventRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  *string   `json:"description"`
	EventDate    time.Time `json:"event_date" binding:"required"`
	StartTime    *string   `json:"start_time"`
	EndTime      *string   `json:"end_time"`
	Location     *string   `json:"location"`
	Capacity     *int      `json:"capacity"`
	Registration bool      `json:"registration"`
	Presenter    *string   `json:"presenter"`
}

// EventPatchRequest is the payload for a partial event update
type EventPatchRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	EventDate    *time.Time `json:"event_date"`
	StartTime    *string    `json:"start_time"`
	EndTime      *string    `json:"end_time"`
	Location     *string    `json:"location"`
	Capacity     *int       `json:"capacity"`
	Registration *bool      `json:"registration"`
	Presenter    *string    `json:"presenter"`
}

// SectionPatchRequest is the payload for a partial section update
type SectionPatchRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	TemperatureMin *float64 `json:"temperature_min"`
	TemperatureMax *float64 `json:"temperature_max"`
	HumidityMin    *float64 `json:"humidity_min"`
	HumidityMax    *float64 `json:"humidity_max"`
	LuxMax         *float64 `json:"lux_max"`
}

func (r SectionPatchRequest) fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.TemperatureMin != nil {
		fields["temperature_min"] = *r.TemperatureMin
	}
	if r.TemperatureMax != nil {
		fields["temperature_max"] = *r.TemperatureMax
	}
	if r.HumidityMin != nil {
		fields["humidity_min"] = *r.HumidityMin
	}
	if r.HumidityMax != nil {
		fields["humidity_max"] = *r.HumidityMax
	}
	if r.LuxMax != nil {
		fields["lux_max"] = *r.LuxMax
	}
	return fields
}

// StorylinePatchRequest is the payload for a partial storyline update
type StorylinePatchRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	NarrativeType *string `json:"narrative_type"`
	IsPrimary     *bool   `json:"is_primary"`
}

func (r StorylinePatchRequest) fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.NarrativeType != nil {
		fields["narrative_type"] = *r.NarrativeType
	}
	if r.IsPrimary != nil {
		fields["is_primary"] = *r.IsPrimary
	}
	return fields
}

// StopPatchRequest is the payload for a partial stop update
type StopPatchRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	StopNumber *string `json:"stop_number"`
}

func (r StopPatchRequest) fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Content != nil {
		fields["content"] = *r.Content
	}
	if r.StopNumber != nil {
		fields["stop_number"] = *r.StopNumber
	}
	return fields
}

// ChecklistRequest is the payload for creating a checklist, either empty
// or from a template
type ChecklistRequest struct {
	Name       string     `json:"name"`
	TemplateID *uuid.UUID `json:"template_id"`
}

// ChecklistItemRequest is the payload for adding a checklist item
type ChecklistItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	IsRequired  bool    `json:"is_required"`
}

// CompleteItemRequest is the payload for completing a checklist item
type CompleteItemRequest struct {
	Notes *string `json:"notes"`
}

func (h *CompositionHandler) handleAddSection(c *gin.Context) {
	exhibitionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.composition.AddSection(c, exhibitionID, services.SectionInput{
		Name:           req.Name,
		Description:    req.Description,
		TemperatureMin: req.TemperatureMin,
		TemperatureMax: req.TemperatureMax,
		HumidityMin:    req.HumidityMin,
		HumidityMax:    req.HumidityMax,
		LuxMax:         req.LuxMax,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

func (h *CompositionHandler) handleListSections(c *gin.Context) {
	exhibitionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	sections, err := h.composition.ListSections(c, exhibitionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

func (h *CompositionHandler) handleReorderSections(c *gin.Context) {
	exhibitionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.composition.ReorderSections(c, exhibitionID, req.OrderedIDs); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleUpdateSection(c *gin.Context) {
	sectionID, ok := pathUUID(c, "sectionId")
	if !ok {
		return
	}

	var req SectionPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.composition.UpdateSection(c, sectionID, req.fields()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleDeleteSection(c *gin.Context) {
	sectionID, ok := pathUUID(c, "sectionId")
	if !ok {
		return
	}
	if err := h.composition.DeleteSection(c, sectionID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleAddObject(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-add-object")
	defer h.tracer.EndTransaction(txn)

	exhibitionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req PlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.composition.AddObject(c, exhibitionID, services.PlacementInput{
		ObjectID:       req.ObjectID,
		SectionID:      req.SectionID,
		Lighting:       req.Lighting,
		MountType:      req.MountType,
		SecurityLevel:  req.SecurityLevel,
		InsuranceValue: req.InsuranceValue,
	})
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *CompositionHandler) handleListObjects(c *gin.Context) {
	exhibitionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	placements, err := h.composition.ListObjects(c, exhibitionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, placements)
}

func (h *CompositionHandler) handleUpdateObject(c *gin.Context) {
	placementID, ok := pathUUID(c, "placementId")
	if !ok {
		return
	}

	var req PlacementPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	placement, err := h.composition.UpdateObject(c, placementID, services.PlacementPatch{
		SectionID:      req.SectionID,
		Lighting:       req.Lighting,
		MountType:      req.MountType,
		SecurityLevel:  req.SecurityLevel,
		InsuranceValue: req.InsuranceValue,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, placement)
}

func (h *CompositionHandler) handleUpdateObjectStatus(c *gin.Context) {
	placementID, ok := pathUUID(c, "placementId")
	if !ok {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var req PlacementStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	placement, err := h.composition.UpdateObjectStatus(c, placementID, models.PlacementStatus(req.Status), actor, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, placement)
}

func (h *CompositionHandler) handleReorderObjects(c *gin.Context) {
	exhibitionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.composition.ReorderObjects(c, exhibitionID, req.OrderedIDs); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleRemoveObject(c *gin.Context) {
	placementID, ok := pathUUID(c, "placementId")
	if !ok {
		return
	}
	if err := h.composition.RemoveObject(c, placementID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleCheckAvailability(c *gin.Context) {
	exhibitionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	objectID, ok := pathUUID(c, "objectId")
	if !ok {
		return
	}

	report, err := h.composition.CheckObjectAvailability(c, exhibitionID, objectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *CompositionHandler) handleCreateStoryline(c *gin.Context) {
	exhibitionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req StorylineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	storyline, err := h.composition.CreateStoryline(c, exhibitionID, services.StorylineInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Description:   req.Description,
		NarrativeType: req.NarrativeType,
		IsPrimary:     req.IsPrimary,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, storyline)
}

func (h *CompositionHandler) handleListStorylines(c *gin.Context) {
	exhibitionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	storylines, err := h.composition.ListStorylines(c, exhibitionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, storylines)
}

func (h *CompositionHandler) handleGetStoryline(c *gin.Context) {
	storylineID, ok := pathUUID(c, "storylineId")
	if !ok {
		return
	}
	view, err := h.composition.GetStorylineWithStops(c, storylineID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CompositionHandler) handleUpdateStoryline(c *gin.Context) {
	storylineID, ok := pathUUID(c, "storylineId")
	if !ok {
		return
	}

	var req StorylinePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.composition.UpdateStoryline(c, storylineID, req.fields()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleDeleteStoryline(c *gin.Context) {
	storylineID, ok := pathUUID(c, "storylineId")
	if !ok {
		return
	}
	if err := h.composition.DeleteStoryline(c, storylineID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleAddStop(c *gin.Context) {
	storylineID, ok := pathUUID(c, "storylineId")
	if !ok {
		return
	}

	var req StopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stop, err := h.composition.AddStop(c, storylineID, services.StopInput{
		PlacementID: req.PlacementID,
		Title:       req.Title,
		Content:     req.Content,
		StopNumber:  req.StopNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stop)
}

func (h *CompositionHandler) handleUpdateStop(c *gin.Context) {
	stopID, ok := pathUUID(c, "stopId")
	if !ok {
		return
	}

	var req StopPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.composition.UpdateStop(c, stopID, req.fields()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleDeleteStop(c *gin.Context) {
	stopID, ok := pathUUID(c, "stopId")
	if !ok {
		return
	}
	if err := h.composition.DeleteStop(c, stopID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleScheduleEvent(c *gin.Context) {
	exhibitionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.composition.ScheduleEvent(c, exhibitionID, services.EventInput{
		Title:        req.Title,
		Description:  req.Description,
		EventDate:    req.EventDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     req.Location,
		Capacity:     req.Capacity,
		Registration: req.Registration,
		Presenter:    req.Presenter,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *CompositionHandler) handleListEvents(c *gin.Context) {
	exhibitionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	events, err := h.composition.ListEvents(c, exhibitionID, c.Query("upcoming") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *CompositionHandler) handleUpdateEvent(c *gin.Context) {
	eventID, ok := pathUUID(c, "eventId")
	if !ok {
		return
	}

	var req EventPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.composition.UpdateEvent(c, eventID, services.EventPatch{
		Title:        req.Title,
		Description:  req.Description,
		EventDate:    req.EventDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     req.Location,
		Capacity:     req.Capacity,
		Registration: req.Registration,
		Presenter:    req.Presenter,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleDeleteEvent(c *gin.Context) {
	eventID, ok := pathUUID(c, "eventId")
	if !ok {
		return
	}
	if err := h.composition.DeleteEvent(c, eventID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleCancelEvent(c *gin.Context) {
	eventID, ok := pathUUID(c, "eventId")
	if !ok {
		return
	}
	if err := h.composition.CancelEvent(c, eventID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleCreateChecklist(c *gin.Context) {
	exhibitionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var checklist *models.Checklist
	var err error
	if req.TemplateID != nil {
		checklist, err = h.composition.CreateChecklistFromTemplate(c, exhibitionID, *req.TemplateID)
	} else {
		checklist, err = h.composition.CreateChecklist(c, exhibitionID, req.Name)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checklist)
}

func (h *CompositionHandler) handleListChecklists(c *gin.Context) {
	exhibitionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	checklists, err := h.composition.ListChecklists(c, exhibitionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checklists)
}

func (h *CompositionHandler) handleGetChecklist(c *gin.Context) {
	checklistID, ok := pathUUID(c, "checklistId")
	if !ok {
		return
	}
	checklist, err := h.composition.GetChecklist(c, checklistID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"checklist":  checklist,
		"completion": services.ChecklistCompletion(checklist),
	})
}

func (h *CompositionHandler) handleAddChecklistItem(c *gin.Context) {
	checklistID, ok := pathUUID(c, "checklistId")
	if !ok {
		return
	}

	var req ChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.composition.AddChecklistItem(c, checklistID, services.ChecklistItemInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		IsRequired:  req.IsRequired,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CompositionHandler) handleCompleteChecklistItem(c *gin.Context) {
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	// The body is optional; completing without notes is the common case
	var req CompleteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.composition.CompleteChecklistItem(c, itemID, actor, req.Notes); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleReopenChecklistItem(c *gin.Context) {
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}
	if err := h.composition.ReopenChecklistItem(c, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompositionHandler) handleResolveObject(c *gin.Context) {
	objectID, ok := pathUUID(c, "objectId")
	if !ok {
		return
	}
	item, err := h.composition.ResolveObject(c, objectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// RegisterRoutes registers the handler's routes
func (h *CompositionHandler) RegisterRoutes(api *gin.RouterGroup) {
	exhibitions := api.Group("/exhibitions/:id")

	exhibitions.POST("/sections", h.handleAddSection)
	exhibitions.GET("/sections", h.handleListSections)
	exhibitions.PUT("/sections/order", h.handleReorderSections)

	exhibitions.POST("/objects", h.handleAddObject)
	exhibitions.GET("/objects", h.handleListObjects)
	exhibitions.PUT("/objects/order", h.handleReorderObjects)
	exhibitions.GET("/objects/:objectId/availability", h.handleCheckAvailability)

	exhibitions.POST("/storylines", h.handleCreateStoryline)
	exhibitions.GET("/storylines", h.handleListStorylines)

	exhibitions.POST("/events", h.handleScheduleEvent)
	exhibitions.GET("/events", h.handleListEvents)

	exhibitions.POST("/checklists", h.handleCreateChecklist)
	exhibitions.GET("/checklists", h.handleListChecklists)

	api.PATCH("/sections/:sectionId", h.handleUpdateSection)
	api.DELETE("/sections/:sectionId", h.handleDeleteSection)
	api.PATCH("/placements/:placementId", h.handleUpdateObject)
	api.PATCH("/placements/:placementId/status", h.handleUpdateObjectStatus)
	api.DELETE("/placements/:placementId", h.handleRemoveObject)
	api.GET("/storylines/:storylineId", h.handleGetStoryline)
	api.PATCH("/storylines/:storylineId", h.handleUpdateStoryline)
	api.DELETE("/storylines/:storylineId", h.handleDeleteStoryline)
	api.POST("/storylines/:storylineId/stops", h.handleAddStop)
	api.PATCH("/stops/:stopId", h.handleUpdateStop)
	api.DELETE("/stops/:stopId", h.handleDeleteStop)
	api.PATCH("/events/:eventId", h.handleUpdateEvent)
	api.DELETE("/events/:eventId", h.handleDeleteEvent)
	api.POST("/events/:eventId/cancel", h.handleCancelEvent)
	api.GET("/checklists/:checklistId", h.handleGetChecklist)
	api.POST("/checklists/:checklistId/items", h.handleAddChecklistItem)
	api.POST("/checklist-items/:itemId/complete", h.handleCompleteChecklistItem)
	api.POST("/checklist-items/:itemId/reopen", h.handleReopenChecklistItem)
	api.GET("/catalogue/:objectId", h.handleResolveObject)
}
