package handlers

import (
	"net/http"
	"strconv"
	"time"

	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/repositories"
	"example.com/galleria/services/exhibition/internal/services"
	"example.com/galleria/services/exhibition/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ExhibitionHandler handles exhibition lifecycle HTTP requests
type ExhibitionHandler struct {
	exhibitions *services.ExhibitionService
	tracer      tracing.Tracer
}

// NewExhibitionHandler creates a new exhibition handler
func NewExhibitionHandler(exhibitions *services.ExhibitionService, tracer tracing.Tracer) *ExhibitionHandler {
	return &ExhibitionHandler{
		exhibitions: exhibitions,
		tracer:      tracer,
	}
}

// CreateExhibitionRequest is the payload for creating an exhibition
type CreateExhibitionRequest struct {
	Title        string     `json:"title" binding:"required"`
	Subtitle     *string    `json:"subtitle"`
	Slug         *string    `json:"slug"`
	Description  *string    `json:"description"`
	Theme        *string    `json:"theme"`
	Type         string     `json:"exhibition_type" binding:"omitempty,exhibition_type"`
	PlanningDate *time.Time `json:"planning_date"`
	OpeningDate  *time.Time `json:"opening_date"`
	ClosingDate  *time.Time `json:"closing_date"`
	VenueID      *uuid.UUID `json:"venue_id"`
	VenueName    *string    `json:"venue_name"`
	CuratorID    *uuid.UUID `json:"curator_id"`
	CuratorName  *string    `json:"curator_name"`
	Budget       *float64   `json:"budget"`
}

// UpdateExhibitionRequest is the payload for partial exhibition updates
type UpdateExhibitionRequest struct {
	Title        *string    `json:"title"`
	Subtitle     *string    `json:"subtitle"`
	Description  *string    `json:"description"`
	Theme        *string    `json:"theme"`
	Type         *string    `json:"exhibition_type" binding:"omitempty,exhibition_type"`
	PlanningDate *time.Time `json:"planning_date"`
	OpeningDate  *time.Time `json:"opening_date"`
	ClosingDate  *time.Time `json:"closing_date"`
	VenueID      *uuid.UUID `json:"venue_id"`
	VenueName    *string    `json:"venue_name"`
	CuratorID    *uuid.UUID `json:"curator_id"`
	CuratorName  *string    `json:"curator_name"`
	Budget       *float64   `json:"budget"`
}

// TransitionRequest is the payload for a lifecycle transition
type TransitionRequest struct {
	Status string `json:"status" binding:"required,exhibition_status"`
	Reason string `json:"reason"`
}

// HandleCreateExhibition creates an exhibition
func (h *ExhibitionHandler) HandleCreateExhibition(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-exhibition")
	defer h.tracer.EndTransaction(txn)

	actor, ok := actorID(c)
	if !ok {
		return
	}

	var req CreateExhibitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exhibition, err := h.exhibitions.CreateExhibition(c, services.CreateExhibitionInput{
		Title:        req.Title,
		Subtitle:     req.Subtitle,
		Slug:         req.Slug,
		Description:  req.Description,
		Theme:        req.Theme,
		Type:         models.ExhibitionType(req.Type),
		PlanningDate: req.PlanningDate,
		OpeningDate:  req.OpeningDate,
		ClosingDate:  req.ClosingDate,
		VenueID:      req.VenueID,
		VenueName:    req.VenueName,
		CuratorID:    req.CuratorID,
		CuratorName:  req.CuratorName,
		Budget:       req.Budget,
	}, actor)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create exhibition")
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exhibition)
}

// HandleGetExhibition returns one exhibition; ?details=true includes all
// sub-trees
func (h *ExhibitionHandler) HandleGetExhibition(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	includeDetails := c.Query("details") == "true"
	exhibition, err := h.exhibitions.GetExhibition(c, id, includeDetails)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, exhibition)
}

// HandleUpdateExhibition applies a partial update
func (h *ExhibitionHandler) HandleUpdateExhibition(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var req UpdateExhibitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := services.ExhibitionPatch{
		Title:        req.Title,
		Subtitle:     req.Subtitle,
		Description:  req.Description,
		Theme:        req.Theme,
		PlanningDate: req.PlanningDate,
		OpeningDate:  req.OpeningDate,
		ClosingDate:  req.ClosingDate,
		VenueID:      req.VenueID,
		VenueName:    req.VenueName,
		CuratorID:    req.CuratorID,
		CuratorName:  req.CuratorName,
		Budget:       req.Budget,
	}
	if req.Type != nil {
		exhibitionType := models.ExhibitionType(*req.Type)
		patch.Type = &exhibitionType
	}

	if err := h.exhibitions.UpdateExhibition(c, id, patch, actor); err != nil {
		respondError(c, err)
		return
	}

	exhibition, err := h.exhibitions.GetExhibition(c, id, false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exhibition)
}

// HandleTransition moves an exhibition along the lifecycle
func (h *ExhibitionHandler) HandleTransition(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-transition-status")
	defer h.tracer.EndTransaction(txn)

	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.tracer.AddAttribute(txn, "exhibition_id", id.String())
	h.tracer.AddAttribute(txn, "to_status", req.Status)

	exhibition, err := h.exhibitions.TransitionStatus(c, id, models.ExhibitionStatus(req.Status), actor, req.Reason)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, exhibition)
}

// HandleGetTransitions lists the legal next states for an exhibition
func (h *ExhibitionHandler) HandleGetTransitions(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	exhibition, err := h.exhibitions.GetExhibition(c, id, false)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              exhibition.Status,
		"allowed_transitions": services.AllowedTransitions(exhibition.Status),
	})
}

// HandleGetHistory returns the exhibition's transition ledger
func (h *ExhibitionHandler) HandleGetHistory(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	history, err := h.exhibitions.GetStatusHistory(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// HandleSearchExhibitions returns a filtered page of exhibitions
func (h *ExhibitionHandler) HandleSearchExhibitions(c *gin.Context) {
	filter := repositories.ExhibitionFilter{
		Query:    c.Query("q"),
		Current:  c.Query("current") == "true",
		Upcoming: c.Query("upcoming") == "true",
	}

	for _, status := range c.QueryArray("status") {
		if !services.IsValidStatus(models.ExhibitionStatus(status)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + status})
			return
		}
		filter.Statuses = append(filter.Statuses, models.ExhibitionStatus(status))
	}
	if t := c.Query("type"); t != "" {
		exhibitionType := models.ExhibitionType(t)
		filter.Type = &exhibitionType
	}
	if v := c.Query("venue_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue_id"})
			return
		}
		filter.VenueID = &id
	}
	if v := c.Query("curator_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid curator_id"})
			return
		}
		filter.CuratorID = &id
	}
	if v := c.Query("opening_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid opening_year"})
			return
		}
		filter.OpeningYear = &year
	}
	if v := c.Query("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			filter.Offset = offset
		}
	}

	result, err := h.exhibitions.SearchExhibitions(c, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RegisterRoutes registers the handler's routes
func (h *ExhibitionHandler) RegisterRoutes(api *gin.RouterGroup) {
	exhibitions := api.Group("/exhibitions")
	exhibitions.POST("", h.HandleCreateExhibition)
	exhibitions.GET("", h.HandleSearchExhibitions)
	exhibitions.GET("/:id", h.HandleGetExhibition)
	exhibitions.PATCH("/:id", h.HandleUpdateExhibition)
	exhibitions.POST("/:id/transition", h.HandleTransition)
	exhibitions.GET("/:id/transitions", h.HandleGetTransitions)
	exhibitions.GET("/:id/history", h.HandleGetHistory)
}
