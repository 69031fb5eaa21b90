package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/leaguehq/draftsim/internal/draft"
	"github.com/leaguehq/draftsim/internal/models"
	"github.com/leaguehq/draftsim/internal/predictor"
	"github.com/leaguehq/draftsim/internal/services"
	"github.com/leaguehq/draftsim/pkg/config"
	"github.com/leaguehq/draftsim/pkg/utils"
)

type DraftHandler struct {
	registry  *services.SessionRegistry
	profiles  *services.ProfileService
	refresher *services.ADPRefresher
	autopick  *services.AutopickDriver
	predictor *predictor.Predictor
	wsHub     *services.WebSocketHub
	config    *config.Config
	logger    *logrus.Logger
}

func NewDraftHandler(
	registry *services.SessionRegistry,
	profiles *services.ProfileService,
	refresher *services.ADPRefresher,
	autopick *services.AutopickDriver,
	p *predictor.Predictor,
	wsHub *services.WebSocketHub,
	cfg *config.Config,
	logger *logrus.Logger,
) *DraftHandler {
	return &DraftHandler{
		registry:  registry,
		profiles:  profiles,
		refresher: refresher,
		autopick:  autopick,
		predictor: p,
		wsHub:     wsHub,
		config:    cfg,
		logger:    logger,
	}
}

type createDraftRequest struct {
	League     string   `json:"league" binding:"required"`
	Members    []string `json:"members" binding:"required,min=2"`
	TeamCount  int      `json:"team_count"`
	RoundCount int      `json:"round_count"`
	DraftType  string   `json:"draft_type"`
	DraftOrder []string `json:"draft_order"`
}

// CreateDraft initializes a simulator from the reconciled pool and the
// members' behavior models and registers it as a session.
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	var req createDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	settings := models.DraftSettings{
		TeamCount:  req.TeamCount,
		RoundCount: req.RoundCount,
		DraftType:  models.DraftType(req.DraftType),
	}
	if settings.TeamCount == 0 {
		settings.TeamCount = len(req.Members)
	}
	if settings.RoundCount == 0 {
		settings.RoundCount = h.config.DefaultRoundCount
	}
	if settings.DraftType == "" {
		settings.DraftType = models.DraftType(h.config.DefaultDraftType)
	}

	pool, _, err := h.refresher.Pool(c.Request.Context())
	if err != nil {
		utils.SendConflict(c, "No player pool available; refresh ADP sources first")
		return
	}

	behaviorModels, err := h.profiles.BuildModels(c.Request.Context(), req.League, req.Members)
	if err != nil {
		utils.SendInternalError(c, "Failed to build behavior models")
		return
	}

	sim, err := draft.New(req.Members, pool, settings, req.DraftOrder, h.logger)
	if err != nil {
		utils.SendValidationError(c, "Invalid draft configuration", err.Error())
		return
	}

	session := h.registry.Create(req.League, sim, behaviorModels)
	utils.SendCreated(c, h.sessionState(session))
}

// GetDraft returns the live state of a session.
func (h *DraftHandler) GetDraft(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	utils.SendSuccess(c, h.sessionState(session))
}

type applyPickRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
}

// ApplyPick records a manual pick for the member on the clock.
func (h *DraftHandler) ApplyPick(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req applyPickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	pick, err := session.Sim.ApplyPick(req.PlayerID, false)
	if err != nil {
		h.sendDraftError(c, err)
		return
	}
	h.broadcastPick(session, pick)
	utils.SendSuccess(c, gin.H{"pick": pick, "state": h.sessionState(session)})
}

// AutopickStep advances the draft one pick using the on-clock member's
// behavior model. Callers loop this endpoint for full autopilot drafts.
func (h *DraftHandler) AutopickStep(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	result, err := h.autopick.Step(session)
	if err != nil {
		h.sendDraftError(c, err)
		return
	}
	h.broadcastPick(session, result.Pick)
	utils.SendSuccess(c, gin.H{"result": result, "state": h.sessionState(session)})
}

// Predict returns the predicted next position for the member on the
// clock without applying a pick. A null prediction means the pool has no
// viable candidate and best-remaining-ADP would be used.
func (h *DraftHandler) Predict(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	sim := session.Sim
	if sim.IsComplete() {
		utils.SendConflict(c, "Draft is complete")
		return
	}

	memberID := sim.CurrentMember()
	model := session.Models[memberID]
	if model == nil {
		utils.SendSuccess(c, gin.H{"member_id": memberID, "prediction": nil})
		return
	}

	pos := draft.PositionForPick(sim.CurrentPickNumber(), sim.Settings().TeamCount, sim.Settings().DraftType)
	prediction := h.predictor.Predict(
		model,
		sim.PicksByMember(memberID),
		sim.Pool(),
		pos.Round,
		pos.Slot,
		services.BoardContextFor(sim),
	)
	utils.SendSuccess(c, gin.H{"member_id": memberID, "prediction": prediction})
}

// GetGrid returns the round x team pick grid as JSON.
func (h *DraftHandler) GetGrid(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	utils.SendSuccess(c, gin.H{
		"members": session.Sim.Members(),
		"grid":    session.Sim.ExportGrid(),
	})
}

// ExportGridCSV streams the pick grid as a CSV attachment.
func (h *DraftHandler) ExportGridCSV(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=mock-draft.csv")
	if err := session.Sim.WriteGridCSV(c.Writer); err != nil {
		h.logger.Errorf("Failed to write grid CSV: %v", err)
	}
}

// DeleteDraft removes a session.
func (h *DraftHandler) DeleteDraft(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	h.registry.Delete(session.ID)
	utils.SendSuccess(c, gin.H{"deleted": session.ID})
}

func (h *DraftHandler) session(c *gin.Context) (*services.DraftSession, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid session id", err.Error())
		return nil, false
	}
	session, err := h.registry.Get(id)
	if err != nil {
		utils.SendNotFound(c, "Draft session not found")
		return nil, false
	}
	return session, true
}

func (h *DraftHandler) sessionState(session *services.DraftSession) gin.H {
	sim := session.Sim
	return gin.H{
		"id":           session.ID,
		"league":       session.League,
		"members":      sim.Members(),
		"settings":     sim.Settings(),
		"current_pick": sim.CurrentPickNumber(),
		"on_the_clock": sim.CurrentMember(),
		"pool_size":    sim.PoolSize(),
		"is_complete":  sim.IsComplete(),
		"picks":        sim.Picks(),
	}
}

func (h *DraftHandler) broadcastPick(session *services.DraftSession, pick models.Pick) {
	h.wsHub.BroadcastEvent(services.DraftEvent{
		Type:      "pick_applied",
		SessionID: session.ID.String(),
		Data:      pick,
	})
	if session.Sim.IsComplete() {
		h.wsHub.BroadcastEvent(services.DraftEvent{
			Type:      "draft_complete",
			SessionID: session.ID.String(),
		})
	}
}

func (h *DraftHandler) sendDraftError(c *gin.Context, err error) {
	var stateErr *draft.InvalidStateError
	var pickErr *draft.InvalidPickError
	switch {
	case errors.As(err, &stateErr):
		utils.SendError(c, http.StatusConflict, utils.NewAppError(utils.ErrCodeDraftState, "Draft state error", stateErr.Reason))
	case errors.As(err, &pickErr):
		utils.SendValidationError(c, "Invalid pick", pickErr.Error())
	default:
		utils.SendInternalError(c, "Draft operation failed")
	}
}
