package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/leaguehq/draftsim/internal/services"
	"github.com/leaguehq/draftsim/pkg/utils"
)

type ADPHandler struct {
	refresher *services.ADPRefresher
}

func NewADPHandler(refresher *services.ADPRefresher) *ADPHandler {
	return &ADPHandler{refresher: refresher}
}

// GetPool returns the latest reconciled player pool.
func (h *ADPHandler) GetPool(c *gin.Context) {
	pool, updatedAt, err := h.refresher.Pool(c.Request.Context())
	if err != nil {
		utils.SendNotFound(c, "No reconciled ADP pool available yet")
		return
	}
	utils.SendSuccess(c, gin.H{
		"players":    pool,
		"updated_at": updatedAt,
	})
}

// RefreshPool forces an immediate re-fetch and reconciliation.
func (h *ADPHandler) RefreshPool(c *gin.Context) {
	if err := h.refresher.Refresh(c.Request.Context()); err != nil {
		utils.SendInternalError(c, "ADP refresh failed")
		return
	}
	pool, updatedAt, err := h.refresher.Pool(c.Request.Context())
	if err != nil {
		utils.SendInternalError(c, "ADP refresh produced no pool")
		return
	}
	utils.SendSuccess(c, gin.H{
		"players":    pool,
		"updated_at": updatedAt,
	})
}
