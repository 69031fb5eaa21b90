package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/leaguehq/draftsim/internal/services"
	"github.com/leaguehq/draftsim/pkg/utils"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// ListMembers returns the known member ids for a league.
func (h *ProfileHandler) ListMembers(c *gin.Context) {
	league := c.Query("league")
	if league == "" {
		utils.SendValidationError(c, "Missing league", "query parameter 'league' is required")
		return
	}

	members, err := h.profiles.Members(league)
	if err != nil {
		utils.SendInternalError(c, "Failed to list members")
		return
	}
	utils.SendSuccess(c, gin.H{"league": league, "members": members})
}

// GetProfile returns a member's aggregated draft profile. A member with
// no history gets an empty-but-valid profile, not an error.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	league := c.Query("league")
	if league == "" {
		utils.SendValidationError(c, "Missing league", "query parameter 'league' is required")
		return
	}

	memberProfile, err := h.profiles.GetProfile(c.Request.Context(), league, c.Param("id"))
	if err != nil {
		utils.SendInternalError(c, "Failed to build profile")
		return
	}
	utils.SendSuccess(c, memberProfile)
}

// GetModel returns a member's compiled behavior model.
func (h *ProfileHandler) GetModel(c *gin.Context) {
	league := c.Query("league")
	if league == "" {
		utils.SendValidationError(c, "Missing league", "query parameter 'league' is required")
		return
	}

	model, err := h.profiles.GetModel(c.Request.Context(), league, c.Param("id"))
	if err != nil {
		utils.SendInternalError(c, "Failed to build behavior model")
		return
	}
	utils.SendSuccess(c, model)
}
