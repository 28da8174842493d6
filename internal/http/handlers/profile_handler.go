// README: Travel preference handlers for the signed-in user.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfare/internal/http/middleware"
	"wayfare/internal/modules/profile"
)

type ProfileHandler struct {
	profiles *profile.Service
}

func NewProfileHandler(svc *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: svc}
}

type saveProfileReq struct {
	City        string   `json:"city"`
	Group       string   `json:"group"`
	Experiences []string `json:"experiences"`
	Activities  []string `json:"activities"`
	DreamType   string   `json:"dreamType"`
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	p, err := h.profiles.Get(c.Request.Context(), uid)
	if err != nil {
		writeProfileError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// Save handles PUT /api/profile. The stored document is replaced, not merged.
func (h *ProfileHandler) Save(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var req saveProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.profiles.Save(c.Request.Context(), uid, middleware.CallerEmail(c), profile.SavePreferencesCommand{
		City:        req.City,
		Group:       req.Group,
		Experiences: req.Experiences,
		Activities:  req.Activities,
		DreamType:   req.DreamType,
	})
	if err != nil {
		writeProfileError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

// Options handles GET /api/profile/options: the allowed values for each preference field.
func (h *ProfileHandler) Options(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{
		"groups":      profile.TravelGroups,
		"experiences": profile.Experiences,
		"activities":  profile.Activities,
		"dreamTypes":  profile.DreamTypes,
	})
}

func writeProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, profile.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, profile.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeInternal(c, err, "internal error")
	}
}
