// README: Offer search handlers (aggregated search and single-category provider routes).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfare/internal/amadeus"
	"wayfare/internal/modules/search"
	"wayfare/internal/types"
)

const msgMissingParams = "Missing required parameters"

type SearchHandler struct {
	search *search.Service
}

func NewSearchHandler(svc *search.Service) *SearchHandler {
	return &SearchHandler{search: svc}
}

type searchReq struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Travellers  int    `json:"travellers"`
}

// Search handles POST /api/search.
//
// @Summary  Search flights, hotels and activities at once
// @Tags     search
// @Accept   json
// @Produce  json
// @Success  200 {object} search.Result
// @Failure  400 {object} errorResponse
// @Router   /api/search [post]
func (h *SearchHandler) Search(c *gin.Context) {
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgMissingParams)
		return
	}
	q, err := search.NewQuery(req.Origin, req.Destination, req.Date, req.Travellers)
	if err != nil {
		writeError(c, http.StatusBadRequest, msgMissingParams)
		return
	}
	res, err := h.search.Aggregate(c.Request.Context(), q)
	if err != nil {
		writeSearchError(c, err, "Failed to search travel options")
		return
	}
	writeJSON(c, http.StatusOK, res)
}

// Flights handles POST /api/amadeus/flights.
func (h *SearchHandler) Flights(c *gin.Context) {
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgMissingParams)
		return
	}
	q, err := search.NewQuery(req.Origin, req.Destination, req.Date, req.Travellers)
	if err != nil {
		writeError(c, http.StatusBadRequest, msgMissingParams)
		return
	}
	offers, err := h.search.Flights(c.Request.Context(), q)
	if err != nil {
		writeSearchError(c, err, "Failed to search flights")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"flights": offers})
}

// Hotels handles POST /api/amadeus/hotels.
func (h *SearchHandler) Hotels(c *gin.Context) {
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgMissingParams)
		return
	}
	date, err := types.ParseDate(req.Date)
	if err != nil {
		writeError(c, http.StatusBadRequest, msgMissingParams)
		return
	}
	offers, err := h.search.Hotels(c.Request.Context(), req.Destination, date, req.Travellers)
	if err != nil {
		writeSearchError(c, err, "Failed to search hotels")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"hotels": offers})
}

// Activities handles POST /api/amadeus/activities.
func (h *SearchHandler) Activities(c *gin.Context) {
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, msgMissingParams)
		return
	}
	offers, err := h.search.Activities(c.Request.Context(), req.Destination)
	if err != nil {
		writeSearchError(c, err, "Failed to search activities")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"activities": offers})
}

func writeSearchError(c *gin.Context, err error, failMsg string) {
	switch {
	case errors.Is(err, search.ErrInvalidRequest):
		writeError(c, http.StatusBadRequest, msgMissingParams)
	case errors.Is(err, amadeus.ErrLocationNotFound):
		writeError(c, http.StatusNotFound, "City not found")
	default:
		writeInternal(c, err, failMsg)
	}
}
