// README: Trip, itinerary and membership handlers. Every route requires an authenticated caller.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wayfare/internal/modules/trip"
	"wayfare/internal/types"
)

type TripHandler struct {
	trips *trip.Service
}

func NewTripHandler(svc *trip.Service) *TripHandler {
	return &TripHandler{trips: svc}
}

type createTripReq struct {
	TripName    string     `json:"tripName"`
	Budget      float64    `json:"budget"`
	Travelers   int        `json:"travelers"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	StartDate   types.Date `json:"startDate"`
	EndDate     types.Date `json:"endDate"`
}

type addItemReq struct {
	types.Offer
	Type types.ItemType `json:"type"`
}

type addMemberReq struct {
	UID string `json:"uid"`
}

// Create handles POST /api/trips.
//
// @Summary  Create a trip owned by the caller
// @Tags     trips
// @Accept   json
// @Produce  json
// @Success  201 {object} trip.Trip
// @Failure  400 {object} errorResponse
// @Router   /api/trips [post]
func (h *TripHandler) Create(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var req createTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := h.trips.CreateTrip(c.Request.Context(), uid, trip.CreateTripCommand{
		TripName:    req.TripName,
		Budget:      req.Budget,
		Travelers:   req.Travelers,
		Origin:      req.Origin,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, t)
}

// List handles GET /api/trips.
func (h *TripHandler) List(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	trips, err := h.trips.ListTripsForMember(c.Request.Context(), uid)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"trips": trips})
}

// Get handles GET /api/trips/:id.
func (h *TripHandler) Get(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.trips.GetTrip(c.Request.Context(), uid, tripID)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, t)
}

// ListItems handles GET /api/trips/:id/itinerary.
func (h *TripHandler) ListItems(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.trips.ListItineraryItems(c.Request.Context(), uid, tripID)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"items": items})
}

// AddItem handles POST /api/trips/:id/itinerary.
func (h *TripHandler) AddItem(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	item, err := h.trips.AddItineraryItem(c.Request.Context(), uid, tripID, req.Offer, req.Type)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, item)
}

// DeleteItem handles DELETE /api/trips/:id/itinerary/:itemId.
func (h *TripHandler) DeleteItem(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	if err := h.trips.DeleteItineraryItem(c.Request.Context(), uid, tripID, itemID); err != nil {
		writeTripError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMembers handles GET /api/trips/:id/members.
func (h *TripHandler) ListMembers(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}
	members, err := h.trips.ListMembers(c.Request.Context(), uid, tripID)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"members": members})
}

// AddMember handles POST /api/trips/:id/members. Adding an existing member is a no-op.
func (h *TripHandler) AddMember(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req addMemberReq
	if err := c.ShouldBindJSON(&req); err != nil || !types.ValidID(req.UID) {
		writeError(c, http.StatusBadRequest, "invalid uid")
		return
	}
	t, err := h.trips.AddMember(c.Request.Context(), uid, tripID, types.ID(req.UID))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, t)
}

// Calendar handles GET /api/trips/:id/calendar.ics.
func (h *TripHandler) Calendar(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ics, err := h.trips.ExportCalendar(c.Request.Context(), uid, tripID)
	if err != nil {
		writeTripError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "trip-"+string(tripID)+".ics"))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// SearchUsers handles GET /api/users/search?email=<prefix>.
func (h *TripHandler) SearchUsers(c *gin.Context) {
	if _, ok := caller(c); !ok {
		return
	}
	users, err := h.trips.SearchUsersByEmailPrefix(c.Request.Context(), strings.ToLower(c.Query("email")))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"users": users})
}

func writeTripError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trip.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, trip.ErrUnauthorized):
		writeError(c, http.StatusForbidden, trip.ErrUnauthorized.Error())
	case errors.Is(err, trip.ErrNotFound):
		writeError(c, http.StatusNotFound, trip.ErrNotFound.Error())
	default:
		writeInternal(c, err, "internal error")
	}
}
