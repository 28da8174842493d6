// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wayfare/internal/http/handlers"
	"wayfare/internal/http/middleware"
	"wayfare/internal/infra"
	"wayfare/internal/modules/aiusage"
	"wayfare/internal/modules/assistant"
	"wayfare/internal/modules/profile"
	"wayfare/internal/modules/search"
	"wayfare/internal/modules/trip"
)

type RouterDeps struct {
	Log       *zap.Logger
	Verifier  infra.TokenVerifier
	Search    *search.Service
	Assistant *assistant.Service
	Usage     *aiusage.Service
	Trips     *trip.Service
	Profiles  *profile.Service
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.TraceID(),
		middleware.Logging(deps.Log),
		middleware.Recovery(deps.Log),
	)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")

	// Search and chat are open to anonymous visitors; a token only scopes the chat quota.
	public := api.Group("", middleware.OptionalAuth(deps.Verifier))
	searchHandler := handlers.NewSearchHandler(deps.Search)
	public.POST("/search", searchHandler.Search)
	public.POST("/amadeus/flights", searchHandler.Flights)
	public.POST("/amadeus/hotels", searchHandler.Hotels)
	public.POST("/amadeus/activities", searchHandler.Activities)

	chatHandler := handlers.NewChatHandler(deps.Assistant, deps.Usage)
	public.POST("/chat", chatHandler.Chat)

	private := api.Group("", middleware.Auth(deps.Verifier))
	tripHandler := handlers.NewTripHandler(deps.Trips)
	private.POST("/trips", tripHandler.Create)
	private.GET("/trips", tripHandler.List)
	private.GET("/trips/:id", tripHandler.Get)
	private.GET("/trips/:id/itinerary", tripHandler.ListItems)
	private.POST("/trips/:id/itinerary", tripHandler.AddItem)
	private.DELETE("/trips/:id/itinerary/:itemId", tripHandler.DeleteItem)
	private.GET("/trips/:id/members", tripHandler.ListMembers)
	private.POST("/trips/:id/members", tripHandler.AddMember)
	private.GET("/trips/:id/calendar.ics", tripHandler.Calendar)
	private.GET("/users/search", tripHandler.SearchUsers)

	profileHandler := handlers.NewProfileHandler(deps.Profiles)
	private.GET("/profile", profileHandler.Get)
	private.PUT("/profile", profileHandler.Save)
	private.GET("/profile/options", profileHandler.Options)

	return r
}
