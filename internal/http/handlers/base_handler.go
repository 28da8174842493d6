// README: Base handler utilities (JSON helpers, caller identity, error responses).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfare/internal/http/middleware"
	"wayfare/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeInternal hides err from the client but keeps it on the context for the request log.
func writeInternal(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	writeError(c, http.StatusInternalServerError, msg)
}

// caller returns the authenticated uid. Routes behind middleware.Auth always have one.
func caller(c *gin.Context) (types.ID, bool) {
	uid := middleware.CallerUID(c)
	if uid == "" {
		writeError(c, http.StatusUnauthorized, "unauthenticated")
		return "", false
	}
	return types.ID(uid), true
}

// pathID reads a route parameter that must look like a store id.
func pathID(c *gin.Context, name string) (types.ID, bool) {
	v := c.Param(name)
	if !types.ValidID(v) {
		writeError(c, http.StatusBadRequest, "invalid "+name)
		return "", false
	}
	return types.ID(v), true
}
