package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
)

const (
	actorIDHeader   = "X-User-ID"
	actorRoleHeader = "X-User-Role"
)

// actorFrom extracts the acting identity from request headers. Identity
// verification belongs to the gateway in front of this service; these headers
// are trusted as already authenticated.
func actorFrom(c *gin.Context) (string, domain.ActorRole, bool) {
	id := c.GetHeader(actorIDHeader)
	role := domain.ActorRole(c.GetHeader(actorRoleHeader))

	switch role {
	case domain.RoleCustomer, domain.RoleRider, domain.RoleSystem:
	default:
		return "", "", false
	}
	if id == "" && role != domain.RoleSystem {
		return "", "", false
	}
	return id, role, true
}

// requireActor extracts the actor or aborts with 400.
func requireActor(c *gin.Context) (string, domain.ActorRole, bool) {
	id, role, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid actor headers"})
	}
	return id, role, ok
}
