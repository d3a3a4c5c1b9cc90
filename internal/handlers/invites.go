package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wjy1814-droid/memos/internal/services"
	"github.com/wjy1814-droid/memos/pkg/response"
)

// InviteHandler serves invite creation, inspection, redemption and
// revocation.
type InviteHandler struct {
	invites *services.InviteService
}

// NewInviteHandler constructs an InviteHandler instance.
func NewInviteHandler(invites *services.InviteService) *InviteHandler {
	return &InviteHandler{invites: invites}
}

type createInviteRequest struct {
	GroupID   string `json:"group_id" validate:"required"`
	ExpiresIn int    `json:"expires_in" validate:"omitempty,min=1,max=31536000"`
	MaxUses   *int   `json:"max_uses" validate:"omitempty,min=1"`
}

// Create issues a new invite link for a group.
func (h *InviteHandler) Create(c *gin.Context) {
	req, err := bindAndValidate[createInviteRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	created, err := h.invites.Create(requestContext(c), req.GroupID, currentUserID(c), services.CreateInviteInput{
		ExpiresIn: time.Duration(req.ExpiresIn) * time.Second,
		MaxUses:   req.MaxUses,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// Inspect previews an invite without redeeming it.
func (h *InviteHandler) Inspect(c *gin.Context) {
	preview, err := h.invites.Inspect(requestContext(c), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, preview)
}

// Accept redeems an invite for the caller.
func (h *InviteHandler) Accept(c *gin.Context) {
	group, err := h.invites.Redeem(requestContext(c), c.Param("code"), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, group)
}

// ListForGroup returns every invite issued for a group.
func (h *InviteHandler) ListForGroup(c *gin.Context) {
	invites, err := h.invites.ListForGroup(requestContext(c), c.Param("groupId"), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, invites)
}

// Deactivate permanently disables an invite.
func (h *InviteHandler) Deactivate(c *gin.Context) {
	if err := h.invites.Deactivate(requestContext(c), c.Param("code"), currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deactivated": true})
}
