package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wjy1814-droid/memos/internal/services"
	"github.com/wjy1814-droid/memos/pkg/response"
)

// GroupHandler serves group lifecycle and roster endpoints.
type GroupHandler struct {
	groups *services.GroupService
}

// NewGroupHandler constructs a GroupHandler instance.
func NewGroupHandler(groups *services.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type createGroupRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"max=500"`
}

type updateGroupRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type addMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// List returns the caller's groups.
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.List(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, groups)
}

// Create registers a new group owned by the caller.
func (h *GroupHandler) Create(c *gin.Context) {
	req, err := bindAndValidate[createGroupRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	group, err := h.groups.Create(requestContext(c), currentUserID(c), services.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, group)
}

// Get returns group detail with the roster.
func (h *GroupHandler) Get(c *gin.Context) {
	detail, err := h.groups.GetByID(requestContext(c), c.Param("groupId"), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// Update modifies group metadata.
func (h *GroupHandler) Update(c *gin.Context) {
	req, err := bindAndValidate[updateGroupRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	group, err := h.groups.Update(requestContext(c), c.Param("groupId"), currentUserID(c), services.UpdateGroupInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, group)
}

// Delete removes a group and everything scoped to it.
func (h *GroupHandler) Delete(c *gin.Context) {
	if err := h.groups.Delete(requestContext(c), c.Param("groupId"), currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// AddMember attaches a registered user to the group by email.
func (h *GroupHandler) AddMember(c *gin.Context) {
	req, err := bindAndValidate[addMemberRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.groups.AddMember(requestContext(c), c.Param("groupId"), currentUserID(c), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, user)
}

// RemoveMember detaches a member from the group.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	err := h.groups.RemoveMember(requestContext(c), c.Param("groupId"), currentUserID(c), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

// Leave removes the caller's own membership.
func (h *GroupHandler) Leave(c *gin.Context) {
	if err := h.groups.Leave(requestContext(c), c.Param("groupId"), currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"left": true})
}
