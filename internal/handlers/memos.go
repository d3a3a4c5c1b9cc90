package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wjy1814-droid/memos/internal/services"
	"github.com/wjy1814-droid/memos/pkg/response"
)

// MemoHandler serves the personal memo pool and group memo boards.
type MemoHandler struct {
	memos *services.MemoService
}

// NewMemoHandler constructs a MemoHandler instance.
func NewMemoHandler(memos *services.MemoService) *MemoHandler {
	return &MemoHandler{memos: memos}
}

type memoRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

// ListPersonal returns the shared anonymous pool, newest first.
func (h *MemoHandler) ListPersonal(c *gin.Context) {
	memos, err := h.memos.ListPersonal(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, memos)
}

// CreatePersonal adds a memo to the anonymous pool.
func (h *MemoHandler) CreatePersonal(c *gin.Context) {
	req, err := bindAndValidate[memoRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	memo, err := h.memos.CreatePersonal(requestContext(c), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, memo)
}

// Get returns a single memo by id.
func (h *MemoHandler) Get(c *gin.Context) {
	memo, err := h.memos.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, memo)
}

// Update replaces a memo's content.
func (h *MemoHandler) Update(c *gin.Context) {
	req, err := bindAndValidate[memoRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	memo, err := h.memos.Update(requestContext(c), c.Param("id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, memo)
}

// Delete removes a memo.
func (h *MemoHandler) Delete(c *gin.Context) {
	if err := h.memos.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListForGroup returns a group's memo board. Members only.
func (h *MemoHandler) ListForGroup(c *gin.Context) {
	memos, err := h.memos.ListForGroup(requestContext(c), c.Param("groupId"), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, memos)
}

// CreateForGroup posts a memo to a group's board. Members only.
func (h *MemoHandler) CreateForGroup(c *gin.Context) {
	req, err := bindAndValidate[memoRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	memo, err := h.memos.CreateForGroup(requestContext(c), c.Param("groupId"), currentUserID(c), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, memo)
}
