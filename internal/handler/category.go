package handler

import (
	"net/http"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/category"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	Categories *category.Service
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{Categories: category.NewService(db)}
}

type categoryReq struct {
	Name     string `json:"name" binding:"required,max=100"`
	Type     string `json:"type" binding:"required,oneof=income expense"`
	ParentID *uint  `json:"parent_id"`
	Icon     string `json:"icon" binding:"max=10"`
	Color    string `json:"color" binding:"max=7"`
}

func (r categoryReq) toInput() category.Input {
	return category.Input{
		Name:     r.Name,
		Type:     models.TransactionType(r.Type),
		ParentID: r.ParentID,
		Icon:     r.Icon,
		Color:    r.Color,
	}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	cat, err := h.Categories.Create(user.ID, req.toInput())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"category": cat})
}

// List returns the user's categories, optionally one type only.
func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	activeOnly := c.DefaultQuery("active_only", "true") != "false"

	if typeParam := c.Query("type"); typeParam != "" {
		t, err := models.ParseTransactionType(typeParam)
		if err != nil {
			util.Fail(c, err)
			return
		}
		cats, err := h.Categories.ListByType(user.ID, t, activeOnly)
		if err != nil {
			util.Fail(c, err)
			return
		}
		util.Success(c, util.Response{"categories": cats})
		return
	}

	cats, err := h.Categories.List(user.ID, activeOnly)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"categories": cats})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	cat, err := h.Categories.Update(user.ID, id, req.toInput())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"category": cat})
}

type reparentReq struct {
	ParentID *uint `json:"parent_id"`
}

func (h *CategoryHandler) Reparent(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req reparentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if err := h.Categories.Reparent(user.ID, id, req.ParentID); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "category moved"})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Categories.SoftDelete(user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "category deleted"})
}

func (h *CategoryHandler) Restore(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Categories.Restore(user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "category restored"})
}
