package handler

import (
	"net/http"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/account"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AccountHandler struct {
	Accounts *account.Service
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{Accounts: account.NewService(db)}
}

type accountReq struct {
	Name           string `json:"name" binding:"required,max=100"`
	Type           string `json:"type" binding:"required"`
	Currency       string `json:"currency"`
	InitialBalance string `json:"initial_balance"`
}

func (r accountReq) toInput() (account.Input, error) {
	in := account.Input{
		Name:     r.Name,
		Type:     models.AccountType(r.Type),
		Currency: r.Currency,
	}
	if r.InitialBalance != "" {
		bal, err := util.ParseSignedAmount(r.InitialBalance)
		if err != nil {
			return account.Input{}, err
		}
		in.InitialBalance = bal
	}
	return in, nil
}

func (h *AccountHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		util.Fail(c, err)
		return
	}
	acc, err := h.Accounts.Create(user.ID, in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"account": acc})
}

func (h *AccountHandler) List(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	activeOnly := c.DefaultQuery("active_only", "true") != "false"
	accounts, err := h.Accounts.List(user.ID, activeOnly)
	if err != nil {
		util.Fail(c, err)
		return
	}
	total, err := h.Accounts.TotalBalance(user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"accounts":      accounts,
		"total_balance": total,
	})
}

func (h *AccountHandler) Get(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	acc, err := h.Accounts.Get(user.ID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"account": acc})
}

func (h *AccountHandler) Update(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		util.Fail(c, err)
		return
	}
	acc, err := h.Accounts.Update(user.ID, id, in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"account": acc})
}

func (h *AccountHandler) Archive(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Accounts.Archive(user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "account archived"})
}

func (h *AccountHandler) Restore(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Accounts.Restore(user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "account restored"})
}
