package handler

import (
	"net/http"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/ledger"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TransferHandler struct {
	Ledger   *ledger.Service
	PageSize int
}

func NewTransferHandler(db *gorm.DB, pageSize int) *TransferHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransferHandler{Ledger: ledger.NewService(db), PageSize: pageSize}
}

type transferReq struct {
	FromAccountID uint   `json:"from_account_id" binding:"required"`
	ToAccountID   uint   `json:"to_account_id" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Date          string `json:"date"`
	Description   string `json:"description" binding:"max=200"`
}

func (h *TransferHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req transferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	amount, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.Fail(c, err)
		return
	}
	var date time.Time
	if req.Date != "" {
		date, err = util.ParseDate(req.Date)
		if err != nil {
			util.Fail(c, err)
			return
		}
	}
	tr, err := h.Ledger.RecordTransfer(user.ID, ledger.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        amount,
		Date:          date,
		Description:   req.Description,
	})
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"transfer": tr})
}

func (h *TransferHandler) List(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	page, perPage := pagination(c, h.PageSize)
	transfers, total, err := h.Ledger.ListTransfers(user.ID, page, perPage)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"transfers": transfers,
		"total":     total,
		"page":      page,
		"per_page":  perPage,
	})
}

func (h *TransferHandler) Delete(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Ledger.DeleteTransfer(user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "transfer deleted"})
}
