package handler

import (
	"net/http"
	"strconv"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/middleware"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/util"

	"github.com/gin-gonic/gin"
)

// requireUser pulls the authenticated user from the context, writing
// the 401 envelope itself when absent.
func requireUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return nil, false
	}
	return user, true
}

// parseID reads a positive integer path parameter, writing the 400
// envelope itself on bad input.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional positive integer query parameter.
func queryID(c *gin.Context, name string) (uint, bool) {
	s := c.Query(name)
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// pagination reads page/per_page query params with sane bounds.
func pagination(c *gin.Context, defaultPerPage int) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 || perPage > 200 {
		perPage = defaultPerPage
	}
	return page, perPage
}
