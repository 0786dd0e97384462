package v1

import (
	"net/http"
	"strconv"

	"github.com/Negibkaya/Mias-sema/internal/delivery/http/middleware"
	"github.com/Negibkaya/Mias-sema/internal/delivery/http/response"
	"github.com/Negibkaya/Mias-sema/internal/domain"
	"github.com/Negibkaya/Mias-sema/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchUC domain.MatchUsecase
}

func NewMatchHandler(protected *gin.RouterGroup, matchUC domain.MatchUsecase) {
	handler := &MatchHandler{matchUC: matchUC}

	ai := protected.Group("/ai")
	{
		ai.POST("/match", handler.Match)
		ai.GET("/requests", handler.ListRequests)
	}
}

type MatchRequest struct {
	ProjectID int64   `json:"project_id" binding:"required"`
	RoleName  *string `json:"role_name"`
	TopN      int     `json:"top_n" binding:"omitempty,gte=1,lte=20"`
}

// Match godoc
// @Summary      Rank candidates for a project's roles (owner only)
// @Description  Scores every other user against the project's roles via the configured LLM backend
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        payload  body      MatchRequest  true  "Match parameters"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /ai/match [post]
// @Security     BearerAuth
func (h *MatchHandler) Match(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	results, err := h.matchUC.RunMatch(c.Request.Context(), middleware.CurrentUserID(c), domain.MatchInput{
		ProjectID: req.ProjectID,
		RoleName:  req.RoleName,
		TopN:      req.TopN,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", results)
}

// ListRequests godoc
// @Summary      List the matching audit trail for a project (owner only)
// @Tags         ai
// @Produce      json
// @Param        project_id  query     int  true  "Project ID"
// @Success      200         {object}  response.Response
// @Failure      403         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /ai/requests [get]
// @Security     BearerAuth
func (h *MatchHandler) ListRequests(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Query("project_id"), 10, 64)
	if err != nil || projectID <= 0 {
		c.Error(apperror.BadRequest("project_id is required"))
		return
	}

	records, err := h.matchUC.ListAuditRecords(c.Request.Context(), middleware.CurrentUserID(c), projectID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", records)
}
