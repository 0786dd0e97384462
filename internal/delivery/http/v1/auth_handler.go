package v1

import (
	"net/http"

	"github.com/Negibkaya/Mias-sema/internal/delivery/http/response"
	"github.com/Negibkaya/Mias-sema/internal/domain"
	"github.com/Negibkaya/Mias-sema/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

func NewAuthHandler(public *gin.RouterGroup, authUC domain.AuthUsecase) {
	handler := &AuthHandler{authUC: authUC}

	auth := public.Group("/auth")
	{
		auth.POST("/telegram/complete", handler.TelegramComplete)
	}
}

type TelegramCompleteRequest struct {
	Code string `json:"code" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TelegramComplete godoc
// @Summary      Exchange a Telegram login code for an access token
// @Description  Redeems a one-time code issued by the Telegram bot and returns a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      TelegramCompleteRequest  true  "Login code"
// @Success      200      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/telegram/complete [post]
func (h *AuthHandler) TelegramComplete(c *gin.Context) {
	var req TelegramCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	token, err := h.authUC.CompleteLogin(c.Request.Context(), req.Code)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Login complete", TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
