package handlers

import (
	"net/http"

	"boardgamelist/internal/auth"
	"boardgamelist/internal/domain/models"
	"boardgamelist/internal/http/middleware"
	"boardgamelist/internal/services"

	"github.com/gin-gonic/gin"
)

type Account struct {
	Users  services.UserStore
	Tokens *auth.TokenService
}

func (h Account) service(c *gin.Context) services.AccountService {
	return services.AccountService{
		Users:     h.Users,
		Tokens:    h.Tokens,
		RequestID: middleware.GetRequestID(c),
	}
}

// Register answers POST /Account/Register.
func (h Account) Register(c *gin.Context) {
	var p models.RegisterPayload
	if !BindJSONOrError(c, &p) {
		return
	}
	u, err := h.service(c).Register(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user registered", "user": u})
}

// Login answers POST /Account/Login.
func (h Account) Login(c *gin.Context) {
	var p models.LoginPayload
	if !BindJSONOrError(c, &p) {
		return
	}
	res, err := h.service(c).Login(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
