package handler

import (
	"github.com/gin-gonic/gin"

	"go-cms-backend/internal/domain"
	"go-cms-backend/internal/service"
	"go-cms-backend/internal/transport/http/response"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Priority 鉴权路由最先挂载
func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	g.POST("/auth/register", h.register)
	g.POST("/auth/login", h.login)
}

func (h *AuthHandler) MountAuthed(g *gin.RouterGroup) {
	g.GET("/auth/me", h.me)
}

type tokenOut struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) register(c *gin.Context) {
	var in service.Credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err)
		return
	}
	u, tok, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "user")
		return
	}
	response.Created(c, "User registered successfully", tokenOut{Token: tok, User: u})
}

func (h *AuthHandler) login(c *gin.Context) {
	var in service.Credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err)
		return
	}
	u, tok, err := h.auth.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondError(c, err, "user")
		return
	}
	response.Message(c, "Login successful", tokenOut{Token: tok, User: u})
}

func (h *AuthHandler) me(c *gin.Context) {
	u, err := h.auth.Me(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err, "user")
		return
	}
	response.OK(c, u)
}
