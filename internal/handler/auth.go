package handler

import (
	"net/http"

	"github.com/ashherx/coin-bounce/internal/logging"
	"github.com/ashherx/coin-bounce/internal/model"
	"github.com/ashherx/coin-bounce/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *service.AuthService
	log logging.Logger
}

func NewAuthHandler(svc *service.AuthService, log logging.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "New account"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	session, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.setSessionCookies(c, session)
	c.JSON(http.StatusCreated, model.AuthResponse{User: &session.User, Auth: true})
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Username and password"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.setSessionCookies(c, session)
	c.JSON(http.StatusOK, model.AuthResponse{User: &session.User, Auth: true})
}

// Logout godoc
// @Summary Logout
// @Description Revokes the refresh token cookie (if present) and clears both cookies.
// @Tags auth
// @Produce json
// @Success 200 {object} model.AuthResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(h.svc.CookieConfig().RefreshName)
	if err := h.svc.Logout(c.Request.Context(), refreshToken); err != nil {
		writeError(c, h.log, err)
		return
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, model.AuthResponse{User: nil, Auth: false})
}

// Refresh godoc
// @Summary Refresh the session
// @Description Exchanges the refreshToken cookie for a new cookie pair.
// @Tags auth
// @Produce json
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /refresh [get]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(h.svc.CookieConfig().RefreshName)
	session, err := h.svc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.setSessionCookies(c, session)
	c.JSON(http.StatusOK, model.AuthResponse{User: &session.User, Auth: true})
}

// Me godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, model.AuthResponse{User: user, Auth: true})
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, session *service.Session) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.AccessName, session.AccessToken, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(cfg.RefreshName, session.RefreshToken, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.AccessName, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.SetCookie(cfg.RefreshName, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
}
