package handler

import (
	"net/http"
	"time"

	"github.com/ashherx/coin-bounce/internal/logging"
	"github.com/ashherx/coin-bounce/internal/model"
	"github.com/ashherx/coin-bounce/internal/service"
	"github.com/gin-gonic/gin"
)

const authUserKey = "auth_user"

// AuthMiddleware admits requests carrying both session cookies and a valid
// access token. The refresh token is only checked for presence.
func AuthMiddleware(authService *service.AuthService, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		cookies := authService.CookieConfig()
		accessToken, _ := c.Cookie(cookies.AccessName)
		refreshToken, _ := c.Cookie(cookies.RefreshName)
		if accessToken == "" || refreshToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Unauthorized"})
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), accessToken)
		if err != nil {
			writeError(c, log, err)
			c.Abort()
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

func GetAuthUser(c *gin.Context) *model.UserDTO {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.UserDTO); ok {
			return user
		}
	}
	return nil
}

// RequestLogger logs one line per request after it completes.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if user := GetAuthUser(c); user != nil {
			args = append(args, "user_id", user.ID)
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error(c.Request.Context(), "http request", args...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn(c.Request.Context(), "http request", args...)
		default:
			log.Info(c.Request.Context(), "http request", args...)
		}
	}
}
