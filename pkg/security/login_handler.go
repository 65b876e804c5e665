package security

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/rate_limiter"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type UserFinder interface {
	GetByUsername(ctx context.Context, q repository.Executor, username string) (*models.User, error)
}

type LoginHandler struct {
	store       repository.Transactor
	users       UserFinder
	issuer      *TokenIssuer
	rateLimiter *rate_limiter.RateLimiter
	logger      *zap.Logger
}

func NewLoginHandler(store repository.Transactor, users UserFinder, issuer *TokenIssuer, rl *rate_limiter.RateLimiter, logger *zap.Logger) *LoginHandler {
	return &LoginHandler{
		store:       store,
		users:       users,
		issuer:      issuer,
		rateLimiter: rl,
		logger:      logger,
	}
}

func (l *LoginHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/auth", l.LoginHandler())
}

// AuthenticateUser checks the password of an active user.
func AuthenticateUser(ctx context.Context, username, password string, store repository.Transactor, users UserFinder) (*models.User, error) {
	user, err := users.GetByUsername(ctx, store.Executor(), strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (l *LoginHandler) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := clientKey(c)

		decision, err := l.rateLimiter.Attempt(c.Request.Context(), clientKey)
		if err != nil {
			l.logger.Error("Rate limiter unavailable", zap.String("client", clientKey), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if !decision.Allowed {
			resetAt := decision.ResetAt.Format(time.RFC3339)
			c.Header("X-RateLimit-Limit", strconv.Itoa(l.rateLimiter.Limit()))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			c.Header("X-RateLimit-Reset", resetAt)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":     "Too many login attempts. Try again later.",
				"remaining": decision.Remaining,
				"reset_at":  resetAt,
			})
			return
		}

		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		user, err := AuthenticateUser(c.Request.Context(), req.Username, req.Password, l.store, l.users)
		if err != nil {
			if !errors.Is(err, ErrInvalidCredentials) {
				l.logger.Error("Login lookup failed", zap.String("username", req.Username), zap.Error(err))
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		if err := l.rateLimiter.Reset(c.Request.Context(), clientKey); err != nil {
			l.logger.Warn("Unable to reset login attempts", zap.String("client", clientKey), zap.Error(err))
		}

		token, err := l.issuer.GenerateJWT(user)
		if err != nil {
			l.logger.Error("Failed to sign token", zap.Int("user_id", user.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user": gin.H{
				"id":       user.ID,
				"username": user.Username,
				"fullname": user.Fullname,
				"role":     user.Role,
			},
		})
	}
}

// clientKey prefers proxy headers; private addresses are combined with the user agent.
func clientKey(c *gin.Context) string {
	clientIP := c.GetHeader("X-Forwarded-For")
	if clientIP == "" {
		clientIP = c.GetHeader("X-Real-IP")
	}
	if clientIP == "" {
		clientIP = c.ClientIP()
	}

	if strings.Contains(clientIP, ",") {
		clientIP = strings.TrimSpace(strings.Split(clientIP, ",")[0])
	}

	if isPrivateIP(clientIP) {
		clientIP = clientIP + ":" + c.GetHeader("User-Agent")
	}

	return clientIP
}

func isPrivateIP(ip string) bool {
	privatePrefixes := []string{
		"10.",
		"172.16.", "172.17.", "172.18.", "172.19.",
		"172.20.", "172.21.", "172.22.", "172.23.",
		"172.24.", "172.25.", "172.26.", "172.27.",
		"172.28.", "172.29.", "172.30.", "172.31.",
		"192.168.",
		"127.",
		"169.254.",
		"::1",
		"fc00::",
		"fe80::",
	}

	for _, prefix := range privatePrefixes {
		if strings.HasPrefix(ip, prefix) {
			return true
		}
	}
	return false
}
