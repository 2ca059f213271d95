package http

import (
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/kvistberg/noteboard/auth-service/internal/adapters/transport/http/dto"
	"github.com/kvistberg/noteboard/auth-service/internal/adapters/transport/http/middleware"
	appsvc "github.com/kvistberg/noteboard/auth-service/internal/app/auth/service"
	authErrors "github.com/kvistberg/noteboard/auth-service/internal/domain/auth/errors"
	"github.com/kvistberg/noteboard/auth-service/internal/infra/config"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with all auth routes. Password strength is
// enforced here, at the boundary; the service only rejects empty fields.
func NewRouter(svc appsvc.Service, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	registerStrongPwd()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			AllowCredentials: cfg.AllowCredentials,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "noteboard auth service"})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	auth := router.Group("/auth")

	auth.POST("/register", func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, err := svc.Register(c.Request.Context(), body)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.UserFromModel(user))
	})

	auth.POST("/token", func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		signed, err := svc.Login(c.Request.Context(), body)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.TokenDTO{AccessToken: signed, TokenType: "bearer"})
	})

	auth.GET("/me", func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		user, err := svc.CurrentUser(c.Request.Context(), raw)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.UserFromModel(user))
	})

	return router
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func handleError(c *gin.Context, err error) {
	switch {
	case authErrors.IsInvalidCredentialInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case authErrors.IsAuthenticationFailed(err):
		// Deliberately generic: does not reveal whether the account exists.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect username or password"})
	case authErrors.IsTokenExpired(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
	case authErrors.IsTokenInvalid(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case authErrors.IsDuplicate(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case authErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func registerStrongPwd() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
			pwd := fl.Field().String()
			var hasUpper, hasDigit bool
			for _, r := range pwd {
				if unicode.IsUpper(r) {
					hasUpper = true
				}
				if unicode.IsDigit(r) {
					hasDigit = true
				}
			}
			return utf8.RuneCountInString(pwd) >= 8 && hasUpper && hasDigit
		})
	}
}
