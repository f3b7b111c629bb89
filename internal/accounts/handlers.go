package accounts

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountHandlers provides HTTP handlers for account operations
type AccountHandlers struct {
	service AccountService
	logger  *zap.Logger
}

// NewAccountHandlers creates new account handlers
func NewAccountHandlers(service AccountService, logger *zap.Logger) *AccountHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers all account routes
func (h *AccountHandlers) RegisterRoutes(router gin.IRouter) {
	router.POST("/signup", h.Signup)
	router.POST("/close", h.Close)

	users := router.Group("/users")
	{
		users.GET("/:id", h.GetAccount)
		users.PATCH("/:id", h.UpdateAccount)
	}
}

func (h *AccountHandlers) Signup(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "Account creation failed", NewAccountValidationError("", "invalid signup request", err))
		return
	}

	user, err := h.service.CreateAccount(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, "Account creation failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account successfully created",
		"user":    user,
	})
}

func (h *AccountHandlers) GetAccount(c *gin.Context) {
	accountID := c.Param("id")
	creds := DecodeCredentials(c.GetHeader("Authorization"))

	user, err := h.service.GetAccount(c.Request.Context(), accountID, creds)
	if err != nil {
		h.respondError(c, "Account lookup failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account details by id",
		"user":    user,
	})
}

func (h *AccountHandlers) UpdateAccount(c *gin.Context) {
	accountID := c.Param("id")
	creds := DecodeCredentials(c.GetHeader("Authorization"))

	// an absent body is an empty patch, rejected after the credential checks
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(c, "Account update failed", NewAccountValidationError(accountID, "invalid update request", err))
		return
	}
	if err := ValidateUpdateRequest(accountID, &req); err != nil {
		h.respondError(c, "Account update failed", err)
		return
	}

	result, err := h.service.UpdateAccount(c.Request.Context(), accountID, creds, req.Patch())
	if err != nil {
		h.respondError(c, "Account update failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account successfully updated",
		"result":  []*UpdatedView{result},
	})
}

func (h *AccountHandlers) Close(c *gin.Context) {
	creds := DecodeCredentials(c.GetHeader("Authorization"))

	if err := h.service.CloseAccount(c.Request.Context(), creds); err != nil {
		h.respondError(c, "Account close failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account successfully removed"})
}

// respondError translates err into the {message, cause?} body. failure is the
// message used for validation and conflict errors, whose detail goes in cause.
func (h *AccountHandlers) respondError(c *gin.Context, failure string, err error) {
	status := StatusCode(err)

	var accErr *AccountError
	if !errors.As(err, &accErr) {
		h.logger.Error("Account operation failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(status, gin.H{"message": "Internal server error"})
		return
	}

	switch accErr.Type {
	case AccountErrorTypeUnauthorized:
		c.JSON(status, gin.H{"message": "Authentication Failed"})
	case AccountErrorTypeNotFound:
		c.JSON(status, gin.H{"message": "No Account found"})
	case AccountErrorTypePermissionDenied:
		c.JSON(status, gin.H{"message": accErr.Message})
	default:
		c.JSON(status, gin.H{
			"message": failure,
			"cause":   accErr.Message,
		})
	}
}
