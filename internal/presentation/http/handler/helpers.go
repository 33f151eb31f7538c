package handler

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/docgen-api/internal/application/service"
	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/internal/presentation/http/dto/response"
	"github.com/sangkips/docgen-api/internal/presentation/http/middleware"
	"github.com/sangkips/docgen-api/pkg/apperror"
	"github.com/sangkips/docgen-api/pkg/pagination"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserName extracts the user display name from the Gin context
func GetUserName(c *gin.Context) string {
	return c.GetString(middleware.ContextUserName)
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) enum.UserRole {
	role, exists := c.Get(middleware.ContextUserRole)
	if !exists {
		return enum.UserRoleStaff
	}
	r, ok := role.(enum.UserRole)
	if !ok {
		return enum.UserRoleStaff
	}
	return r
}

// IsAdmin checks if the user has the admin role
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == enum.UserRoleAdmin
}

// actorFrom builds the service actor for the authenticated caller.
// It writes a 401 and returns false when the request carries no user.
func actorFrom(c *gin.Context) (service.Actor, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return service.Actor{}, false
	}
	return service.Actor{
		ID:   *userID,
		Name: GetUserName(c),
		Role: GetUserRole(c),
	}, true
}

// pathID parses the :id route parameter, writing a 400 when it is malformed
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.NewInvalidInputError("id", "must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the request body, writing a 400 on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		appErr := apperror.NewBadRequestError("Invalid request body")
		appErr.Detail = err.Error()
		response.Error(c, appErr)
		return false
	}
	return true
}

// listParams reads page, per_page and search from the query string
func listParams(c *gin.Context) (*pagination.PaginationParams, string) {
	return pagination.Parse(c.Query("page"), c.Query("per_page")), c.Query("search")
}

// sendAttachment streams a file as a download
func sendAttachment(c *gin.Context, file *service.File) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// sendBase64 returns a file inside the JSON envelope
func sendBase64(c *gin.Context, message string, file *service.File) {
	response.OK(c, message, gin.H{
		"pdf":      base64.StdEncoding.EncodeToString(file.Content),
		"filename": file.Filename,
	})
}

// generatedBody is the payload returned after a document is created
func generatedBody(document interface{}, pdf []byte, filename string, pageHeight int) gin.H {
	return gin.H{
		"document":    document,
		"pdf":         base64.StdEncoding.EncodeToString(pdf),
		"filename":    filename,
		"page_height": pageHeight,
	}
}
