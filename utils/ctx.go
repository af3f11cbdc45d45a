package utils

import "github.com/gin-gonic/gin"

const (
	ctxUserID   = "userId"
	ctxRole     = "role"
	ctxUploaded = "uploadedFiles"
)

func SetCurrentUser(c *gin.Context, userID uint, role string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxRole, role)
}

func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get(ctxUserID)
	switch id := v.(type) {
	case uint:
		return id
	case int:
		return uint(id)
	case int64:
		return uint(id)
	case float64:
		return uint(id)
	default:
		return 0
	}
}

func CurrentRole(c *gin.Context) string {
	if v, ok := c.Get(ctxRole); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// UploadedFile describes a file the upload middleware stored on disk.
type UploadedFile struct {
	Field        string `json:"field"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
}

func SetUploadedFiles(c *gin.Context, files map[string]UploadedFile) {
	c.Set(ctxUploaded, files)
}

// UploadedFiles returns the files stored for this request, keyed by form field.
func UploadedFiles(c *gin.Context) map[string]UploadedFile {
	if v, ok := c.Get(ctxUploaded); ok {
		if files, ok := v.(map[string]UploadedFile); ok {
			return files
		}
	}
	return map[string]UploadedFile{}
}
