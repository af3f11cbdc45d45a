package middlewares

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"marketplace/pkg/logger"
	"marketplace/pkg/resp"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	MaxUploadSize = 5 * 1024 * 1024
	// room for the text fields and part headers of a form
	formOverhead = 1 << 20

	ErrMsgFileType       = "Error: Images and PDFs Only!"
	ErrMsgFileTooLarge   = "File too large"
	ErrMsgUnexpectedFile = "Unexpected field"
)

// KYCUploadFields maps each accepted form field to its folder under the upload root.
var KYCUploadFields = map[string]string{
	"idProof":      filepath.Join("kyc", "id_proofs"),
	"addressProof": filepath.Join("kyc", "address_proofs"),
	"credentials":  filepath.Join("kyc", "credentials"),
}

var IssueUploadFields = map[string]string{
	"file": "issues",
}

var (
	allowedExtensions = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".pdf": true}
	allowedMimeTypes  = map[string]bool{
		"image/jpeg":      true,
		"image/jpg":       true,
		"image/png":       true,
		"application/pdf": true,
	}
)

type UploadConfig struct {
	Root        string
	MaxFileSize int64
	Fields      map[string]string
}

func NewKYCUploadConfig(root string) UploadConfig {
	return UploadConfig{Root: root, MaxFileSize: MaxUploadSize, Fields: KYCUploadFields}
}

func NewIssueUploadConfig(root string) UploadConfig {
	return UploadConfig{Root: root, MaxFileSize: MaxUploadSize, Fields: IssueUploadFields}
}

// DestinationFor returns the folder files of field are written to.
func (cfg UploadConfig) DestinationFor(field string) (string, bool) {
	sub, ok := cfg.Fields[field]
	if !ok {
		return "", false
	}
	root := cfg.Root
	if root == "" {
		root = "uploads"
	}
	return filepath.Join(root, sub), true
}

// FileFilter accepts jpeg, jpg, png and pdf files. Both the extension and the
// declared MIME type have to match.
func FileFilter(filename, mimeType string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return false
	}
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mt = mimeType
	}
	return allowedMimeTypes[strings.ToLower(mt)]
}

// Upload stores the multipart files of the configured fields on disk and
// exposes them to the next handler through utils.UploadedFiles. Requests that
// are not multipart pass through untouched.
func Upload(cfg UploadConfig) gin.HandlerFunc {
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = MaxUploadSize
	}
	maxBody := int64(len(cfg.Fields))*maxSize + formOverhead

	return func(c *gin.Context) {
		if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			utils.SetUploadedFiles(c, map[string]utils.UploadedFile{})
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBody {
			resp.BadRequest(c, ErrMsgFileTooLarge)
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)

		form, err := c.MultipartForm()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				resp.BadRequest(c, ErrMsgFileTooLarge)
			} else {
				resp.BadRequest(c, "invalid multipart form: "+err.Error())
			}
			c.Abort()
			return
		}
		defer form.RemoveAll()

		fields := make([]string, 0, len(form.File))
		for field := range form.File {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			headers := form.File[field]
			if _, ok := cfg.DestinationFor(field); !ok || len(headers) > 1 {
				resp.BadRequest(c, ErrMsgUnexpectedFile)
				c.Abort()
				return
			}
			h := headers[0]
			if !FileFilter(h.Filename, h.Header.Get("Content-Type")) {
				resp.BadRequest(c, ErrMsgFileType)
				c.Abort()
				return
			}
			if h.Size > maxSize {
				resp.BadRequest(c, ErrMsgFileTooLarge)
				c.Abort()
				return
			}
		}

		saved := make(map[string]utils.UploadedFile, len(fields))
		for _, field := range fields {
			h := form.File[field][0]
			dir, _ := cfg.DestinationFor(field)
			f, err := saveUpload(c, h, field, dir)
			if err != nil {
				removeUploads(saved)
				logger.Default().Error(err, "cannot save uploaded file")
				resp.Error(c, http.StatusInternalServerError, "cannot save file")
				c.Abort()
				return
			}
			saved[field] = f
		}

		utils.SetUploadedFiles(c, saved)
		c.Next()

		// the handler did not keep the files
		if c.Writer.Status() >= http.StatusBadRequest {
			removeUploads(saved)
		}
	}
}

func KYCUpload(root string) gin.HandlerFunc {
	return Upload(NewKYCUploadConfig(root))
}

func IssueUpload(root string) gin.HandlerFunc {
	return Upload(NewIssueUploadConfig(root))
}

func saveUpload(c *gin.Context, h *multipart.FileHeader, field, dir string) (utils.UploadedFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return utils.UploadedFile{}, err
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	name := fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixMilli(), uuid.NewString()[:8], ext)
	dst := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(h, dst); err != nil {
		return utils.UploadedFile{}, err
	}
	return utils.UploadedFile{
		Field:        field,
		OriginalName: h.Filename,
		MimeType:     h.Header.Get("Content-Type"),
		Size:         h.Size,
		Path:         filepath.ToSlash(dst),
	}, nil
}

func removeUploads(files map[string]utils.UploadedFile) {
	for _, f := range files {
		if err := os.Remove(filepath.FromSlash(f.Path)); err != nil && !os.IsNotExist(err) {
			logger.Default().Warnf("cannot remove upload %s: %v", f.Path, err)
		}
	}
}
