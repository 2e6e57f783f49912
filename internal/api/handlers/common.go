package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joblinkhq/joblink/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

const maxUploadBytes = 5 << 20 // 5 MB ceiling, buffered in memory

var allowedImageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// openImageUpload validates the optional multipart "file" field. It
// returns a nil reader when no file was sent. Validation failures
// return an error before anything is persisted.
func openImageUpload(c *gin.Context, op string) (io.Reader, string, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", "", nil
		}
		return nil, "", "", utils.E(utils.CodeInvalidArgument, op, "invalid multipart field 'file'", err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedImageExts[ext]; !ok {
		return nil, "", "", utils.E(utils.CodeInvalidArgument, op, "only .jpg, .jpeg, .png, and .gif files are allowed", nil)
	}
	if fh.Size <= 0 || fh.Size > maxUploadBytes {
		return nil, "", "", utils.E(utils.CodeInvalidArgument, op, "file too large (max 5MB)", nil)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, "", "", utils.E(utils.CodeInternal, op, "failed to open upload", err)
	}

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	ct := http.DetectContentType(head)
	if !strings.HasPrefix(ct, "image/") {
		file.Close()
		return nil, "", "", utils.E(utils.CodeInvalidArgument, op, "invalid content type (must be an image)", nil)
	}

	// re-compose stream: head + remaining file
	r := &readJoin{a: bytes.NewReader(head), b: file}
	return r, ct, fh.Filename, nil
}

type readJoin struct {
	a *bytes.Reader
	b io.Reader
}

func (r *readJoin) Read(p []byte) (int, error) {
	if r.a != nil && r.a.Len() > 0 {
		return r.a.Read(p)
	}
	return r.b.Read(p)
}
