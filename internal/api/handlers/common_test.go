package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joblinkhq/joblink/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// pngHeader is enough of a real PNG for content sniffing to classify
// the payload as image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func multipartContext(t *testing.T, filename string, payload []byte) *gin.Context {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	w.Close()

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	payload := append(append([]byte{}, pngHeader...), make([]byte, 6<<20)...)
	c := multipartContext(t, "photo.png", payload)

	_, _, _, err := openImageUpload(c, "Test")
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Errorf("6MB upload: got %v, want INVALID_ARGUMENT", err)
	}
}

func TestUploadAcceptsFourMBPNG(t *testing.T) {
	payload := append(append([]byte{}, pngHeader...), make([]byte, 4<<20-len(pngHeader))...)
	c := multipartContext(t, "photo.png", payload)

	r, mime, name, err := openImageUpload(c, "Test")
	if err != nil {
		t.Fatalf("4MB png rejected: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("mime = %q, want image/png", mime)
	}
	if name != "photo.png" {
		t.Errorf("name = %q", name)
	}

	// The recomposed stream must return the full payload, sniffed head
	// included.
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if len(got) != len(payload) {
		t.Errorf("stream length = %d, want %d", len(got), len(payload))
	}
	if !bytes.Equal(got[:8], pngHeader) {
		t.Errorf("stream lost the header bytes")
	}
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	payload := append([]byte("%PDF-1.4\n"), make([]byte, 1024)...)
	c := multipartContext(t, "resume.pdf", payload)

	_, _, _, err := openImageUpload(c, "Test")
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Errorf("pdf upload: got %v, want INVALID_ARGUMENT", err)
	}
}

func TestUploadRejectsMismatchedContent(t *testing.T) {
	// .png extension but plain text payload: sniffing catches it.
	payload := []byte("definitely not an image, just text padding padding padding")
	c := multipartContext(t, "fake.png", payload)

	_, _, _, err := openImageUpload(c, "Test")
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Errorf("mismatched content: got %v, want INVALID_ARGUMENT", err)
	}
}

func TestUploadMissingFileIsNotAnError(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("fullname", "Ada")
	w.Close()

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	r, _, _, err := openImageUpload(c, "Test")
	if err != nil {
		t.Fatalf("missing optional file errored: %v", err)
	}
	if r != nil {
		t.Errorf("reader returned for absent file")
	}
}
