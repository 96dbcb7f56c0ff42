package library

import (
	"bytes"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFContentType is the only content type the upload flow accepts.
const PDFContentType = "application/pdf"

// FileSelection is a file picked by the user for upload.
// ContentType is the type declared by the picker and may be empty.
type FileSelection struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the file size in bytes.
func (f FileSelection) Size() int64 {
	return int64(len(f.Data))
}

// HumanSize formats the file size for display.
func (f FileSelection) HumanSize() string {
	return units.HumanSize(float64(f.Size()))
}

// ValidateFile rejects selections that must never reach the backend: empty
// names or content, files over maxSize (when positive), and anything that is
// not a PDF by declared type or by content.
func ValidateFile(f FileSelection, maxSize int64) error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("file", "no file selected")
	}
	if len(f.Data) == 0 {
		return invalid("file", "%s is empty", f.Name)
	}
	if maxSize > 0 && f.Size() > maxSize {
		return invalid("file", "%s is %s, larger than the %s limit",
			f.Name, f.HumanSize(), units.HumanSize(float64(maxSize)))
	}

	if f.ContentType != "" && f.ContentType != "application/octet-stream" {
		declared, _, err := mime.ParseMediaType(f.ContentType)
		if err != nil || declared != PDFContentType {
			return invalid("file", "%s is not a PDF (declared %s)", f.Name, f.ContentType)
		}
	}

	if detected := mimetype.Detect(f.Data); !detected.Is(PDFContentType) {
		return invalid("file", "%s is not a PDF (detected %s)", f.Name, detected.String())
	}
	return nil
}

// TitleFromFilename strips the directory and extension from a file name.
// A name that strips to nothing is returned as-is.
func TitleFromFilename(name string) string {
	base := filepath.Base(name)
	if title := strings.TrimSuffix(base, filepath.Ext(base)); strings.TrimSpace(title) != "" {
		return title
	}
	return base
}

// pageCount reads the page count of a PDF. Failures are logged and reported
// as nil: the count is informational and never blocks an upload.
func pageCount(data []byte, logger *slog.Logger) *int {
	count, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		logger.Warn("failed to extract pdf page count", "error", err)
		return nil
	}
	return &count
}
