package storage

import (
	"io"
	"mime"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"surveyserver/apperr"
	"surveyserver/config"
	"surveyserver/models"
)

const megabyte = 1024 * 1024

// Policy restricts what may be uploaded into one storage directory
type Policy struct {
	Dir string
	// Types maps an allowed lower-case extension to its content type
	Types   map[string]string
	MaxSize int64
	// MaxSizeFor overrides MaxSize per extension
	MaxSizeFor map[string]int64
}

func ImageryPolicy() Policy {
	return Policy{
		Dir:     models.DirImagery,
		Types:   map[string]string{".jpg": "image/jpeg", ".jpeg": "image/jpeg", ".png": "image/png"},
		MaxSize: int64(config.MAX_IMAGERY_SIZE_MB) * megabyte,
	}
}

func OverlayPolicy() Policy {
	return Policy{
		Dir:        models.DirOverlays,
		Types:      map[string]string{".jpg": "image/jpeg", ".jpeg": "image/jpeg", ".png": "image/png", ".svg": "image/svg+xml"},
		MaxSize:    int64(config.MAX_OVERLAY_SIZE_MB) * megabyte,
		MaxSizeFor: map[string]int64{".svg": 10 * megabyte},
	}
}

func IconPolicy() Policy {
	return Policy{
		Dir:     models.DirIcons,
		Types:   map[string]string{".png": "image/png", ".svg": "image/svg+xml"},
		MaxSize: int64(config.MAX_ICON_SIZE_MB) * megabyte,
	}
}

// Check validates the client's filename and content type and returns the lower-case extension.
// An empty content type is not checked.
func (p Policy) Check(filename, contentType string) (string, error) {
	if len(filename) > models.MaxFilenameLength {
		return "", apperr.InvalidArgument("file", "filename is too long")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	expected, ok := p.Types[ext]
	if !ok {
		return "", apperr.InvalidArgument("file", "extension must be one of "+strings.Join(p.Extensions(), ", "))
	}
	if contentType == "" {
		return ext, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.EqualFold(mediaType, expected) {
		return "", apperr.InvalidArgument("file", "content type must be "+expected+" for "+ext)
	}
	return ext, nil
}

func (p Policy) Extensions() []string {
	result := make([]string, 0, len(p.Types))
	for ext := range p.Types {
		result = append(result, ext)
	}
	sort.Strings(result)
	return result
}

// Limit returns the maximum size in bytes for files with extension ext
func (p Policy) Limit(ext string) int64 {
	if limit, ok := p.MaxSizeFor[ext]; ok && limit < p.MaxSize {
		return limit
	}
	return p.MaxSize
}

// Path is where a stored name lives inside the storage
func (p Policy) Path(storedName string) string {
	return p.Dir + "/" + storedName
}

// NewStoredName returns a collision resistant file name keeping the extension
func NewStoredName(ext string) string {
	return uuid.NewString() + strings.ToLower(ext)
}

// LimitReader fails with a TooLarge error once more than limit bytes were read
func LimitReader(reader io.Reader, limit int64) io.Reader {
	return &limitedReader{reader: reader, remaining: limit, limit: limit}
}

type limitedReader struct {
	reader    io.Reader
	remaining int64
	limit     int64
}

func (r *limitedReader) Read(p []byte) (int, error) {
	if r.remaining < 0 {
		return 0, apperr.TooLarge("file", r.limit)
	}
	// read one byte past the limit to detect oversized input
	if int64(len(p)) > r.remaining+1 {
		p = p[:r.remaining+1]
	}
	n, err := r.reader.Read(p)
	r.remaining -= int64(n)
	if r.remaining < 0 {
		return n, apperr.TooLarge("file", r.limit)
	}
	return n, err
}
