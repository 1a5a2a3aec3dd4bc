package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"surveyserver/logger"
)

func pngImage(t *testing.T, width, height int) *bytes.Buffer {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestCreateThumb(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		size          uint
		wantX, wantY  int
	}{
		{"landscape", 400, 200, 100, 100, 50},
		{"portrait", 100, 300, 150, 50, 150},
		{"smaller than size", 40, 20, 100, 40, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			result, err := CreateThumb(tt.size, pngImage(t, tt.width, tt.height), &out)
			require.NoError(t, err)
			assert.Equal(t, tt.wantX, result.NewX)
			assert.Equal(t, tt.wantY, result.NewY)
			assert.Equal(t, tt.width, result.OldX)
			assert.Equal(t, int64(out.Len()), result.ThumbSize)

			_, format, err := image.DecodeConfig(&out)
			require.NoError(t, err)
			assert.Equal(t, "jpeg", format)
		})
	}

	_, err := CreateThumb(100, strings.NewReader("not an image"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestFileCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		maxAge time.Duration
		want   string
	}{
		{0, "no-cache"},
		{time.Hour, "private, max-age=3600"},
		{time.Millisecond, "no-cache"},
	}
	for _, tt := range tests {
		r := gin.New()
		r.Use(FileCache{MaxAge: tt.maxAge}.Handler())
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, tt.want, rec.Header().Get("Cache-Control"))
	}
}

func TestNotModified(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		if NotModified(c, "imagery/3f2a.png") {
			return
		}
		c.String(http.StatusOK, "content")
	})
	tests := []struct {
		ifNoneMatch string
		want        int
	}{
		{"", http.StatusOK},
		{`"other.png"`, http.StatusOK},
		{`"3f2a.png"`, http.StatusNotModified},
		{`"other.png", W/"3f2a.png"`, http.StatusNotModified},
		{"*", http.StatusNotModified},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.ifNoneMatch != "" {
			req.Header.Set("If-None-Match", tt.ifNoneMatch)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, tt.want, rec.Code, tt.ifNoneMatch)
		assert.Equal(t, `"3f2a.png"`, rec.Header().Get("ETag"))
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, 2)
	limiter.now = func() time.Time { return now }

	r := gin.New()
	r.Use(limiter.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	request := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, request("10.0.0.1").Code)
	rejected := request("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rejected.Code)
	assert.Equal(t, "1", rejected.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, request("10.0.0.2").Code)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, request("10.0.0.1").Code)

	now = now.Add(limiterIdleTTL + time.Second)
	limiter.Cleanup()
	assert.Zero(t, limiter.clients.Count())
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	r := gin.New()
	r.Use(RequestLogger(log), ErrorLogMiddleware(log))
	r.GET("/sites/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sites/7", nil))

	errorBodies := logs.FilterMessage("Error response").All()
	require.Len(t, errorBodies, 1)
	assert.Contains(t, errorBodies[0].ContextMap()["body"], "not found")

	requests := logs.FilterMessage("HTTP request").All()
	require.Len(t, requests, 1)
	assert.Equal(t, zapcore.WarnLevel, requests[0].Level)
	fields := requests[0].ContextMap()
	assert.Equal(t, "/sites/:id", fields["path"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
}
