package handlers

import (
	"bytes"
	"io"
	"net/http"
	pathpkg "path"

	"github.com/gin-gonic/gin"

	"surveyserver/apperr"
	"surveyserver/metrics"
	"surveyserver/models"
	"surveyserver/processing"
	"surveyserver/services"
	"surveyserver/storage"
	"surveyserver/utils"
)

const uploadField = "file"

// receive stores the uploaded file under a new name after policy and content checks.
// check may be nil.
func (a *API) receive(c *gin.Context, policy storage.Policy, check func(ext string, data []byte) error) (original, path string, ok bool) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		a.rejectUpload(c, policy, apperr.InvalidArgument(uploadField, "a multipart file is required"))
		return "", "", false
	}
	ext, err := policy.Check(header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		a.rejectUpload(c, policy, err)
		return "", "", false
	}
	limit := policy.Limit(ext)
	if header.Size > limit {
		a.rejectUpload(c, policy, apperr.TooLarge(uploadField, limit))
		return "", "", false
	}
	file, err := header.Open()
	if err != nil {
		a.rejectUpload(c, policy, err)
		return "", "", false
	}
	defer file.Close()
	data, err := io.ReadAll(storage.LimitReader(file, limit))
	if err != nil {
		a.rejectUpload(c, policy, err)
		return "", "", false
	}
	if check != nil {
		if err = check(ext, data); err != nil {
			a.rejectUpload(c, policy, err)
			return "", "", false
		}
	}

	path = policy.Path(storage.NewStoredName(ext))
	size, err := a.Storage.Save(path, bytes.NewReader(data))
	if err != nil {
		a.rejectUpload(c, policy, err)
		return "", "", false
	}
	metrics.UploadsTotal.WithLabelValues(policy.Dir, "stored").Inc()
	metrics.UploadBytes.WithLabelValues(policy.Dir).Add(float64(size))
	a.Log.Debug("File stored", "path", path, "size", size, "original", header.Filename)
	return header.Filename, path, true
}

func (a *API) rejectUpload(c *gin.Context, policy storage.Policy, err error) {
	metrics.UploadsTotal.WithLabelValues(policy.Dir, "rejected").Inc()
	a.fail(c, err)
}

// attach records the stored file on its entity, removing the file again if that fails
func (a *API) attach(c *gin.Context, path string, record func() (interface{}, error)) {
	entity, err := record()
	if err != nil {
		if deleteErr := a.Storage.Delete(path); deleteErr != nil {
			a.Log.Warn("Cannot remove unattached upload", "path", path, "error", deleteErr)
		}
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (a *API) serve(c *gin.Context, path, entity string, id uint) {
	if path == "" {
		a.fail(c, apperr.MissingReference(entity+" file", id, uploadField))
		return
	}
	if utils.NotModified(c, path) {
		return
	}
	a.Storage.Serve(path, c.Request, c.Writer)
}

func (a *API) OverlayFile(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	overlay, err := services.Get[models.Overlay](c.Request.Context(), a.Service, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	a.serve(c, overlay.FilePath(), "overlay", id)
}

func (a *API) OverlayUpload(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	if _, err := services.Get[models.Overlay](c.Request.Context(), a.Service, id); err != nil {
		a.fail(c, err)
		return
	}
	original, path, ok := a.receive(c, storage.OverlayPolicy(), nil)
	if !ok {
		return
	}
	a.attach(c, path, func() (interface{}, error) {
		return a.Service.SetOverlayFile(c.Request.Context(), id, original, pathpkg.Base(path))
	})
}

func (a *API) AssetTypeIcon(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	assetType, err := services.Get[models.AssetType](c.Request.Context(), a.Service, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	a.serve(c, assetType.IconPath(), "asset type icon", id)
}

func (a *API) AssetTypeIconUpload(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	if _, err := services.Get[models.AssetType](c.Request.Context(), a.Service, id); err != nil {
		a.fail(c, err)
		return
	}
	original, path, ok := a.receive(c, storage.IconPolicy(), nil)
	if !ok {
		return
	}
	a.attach(c, path, func() (interface{}, error) {
		return a.Service.SetAssetTypeIcon(c.Request.Context(), id, original, pathpkg.Base(path))
	})
}

func (a *API) ImageryFile(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	imagery, err := services.Get[models.Imagery](c.Request.Context(), a.Service, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	a.serve(c, imagery.FilePath(), "imagery", id)
}

// ImageryUpload checks the image content against the imagery kind before storing it
func (a *API) ImageryUpload(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	imagery, err := services.Get[models.Imagery](c.Request.Context(), a.Service, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	original, path, ok := a.receive(c, storage.ImageryPolicy(), func(ext string, data []byte) error {
		info, err := processing.InspectImage(bytes.NewReader(data))
		if err != nil {
			return err
		}
		return processing.CheckImagery(imagery.Kind, ext, info)
	})
	if !ok {
		return
	}
	a.attach(c, path, func() (interface{}, error) {
		return a.Service.SetImageryFile(c.Request.Context(), id, original, pathpkg.Base(path))
	})
}

func (a *API) ImageryThumb(c *gin.Context) {
	id, ok := a.paramID(c)
	if !ok {
		return
	}
	imagery, err := services.Get[models.Imagery](c.Request.Context(), a.Service, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if thumbPath := imagery.ThumbPath(); thumbPath != "" && utils.NotModified(c, thumbPath) {
		return
	}
	path, err := processing.Thumbnail(a.Storage, imagery, a.ThumbSize)
	if err != nil {
		a.fail(c, err)
		return
	}
	a.Storage.Serve(path, c.Request, c.Writer)
}

// Health pings the database and reports the storage's free space
func (a *API) Health(c *gin.Context) {
	sqlDB, err := a.Service.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		a.Log.Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"storage":    a.Storage.GetBucket().StorageType.String(),
		"free_space": a.Storage.GetFreeSpace(),
	})
}
