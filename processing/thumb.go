package processing

import (
	"bytes"
	"fmt"

	"surveyserver/apperr"
	"surveyserver/models"
	"surveyserver/storage"
	"surveyserver/utils"
)

// Thumbnail returns the storage path of the imagery's JPEG thumbnail, creating it on first use
func Thumbnail(store storage.StorageAPI, imagery *models.Imagery, size uint) (string, error) {
	if !imagery.HasFile() {
		return "", apperr.MissingReference("imagery file", imagery.ID, "file")
	}
	thumbPath := imagery.ThumbPath()
	exists, err := store.Exists(thumbPath)
	if err != nil {
		return "", err
	}
	if exists {
		return thumbPath, nil
	}

	original := bytes.Buffer{}
	if _, err = store.Load(imagery.FilePath(), &original); err != nil {
		return "", fmt.Errorf("load %s: %w", imagery.FilePath(), err)
	}
	thumb := bytes.Buffer{}
	if _, err = utils.CreateThumb(size, &original, &thumb); err != nil {
		return "", fmt.Errorf("thumbnail for %s: %w", imagery.FilePath(), err)
	}
	if _, err = store.Save(thumbPath, &thumb); err != nil {
		return "", err
	}
	return thumbPath, nil
}
