package storage

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"surveyserver/config"
	"surveyserver/logger"
)

var (
	ErrFileNotFound = errors.New("stored file not found")
	ErrInvalidPath  = errors.New("invalid storage path")
)

// StorageAPI stores files under relative paths such as "imagery/<uuid>.jpg"
type StorageAPI interface {
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	// Delete fails with ErrFileNotFound when there is nothing to remove
	Delete(path string) error
	Exists(path string) (bool, error)
	GetFreeSpace() uint64
	GetBucket() *Bucket
}

var Default StorageAPI

// Init selects S3 when S3_BUCKET is configured, the local disk otherwise
func Init(log *logger.Logger) StorageAPI {
	bucket := BucketFromConfig()
	if bucket.IsS3() {
		Default = NewS3Storage(bucket)
	} else {
		Default = NewDiskStorage(bucket)
	}
	log.Info("Storage ready", "bucket", bucket.Name, "type", bucket.StorageType.String(), "path", bucket.Path)
	return Default
}

// cleanPath rejects absolute paths and anything escaping the storage root
func cleanPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

func BucketFromConfig() *Bucket {
	if config.S3_BUCKET != "" {
		return &Bucket{
			Name:          config.S3_BUCKET,
			StorageType:   StorageTypeS3,
			Path:          config.S3_PREFIX,
			Region:        config.S3_REGION,
			Endpoint:      config.S3_ENDPOINT,
			AccessKey:     config.S3_KEY,
			SecretKey:     config.S3_SECRET,
			SSEEncryption: config.S3_SSE,
		}
	}
	return &Bucket{Name: "local", StorageType: StorageTypeFile, Path: config.FILE_UPLOAD_DIR}
}
