package processing

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyserver/apperr"
	"surveyserver/geometry"
	"surveyserver/models"
	"surveyserver/storage"
	"surveyserver/testutil"
)

func diskStorage(t *testing.T) *storage.DiskStorage {
	return storage.NewDiskStorage(&storage.Bucket{Name: "test", StorageType: storage.StorageTypeFile, Path: t.TempDir()})
}

// failingStorage refuses to delete one path
type failingStorage struct {
	*storage.DiskStorage
	broken string
}

func (s *failingStorage) Delete(path string) error {
	if path == s.broken {
		return errors.New("permission denied")
	}
	return s.DiskStorage.Delete(path)
}

// blockingStorage holds the first Delete until released
type blockingStorage struct {
	*storage.DiskStorage
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingStorage) Delete(path string) error {
	s.once.Do(func() {
		close(s.started)
		<-s.release
	})
	return s.DiskStorage.Delete(path)
}

func queue(t *testing.T, sweeper *FileSweeper, paths ...string) {
	for _, path := range paths {
		require.NoError(t, sweeper.DB.Create(models.NewFileDeletion(path, time.Now())).Error)
	}
}

func TestSweepDeletesQueuedFiles(t *testing.T) {
	store := diskStorage(t)
	sweeper := NewFileSweeper(testutil.DB(t), store, nil)

	_, err := store.Save("imagery/a.jpg", strings.NewReader("a"))
	require.NoError(t, err)
	queue(t, sweeper, "imagery/a.jpg", "imagery/already-gone.jpg")

	result, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Deleted: 2}, result)

	exists, err := store.Exists("imagery/a.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	var remaining int64
	require.NoError(t, sweeper.DB.Model(&models.FileDeletion{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestNotifyDuringSweepRunsAgain(t *testing.T) {
	store := &blockingStorage{DiskStorage: diskStorage(t), started: make(chan struct{}), release: make(chan struct{})}
	sweeper := NewFileSweeper(testutil.DB(t), store, nil)
	queue(t, sweeper, "overlays/first.pdf")

	sweeper.Notify()
	<-store.started
	// queued after the running sweep has read its batch
	queue(t, sweeper, "overlays/second.pdf")
	sweeper.Notify()
	close(store.release)

	assert.Eventually(t, func() bool {
		var remaining int64
		return sweeper.DB.Model(&models.FileDeletion{}).Count(&remaining).Error == nil && remaining == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSweepKeepsFailures(t *testing.T) {
	store := &failingStorage{DiskStorage: diskStorage(t), broken: "icons/locked.png"}
	sweeper := NewFileSweeper(testutil.DB(t), store, nil)
	queue(t, sweeper, "icons/locked.png", "icons/fine.png")

	result, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Deleted: 1, Failed: 1}, result)

	var left []models.FileDeletion
	require.NoError(t, sweeper.DB.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "icons/locked.png", left[0].Path)
	assert.Equal(t, 1, left[0].Attempts)
	assert.Equal(t, "permission denied", left[0].LastError)

	// Rows that keep failing are eventually skipped
	require.NoError(t, sweeper.DB.Model(&left[0]).Update("attempts", maxSweepAttempts).Error)
	result, err = sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, result)
}

func TestSweepPagesThroughBatches(t *testing.T) {
	store := diskStorage(t)
	sweeper := NewFileSweeper(testutil.DB(t), store, nil)
	for i := 0; i < sweepBatchSize+5; i++ {
		queue(t, sweeper, "overlays/missing.png")
	}
	result, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sweepBatchSize+5, result.Deleted)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	sweeper := NewFileSweeper(testutil.DB(t), diskStorage(t), nil)
	assert.Error(t, sweeper.Start("every now and then"))
}

func encodeImage(t *testing.T, format string, width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	switch format {
	case "png":
		require.NoError(t, png.Encode(&buf, img))
	default:
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	}
	return buf.Bytes()
}

func TestInspectImage(t *testing.T) {
	info, err := InspectImage(bytes.NewReader(encodeImage(t, "png", 64, 32)))
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{Format: "png", Width: 64, Height: 32}, info)

	_, err = InspectImage(strings.NewReader("<svg/>"))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestCheckImagery(t *testing.T) {
	tests := []struct {
		name    string
		kind    models.ImageryKind
		ext     string
		info    ImageInfo
		wantErr bool
	}{
		{"photo any ratio", models.ImageryPhoto, ".jpg", ImageInfo{"jpeg", 400, 300}, false},
		{"spherical 2:1", models.ImagerySphericalPano, ".JPEG", ImageInfo{"jpeg", 4000, 2000}, false},
		{"spherical not 2:1", models.ImagerySphericalPano, ".jpg", ImageInfo{"jpeg", 4000, 3000}, true},
		{"cubic any ratio", models.ImageryCubicPano, ".png", ImageInfo{"png", 600, 100}, false},
		{"png named jpg", models.ImageryPhoto, ".jpg", ImageInfo{"png", 10, 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckImagery(tt.kind, tt.ext, tt.info)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestThumbnail(t *testing.T) {
	store := diskStorage(t)
	imagery := models.NewImagery(models.ImageryPhoto, "hall", 1, geometry.Point{})
	imagery.ID = 3

	_, err := Thumbnail(store, imagery, 64)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	stored := "c0ffee.png"
	imagery.StoredFilename = &stored
	_, err = store.Save(imagery.FilePath(), bytes.NewReader(encodeImage(t, "png", 256, 128)))
	require.NoError(t, err)

	path, err := Thumbnail(store, imagery, 64)
	require.NoError(t, err)
	assert.Equal(t, "thumbs/c0ffee.png.jpg", path)

	thumb := bytes.Buffer{}
	_, err = store.Load(path, &thumb)
	require.NoError(t, err)
	info, err := InspectImage(&thumb)
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{Format: "jpeg", Width: 64, Height: 32}, info)

	// Cached thumbnails are served even when the original is gone
	require.NoError(t, store.Delete(imagery.FilePath()))
	path, err = Thumbnail(store, imagery, 64)
	require.NoError(t, err)
	assert.Equal(t, "thumbs/c0ffee.png.jpg", path)
}
