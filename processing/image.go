package processing

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"surveyserver/apperr"
	"surveyserver/models"
)

type ImageInfo struct {
	Format string // as registered with the image package: "jpeg", "png"
	Width  int
	Height int
}

// InspectImage reads only the image header
func InspectImage(reader io.Reader) (info ImageInfo, err error) {
	config, format, err := image.DecodeConfig(reader)
	if err != nil {
		return info, apperr.InvalidArgument("file", "not a readable JPEG or PNG image")
	}
	return ImageInfo{Format: format, Width: config.Width, Height: config.Height}, nil
}

var formatByExtension = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
}

// CheckImagery verifies the content matches the extension and that spherical panoramas are 2:1
func CheckImagery(kind models.ImageryKind, ext string, info ImageInfo) error {
	if want, ok := formatByExtension[strings.ToLower(ext)]; ok && want != info.Format {
		return apperr.InvalidArgument("file", "content is "+info.Format+", extension is "+ext)
	}
	if info.Width <= 0 || info.Height <= 0 {
		return apperr.InvalidArgument("file", "image has no pixels")
	}
	if kind == models.ImagerySphericalPano && info.Width != 2*info.Height {
		return apperr.InvalidArgument("file", "spherical panoramas must have a 2:1 aspect ratio")
	}
	return nil
}
