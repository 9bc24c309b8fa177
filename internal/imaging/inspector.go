// Image inspection used to sanity-check paths and regions before a run
package imaging

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

var supportedExtensions = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

// Info describes a decoded image
type Info struct {
	Width    int
	Height   int
	Channels int
}

// Inspector reads image headers through OpenCV
type Inspector struct {
	logger logrus.FieldLogger
}

func NewInspector(logger logrus.FieldLogger) *Inspector {
	return &Inspector{
		logger: logger,
	}
}

// Inspect decodes the image at path and reports its dimensions
func (i *Inspector) Inspect(path string) (Info, error) {
	i.logger.WithField("filepath", path).Debug("Inspecting image")

	if !SupportedFormat(path) {
		return Info{}, errors.Errorf("unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	defer mat.Close()

	if mat.Empty() {
		return Info{}, errors.Errorf("failed to load image: %s", path)
	}

	info := Info{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
	}
	if info.Width <= 0 || info.Height <= 0 {
		return Info{}, errors.Errorf("invalid image dimensions %dx%d: %s", info.Width, info.Height, path)
	}

	i.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    info.Width,
		"height":   info.Height,
		"channels": info.Channels,
	}).Debug("Image inspected")

	return info, nil
}

// Dimensions returns the pixel size of the image at path
func (i *Inspector) Dimensions(path string) (int, int, error) {
	info, err := i.Inspect(path)
	if err != nil {
		return 0, 0, err
	}
	return info.Width, info.Height, nil
}

func (i *Inspector) SupportedFormat(path string) bool {
	return SupportedFormat(path)
}

// SupportedFormat reports whether the extension is one the engine can read and write
func SupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range supportedExtensions {
		if ext == format {
			return true
		}
	}
	return false
}

// SupportedFormats names the accepted formats for operator messages
func (i *Inspector) SupportedFormats() []string {
	return []string{"JPEG", "PNG", "TIFF", "BMP"}
}
