package pipeline

import (
	"fmt"
	"image"
)

// RegionOfInterest restricts processing to a rectangle of the input image.
// A zero Width or Height extends the region to the image edge.
type RegionOfInterest struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsFullImage reports whether the region covers the whole image
func (r RegionOfInterest) IsFullImage() bool {
	return r.X == 0 && r.Y == 0 && r.Width == 0 && r.Height == 0
}

// Rect resolves the region against an image of the given size
func (r RegionOfInterest) Rect(width, height int) image.Rectangle {
	w := r.Width
	if w == 0 {
		w = width - r.X
	}
	h := r.Height
	if h == 0 {
		h = height - r.Y
	}
	return image.Rect(r.X, r.Y, r.X+w, r.Y+h)
}

// Fits reports whether the resolved region lies inside an image of the given size
func (r RegionOfInterest) Fits(width, height int) bool {
	if r.X < 0 || r.Y < 0 || r.Width < 0 || r.Height < 0 {
		return false
	}
	rect := r.Rect(width, height)
	if rect.Empty() {
		return false
	}
	return rect.In(image.Rect(0, 0, width, height))
}

func (r RegionOfInterest) String() string {
	if r.IsFullImage() {
		return "full image"
	}
	return fmt.Sprintf("x=%d y=%d width=%d height=%d", r.X, r.Y, r.Width, r.Height)
}
