package canvas

import (
	"image"

	"tracegraph/internal/viewport"

	fynecanvas "fyne.io/fyne/v2/canvas"
)

// newOverlayRaster returns the transparent raster that shows the
// controller's interaction overlay on top of the chart surface. The
// overlay is drawn in surface units and scaled to the output pixels.
func newOverlayRaster(ctrl *viewport.Controller) *fynecanvas.Raster {
	r := fynecanvas.NewRaster(func(w, h int) image.Image {
		return ctrl.OverlayImage()
	})
	r.ScaleMode = fynecanvas.ImageScalePixels
	return r
}
