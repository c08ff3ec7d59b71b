package compressors

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/nfnt/resize"

	"pdfpress/internal/domain/entities"
)

// targetPixels переводит физический размер страницы в пиксели при данном разрешении
func targetPixels(config *entities.BudgetConfig, dpi int) (int, int) {
	width := int(math.Round(config.PageWidthPt * float64(dpi) / 72.0))
	height := int(math.Round(config.PageHeightPt * float64(dpi) / 72.0))
	return width, height
}

// composeCanvas масштабирует растр с сохранением пропорций так, чтобы
// он вписался в целевой размер по обеим осям, и центрирует его на
// белом холсте ровно целевого размера
func composeCanvas(img image.Image, targetW, targetH int) *image.RGBA {
	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	ratio := math.Min(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))
	scaledW := int(math.Round(float64(srcW) * ratio))
	scaledH := int(math.Round(float64(srcH) * ratio))

	scaled := resize.Resize(uint(scaledW), uint(scaledH), img, resize.Lanczos3)

	canvas := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	left := (targetW - scaledW) / 2
	top := (targetH - scaledH) / 2
	draw.Draw(canvas, image.Rect(left, top, left+scaledW, top+scaledH), scaled, scaled.Bounds().Min, draw.Src)

	return canvas
}
