package results

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/dustin/go-humanize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/PhilipNzube/stroke-prediction-app/internal/predict"
)

// Chart geometry in pixels.
const (
	chartWidth  = 640
	chartMargin = 16
	rowHeight   = 28
	barHeight   = 18
	titleHeight = 32
)

var (
	chartBackground = color.RGBA{255, 255, 255, 255}
	chartBar        = color.RGBA{94, 92, 230, 255}
	chartText       = color.RGBA{33, 33, 33, 255}
)

// FeatureChart writes a PNG bar chart of feature importance to w. Bars are
// scaled to the most important feature and labelled with their share.
func FeatureChart(features []predict.FeatureWeight, w io.Writer) error {
	if len(features) == 0 {
		return fmt.Errorf("no features to chart")
	}

	height := titleHeight + len(features)*rowHeight + chartMargin
	img := image.NewRGBA(image.Rect(0, 0, chartWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(chartBackground), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(chartText),
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()

	title := "Feature Importance"
	drawer.Dot = fixed.P((chartWidth-font.MeasureString(face, title).Ceil())/2, chartMargin+ascent)
	drawer.DrawString(title)

	labelWidth := 0
	maxImp := 0.0
	for _, f := range features {
		if lw := font.MeasureString(face, FeatureLabel(f.Name)).Ceil(); lw > labelWidth {
			labelWidth = lw
		}
		if f.Importance > maxImp {
			maxImp = f.Importance
		}
	}
	valueWidth := font.MeasureString(face, "100.0%").Ceil()
	barX := chartMargin + labelWidth + 8
	barMax := chartWidth - barX - valueWidth - 8 - chartMargin
	if barMax < 1 {
		return fmt.Errorf("feature labels too wide to chart")
	}

	for i, f := range features {
		top := titleHeight + i*rowHeight
		textY := top + (rowHeight+ascent)/2 - 1

		drawer.Dot = fixed.P(chartMargin, textY)
		drawer.DrawString(FeatureLabel(f.Name))

		n := barLength(f.Importance, maxImp, barMax)
		barTop := top + (rowHeight-barHeight)/2
		bar := image.Rect(barX, barTop, barX+n, barTop+barHeight)
		draw.Draw(img, bar, image.NewUniform(chartBar), image.Point{}, draw.Src)

		drawer.Dot = fixed.P(barX+n+8, textY)
		drawer.DrawString(humanize.FtoaWithDigits(f.Importance*100, 1) + "%")
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding chart: %w", err)
	}
	return nil
}
