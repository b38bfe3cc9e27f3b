package entity

import (
	"image"
	"math"
)

type TaskType string

const (
	ObjectDetection      TaskType = "object-detection"
	InstanceSegmentation TaskType = "instance-segmentation"
)

func (t TaskType) Valid() bool {
	return t == ObjectDetection || t == InstanceSegmentation
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is the geometry of a detection. It is either a Box or a Polygon.
type Shape interface {
	// TopLeft is the anchor used for the label button.
	TopLeft() image.Point
	Bounds() image.Rectangle
	isShape()
}

const maxPixel = 1 << 30

// Pixel rounds a coordinate to the nearest pixel, saturating far outside any
// real image.
func Pixel(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f > maxPixel:
		return maxPixel
	case f < -maxPixel:
		return -maxPixel
	}
	return int(math.Round(f))
}

// Box is an axis-aligned bounding box given by its center and extent.
type Box struct {
	CenterX float64 `json:"x"`
	CenterY float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

func (b Box) Corners() (x1, y1, x2, y2 float64) {
	return b.CenterX - b.Width/2, b.CenterY - b.Height/2, b.CenterX + b.Width/2, b.CenterY + b.Height/2
}

func (b Box) TopLeft() image.Point {
	x1, y1, _, _ := b.Corners()
	return image.Pt(Pixel(x1), Pixel(y1))
}

func (b Box) Bounds() image.Rectangle {
	x1, y1, x2, y2 := b.Corners()
	return image.Rect(Pixel(x1), Pixel(y1), Pixel(x2), Pixel(y2))
}

func (Box) isShape() {}

// Polygon is an open polyline; the last vertex is not joined back to the first.
type Polygon struct {
	Points []Point `json:"points"`
}

func (p Polygon) TopLeft() image.Point {
	return p.Bounds().Min
}

func (p Polygon) Bounds() image.Rectangle {
	if len(p.Points) == 0 {
		return image.Rectangle{}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range p.Points {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}

	return image.Rect(Pixel(minX), Pixel(minY), Pixel(maxX), Pixel(maxY))
}

func (Polygon) isShape() {}

type Detection struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	Shape      Shape   `json:"shape"`
}

type InferenceResult struct {
	ModelID    string      `json:"model_id"`
	TaskType   TaskType    `json:"task_type"`
	Detections []Detection `json:"detections"`
}
