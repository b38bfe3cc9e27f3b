package vision

import (
	"VisionAgent/internal/entity"
)

type UploadRequest struct {
	Name string `form:"name" validate:"omitempty,max=128,excludesall=/\\?&#"`
}

type UploadResponse struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type BoxResponse struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

type DetectionItem struct {
	Class      string         `json:"class"`
	Confidence float64        `json:"confidence"`
	Box        *BoxResponse   `json:"box,omitempty"`
	Points     []entity.Point `json:"points,omitempty"`
}

type DetectionResponse struct {
	Dataset    string          `json:"dataset"`
	ModelID    string          `json:"model_id"`
	TaskType   entity.TaskType `json:"task_type"`
	Detections []DetectionItem `json:"detections"`
}

type AnnotatedFrame struct {
	Image      []byte
	ModelID    string
	Detections int
}

type StreamError struct {
	Error string `json:"error"`
}

func NewDetectionResponse(dataset string, res *entity.InferenceResult) DetectionResponse {
	items := make([]DetectionItem, 0, len(res.Detections))
	for _, det := range res.Detections {
		item := DetectionItem{Class: det.Class, Confidence: det.Confidence}

		switch shape := det.Shape.(type) {
		case entity.Box:
			x1, y1, x2, y2 := shape.Corners()
			item.Box = &BoxResponse{X1: x1, Y1: y1, X2: x2, Y2: y2}
		case entity.Polygon:
			item.Points = shape.Points
		}

		items = append(items, item)
	}

	return DetectionResponse{
		Dataset:    dataset,
		ModelID:    res.ModelID,
		TaskType:   res.TaskType,
		Detections: items,
	}
}
