package roboflow

import (
	"VisionAgent/internal/entity"
	"fmt"
	"net/url"
)

// taskHandler holds everything that differs between task types. Lookups happen
// once per call so an unknown task type fails before any I/O.
type taskHandler struct {
	baseURL func(Endpoints) string
	shape   func(p rawPrediction) (entity.Shape, error)
}

var taskHandlers = map[entity.TaskType]taskHandler{
	entity.ObjectDetection: {
		baseURL: func(e Endpoints) string { return e.Detect },
		shape:   boxShape,
	},
	entity.InstanceSegmentation: {
		baseURL: func(e Endpoints) string { return e.Outline },
		shape:   polygonShape,
	},
}

func handlerFor(t entity.TaskType) (taskHandler, error) {
	h, ok := taskHandlers[t]
	if !ok {
		return taskHandler{}, fmt.Errorf("%w: unsupported task type %q", ErrInference, t)
	}
	return h, nil
}

func modelURL(base, dataset, modelID string) string {
	return fmt.Sprintf("%s/%s/%s", trimSlash(base), url.PathEscape(dataset), url.PathEscape(modelID))
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

type inferenceResponse struct {
	Predictions *[]rawPrediction `json:"predictions"`
}

type rawPrediction struct {
	X          *float64       `json:"x"`
	Y          *float64       `json:"y"`
	Width      *float64       `json:"width"`
	Height     *float64       `json:"height"`
	Class      *string        `json:"class"`
	Confidence float64        `json:"confidence"`
	Points     []entity.Point `json:"points"`
}

func boxShape(p rawPrediction) (entity.Shape, error) {
	if p.X == nil || p.Y == nil || p.Width == nil || p.Height == nil {
		return nil, fmt.Errorf("%w: prediction is missing box geometry", ErrInference)
	}
	if *p.Width < 0 || *p.Height < 0 {
		return nil, fmt.Errorf("%w: negative box extent %vx%v", ErrInference, *p.Width, *p.Height)
	}

	return entity.Box{CenterX: *p.X, CenterY: *p.Y, Width: *p.Width, Height: *p.Height}, nil
}

func polygonShape(p rawPrediction) (entity.Shape, error) {
	if len(p.Points) == 0 {
		return nil, fmt.Errorf("%w: prediction has no polygon points", ErrInference)
	}

	points := make([]entity.Point, len(p.Points))
	copy(points, p.Points)

	return entity.Polygon{Points: points}, nil
}

func parseDetections(body []byte, h taskHandler) ([]entity.Detection, error) {
	var resp inferenceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrInference, err)
	}
	if resp.Predictions == nil {
		return nil, fmt.Errorf("%w: response has no predictions field", ErrInference)
	}

	detections := make([]entity.Detection, 0, len(*resp.Predictions))
	for i, p := range *resp.Predictions {
		if p.Class == nil {
			return nil, fmt.Errorf("%w: prediction %d has no class", ErrInference, i)
		}

		shape, err := h.shape(p)
		if err != nil {
			return nil, fmt.Errorf("prediction %d: %w", i, err)
		}

		detections = append(detections, entity.Detection{
			Class:      *p.Class,
			Confidence: p.Confidence,
			Shape:      shape,
		})
	}

	return detections, nil
}
