package roboflow

import (
	"VisionAgent/internal/entity"
	"VisionAgent/pkg/imagecodec"
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
)

// Infer runs the configured task on img using the model picked by the rotator.
func (c *Client) Infer(ctx context.Context, img image.Image) (*entity.InferenceResult, error) {
	h, err := handlerFor(c.cfg.TaskType)
	if err != nil {
		return nil, err
	}

	payload, err := imagecodec.EncodeJPEG(img, c.quality)
	if err != nil {
		return nil, err
	}

	modelID := c.rotator.Select()
	endpoint := modelURL(h.baseURL(c.endpoints), c.cfg.Dataset, modelID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"api_key": c.cfg.APIKey,
			"format":  "json",
		}).
		SetFileReader(fileField, fileName, bytes.NewReader(payload)).
		Post(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: post %s: %v", ErrInference, endpoint, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrInference, endpoint, resp.StatusCode())
	}

	detections, err := parseDetections(resp.Body(), h)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"dataset":    c.cfg.Dataset,
		"model_id":   modelID,
		"task_type":  c.cfg.TaskType,
		"detections": len(detections),
		"latency_ms": resp.Time().Milliseconds(),
	}).Debug("Inference completed")

	return &entity.InferenceResult{
		ModelID:    modelID,
		TaskType:   c.cfg.TaskType,
		Detections: detections,
	}, nil
}

// InferLocal posts img to the local experimental model server, which answers
// with an already annotated image instead of structured detections.
func (c *Client) InferLocal(ctx context.Context, img image.Image) (image.Image, error) {
	payload, err := imagecodec.EncodeJPEG(img, c.quality)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader(fileField, fileName, bytes.NewReader(payload)).
		Post(c.endpoints.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: post %s: %v", ErrInference, c.endpoints.Local, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrInference, c.endpoints.Local, resp.StatusCode())
	}

	return imagecodec.DecodeImage(resp.Body())
}
