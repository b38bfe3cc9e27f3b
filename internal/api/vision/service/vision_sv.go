package visionService

import (
	"VisionAgent/internal/api/vision"
	"VisionAgent/pkg/imagecodec"
	"VisionAgent/pkg/log"
	"VisionAgent/pkg/roboflow"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *visionService) Annotate(ctx context.Context, frame []byte) (*vision.AnnotatedFrame, error) {
	img, err := s.decode(frame)
	if err != nil {
		return nil, err
	}

	res, err := s.agent.Detect(ctx, img)
	if err != nil {
		return nil, s.inferenceError(ctx, err)
	}

	out, err := imagecodec.EncodeJPEG(s.agent.Annotate(img, res), imagecodec.DefaultQuality)
	if err != nil {
		return nil, err
	}

	log.WithRequestID(s.log, ctx).WithFields(logrus.Fields{
		"model_id":   res.ModelID,
		"detections": len(res.Detections),
	}).Debug("Frame annotated")

	return &vision.AnnotatedFrame{
		Image:      out,
		ModelID:    res.ModelID,
		Detections: len(res.Detections),
	}, nil
}

func (s *visionService) Detect(ctx context.Context, frame []byte) (*vision.DetectionResponse, error) {
	img, err := s.decode(frame)
	if err != nil {
		return nil, err
	}

	res, err := s.agent.Detect(ctx, img)
	if err != nil {
		return nil, s.inferenceError(ctx, err)
	}

	resp := vision.NewDetectionResponse(s.agent.Dataset(), res)
	return &resp, nil
}

// Upload is best effort: once the frame decodes the caller gets an accepted
// response whether or not the dataset took the image.
func (s *visionService) Upload(ctx context.Context, frame []byte, name string) (*vision.UploadResponse, error) {
	img, err := s.decode(frame)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name, err = s.utils.NewULIDFromTimestamp(time.Now())
		if err != nil {
			return nil, fmt.Errorf("generate image name: %w", err)
		}
	}

	s.agent.UploadImage(ctx, img, name)

	return &vision.UploadResponse{Name: name, Status: "accepted"}, nil
}

func (s *visionService) AnnotateLocal(ctx context.Context, frame []byte) ([]byte, error) {
	img, err := s.decode(frame)
	if err != nil {
		return nil, err
	}

	out, err := s.agent.RunLocalInference(ctx, img)
	if err != nil {
		return nil, s.inferenceError(ctx, err)
	}

	return imagecodec.EncodeJPEG(out, imagecodec.DefaultQuality)
}

func (s *visionService) decode(frame []byte) (image.Image, error) {
	img, err := imagecodec.DecodeImage(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vision.ErrInvalidImage, err)
	}
	return img, nil
}

func (s *visionService) inferenceError(ctx context.Context, err error) error {
	log.WithRequestID(s.log, ctx).WithFields(logrus.Fields{
		"model_id": s.agent.ActiveModel(),
		"error":    err.Error(),
	}).Error("Inference failed")

	if errors.Is(err, roboflow.ErrInference) || errors.Is(err, imagecodec.ErrDecode) {
		return fmt.Errorf("%w: %v", vision.ErrInferenceFailed, err)
	}
	return err
}
