package visionService

import (
	"VisionAgent/internal/api/vision"
	"VisionAgent/internal/entity"
	contextPkg "VisionAgent/pkg/context"
	"VisionAgent/pkg/imagecodec"
	"VisionAgent/pkg/roboflow"
	"VisionAgent/pkg/utils"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

type fakeAgent struct {
	result    *entity.InferenceResult
	err       error
	detects   int
	uploads   []string
	annotated int
}

func (f *fakeAgent) UploadImage(_ context.Context, _ image.Image, name string) {
	f.uploads = append(f.uploads, name)
}

func (f *fakeAgent) RunInference(ctx context.Context, img image.Image) (image.Image, error) {
	res, err := f.Detect(ctx, img)
	if err != nil {
		return nil, err
	}
	return f.Annotate(img, res), nil
}

func (f *fakeAgent) Detect(context.Context, image.Image) (*entity.InferenceResult, error) {
	f.detects++
	return f.result, f.err
}

func (f *fakeAgent) Annotate(img image.Image, _ *entity.InferenceResult) image.Image {
	f.annotated++
	return img
}

func (f *fakeAgent) RunLocalInference(context.Context, image.Image) (image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return imaging.New(4, 4, color.White), nil
}

func (f *fakeAgent) Dataset() string     { return "cubes" }
func (f *fakeAgent) ActiveModel() string { return "3" }

func newService(agent *fakeAgent) IVisionService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewVisionService(logger, agent, utils.New())
}

func jpegFrame(t *testing.T) []byte {
	t.Helper()
	data, err := imagecodec.EncodeJPEG(imaging.New(40, 30, color.NRGBA{R: 10, G: 20, B: 30, A: 255}), imagecodec.DefaultQuality)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestAnnotate(t *testing.T) {
	agent := &fakeAgent{result: &entity.InferenceResult{
		ModelID:    "3",
		Detections: []entity.Detection{{Class: "cube", Shape: entity.Box{CenterX: 5, CenterY: 5, Width: 4, Height: 4}}},
	}}

	frame, err := newService(agent).Annotate(context.Background(), jpegFrame(t))
	if err != nil {
		t.Fatal(err)
	}

	if frame.ModelID != "3" || frame.Detections != 1 || agent.annotated != 1 {
		t.Fatalf("unexpected frame %+v (annotated %d)", frame, agent.annotated)
	}
	if _, err := imagecodec.DecodeImage(frame.Image); err != nil {
		t.Fatalf("annotated frame is not an image: %v", err)
	}
}

func TestAnnotateRejectsBadFrame(t *testing.T) {
	agent := &fakeAgent{}

	_, err := newService(agent).Annotate(context.Background(), []byte("nope"))
	if !errors.Is(err, vision.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
	if agent.detects != 0 {
		t.Fatal("a bad frame must not reach the inference service")
	}
}

func TestDetectMapsInferenceErrors(t *testing.T) {
	agent := &fakeAgent{err: roboflow.ErrInference}

	_, err := newService(agent).Detect(context.Background(), jpegFrame(t))
	if !errors.Is(err, vision.ErrInferenceFailed) {
		t.Fatalf("expected ErrInferenceFailed, got %v", err)
	}
}

func TestInferenceFailureLogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	svc := NewVisionService(logger, &fakeAgent{err: roboflow.ErrInference}, utils.New())

	ctx := contextPkg.WithRequestID(context.Background(), "01HZQ")
	if _, err := svc.Annotate(ctx, jpegFrame(t)); err == nil {
		t.Fatal("expected an inference error")
	}

	out := buf.String()
	if !strings.Contains(out, "request_id=01HZQ") || !strings.Contains(out, "model_id=3") {
		t.Fatalf("failure log missing request context: %s", out)
	}
}

func TestDetectResponse(t *testing.T) {
	agent := &fakeAgent{result: &entity.InferenceResult{
		ModelID:  "4",
		TaskType: entity.InstanceSegmentation,
		Detections: []entity.Detection{
			{Class: "dock", Confidence: 0.5, Shape: entity.Polygon{Points: []entity.Point{{X: 1, Y: 2}}}},
			{Class: "cube", Shape: entity.Box{CenterX: 100, CenterY: 100, Width: 20, Height: 10}},
		},
	}}

	resp, err := newService(agent).Detect(context.Background(), jpegFrame(t))
	if err != nil {
		t.Fatal(err)
	}

	if resp.Dataset != "cubes" || resp.ModelID != "4" || len(resp.Detections) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Detections[0].Box != nil || len(resp.Detections[0].Points) != 1 {
		t.Fatalf("polygon item = %+v", resp.Detections[0])
	}
	if got := *resp.Detections[1].Box; got != (vision.BoxResponse{X1: 90, Y1: 95, X2: 110, Y2: 105}) {
		t.Fatalf("box = %+v", got)
	}
}

func TestUploadGeneratesName(t *testing.T) {
	agent := &fakeAgent{}
	svc := newService(agent)

	resp, err := svc.Upload(context.Background(), jpegFrame(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Name) != 26 || resp.Status != "accepted" {
		t.Fatalf("unexpected response %+v", resp)
	}

	resp, err = svc.Upload(context.Background(), jpegFrame(t), "frame-7")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Name != "frame-7" || len(agent.uploads) != 2 || agent.uploads[1] != "frame-7" {
		t.Fatalf("uploads = %v", agent.uploads)
	}
}

func TestAnnotateLocal(t *testing.T) {
	out, err := newService(&fakeAgent{}).AnnotateLocal(context.Background(), jpegFrame(t))
	if err != nil {
		t.Fatal(err)
	}
	img, err := imagecodec.DecodeImage(out)
	if err != nil || img.Bounds().Dx() != 4 {
		t.Fatalf("local result = %v, %v", img, err)
	}
}
