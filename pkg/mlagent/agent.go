package mlagent

import (
	"VisionAgent/internal/entity"
	"VisionAgent/pkg/agentconfig"
	"VisionAgent/pkg/annotate"
	"VisionAgent/pkg/imagecodec"
	"VisionAgent/pkg/roboflow"
	"context"
	"image"
)

// IAgent is what robot behaviours and the HTTP layer talk to.
type IAgent interface {
	UploadImage(ctx context.Context, img image.Image, name string)
	RunInference(ctx context.Context, img image.Image) (image.Image, error)
	Detect(ctx context.Context, img image.Image) (*entity.InferenceResult, error)
	Annotate(img image.Image, res *entity.InferenceResult) image.Image
	RunLocalInference(ctx context.Context, img image.Image) (image.Image, error)
	Dataset() string
	ActiveModel() string
}

type inferenceClient interface {
	UploadTrainingImage(ctx context.Context, img image.Image, name string)
	Infer(ctx context.Context, img image.Image) (*entity.InferenceResult, error)
	InferLocal(ctx context.Context, img image.Image) (image.Image, error)
	ActiveModel() string
}

type agent struct {
	cfg       *agentconfig.Config
	client    inferenceClient
	annotator *annotate.Annotator
}

func New(cfg *agentconfig.Config, opts ...roboflow.Option) (IAgent, error) {
	client, err := roboflow.New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	return &agent{
		cfg:       cfg,
		client:    client,
		annotator: annotate.New(),
	}, nil
}

func (a *agent) UploadImage(ctx context.Context, img image.Image, name string) {
	a.client.UploadTrainingImage(ctx, img, name)
}

// RunInference returns an annotated copy of img; img itself is left untouched.
func (a *agent) RunInference(ctx context.Context, img image.Image) (image.Image, error) {
	res, err := a.client.Infer(ctx, img)
	if err != nil {
		return nil, err
	}

	return a.Annotate(img, res), nil
}

func (a *agent) Detect(ctx context.Context, img image.Image) (*entity.InferenceResult, error) {
	return a.client.Infer(ctx, img)
}

func (a *agent) Annotate(img image.Image, res *entity.InferenceResult) image.Image {
	return a.annotator.Annotate(imagecodec.ToNRGBA(img), a.cfg.Dataset, res)
}

func (a *agent) RunLocalInference(ctx context.Context, img image.Image) (image.Image, error) {
	return a.client.InferLocal(ctx, img)
}

func (a *agent) Dataset() string {
	return a.cfg.Dataset
}

func (a *agent) ActiveModel() string {
	return a.client.ActiveModel()
}
