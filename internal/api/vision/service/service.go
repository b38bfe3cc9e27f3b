package visionService

import (
	"VisionAgent/internal/api/vision"
	"VisionAgent/pkg/mlagent"
	"VisionAgent/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IVisionService interface {
	Annotate(ctx context.Context, frame []byte) (*vision.AnnotatedFrame, error)
	Detect(ctx context.Context, frame []byte) (*vision.DetectionResponse, error)
	Upload(ctx context.Context, frame []byte, name string) (*vision.UploadResponse, error)
	AnnotateLocal(ctx context.Context, frame []byte) ([]byte, error)
}

type visionService struct {
	log   *logrus.Logger
	agent mlagent.IAgent
	utils utils.IUtils
}

func NewVisionService(
	log *logrus.Logger,
	agent mlagent.IAgent,
	utils utils.IUtils,
) IVisionService {
	return &visionService{
		log:   log,
		agent: agent,
		utils: utils,
	}
}
