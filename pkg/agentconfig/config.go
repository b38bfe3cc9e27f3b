package agentconfig

import (
	"VisionAgent/internal/entity"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var ErrConfig = errors.New("invalid agent config")

const modelSeparator = ","

// Config holds the settings of one agent. It is loaded once and never mutated.
type Config struct {
	Dataset     string
	ModelIDs    []string
	APIKey      string
	AllowUpload bool
	TaskType    entity.TaskType
}

type fileConfig struct {
	Dataset         string `json:"dataset" validate:"required"`
	ModelUUID       string `json:"modelUuid" validate:"required"`
	RoboflowKey     string `json:"roboflowKey" validate:"required"`
	UploadNewImages *bool  `json:"uploadNewImages" validate:"required"`
	Type            string `json:"type"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfig, path, err)
	}

	return Parse(raw)
}

func Parse(raw []byte) (*Config, error) {
	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrConfig, err)
	}

	if err := validator.New().Struct(fc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	modelIDs := splitModelIDs(fc.ModelUUID)
	if len(modelIDs) == 0 {
		return nil, fmt.Errorf("%w: modelUuid %q has no model ids", ErrConfig, fc.ModelUUID)
	}

	taskType := entity.TaskType(strings.TrimSpace(fc.Type))
	if taskType == "" {
		taskType = entity.ObjectDetection
	}

	return &Config{
		Dataset:     fc.Dataset,
		ModelIDs:    modelIDs,
		APIKey:      fc.RoboflowKey,
		AllowUpload: *fc.UploadNewImages,
		TaskType:    taskType,
	}, nil
}

func splitModelIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, modelSeparator) {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
