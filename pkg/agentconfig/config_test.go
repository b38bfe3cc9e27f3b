package agentconfig

import (
	"VisionAgent/internal/entity"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func ok(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func equals(t *testing.T, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.json")
	ok(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"dataset": "vector-cubes",
		"modelUuid": "3, 4 ,7",
		"roboflowKey": "secret",
		"uploadNewImages": false,
		"type": "instance-segmentation"
	}`)

	cfg, err := Load(path)
	ok(t, err)
	equals(t, cfg.Dataset, "vector-cubes")
	equals(t, cfg.ModelIDs, []string{"3", "4", "7"})
	equals(t, cfg.APIKey, "secret")
	equals(t, cfg.AllowUpload, false)
	equals(t, cfg.TaskType, entity.InstanceSegmentation)
}

func TestLoadDefaultsToObjectDetection(t *testing.T) {
	cfg, err := Parse([]byte(`{"dataset":"d","modelUuid":"1","roboflowKey":"k","uploadNewImages":true}`))
	ok(t, err)
	equals(t, cfg.TaskType, entity.ObjectDetection)
	equals(t, cfg.AllowUpload, true)
}

func TestLoadKeepsUnknownTaskType(t *testing.T) {
	cfg, err := Parse([]byte(`{"dataset":"d","modelUuid":"1","roboflowKey":"k","uploadNewImages":true,"type":"keypoints"}`))
	ok(t, err)
	equals(t, cfg.TaskType.Valid(), false)
}

func TestLoadFailures(t *testing.T) {
	cases := map[string]string{
		"malformed":       `{"dataset":`,
		"wrong type":      `{"dataset":"d","modelUuid":"1","roboflowKey":"k","uploadNewImages":"yes"}`,
		"missing dataset": `{"modelUuid":"1","roboflowKey":"k","uploadNewImages":true}`,
		"missing key":     `{"dataset":"d","modelUuid":"1","uploadNewImages":true}`,
		"missing upload":  `{"dataset":"d","modelUuid":"1","roboflowKey":"k"}`,
		"missing models":  `{"dataset":"d","roboflowKey":"k","uploadNewImages":true}`,
		"only separators": `{"dataset":"d","modelUuid":" , ,","roboflowKey":"k","uploadNewImages":true}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}
