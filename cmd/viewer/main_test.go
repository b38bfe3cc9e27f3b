package main

import (
	"os"
	"path/filepath"
	"testing"

	"VisionAgent/internal/config"
)

func TestDefaultStreamURLFollowsServerPort(t *testing.T) {
	t.Setenv("APP_PORT", "")
	if got, want := defaultStreamURL(), "ws://localhost:"+config.DefaultPort+"/api/v1/vision/stream/ws"; got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}

	t.Setenv("APP_PORT", "9090")
	if got := defaultStreamURL(); got != "ws://localhost:9090/api/v1/vision/stream/ws" {
		t.Fatalf("url = %q", got)
	}
}

func TestListFramesKeepsJPEGsInOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.JPEG", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "c.jpg"), 0o755); err != nil {
		t.Fatal(err)
	}

	frames, err := listFrames(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 2 || filepath.Base(frames[0]) != "a.JPEG" || filepath.Base(frames[1]) != "b.jpg" {
		t.Fatalf("frames = %v", frames)
	}
}
