package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"VisionAgent/internal/config"
	logPkg "VisionAgent/pkg/log"
	websocketPkg "VisionAgent/pkg/websocket"
)

func main() {
	_ = godotenv.Load()

	server := flag.String("server", envOr("VIEWER_STREAM_URL", defaultStreamURL()), "vision stream websocket url")
	framesDir := flag.String("frames", "./frames", "directory of JPEG frames to stream")
	outDir := flag.String("out", "./annotated", "directory for annotated frames")
	duration := flag.Duration("duration", 240*time.Second, "how long to keep streaming")
	interval := flag.Duration("interval", 200*time.Millisecond, "delay between frames")
	flag.Parse()

	log := logPkg.NewLogger()

	frames, err := listFrames(*framesDir)
	if err != nil {
		log.Fatalf("Failed to list frames: %v", err)
	}
	if len(frames) == 0 {
		log.Fatalf("No JPEG frames found in %s", *framesDir)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	stream, err := websocketPkg.NewStreamClient(*server, log)
	if err != nil {
		log.Fatalf("Failed to open stream: %v", err)
	}
	defer func() {
		if err := stream.Close(); err != nil {
			log.Warnf("Error closing stream: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	deadline := time.After(*duration)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	sent, failed := 0, 0
	for i := 0; ; i++ {
		select {
		case <-deadline:
			log.Infof("Viewer finished: %d frames annotated, %d failed", sent, failed)
			return
		case <-quit:
			log.Infof("Viewer interrupted: %d frames annotated, %d failed", sent, failed)
			return
		case <-ticker.C:
		}

		path := frames[i%len(frames)]
		frame, err := os.ReadFile(path)
		if err != nil {
			log.Warnf("Skipping %s: %v", path, err)
			failed++
			continue
		}

		annotated, err := stream.SendFrame(frame)
		if err != nil {
			log.Warnf("Frame %s not annotated: %v", filepath.Base(path), err)
			failed++
			if errors.Is(err, websocketPkg.ErrFrameRejected) {
				continue
			}
			if err := stream.Reconnect(); err != nil {
				log.Errorf("Reconnect failed: %v", err)
				return
			}
			continue
		}

		out := filepath.Join(*outDir, fmt.Sprintf("frame-%06d.jpg", i))
		if err := os.WriteFile(out, annotated, 0o644); err != nil {
			log.Warnf("Failed to write %s: %v", out, err)
			failed++
			continue
		}
		sent++
	}
}

func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var frames []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg":
			frames = append(frames, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(frames)
	return frames, nil
}

// defaultStreamURL points at the local service on the same port cmd/app
// listens on.
func defaultStreamURL() string {
	return fmt.Sprintf("ws://localhost:%s/api/v1/vision/stream/ws", envOr("APP_PORT", config.DefaultPort))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
