package visionHandler

import (
	visionService "VisionAgent/internal/api/vision/service"
	"VisionAgent/internal/middleware"
	"VisionAgent/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type VisionHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	visionService visionService.IVisionService
	utils         utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	vs visionService.IVisionService,
	utils utils.IUtils,
) *VisionHandler {
	return &VisionHandler{
		visionService: vs,
		log:           log,
		validator:     validator,
		middleware:    middleware,
		utils:         utils,
	}
}

func (h *VisionHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	vision := srv.Group("/vision", h.middleware.NewRateLimiter)
	vision.Post("/infer", h.Infer)
	vision.Post("/infer/local", h.InferLocal)
	vision.Post("/detect", h.Detect)
	vision.Post("/upload", h.Upload)

	vision.Use("/stream/ws", wsMiddleware)
	vision.Get("/stream/ws", websocket.New(h.handleStreamWebSocket))
}
