package config

import (
	visionHandler "VisionAgent/internal/api/vision/handler"
	visionService "VisionAgent/internal/api/vision/service"
	"VisionAgent/internal/middleware"
	"VisionAgent/pkg/agentconfig"
	"VisionAgent/pkg/mlagent"
	"VisionAgent/pkg/roboflow"
	"VisionAgent/pkg/utils"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine     *fiber.App
	log        *logrus.Logger
	middleware middleware.Middleware
	validator  *validator.Validate
	utils      utils.IUtils
	agent      mlagent.IAgent
	handlers   []handler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.agent == nil {
		return nil, fmt.Errorf("vision agent is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

// WithAgent loads the agent config at path and points the inference client at
// the endpoints given in the environment, falling back to the hosted service.
func WithAgent(path string) ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before the agent")
		}

		cfg, err := agentconfig.Load(path)
		if err != nil {
			s.log.Errorf("Failed to load agent config: %v", err)
			return err
		}

		agent, err := mlagent.New(cfg,
			roboflow.WithLogger(s.log),
			roboflow.WithEndpoints(roboflow.Endpoints{
				Detect:  os.Getenv("ROBOFLOW_DETECT_URL"),
				Outline: os.Getenv("ROBOFLOW_OUTLINE_URL"),
				Upload:  os.Getenv("ROBOFLOW_UPLOAD_URL"),
				Local:   os.Getenv("LOCAL_INFERENCE_URL"),
			}),
		)
		if err != nil {
			s.log.Errorf("Failed to create vision agent: %v", err)
			return err
		}

		s.log.WithFields(logrus.Fields{
			"dataset":      cfg.Dataset,
			"models":       cfg.ModelIDs,
			"task_type":    cfg.TaskType,
			"allow_upload": cfg.AllowUpload,
		}).Info("Vision agent configured")

		s.agent = agent
		return nil
	}
}

func (s *Server) RegisterHandler() {
	visionServices := visionService.NewVisionService(s.log, s.agent, s.utils)
	visionHandlers := visionHandler.New(s.log, s.validator, s.middleware, visionServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, visionHandlers)
}

func (s *Server) mount() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewAccessLogMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}
}

// DefaultPort is used when APP_PORT is unset.
const DefaultPort = "3000"

func (s *Server) Run() error {
	s.mount()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = DefaultPort
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown() error {
	return s.engine.Shutdown()
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message":      "Server is Healthy!",
			"dataset":      s.agent.Dataset(),
			"active_model": s.agent.ActiveModel(),
		})
	})
}
