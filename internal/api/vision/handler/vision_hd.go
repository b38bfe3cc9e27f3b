package visionHandler

import (
	"VisionAgent/internal/api/vision"
	contextPkg "VisionAgent/pkg/context"
	"VisionAgent/pkg/handlerUtil"
	"VisionAgent/pkg/log"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const inferenceTimeout = 30 * time.Second

func (h *VisionHandler) readImage(ctx *fiber.Ctx) ([]byte, error) {
	file, err := ctx.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("%w: missing image part", vision.ErrBadRequest)
	}

	h.log.WithFields(log.Fields{
		"request_id": h.middleware.GetRequestID(ctx),
		"path":       ctx.Path(),
		"file_name":  file.Filename,
		"file_size":  file.Size,
	}).Debug("Processing image upload")

	data, err := h.utils.ReadImageFile(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vision.ErrInvalidImage, err)
	}

	return data, nil
}

func (h *VisionHandler) Infer(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), inferenceTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	frame, err := h.readImage(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image")
	}

	result, err := h.visionService.Annotate(c, frame)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "annotate")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"model_id":   result.ModelID,
			"detections": result.Detections,
		}).Info("Inference successful")

		ctx.Set("X-Model-ID", result.ModelID)
		ctx.Set("X-Detections", strconv.Itoa(result.Detections))
		ctx.Set(fiber.HeaderContentType, "image/jpeg")
		return ctx.Status(fiber.StatusOK).Send(result.Image)
	}
}

func (h *VisionHandler) Detect(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), inferenceTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	frame, err := h.readImage(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image")
	}

	result, err := h.visionService.Detect(c, frame)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "detect")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *VisionHandler) Upload(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), inferenceTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req vision.UploadRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, fmt.Errorf("%w: %v", vision.ErrBadRequest, err), ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	frame, err := h.readImage(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image")
	}

	result, err := h.visionService.Upload(c, frame, req.Name)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "upload")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusAccepted, result)
}

func (h *VisionHandler) InferLocal(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), inferenceTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	frame, err := h.readImage(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_image")
	}

	out, err := h.visionService.AnnotateLocal(c, frame)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "annotate_local")
	}

	ctx.Set(fiber.HeaderContentType, "image/jpeg")
	return ctx.Status(fiber.StatusOK).Send(out)
}
