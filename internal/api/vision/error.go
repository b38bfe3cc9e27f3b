package vision

import (
	"VisionAgent/pkg/response"
	"net/http"
)

var (
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "internal server error")
	ErrBadRequest          = response.NewError(http.StatusBadRequest, "bad request")
	ErrInvalidImage        = response.NewError(http.StatusBadRequest, "invalid image")
	ErrInferenceFailed     = response.NewError(http.StatusBadGateway, "inference service failed")
)
