package roboflow

import (
	"VisionAgent/pkg/imagecodec"
	"bytes"
	"context"
	"fmt"
	"image"
	"net/url"

	"github.com/sirupsen/logrus"
)

type uploadResponse struct {
	Success *bool  `json:"success"`
	ID      string `json:"id"`
}

// UploadTrainingImage sends img to the dataset's training split. It is a no-op
// when uploads are disabled. Failures are logged and never returned.
func (c *Client) UploadTrainingImage(ctx context.Context, img image.Image, name string) {
	if !c.cfg.AllowUpload {
		return
	}

	fields := logrus.Fields{
		"dataset": c.cfg.Dataset,
		"name":    name,
	}

	if err := c.upload(ctx, img, name); err != nil {
		fields["error"] = err.Error()
		c.log.WithFields(fields).Warn("Training image upload failed")
		return
	}

	c.log.WithFields(fields).Info("Training image uploaded")
}

func (c *Client) upload(ctx context.Context, img image.Image, name string) error {
	payload, err := imagecodec.EncodeJPEG(img, c.quality)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}

	endpoint := fmt.Sprintf("%s/dataset/%s/upload", trimSlash(c.endpoints.Upload), url.PathEscape(c.cfg.Dataset))

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"api_key": c.cfg.APIKey,
			"name":    name,
			"split":   "train",
		}).
		SetFileReader(fileField, name, bytes.NewReader(payload)).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("%w: post %s: %v", ErrUpload, endpoint, err)
	}

	var res uploadResponse
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		return fmt.Errorf("%w: status %d: decode response: %v", ErrUpload, resp.StatusCode(), err)
	}
	if res.Success == nil || !*res.Success {
		return fmt.Errorf("%w: service rejected image: %s", ErrUpload, resp.String())
	}

	return nil
}
