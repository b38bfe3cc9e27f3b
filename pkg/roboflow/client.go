package roboflow

import (
	"VisionAgent/pkg/agentconfig"
	"VisionAgent/pkg/imagecodec"
	"VisionAgent/pkg/rotator"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var (
	ErrInference = errors.New("inference failed")
	ErrUpload    = errors.New("upload failed")
)

const (
	fileField      = "file"
	fileName       = "image.jpg"
	defaultTimeout = 30 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Endpoints struct {
	Detect  string
	Outline string
	Upload  string
	Local   string
}

var DefaultEndpoints = Endpoints{
	Detect:  "https://detect.roboflow.com",
	Outline: "https://outline.roboflow.com",
	Upload:  "https://api.roboflow.com",
	Local:   "http://localhost:5000/",
}

type Client struct {
	cfg       *agentconfig.Config
	rotator   *rotator.Rotator
	http      *resty.Client
	endpoints Endpoints
	quality   int
	log       *logrus.Logger
}

type Option func(*Client)

func WithEndpoints(e Endpoints) Option {
	return func(c *Client) {
		if e.Detect != "" {
			c.endpoints.Detect = e.Detect
		}
		if e.Outline != "" {
			c.endpoints.Outline = e.Outline
		}
		if e.Upload != "" {
			c.endpoints.Upload = e.Upload
		}
		if e.Local != "" {
			c.endpoints.Local = e.Local
		}
	}
}

func WithHTTPClient(client *resty.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

func WithJPEGQuality(quality int) Option {
	return func(c *Client) {
		c.quality = quality
	}
}

func New(cfg *agentconfig.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", agentconfig.ErrConfig)
	}

	r, err := rotator.New(cfg.ModelIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", agentconfig.ErrConfig, err)
	}

	c := &Client{
		cfg:       cfg,
		rotator:   r,
		endpoints: DefaultEndpoints,
		quality:   imagecodec.DefaultQuality,
		log:       logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = resty.New().SetTimeout(defaultTimeout)
	}
	c.http.SetLogger(c.log)

	return c, nil
}

func (c *Client) Config() *agentconfig.Config {
	return c.cfg
}

// ActiveModel reports the model the next inference call will use.
func (c *Client) ActiveModel() string {
	return c.rotator.Current()
}
