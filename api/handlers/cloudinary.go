package handlers

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	cldapi "github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/linesmerrill/studio-api/models"
)

// Uploader stores media for posts and model profiles
type Uploader interface {
	Upload(ctx context.Context, file io.Reader) (models.Media, error)
	Sign(now time.Time) (models.UploadSignature, error)
}

// CloudinaryUploader uploads to a Cloudinary folder
type CloudinaryUploader struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
}

// NewCloudinaryUploader returns nil when no cloud is configured
func NewCloudinaryUploader(cloudName, apiKey, apiSecret, folder string) (*CloudinaryUploader, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld, cloudName: cloudName, apiKey: apiKey, apiSecret: apiSecret, folder: folder}, nil
}

// Upload sends file to Cloudinary, letting it detect images and videos
func (c *CloudinaryUploader) Upload(ctx context.Context, file io.Reader) (models.Media, error) {
	res, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       c.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return models.Media{}, err
	}
	if res.Error.Message != "" {
		return models.Media{}, errors.New(res.Error.Message)
	}
	return models.Media{
		URL:          res.SecureURL,
		PublicID:     res.PublicID,
		ResourceType: res.ResourceType,
		Format:       res.Format,
		Width:        res.Width,
		Height:       res.Height,
		Bytes:        res.Bytes,
	}, nil
}

// Sign generates a signature for a direct upload into the folder
func (c *CloudinaryUploader) Sign(now time.Time) (models.UploadSignature, error) {
	timestamp := now.Unix()
	params := url.Values{}
	params.Set("folder", c.folder)
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))
	signature, err := cldapi.SignParameters(params, c.apiSecret)
	if err != nil {
		return models.UploadSignature{}, err
	}
	return models.UploadSignature{
		Timestamp: timestamp,
		Signature: signature,
		APIKey:    c.apiKey,
		CloudName: c.cloudName,
		Folder:    c.folder,
	}, nil
}
