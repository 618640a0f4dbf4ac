package cloudinary

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Media is the result of an upload: the public URL plus the opaque identifier
// needed to delete the asset later. Duration is set for videos only (seconds).
type Media struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Duration int    `json:"duration,omitempty"`
}

// MediaStore abstracts the blob host so handlers can be tested without it
type MediaStore interface {
	UploadImage(ctx context.Context, file io.Reader, folder string) (*Media, error)
	UploadVideo(ctx context.Context, file io.Reader, folder string) (*Media, error)
	Delete(ctx context.Context, publicID string) error
	DeleteVideo(ctx context.Context, publicID string) error
}

// Client implements MediaStore on top of Cloudinary
type Client struct {
	cld *cloudinary.Cloudinary
}

// New creates a Cloudinary client from a CLOUDINARY_URL-style connection string
func New(cloudinaryURL string) (*Client, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL not set")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary configuration error: %w", err)
	}
	return &Client{cld: cld}, nil
}

// UploadImage uploads an image into the given folder
func (c *Client) UploadImage(ctx context.Context, file io.Reader, folder string) (*Media, error) {
	res, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, err
	}
	return &Media{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// UploadVideo uploads a video into the given folder and reports its duration
func (c *Client) UploadVideo(ctx context.Context, file io.Reader, folder string) (*Media, error) {
	res, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "video",
	})
	if err != nil {
		return nil, err
	}
	return &Media{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Duration: int(res.Duration),
	}, nil
}

// Delete removes an image asset by its public id
func (c *Client) Delete(ctx context.Context, publicID string) error {
	return c.destroy(ctx, publicID, "image")
}

// DeleteVideo removes a video asset by its public id
func (c *Client) DeleteVideo(ctx context.Context, publicID string) error {
	return c.destroy(ctx, publicID, "video")
}

func (c *Client) destroy(ctx context.Context, publicID, resourceType string) error {
	if publicID == "" {
		log.Println("Cannot delete media: publicId is empty")
		return nil
	}
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return err
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary destroy failed: %s", res.Result)
	}
	return nil
}
