package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxImageSize caps uploaded images, checked before any bytes go out.
const MaxImageSize = 5 * 1024 * 1024

var (
	// ErrUnsupportedImageType rejects anything that is not JPEG, PNG, GIF
	// or WebP, by filename extension.
	ErrUnsupportedImageType = errors.New("please select a valid image file (JPEG, PNG, GIF, WebP)")

	ErrImageTooLarge = errors.New("image size should be less than 5MB")
)

var imageExtensions = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// ImageUpload is a custom print-job submission: the image plus optional
// contact details so the shop can follow up.
type ImageUpload struct {
	Filename string
	Data     []byte
	Email    string
	Phone    string
}

// Validate applies the client-side checks so obviously bad files never
// reach the network.
func (u ImageUpload) Validate() error {
	if len(u.Data) == 0 {
		return errors.New("please select an image to upload")
	}
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if _, ok := imageExtensions[ext]; !ok {
		return ErrUnsupportedImageType
	}
	if len(u.Data) > MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}

// UploadImage submits a custom image to image-upload/ and returns the
// server's acknowledgement message.
func (c *Client) UploadImage(ctx context.Context, upload ImageUpload) (string, error) {
	if err := upload.Validate(); err != nil {
		return "", err
	}

	fields := map[string]string{}
	if upload.Email != "" {
		fields["email"] = upload.Email
	}
	if upload.Phone != "" {
		fields["phone"] = upload.Phone
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := c.doMultipart(ctx, "image-upload/", fields, "image", upload.Filename, upload.Data, &resp); err != nil {
		return "", err
	}
	if resp.Message == "" {
		resp.Message = "Image uploaded successfully!"
	}
	return resp.Message, nil
}

// UploadPDF submits a titled stationery PDF to upload-pdf/. Requires a
// signed-in session.
func (c *Client) UploadPDF(ctx context.Context, title, filename string, data []byte) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("please enter a title for the PDF")
	}
	if len(data) == 0 {
		return errors.New("please select a PDF file to upload")
	}
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return errors.New("please select a PDF file")
	}

	fields := map[string]string{"title": title}
	return c.doMultipart(ctx, "upload-pdf/", fields, "pdf_file", filename, data, nil)
}

// doMultipart encodes one file plus string fields as multipart/form-data and
// sends it through the common request path.
func (c *Client) doMultipart(ctx context.Context, path string, fields map[string]string, fileField, filename string, data []byte, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return fmt.Errorf("write form field %q: %w", key, err)
		}
	}
	part, err := w.CreateFormFile(fileField, filepath.Base(filename))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	return c.send(ctx, http.MethodPost, path, nil, nil, w.FormDataContentType(), &buf, out)
}
