package actions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/model"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/schema"
)

const uploadField = "file"

// UploadImageFile reads a local image and sends it to /files/upload-image.
func (c *Client) UploadImageFile(ctx context.Context, path string) (model.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.Image{}, fmt.Errorf("upload image: %w", err)
	}
	form := schema.UploadImage{FileName: filepath.Base(path), Size: info.Size()}
	if err := schema.Validate(&form); err != nil {
		return model.Image{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return model.Image{}, fmt.Errorf("upload image: %w", err)
	}
	defer f.Close()
	return c.UploadImage(ctx, form.FileName, form.Size, f)
}

// UploadImage sends size bytes from r as the multipart field "file".
func (c *Client) UploadImage(ctx context.Context, fileName string, size int64, r io.Reader) (model.Image, error) {
	form := schema.UploadImage{FileName: fileName, Size: size}
	if err := schema.Validate(&form); err != nil {
		return model.Image{}, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadField, filepath.Base(form.FileName)))
	header.Set("Content-Type", imageContentType(form.FileName))
	part, err := mw.CreatePart(header)
	if err != nil {
		return model.Image{}, fmt.Errorf("upload image: %w", err)
	}
	if _, err := io.Copy(part, io.LimitReader(r, form.Size)); err != nil {
		return model.Image{}, fmt.Errorf("upload image: read %s: %w", form.FileName, err)
	}
	if err := mw.Close(); err != nil {
		return model.Image{}, fmt.Errorf("upload image: %w", err)
	}

	var out model.Image
	err = c.do(ctx, call{
		op:          "files.upload_image",
		method:      http.MethodPost,
		path:        []string{"files", "upload-image"},
		raw:         &buf,
		contentType: mw.FormDataContentType(),
	}, &out)
	if err != nil {
		return model.Image{}, err
	}
	return out, nil
}

func imageContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".webp" {
		return "image/webp"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
