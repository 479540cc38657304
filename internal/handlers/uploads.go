package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/Creatishin/flora-knots-be/internal/apperr"
	"github.com/Creatishin/flora-knots-be/internal/images"
)

func readUpload(fh *multipart.FileHeader) (images.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return images.Upload{}, apperr.Wrap(apperr.KindProcessing, "open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return images.Upload{}, apperr.Wrap(apperr.KindProcessing, "read upload", err)
	}
	return images.Upload{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

// formUpload reads the single file under field. Returns (zero, false, nil)
// when the field is absent.
func formUpload(c *gin.Context, field string) (images.Upload, bool, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return images.Upload{}, false, nil
	}
	u, err := readUpload(fh)
	if err != nil {
		return images.Upload{}, false, err
	}
	return u, true, nil
}

// formUploads reads every file under field, preserving submission order.
func formUploads(c *gin.Context, field string) ([]images.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	headers := form.File[field]
	uploads := make([]images.Upload, 0, len(headers))
	for _, fh := range headers {
		u, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}
