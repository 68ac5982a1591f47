package handlers

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

const uploadKey = "uploaded_file"

// ImageStore persists uploaded images.
type ImageStore interface {
	SaveImage(fh *multipart.FileHeader) (string, error)
}

// UploadedFile returns the public path of the file saved for this request, if any.
func UploadedFile(c *fiber.Ctx) string {
	if path, ok := c.Locals(uploadKey).(string); ok {
		return path
	}
	return ""
}

// saveImage stores the optional "image" form file and remembers its path so a
// failed request can schedule its removal.
func saveImage(c *fiber.Ctx, store ImageStore) (string, error) {
	if store == nil {
		return "", nil
	}
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, fasthttp.ErrNoMultipartForm) || errors.Is(err, fasthttp.ErrMissingFile) {
			return "", nil
		}
		return "", apperrors.NewBadRequest("Invalid request payload", err)
	}
	path, err := store.SaveImage(fh)
	if err != nil {
		return "", err
	}
	c.Locals(uploadKey, path)
	return path, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewBadRequest("Invalid request payload", err)
	}
	return nil
}
