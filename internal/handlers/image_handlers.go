package handlers

import (
	"errors"
	"net/http"

	"whimsicalfrog/internal/common"
	"whimsicalfrog/internal/services"

	"github.com/labstack/echo/v4"
)

type ImageHandlers struct {
	images services.ImageService
}

func NewImageHandlers(images services.ImageService) *ImageHandlers {
	return &ImageHandlers{images: images}
}

// UploadImage accepts a multipart "image" field and stores it under the
// item's SKU.
func (h *ImageHandlers) UploadImage(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, "image file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "failed to read upload")
	}
	defer src.Close()

	image, err := h.images.UploadImage(c.Request().Context(), sku, fileHeader.Filename, src, fileHeader.Size)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrItemNotFound):
			return common.SendNotFoundError(c, "item")
		case errors.Is(err, services.ErrUnsupportedImageType):
			return common.SendError(c, http.StatusBadRequest, "unsupported image type")
		}
		return common.SendServerError(c, "failed to upload image")
	}
	return c.JSON(http.StatusCreated, common.SuccessResponse{Success: true, Message: "image uploaded", Data: image})
}

func (h *ImageHandlers) ListImages(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	images, err := h.images.ListImages(c.Request().Context(), sku)
	if err != nil {
		return common.SendServerError(c, "failed to list images")
	}
	return common.SendData(c, images)
}

func (h *ImageHandlers) GetImageURL(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "image id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	url, err := h.images.GetImageURL(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			return common.SendNotFoundError(c, "image")
		}
		return common.SendServerError(c, "failed to resolve image url")
	}
	return common.SendData(c, map[string]string{"url": url})
}

func (h *ImageHandlers) SetPrimaryImage(c echo.Context) error {
	sku, err := common.ValidateSKU(c.Param("sku"))
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	id, err := common.ValidateUUID(c.Param("id"), "image id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.images.SetPrimaryImage(c.Request().Context(), sku, id); err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			return common.SendNotFoundError(c, "image")
		}
		return common.SendServerError(c, "failed to set primary image")
	}
	return common.SendSuccess(c, "primary image set", nil)
}

func (h *ImageHandlers) DeleteImage(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "image id")
	if err != nil {
		return common.SendError(c, http.StatusBadRequest, err.Error())
	}
	if err := h.images.DeleteImage(c.Request().Context(), id); err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			return common.SendNotFoundError(c, "image")
		}
		return common.SendServerError(c, "failed to delete image")
	}
	return common.SendSuccess(c, "image deleted", nil)
}
