package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"gigexecs-backend/internal/models"
	"gigexecs-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UploadsHandler struct {
	uploads *services.UploadService
}

func NewUploadsHandler(uploads *services.UploadService) *UploadsHandler {
	return &UploadsHandler{uploads: uploads}
}

// Upload godoc
// @Summary     Upload a file
// @Description Stores a file for a wizard to reference by URL.
// @Description
// @Description - attachment: any type, up to 10 MB
// @Description - profile-photo, company-logo: JPEG, PNG or WebP, up to 5 MB
// @Description
// @Description A failed upload is reported in the body and never touches any draft.
// @Tags        uploads
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       kind path     string true "attachment, profile-photo or company-logo"
// @Param       file formData file   true "File to upload"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.UploadResponse
// @Failure     422 {object} models.UploadResponse
// @Failure     502 {object} models.UploadResponse
// @Router      /uploads/{kind} [post]
func (h *UploadsHandler) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	kind := services.UploadKind(c.Param("kind"))
	maxSize := h.uploads.MaxSize(kind)
	if maxSize == 0 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: services.ErrUnknownUploadKind.Error()})
		return
	}

	// Leave room for the multipart envelope.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.UploadResponse{Error: "file is required"})
		return
	}
	resp := models.UploadResponse{Name: header.Filename, Size: header.Size}
	if header.Size > maxSize {
		resp.Error = "file is larger than " + humanSize(maxSize)
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}

	file, err := header.Open()
	if err != nil {
		resp.Error = "failed to read file"
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		resp.Error = "failed to read file"
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	url, err := h.uploads.Upload(c.Request.Context(), userID, kind, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		var rejected *services.UploadRejectedError
		if errors.As(err, &rejected) {
			resp.Error = rejected.Reason
			c.JSON(http.StatusUnprocessableEntity, resp)
			return
		}
		resp.Error = "upload failed"
		c.JSON(http.StatusBadGateway, resp)
		return
	}

	resp.Success = true
	resp.URL = url
	c.JSON(http.StatusOK, resp)
}

// DeleteUpload godoc
// @Summary     Delete an uploaded file
// @Tags        uploads
// @Produce     json
// @Security    Bearer
// @Param       url query string true "Public URL returned by the upload"
// @Success     200 {object} models.StatusResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /uploads [delete]
func (h *UploadsHandler) DeleteUpload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "url is required"})
		return
	}

	if err := h.uploads.Delete(c.Request.Context(), userID, url); err != nil {
		writeError(c, err, "failed to delete file")
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "deleted"})
}

func humanSize(n int64) string {
	return strconv.FormatInt(n>>20, 10) + " MB"
}
