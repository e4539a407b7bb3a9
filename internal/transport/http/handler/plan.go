package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"boq-ai/internal/app"
	"boq-ai/internal/transport/http/middleware"
	"boq-ai/internal/transport/http/response"
)

type PlanHandler struct {
	planService    *app.PlanService
	maxUploadBytes int64
}

func NewPlanHandler(planService *app.PlanService, maxUploadBytes int64) *PlanHandler {
	return &PlanHandler{planService: planService, maxUploadBytes: maxUploadBytes}
}

func (h *PlanHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		response.Error(c, http.StatusBadRequest, response.CodeFileTooLarge, "file too large")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "cannot read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "cannot read file")
		return
	}

	doc, err := h.planService.Upload(c.Request.Context(), app.UploadInput{
		UserID:      middleware.UserID(c),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUnsupportedFile):
			response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFile, "only pdf, jpg, jpeg, png, dwg and dxf files are accepted")
		case errors.Is(err, app.ErrFileTooLarge):
			response.Error(c, http.StatusBadRequest, response.CodeFileTooLarge, "file too large")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusBadGateway, response.CodeStorageFailed, "upload failed")
		}
		return
	}
	response.OK(c, doc)
}

func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.planService.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list plans failed")
		return
	}
	response.OK(c, plans)
}

func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.planService.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writePlanError(c, err, "get plan failed")
		return
	}
	response.OK(c, plan)
}

func (h *PlanHandler) GetBoq(c *gin.Context) {
	snapshot, err := h.planService.GetBoq(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writePlanError(c, err, "get estimate failed")
		return
	}
	response.OK(c, snapshot)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	if err := h.planService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writePlanError(c, err, "delete plan failed")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

func writePlanError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrPlanNotFound):
		response.Error(c, http.StatusNotFound, response.CodePlanNotFound, "plan not found")
	case errors.Is(err, app.ErrBoqNotCached):
		response.Error(c, http.StatusNotFound, response.CodeBoqNotCached, "estimate for this plan has expired")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
