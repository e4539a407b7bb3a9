package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"boq-ai/internal/app"
	"boq-ai/internal/boq"
	"boq-ai/internal/transport/http/middleware"
	"boq-ai/internal/transport/http/response"
)

type EstimateHandler struct {
	estimateService *app.EstimateService
}

type GenerateEstimateRequest struct {
	Drawing       *boq.UploadedDocument `json:"drawing"`
	Specification *boq.UploadedDocument `json:"specification"`
}

func NewEstimateHandler(estimateService *app.EstimateService) *EstimateHandler {
	return &EstimateHandler{estimateService: estimateService}
}

func (h *EstimateHandler) Generate(c *gin.Context) {
	var req GenerateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.estimateService.GenerateEstimate(c.Request.Context(), app.GenerateEstimateInput{
		UserID:        middleware.UserID(c),
		Drawing:       req.Drawing,
		Specification: req.Specification,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMissingDrawing):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "please upload a drawing file first")
		case errors.Is(err, app.ErrMissingSpecification):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "please upload a specification file first")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrStageFailed):
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, response.CodeStageFailed, "failed to generate the estimate")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "generate estimate failed")
		}
		return
	}
	response.OK(c, result)
}
