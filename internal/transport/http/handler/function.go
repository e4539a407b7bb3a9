package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boq-ai/internal/app"
	"boq-ai/internal/boq"
)

// FunctionHandler exposes each pipeline stage on its own. Every response is
// HTTP 200; callers detect degraded or rejected calls by the error field.
type FunctionHandler struct {
	spec    app.SpecificationStage
	drawing app.DrawingStage
	synth   app.SynthesisStage
}

type FileRequest struct {
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
}

type GenerateBoqRequest struct {
	OCRData     *boq.SpecificationData `json:"ocrData"`
	DrawingData *boq.DrawingData       `json:"drawingData"`
	ProjectName string                 `json:"projectName"`
}

type SpecificationResponse struct {
	boq.SpecificationData
	Error string `json:"error,omitempty"`
}

type DrawingResponse struct {
	Success bool             `json:"success"`
	Data    *boq.DrawingData `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type BoqResponse struct {
	Boq   boq.Boq `json:"boq"`
	Error string  `json:"error,omitempty"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func NewFunctionHandler(spec app.SpecificationStage, drawing app.DrawingStage, synth app.SynthesisStage) *FunctionHandler {
	return &FunctionHandler{spec: spec, drawing: drawing, synth: synth}
}

func (h *FunctionHandler) OCRProcessing(c *gin.Context) {
	var req FileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, failureResponse{Error: "invalid request payload"})
		return
	}
	res, err := h.spec.ExtractSpecification(c.Request.Context(), req.FileURL, req.FileName)
	if err != nil {
		c.JSON(http.StatusOK, failureResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, SpecificationResponse{
		SpecificationData: res.Value,
		Error:             degradedMessage(res.Degraded),
	})
}

func (h *FunctionHandler) DrawingAnalysis(c *gin.Context) {
	var req FileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, failureResponse{Error: "invalid request payload"})
		return
	}
	res, err := h.drawing.ExtractDrawing(c.Request.Context(), req.FileURL, req.FileName)
	if err != nil {
		c.JSON(http.StatusOK, failureResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, DrawingResponse{
		Success: true,
		Data:    &res.Value,
		Error:   degradedMessage(res.Degraded),
	})
}

func (h *FunctionHandler) GenerateBoq(c *gin.Context) {
	var req GenerateBoqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, failureResponse{Error: "invalid request payload"})
		return
	}

	var spec boq.SpecificationData
	if req.OCRData != nil {
		spec = *req.OCRData
	}
	var drawing boq.DrawingData
	if req.DrawingData != nil {
		drawing = *req.DrawingData
	}

	res, err := h.synth.SynthesizeBoq(c.Request.Context(), spec, drawing, req.ProjectName)
	if err != nil {
		c.JSON(http.StatusOK, failureResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, BoqResponse{
		Boq:   res.Value,
		Error: degradedMessage(res.Degraded),
	})
}

func degradedMessage(reason boq.DegradedReason) string {
	if reason == boq.DegradedNone {
		return ""
	}
	return string(reason) + ": returned fallback data"
}
