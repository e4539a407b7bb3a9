package response

import "github.com/gin-gonic/gin"

const (
	CodeOK              = 0
	CodeBadRequest      = 40000
	CodeUnsupportedFile = 40001
	CodeFileTooLarge    = 40002
	CodeUnauthorized    = 40100
	CodePlanNotFound    = 40401
	CodeBoqNotCached    = 40402
	CodeInternalServer  = 50000
	CodeStageFailed     = 50001
	CodeStorageFailed   = 50002
)

type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}
