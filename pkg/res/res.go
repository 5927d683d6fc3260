package res

import (
	"net/http"
	"strings"
	"time"
)

// ResponseDto ответ об успехе или неуспехе операции
type ResponseDto struct {
	StatusCode string `json:"statusCode"`
	StatusMsg  string `json:"statusMsg"`
}

// ErrorResponseDto тело ответа об ошибке
type ErrorResponseDto struct {
	APIPath      string    `json:"apiPath"`
	ErrorCode    string    `json:"errorCode"`
	ErrorMessage string    `json:"errorMessage"`
	ErrorTime    time.Time `json:"errorTime"`
}

// NewResponse создает ResponseDto
func NewResponse(code, msg string) ResponseDto {
	return ResponseDto{StatusCode: code, StatusMsg: msg}
}

// NewErrorResponse создает тело ошибки для пути запроса и HTTP-статуса
func NewErrorResponse(path string, status int, msg string, at time.Time) ErrorResponseDto {
	return ErrorResponseDto{
		APIPath:      "uri=" + path,
		ErrorCode:    StatusName(status),
		ErrorMessage: msg,
		ErrorTime:    at,
	}
}

// StatusName имя статуса в виде NOT_FOUND, BAD_REQUEST и т.п.
func StatusName(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
