package handler

import "github.com/van-william/carbon-sub017/internal/interfaces/http/dto"

// APIResponse documents the success envelope with a typed data field
// @Description Response envelope
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse documents the error envelope
// @Description Error envelope
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// SeedResult is how many default sequences were created
type SeedResult struct {
	Created int64 `json:"created" example:"6"`
}

// PreviewData is the number a sequence would issue next
type PreviewData struct {
	DocumentType string `json:"document_type" example:"quote"`
	Number       string `json:"number" example:"Q000042"`
}
