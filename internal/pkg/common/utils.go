package common

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// GenerateUUID 產生酒櫃識別碼
func GenerateUUID() string {
	return uuid.New().String()
}

// WriteErrorResponse 以預定義錯誤寫入 JSON 錯誤響應
func WriteErrorResponse(w http.ResponseWriter, e *CustomError, details string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e.Response(details))
}
