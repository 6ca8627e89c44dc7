package cocktail

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	cocktailService "mixwise-api/internal/core/cocktail"
	"mixwise-api/internal/core/matching"
	"mixwise-api/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReadinessRequest 以持有食材做就緒分析
type ReadinessRequest struct {
	Owned      []string `json:"owned" binding:"required"` // 持有食材，可為名稱、slug 或舊版 ID
	MaxMissing *int     `json:"max_missing,omitempty"`    // 「差一點」的缺少上限
	Limit      *int     `json:"limit,omitempty"`          // 建議數量上限
}

// SuggestionsRequest 只取得購買建議
type SuggestionsRequest struct {
	Owned []string `json:"owned" binding:"required"`
	Limit *int     `json:"limit,omitempty"`
}

// SuggestionsResponse 建議清單
type SuggestionsResponse struct {
	Suggestions []cocktailService.Suggestion `json:"suggestions"`
}

// Handler 酒譜就緒處理程序
type Handler struct {
	service *cocktailService.Service
	debug   bool
}

// NewHandler 創建新的處理程序，debug 時錯誤回應會附上細節
func NewHandler(service *cocktailService.Service, debug bool) *Handler {
	return &Handler{
		service: service,
		debug:   debug,
	}
}

// HandleReadiness 依持有食材分級酒譜
func (h *Handler) HandleReadiness(c *gin.Context) {
	var req ReadinessRequest
	if !h.bind(c, &req) {
		return
	}

	opts := h.options(req.MaxMissing, req.Limit)
	report, err := h.service.Readiness(c.Request.Context(), req.Owned, opts)
	if err != nil {
		h.writeError(c, err)
		return
	}

	common.LogInfo("就緒分析請求完成",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("owned", len(report.Owned)),
		zap.Int("ready", len(report.Ready)),
		zap.Bool("cached", report.Cached),
	)
	c.JSON(http.StatusOK, report)
}

// HandleSuggestions 回傳建議購買的食材
func (h *Handler) HandleSuggestions(c *gin.Context) {
	var req SuggestionsRequest
	if !h.bind(c, &req) {
		return
	}

	limit := h.service.Options().Limit
	if req.Limit != nil {
		limit = *req.Limit
	}
	suggestions, err := h.service.Suggestions(c.Request.Context(), req.Owned, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}

// HandleCatalog 目錄摘要
func (h *Handler) HandleCatalog(c *gin.Context) {
	summary, err := h.service.CatalogSummary(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// HandleCatalogReload 重新載入目錄
func (h *Handler) HandleCatalogReload(c *gin.Context) {
	summary, err := h.service.ReloadCatalog(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	common.LogInfo("目錄已重新載入",
		zap.String("request_id", requestid.Get(c)),
		zap.String("version", summary.Version),
		zap.Int("recipes", summary.Recipes),
	)
	c.JSON(http.StatusOK, summary)
}

// options 以請求值覆寫預設比對設定
func (h *Handler) options(maxMissing, limit *int) matching.Options {
	opts := h.service.Options()
	if maxMissing != nil {
		opts.MaxMissing = *maxMissing
	}
	if limit != nil {
		opts.Limit = *limit
	}
	return opts
}

// bind 解析 JSON 請求體，失敗時直接回應 400
func (h *Handler) bind(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		details := ""
		if h.debug {
			details = err.Error()
		}
		e := common.ErrInvalidRequest
		c.AbortWithStatusJSON(e.Status, e.Response(details))
		return false
	}
	return true
}

// queryInt 讀取整數查詢參數，未提供時回傳 fallback
func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewValidationErrorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

// writeError 將服務錯誤轉為 HTTP 回應
func (h *Handler) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	// 驗證錯誤是呼叫端的輸入問題，細節一律回傳
	if common.IsValidationError(err) {
		e := common.ErrInvalidRequest
		c.AbortWithStatusJSON(e.Status, e.Response(err.Error()))
		return
	}

	ce, ok := common.AsCustomError(err)
	if !ok {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			ce = common.ErrGatewayTimeout.Wrap(err)
		default:
			ce = common.ErrInternalError.Wrap(err)
		}
	}

	if ce.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗",
			zap.Error(err),
			zap.String("code", ce.Code),
			zap.String("request_id", requestid.Get(c)),
		)
	}

	details := ""
	if h.debug && ce.Err != nil {
		details = ce.Err.Error()
	}
	c.AbortWithStatusJSON(ce.Status, ce.Response(details))
}
