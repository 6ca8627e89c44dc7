package cocktail

import (
	"net/http"

	"mixwise-api/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CabinetRequest 酒櫃內容
type CabinetRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// HandleCreateCabinet 建立酒櫃
func (h *Handler) HandleCreateCabinet(c *gin.Context) {
	var req CabinetRequest
	if !h.bind(c, &req) {
		return
	}

	cab, err := h.service.CreateCabinet(c.Request.Context(), req.Ingredients)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Location", "/api/v1/cabinets/"+cab.ID)
	c.JSON(http.StatusCreated, cab)
}

// HandleGetCabinet 取得酒櫃
func (h *Handler) HandleGetCabinet(c *gin.Context) {
	cab, err := h.service.GetCabinet(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cab)
}

// HandleReplaceCabinet 覆寫酒櫃內容
func (h *Handler) HandleReplaceCabinet(c *gin.Context) {
	var req CabinetRequest
	if !h.bind(c, &req) {
		return
	}

	cab, err := h.service.ReplaceCabinet(c.Request.Context(), c.Param("id"), req.Ingredients)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cab)
}

// HandleDeleteCabinet 刪除酒櫃
func (h *Handler) HandleDeleteCabinet(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.DeleteCabinet(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	common.LogInfo("已刪除酒櫃",
		zap.String("cabinet_id", id),
		zap.String("request_id", requestid.Get(c)),
	)
	c.Status(http.StatusNoContent)
}

// HandleAddIngredients 加入食材
func (h *Handler) HandleAddIngredients(c *gin.Context) {
	var req CabinetRequest
	if !h.bind(c, &req) {
		return
	}

	cab, err := h.service.AddIngredients(c.Request.Context(), c.Param("id"), req.Ingredients)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cab)
}

// HandleRemoveIngredient 移除單一食材
func (h *Handler) HandleRemoveIngredient(c *gin.Context) {
	cab, err := h.service.RemoveIngredients(c.Request.Context(), c.Param("id"), []string{c.Param("ingredient_id")})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cab)
}

// HandleCabinetReadiness 以酒櫃內容做就緒分析
func (h *Handler) HandleCabinetReadiness(c *gin.Context) {
	defaults := h.service.Options()
	maxMissing, err := queryInt(c, "max_missing", defaults.MaxMissing)
	if err != nil {
		h.writeError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", defaults.Limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	report, err := h.service.CabinetReadiness(c.Request.Context(), c.Param("id"), h.options(&maxMissing, &limit))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleCabinetSuggestions 以酒櫃內容回傳建議
func (h *Handler) HandleCabinetSuggestions(c *gin.Context) {
	limit, err := queryInt(c, "limit", h.service.Options().Limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	suggestions, err := h.service.CabinetSuggestions(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}
