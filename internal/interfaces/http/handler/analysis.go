// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"novel-review-api/internal/application/review"
	"novel-review-api/internal/config"
	"novel-review-api/internal/domain/entity"
	"novel-review-api/internal/interfaces/http/dto"
	"novel-review-api/pkg/errors"
)

// AnalysisHandler 质量审校处理器
type AnalysisHandler struct {
	svc *review.Service
	cfg *config.Config
}

// NewAnalysisHandler 创建质量审校处理器
func NewAnalysisHandler(svc *review.Service, cfg *config.Config) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, cfg: cfg}
}

// Analyze 提交审校
// @Summary 提交一次文本质量审校
// @Description 对摘录执行设定提取、一致性检查、读者评估与汇总报告
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeRequest true "审校请求"
// @Success 200 {object} dto.Response[entity.Analysis]
// @Router /v1/analyses [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	opts := review.Options{}
	if req.Options != nil {
		opts.SkipPersonas = req.Options.SkipPersonas
		opts.SkipSettingNote = req.Options.SkipSettingNote
		opts.Temperature = req.Options.Temperature
		opts.Provider = req.Options.Provider
		opts.Model = req.Options.Model
	}

	provider, model, err := resolveProviderModel(h.cfg, opts.Provider, opts.Model)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	opts.Provider = provider
	opts.Model = model

	analysis, err := h.svc.Analyze(c.Request.Context(), req.Excerpt, opts)
	if err != nil {
		appErr := errors.AsAppError(err)
		dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		})
		return
	}

	dto.Success[*entity.Analysis](c, analysis)
}
