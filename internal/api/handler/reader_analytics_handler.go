package handler

import (
	"NewsDesk/internal/api/dto"
	"NewsDesk/internal/pkg/response"
	"NewsDesk/internal/pkg/util"
	"NewsDesk/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReaderAnalyticsHandler struct {
	readerAnalyticsSvc service.ReaderAnalyticsService
	articleMetricSvc   service.ArticleMetricService
}

func NewReaderAnalyticsHandler(
	readerAnalyticsSvc service.ReaderAnalyticsService,
	articleMetricSvc service.ArticleMetricService,
) *ReaderAnalyticsHandler {
	return &ReaderAnalyticsHandler{
		readerAnalyticsSvc: readerAnalyticsSvc,
		articleMetricSvc:   articleMetricSvc,
	}
}

// Overview 今日概览
func (h *ReaderAnalyticsHandler) Overview(c *gin.Context) {
	res, err := h.readerAnalyticsSvc.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetTrend 文章 7 / 30 天阅读趋势
func (h *ReaderAnalyticsHandler) GetTrend(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := h.articleMetricSvc.GetArticleTrend(c.Request.Context(), c.Param("slug"), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetRecentEvents 文章最近的阅读事件
func (h *ReaderAnalyticsHandler) GetRecentEvents(c *gin.Context) {
	var req dto.RecentEventsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	res, err := h.readerAnalyticsSvc.RecentEvents(c.Request.Context(), c.Param("slug"), req.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
