package handler

import (
	"NewsDesk/internal/api/dto"
	"NewsDesk/internal/pkg/response"
	"NewsDesk/internal/pkg/util"
	"NewsDesk/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	viewTrackerSvc service.ViewTrackerService
}

func NewAnalyticsHandler(viewTrackerSvc service.ViewTrackerService) *AnalyticsHandler {
	return &AnalyticsHandler{
		viewTrackerSvc: viewTrackerSvc,
	}
}

// TrackView 阅读上报，客户端地址与 UA 取自请求元数据
func (h *AnalyticsHandler) TrackView(c *gin.Context) {
	var req dto.ViewTrackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.WarnContext(c.Request.Context(), "bind view request failed", "err", err)
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	req.ClientAddress = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	res, err := h.viewTrackerSvc.RecordView(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// TrackEngagement 阅读时长 / 滚动深度上报
func (h *AnalyticsHandler) TrackEngagement(c *gin.Context) {
	var req dto.EngagementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.WarnContext(c.Request.Context(), "bind engagement request failed", "err", err)
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	res, err := h.viewTrackerSvc.RecordEngagement(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
