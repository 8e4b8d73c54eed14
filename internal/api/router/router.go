package router

import (
	"talent-match-go/internal/api/handler"
	"talent-match-go/internal/constants"

	"github.com/cloudwego/hertz/pkg/app/server"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, matchHandler *handler.MatchHandler) {
	api := h.Group(constants.APIPrefix)

	// 单对打分：候选人画像 + 已申请职位 -> 匹配分
	api.POST("/match/score", matchHandler.HandleMatchScore)

	// 目录检索：画像文本 -> 最优职位（排除已申请职位）
	api.POST("/match/best-fit", matchHandler.HandleBestFit)

	// 健康检查
	api.GET("/health", matchHandler.HandleHealth)
}
