package controller

import (
	"errors"
	"football_iq_backend/internal/service"
	"football_iq_backend/internal/util"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	GameService        *service.GameService
	LeaderboardService *service.LeaderboardService
	Hub                *service.LeaderboardHub
}

func NewGameController(gameService *service.GameService, leaderboardService *service.LeaderboardService, hub *service.LeaderboardHub) *GameController {
	return &GameController{
		GameService:        gameService,
		LeaderboardService: leaderboardService,
		Hub:                hub,
	}
}

// StartGameRequest 请求体可以为空
// swagger:model StartGameRequest
type StartGameRequest struct {
	Difficulty    string `json:"difficulty" binding:"omitempty,oneof=easy medium hard expert mixed"`
	QuestionCount int    `json:"questionCount" binding:"omitempty,gte=0"`
}

// StartGame godoc
// @Summary 开始一局问答
// @Description 题数限制在 5 到 20 之间，默认 10；difficulty 默认为 mixed
// @Tags 游戏
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body StartGameRequest false "难度与题数"
// @Success 201 {object} util.Response{data=service.StartGameResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "没有符合条件的题目"
// @Router /api/game/start [post]
func (c *GameController) StartGame(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartGameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.HandleError(ctx, util.BindingError(err))
		return
	}

	result, err := c.GameService.StartGame(ctx.Request.Context(), claims.UserID, req.Difficulty, req.QuestionCount)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// SubmitAnswerRequest 提交答案
// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	QuestionID uint   `json:"questionId" binding:"required,gt=0"`
	Answer     string `json:"answer" binding:"required"`
	TimeSpent  int    `json:"timeSpent" binding:"omitempty,gte=0"`
}

// SubmitAnswer godoc
// @Summary 提交答案
// @Tags 游戏
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path int true "会话ID"
// @Param   body body SubmitAnswerRequest true "答案"
// @Success 200 {object} util.Response{data=service.AnswerResult}
// @Failure 400 {object} util.Response "会话已结束或重复作答"
// @Failure 404 {object} util.Response "会话或题目不存在"
// @Router /api/game/{sessionId}/answer [post]
func (c *GameController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessionID, ok := parseIDParam(ctx, "sessionId")
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.HandleError(ctx, util.BindingError(err))
		return
	}

	result, err := c.GameService.SubmitAnswer(ctx.Request.Context(), claims.UserID, sessionID, req.QuestionID, req.Answer, req.TimeSpent)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// EndGame godoc
// @Summary 结束一局问答
// @Tags 游戏
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path int true "会话ID"
// @Success 200 {object} util.Response{data=service.GameResult}
// @Failure 400 {object} util.Response "会话已结束"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/game/{sessionId}/end [post]
func (c *GameController) EndGame(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessionID, ok := parseIDParam(ctx, "sessionId")
	if !ok {
		return
	}

	result, err := c.GameService.EndGame(ctx.Request.Context(), claims.UserID, sessionID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetLeaderboard godoc
// @Summary 排行榜
// @Description all 按用户最高分；week/month 按时间窗口内单局得分
// @Tags 游戏
// @Produce  json
// @Param   period query string false "all | week | month" default(all)
// @Param   limit query int false "1-100" default(10)
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry}
// @Failure 400 {object} util.Response
// @Router /api/game/leaderboard [get]
func (c *GameController) GetLeaderboard(ctx *gin.Context) {
	limit, ok := parseLimit(ctx)
	if !ok {
		return
	}

	entries, err := c.LeaderboardService.GetLeaderboard(ctx.Request.Context(), ctx.DefaultQuery("period", "all"), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// LiveLeaderboard godoc
// @Summary 实时排行榜 (WebSocket)
// @Description 连接后立即推送一次总榜前 10，之后每局结束推送更新
// @Tags 游戏
// @Router /api/game/leaderboard/live [get]
func (c *GameController) LiveLeaderboard(ctx *gin.Context) {
	initial, err := c.LeaderboardService.LiveSnapshot(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, initial)
}

// GetStats godoc
// @Summary 个人游戏统计
// @Description 累计成绩、最近 5 局与平均值
// @Tags 游戏
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.GameStats}
// @Failure 401 {object} util.Response
// @Router /api/game/stats [get]
func (c *GameController) GetStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.GameService.GetStats(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parseLimit 未提供时返回 0，由服务层套用默认值
func parseLimit(ctx *gin.Context) (int, bool) {
	raw := ctx.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		util.BadRequest(ctx, "limit must be an integer")
		return 0, false
	}
	return limit, true
}
