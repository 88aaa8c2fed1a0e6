package controller

import (
	"football_iq_backend/internal/service"
	"football_iq_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SQLController struct {
	SQLService         *service.SQLService
	LeaderboardService *service.LeaderboardService
}

func NewSQLController(sqlService *service.SQLService, leaderboardService *service.LeaderboardService) *SQLController {
	return &SQLController{
		SQLService:         sqlService,
		LeaderboardService: leaderboardService,
	}
}

// QueryRequest SQL 查询
// swagger:model QueryRequest
type QueryRequest struct {
	Query string `json:"query" binding:"required,max=5000"`
}

// GetSchema godoc
// @Summary 数据集结构
// @Tags SQL
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.TableInfo}
// @Router /api/sql/schema [get]
func (c *SQLController) GetSchema(ctx *gin.Context) {
	tables, err := c.SQLService.GetSchema(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"tables": tables})
}

// Execute godoc
// @Summary 执行只读 SQL
// @Description 只允许查询 teams、players、matches，最多返回 100 行
// @Tags SQL
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body QueryRequest true "SQL"
// @Success 200 {object} util.Response{data=model.QueryResult}
// @Failure 400 {object} util.Response "被安全策略拒绝或执行出错"
// @Router /api/sql/execute [post]
func (c *SQLController) Execute(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.HandleError(ctx, util.BindingError(err))
		return
	}

	result, err := c.SQLService.Execute(ctx.Request.Context(), claims.UserID, req.Query)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ListChallenges godoc
// @Summary SQL 挑战列表
// @Tags SQL
// @Produce  json
// @Param   difficulty query string false "easy | medium | hard | expert"
// @Success 200 {object} util.Response{data=[]service.PublicChallenge}
// @Failure 400 {object} util.Response
// @Router /api/sql/challenges [get]
func (c *SQLController) ListChallenges(ctx *gin.Context) {
	var userID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	list, err := c.SQLService.ListChallenges(ctx.Request.Context(), ctx.Query("difficulty"), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// GetChallenge godoc
// @Summary SQL 挑战详情
// @Tags SQL
// @Produce  json
// @Param   id path int true "挑战ID"
// @Success 200 {object} util.Response{data=service.PublicChallenge}
// @Failure 404 {object} util.Response
// @Router /api/sql/challenges/{id} [get]
func (c *SQLController) GetChallenge(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, util.ErrChallengeNotFound)
		return
	}

	challenge, err := c.SQLService.GetChallenge(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, challenge)
}

// SubmitChallenge godoc
// @Summary 提交 SQL 挑战答案
// @Description SQL 执行出错时同样返回 200，isCorrect 为 false，错误信息放在 feedback
// @Tags SQL
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "挑战ID"
// @Param   body body QueryRequest true "SQL"
// @Success 200 {object} util.Response{data=service.SubmitChallengeResult}
// @Failure 400 {object} util.Response "被安全策略拒绝"
// @Failure 404 {object} util.Response
// @Router /api/sql/challenges/{id}/submit [post]
func (c *SQLController) SubmitChallenge(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, util.ErrChallengeNotFound)
		return
	}

	var req QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.HandleError(ctx, util.BindingError(err))
		return
	}

	result, err := c.SQLService.SubmitChallenge(ctx.Request.Context(), claims.UserID, id, req.Query)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetLeaderboard godoc
// @Summary SQL 挑战排行榜
// @Tags SQL
// @Produce  json
// @Param   limit query int false "1-100" default(10)
// @Success 200 {object} util.Response{data=[]model.SQLLeaderboardEntry}
// @Router /api/sql/leaderboard [get]
func (c *SQLController) GetLeaderboard(ctx *gin.Context) {
	limit, ok := parseLimit(ctx)
	if !ok {
		return
	}

	entries, err := c.LeaderboardService.GetSQLLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
