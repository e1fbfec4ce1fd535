package api

import (
	"moneybook/database"
	"moneybook/middleware"
	"moneybook/models"
	"moneybook/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GoalHandler 储蓄目标
type GoalHandler struct{}

// NewGoalHandler 创建目标处理器
func NewGoalHandler() *GoalHandler {
	return &GoalHandler{}
}

// GoalRequest 新建或修改目标
type GoalRequest struct {
	Name          string           `json:"name" binding:"required,max=128" example:"旅行基金"`
	TargetAmount  decimal.Decimal  `json:"target_amount" example:"50000.00"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	CategoryID    *uint            `json:"category_id"`
	TargetDate    string           `json:"target_date" example:"2024-12-31"`
	Active        *bool            `json:"active"`
	Notes         string           `json:"notes" binding:"omitempty,max=256"`
}

// ContributeRequest 存入金额
type ContributeRequest struct {
	Amount decimal.Decimal `json:"amount" example:"1000.00"`
}

// GoalView 目标及进度。关联类别时，进度取已存金额与该类别收入总额中较大者
type GoalView struct {
	models.Goal
	Saved     decimal.Decimal `json:"saved"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   float64         `json:"percent"`
}

func goalView(userID uint, g models.Goal) GoalView {
	saved := g.CurrentAmount
	if g.CategoryID != nil {
		var income decimal.NullDecimal
		database.DB.Model(&models.Transaction{}).
			Where("user_id = ? AND category_id = ? AND type = ?", userID, *g.CategoryID, models.TransactionTypeIncome).
			Select("SUM(amount)").Row().Scan(&income)
		if income.Valid && income.Decimal.GreaterThan(saved) {
			saved = income.Decimal
		}
	}

	calc := g
	calc.CurrentAmount = saved
	remaining := g.TargetAmount.Sub(saved)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return GoalView{Goal: g, Saved: saved, Remaining: remaining, Percent: calc.Progress()}
}

func (r *GoalRequest) apply(g *models.Goal) bool {
	target, err := parseOptionalDate(r.TargetDate)
	if err != nil {
		return false
	}
	g.Name = r.Name
	g.TargetAmount = r.TargetAmount
	if r.CurrentAmount != nil {
		g.CurrentAmount = *r.CurrentAmount
	}
	g.CategoryID = r.CategoryID
	g.TargetDate = target
	if r.Active != nil {
		g.Active = *r.Active
	}
	g.Notes = r.Notes
	return true
}

// Create 新建目标
// @Summary 新建储蓄目标
// @Tags 目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GoalRequest true "目标信息"
// @Success 200 {object} Response{data=GoalView} "创建成功"
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if !req.TargetAmount.IsPositive() {
		BadRequest(c, service.ErrInvalidAmount.Error())
		return
	}

	g := models.Goal{UserID: &userID, CurrentAmount: decimal.Zero, Active: true}
	if !req.apply(&g) {
		BadRequest(c, "目标日期格式错误，应为: 2006-01-02")
		return
	}
	if g.CurrentAmount.IsNegative() {
		BadRequest(c, service.ErrInvalidAmount.Error())
		return
	}
	if err := database.DB.Create(&g).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建目标失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", goalView(userID, g))
}

// List 目标列表及进度
// @Summary 储蓄目标列表
// @Tags 目标
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]GoalView} "获取成功"
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var list []models.Goal
	if err := database.DB.Where("user_id = ?", userID).Order("id DESC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	views := make([]GoalView, 0, len(list))
	for _, g := range list {
		views = append(views, goalView(userID, g))
	}
	Success(c, views)
}

// Update 修改目标
// @Summary 修改储蓄目标
// @Tags 目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标ID"
// @Param request body GoalRequest true "目标信息"
// @Success 200 {object} Response{data=GoalView} "更新成功"
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if !req.TargetAmount.IsPositive() {
		BadRequest(c, service.ErrInvalidAmount.Error())
		return
	}

	var g models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&g).Error; err != nil {
		NotFound(c, "目标不存在")
		return
	}
	if !req.apply(&g) {
		BadRequest(c, "目标日期格式错误，应为: 2006-01-02")
		return
	}
	if err := database.DB.Save(&g).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新目标失败"))
		return
	}
	SuccessWithMessage(c, "更新成功", goalView(userID, g))
}

// Delete 删除目标
// @Summary 删除储蓄目标
// @Tags 目标
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := database.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Goal{})
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "删除目标失败"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "目标不存在")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Contribute 向目标存入一笔
// @Summary 目标存入
// @Tags 目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标ID"
// @Param request body ContributeRequest true "金额"
// @Success 200 {object} Response{data=GoalView} "存入成功"
// @Router /api/v1/goals/{id}/contribute [post]
func (h *GoalHandler) Contribute(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Amount.IsPositive() {
		BadRequest(c, service.ErrInvalidAmount.Error())
		return
	}

	result := database.DB.Model(&models.Goal{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("current_amount", gorm.Expr("current_amount + ?", req.Amount))
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "存入失败"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "目标不存在")
		return
	}

	var g models.Goal
	if err := database.DB.First(&g, id).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	SuccessWithMessage(c, "存入成功", goalView(userID, g))
}
