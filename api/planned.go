package api

import (
	"moneybook/database"
	"moneybook/middleware"
	"moneybook/models"
	"moneybook/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PlannedHandler 计划支出
type PlannedHandler struct{}

// NewPlannedHandler 创建计划支出处理器
func NewPlannedHandler() *PlannedHandler {
	return &PlannedHandler{}
}

// CreatePlannedRequest 新建计划支出
type CreatePlannedRequest struct {
	Name        string          `json:"name" binding:"required,max=128" example:"买电脑"`
	Amount      decimal.Decimal `json:"amount" example:"8000.00"`
	PlannedDate string          `json:"planned_date" binding:"required" example:"2024-06-01"`
	CategoryID  *uint           `json:"category_id"`
	AccountID   *uint           `json:"account_id"`
	Note        string          `json:"note" binding:"omitempty,max=256"`
}

// Create 新建计划支出
// @Summary 新建计划支出
// @Tags 计划支出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePlannedRequest true "计划信息"
// @Success 200 {object} Response{data=models.PlannedExpense} "创建成功"
// @Router /api/v1/planned [post]
func (h *PlannedHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreatePlannedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if !req.Amount.IsPositive() {
		BadRequest(c, service.ErrInvalidAmount.Error())
		return
	}
	date, err := parseDate(req.PlannedDate)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	p := models.PlannedExpense{
		UserID:      &userID,
		Name:        req.Name,
		Amount:      req.Amount,
		PlannedDate: date,
		CategoryID:  req.CategoryID,
		AccountID:   req.AccountID,
		Note:        req.Note,
	}
	if err := database.DB.Create(&p).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建计划支出失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", p)
}

// List 未完成的按日期正序，已完成的取最近 10 条
// @Summary 计划支出列表
// @Tags 计划支出
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Router /api/v1/planned [get]
func (h *PlannedHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var pending, completed []models.PlannedExpense
	if err := database.DB.Where("user_id = ? AND is_completed = ?", userID, false).
		Order("planned_date").Find(&pending).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if err := database.DB.Where("user_id = ? AND is_completed = ?", userID, true).
		Order("planned_date DESC").Limit(10).Find(&completed).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, gin.H{
		"pending":   pending,
		"completed": completed,
	})
}

// Complete 标记为已完成
// @Summary 完成计划支出
// @Tags 计划支出
// @Produce json
// @Security BearerAuth
// @Param id path int true "计划ID"
// @Success 200 {object} Response "操作成功"
// @Router /api/v1/planned/{id}/complete [post]
func (h *PlannedHandler) Complete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := database.DB.Model(&models.PlannedExpense{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_completed", true)
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "操作失败"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "计划支出不存在")
		return
	}
	SuccessWithMessage(c, "操作成功", nil)
}

// Delete 删除计划支出
// @Summary 删除计划支出
// @Tags 计划支出
// @Produce json
// @Security BearerAuth
// @Param id path int true "计划ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/planned/{id} [delete]
func (h *PlannedHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := database.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.PlannedExpense{})
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "删除失败"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "计划支出不存在")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
