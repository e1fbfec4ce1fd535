package api

import (
	"time"

	"moneybook/database"
	"moneybook/middleware"
	"moneybook/models"
	"moneybook/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BudgetHandler 类别预算
type BudgetHandler struct{}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// CreateBudgetRequest 新建预算，未填周期时默认为当月
type CreateBudgetRequest struct {
	CategoryID  uint            `json:"category_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" example:"3000.00"`
	PeriodStart string          `json:"period_start" example:"2024-01-01"`
	PeriodEnd   string          `json:"period_end" example:"2024-01-31"`
}

// Create 新建预算
// @Summary 新建预算
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "预算信息"
// @Success 200 {object} Response{data=service.BudgetProgress} "创建成功"
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if !req.Amount.IsPositive() {
		BadRequest(c, service.ErrInvalidAmount.Error())
		return
	}

	now := time.Now()
	monthStart, nextMonth := service.MonthRange(now.Year(), now.Month(), time.Local)
	start, end := monthStart, nextMonth.AddDate(0, 0, -1)
	if req.PeriodStart != "" {
		t, err := parseDate(req.PeriodStart)
		if err != nil {
			BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
			return
		}
		start = t
	}
	if req.PeriodEnd != "" {
		t, err := parseDate(req.PeriodEnd)
		if err != nil {
			BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
			return
		}
		end = t
	}
	if end.Before(start) {
		BadRequest(c, service.ErrInvalidDateRange.Error())
		return
	}

	var count int64
	database.DB.Model(&models.Category{}).
		Where("id = ? AND (user_id IS NULL OR user_id = ?)", req.CategoryID, userID).
		Count(&count)
	if count == 0 {
		BadRequest(c, "类别不存在")
		return
	}

	b := models.Budget{
		UserID:      &userID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		PeriodStart: start,
		PeriodEnd:   end,
		IsActive:    true,
	}
	if err := database.DB.Create(&b).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建预算失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", service.ComputeBudgetProgress(b, nil))
}

// List 生效中的预算及执行情况
// @Summary 预算列表
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]service.BudgetProgress} "获取成功"
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var budgets []models.Budget
	if err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).Order("id DESC").Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	out := make([]service.BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		var list []models.Transaction
		database.DB.Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date < ?",
			userID, b.CategoryID, models.TransactionTypeExpense,
			b.PeriodStart, models.StartOfDay(b.PeriodEnd).AddDate(0, 0, 1)).
			Find(&list)
		out = append(out, service.ComputeBudgetProgress(b, list))
	}
	Success(c, out)
}

// Delete 停用预算
// @Summary 删除预算
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := database.DB.Model(&models.Budget{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", false)
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "删除预算失败"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "预算不存在")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
