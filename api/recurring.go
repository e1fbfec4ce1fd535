package api

import (
	"moneybook/middleware"
	"moneybook/models"
	"moneybook/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RecurringHandler 周期记账规则
type RecurringHandler struct {
	svc *service.Recurrings
	gen *service.Generator
}

// NewRecurringHandler 创建周期规则处理器
func NewRecurringHandler(svc *service.Recurrings, gen *service.Generator) *RecurringHandler {
	return &RecurringHandler{svc: svc, gen: gen}
}

// CreateRecurringRequest 新建周期规则
type CreateRecurringRequest struct {
	StartDate  string          `json:"start_date" binding:"required" example:"2024-01-31"`
	EndDate    string          `json:"end_date" example:"2024-12-31"`
	Frequency  string          `json:"frequency" binding:"required" example:"monthly"`
	Amount     decimal.Decimal `json:"amount" example:"500.00"`
	Type       string          `json:"type" binding:"required" example:"expense"`
	CategoryID *uint           `json:"category_id"`
	AccountID  *uint           `json:"account_id"`
	Note       string          `json:"note" binding:"omitempty,max=200" example:"房租"`
}

// SetActiveRequest 暂停或恢复
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// Create 新建周期规则
// @Summary 新建周期规则
// @Description frequency 取值 daily / weekly / monthly
// @Tags 周期记账
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRecurringRequest true "规则信息"
// @Success 200 {object} Response{data=models.Recurring} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/recurrings [post]
func (h *RecurringHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	start, err := parseOptionalDate(req.StartDate)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return
	}

	r, err := h.svc.Create(c.Request.Context(), userID, service.RecurringInput{
		StartDate:  start,
		EndDate:    end,
		Frequency:  models.Frequency(req.Frequency),
		Amount:     req.Amount,
		Type:       models.TransactionType(req.Type),
		CategoryID: req.CategoryID,
		AccountID:  req.AccountID,
		Note:       req.Note,
	})
	if err != nil {
		ServiceError(c, err, "创建周期规则失败")
		return
	}
	SuccessWithMessage(c, "创建成功", r)
}

// List 周期规则列表
// @Summary 周期规则列表
// @Tags 周期记账
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Recurring} "获取成功"
// @Router /api/v1/recurrings [get]
func (h *RecurringHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}
	Success(c, list)
}

// Get 周期规则详情
// @Summary 周期规则详情
// @Tags 周期记账
// @Produce json
// @Security BearerAuth
// @Param id path int true "规则ID"
// @Success 200 {object} Response{data=models.Recurring} "获取成功"
// @Router /api/v1/recurrings/{id} [get]
func (h *RecurringHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.svc.Get(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}
	Success(c, r)
}

// SetActive 暂停或恢复规则
// @Summary 暂停/恢复周期规则
// @Description 已到结束日期的规则不能恢复
// @Tags 周期记账
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "规则ID"
// @Param request body SetActiveRequest true "是否启用"
// @Success 200 {object} Response{data=models.Recurring} "更新成功"
// @Router /api/v1/recurrings/{id}/active [put]
func (h *RecurringHandler) SetActive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误")
		return
	}

	r, err := h.svc.SetActive(c.Request.Context(), middleware.GetCurrentUserID(c), id, *req.Active)
	if err != nil {
		ServiceError(c, err, "更新周期规则失败")
		return
	}
	SuccessWithMessage(c, "更新成功", r)
}

// Delete 删除规则，已生成的流水保留
// @Summary 删除周期规则
// @Tags 周期记账
// @Produce json
// @Security BearerAuth
// @Param id path int true "规则ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/recurrings/{id} [delete]
func (h *RecurringHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		ServiceError(c, err, "删除周期规则失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Run 立即为当前用户补齐到期的周期流水
// @Summary 手动生成周期流水
// @Tags 周期记账
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.RunResult} "生成结果"
// @Failure 409 {object} Response "并发冲突，重试次数已用完"
// @Router /api/v1/recurrings/run [post]
func (h *RecurringHandler) Run(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	res := h.gen.Run(c.Request.Context(), service.RunOptions{UserID: &userID})
	if res.Err != nil {
		ServiceError(c, res.Err, "生成周期流水失败")
		return
	}
	Success(c, res)
}
