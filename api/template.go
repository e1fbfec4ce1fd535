package api

import (
	"moneybook/database"
	"moneybook/middleware"
	"moneybook/models"
	"moneybook/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TemplateHandler 记账模板
type TemplateHandler struct {
	svc *service.Templates
}

// NewTemplateHandler 创建模板处理器
func NewTemplateHandler(svc *service.Templates) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// CreateTemplateRequest 新建模板
type CreateTemplateRequest struct {
	Name       string          `json:"name" binding:"required,max=128" example:"咖啡"`
	Amount     decimal.Decimal `json:"amount" example:"25.00"`
	Type       string          `json:"type" binding:"required,oneof=income expense" example:"expense"`
	CategoryID *uint           `json:"category_id"`
	AccountID  *uint           `json:"account_id"`
	Note       string          `json:"note" binding:"omitempty,max=256"`
}

// UseTemplateRequest 使用模板，date 为空取当前时间
type UseTemplateRequest struct {
	Date string `json:"date" example:"2024-01-15"`
}

// Create 新建模板
// @Summary 新建模板
// @Tags 模板
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTemplateRequest true "模板信息"
// @Success 200 {object} Response{data=models.TransactionTemplate} "创建成功"
// @Router /api/v1/templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if !req.Amount.IsPositive() {
		BadRequest(c, service.ErrInvalidAmount.Error())
		return
	}
	if req.AccountID != nil {
		var count int64
		database.DB.Model(&models.Account{}).Where("id = ? AND user_id = ?", *req.AccountID, userID).Count(&count)
		if count == 0 {
			BadRequest(c, "账户不存在")
			return
		}
	}

	tpl := models.TransactionTemplate{
		UserID:     &userID,
		Name:       req.Name,
		Amount:     req.Amount,
		Type:       models.TransactionType(req.Type),
		CategoryID: req.CategoryID,
		AccountID:  req.AccountID,
		Note:       req.Note,
	}
	if err := database.DB.Create(&tpl).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建模板失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", tpl)
}

// List 模板列表，常用的排在前面
// @Summary 模板列表
// @Tags 模板
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.TransactionTemplate} "获取成功"
// @Router /api/v1/templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var list []models.TransactionTemplate
	if err := database.DB.Where("user_id = ?", userID).Order("use_count DESC, name").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Delete 删除模板
// @Summary 删除模板
// @Tags 模板
// @Produce json
// @Security BearerAuth
// @Param id path int true "模板ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := database.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.TransactionTemplate{})
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "删除模板失败"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "模板不存在")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Use 按模板记一笔
// @Summary 使用模板记账
// @Tags 模板
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "模板ID"
// @Param request body UseTemplateRequest false "记账日期"
// @Success 200 {object} Response{data=models.Transaction} "记账成功"
// @Router /api/v1/templates/{id}/use [post]
func (h *TemplateHandler) Use(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UseTemplateRequest
	// 请求体可选
	_ = c.ShouldBindJSON(&req)
	at, err := parseDateTime(req.Date)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	t, err := h.svc.Use(c.Request.Context(), userID, id, at)
	if err != nil {
		ServiceError(c, err, "记账失败")
		return
	}
	SuccessWithMessage(c, "记账成功", t)
}
