package api

import (
	"strings"

	"moneybook/config"
	"moneybook/database"
	"moneybook/middleware"
	"moneybook/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountHandler 资金账户
type AccountHandler struct{}

// NewAccountHandler 创建账户处理器
func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

// CreateAccountRequest 创建账户请求
type CreateAccountRequest struct {
	Name     string          `json:"name" binding:"required,max=64" example:"工资卡"`
	Balance  decimal.Decimal `json:"balance" example:"1000.00"` // 初始余额
	Currency string          `json:"currency" binding:"omitempty,len=3" example:"RUB"`
	Notes    string          `json:"notes" binding:"omitempty,max=256"`
}

// UpdateAccountRequest 更新账户请求。余额只能通过流水变更
type UpdateAccountRequest struct {
	Name     string  `json:"name" binding:"omitempty,max=64"`
	Currency string  `json:"currency" binding:"omitempty,len=3"`
	Notes    *string `json:"notes" binding:"omitempty,max=256"`
}

// Create 创建账户
// @Summary 创建账户
// @Tags 账户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAccountRequest true "账户信息"
// @Success 200 {object} Response{data=models.Account} "创建成功"
// @Router /api/v1/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "RUB"
		if config.GlobalConfig != nil {
			currency = config.GlobalConfig.App.DefaultCurrency
		}
	}

	acc := models.Account{
		UserID:   &userID,
		Name:     req.Name,
		Balance:  req.Balance,
		Currency: currency,
		IsActive: true,
		Notes:    req.Notes,
	}
	if err := database.DB.Create(&acc).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建账户失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", acc)
}

// List 账户列表，默认只返回启用的账户
// @Summary 账户列表
// @Tags 账户
// @Produce json
// @Security BearerAuth
// @Param include_inactive query bool false "是否包含已停用账户"
// @Success 200 {object} Response{data=[]models.Account} "获取成功"
// @Router /api/v1/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}
	var list []models.Account
	if err := query.Order("name ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Get 账户详情
// @Summary 账户详情
// @Tags 账户
// @Produce json
// @Security BearerAuth
// @Param id path int true "账户ID"
// @Success 200 {object} Response{data=models.Account} "获取成功"
// @Failure 404 {object} Response "账户不存在"
// @Router /api/v1/accounts/{id} [get]
func (h *AccountHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var acc models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&acc).Error; err != nil {
		NotFound(c, "账户不存在")
		return
	}
	Success(c, acc)
}

// Update 更新账户名称、币种、备注
// @Summary 更新账户
// @Tags 账户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "账户ID"
// @Param request body UpdateAccountRequest true "账户信息"
// @Success 200 {object} Response{data=models.Account} "更新成功"
// @Router /api/v1/accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var acc models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&acc).Error; err != nil {
		NotFound(c, "账户不存在")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := make(map[string]interface{})
	if name := strings.TrimSpace(req.Name); name != "" {
		updates["name"] = name
	}
	if req.Currency != "" {
		updates["currency"] = strings.ToUpper(req.Currency)
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&acc).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	database.DB.First(&acc, acc.ID)
	SuccessWithMessage(c, "更新成功", acc)
}

// Deactivate 停用账户。账户被流水引用，不做物理删除
// @Summary 停用账户
// @Tags 账户
// @Produce json
// @Security BearerAuth
// @Param id path int true "账户ID"
// @Success 200 {object} Response "停用成功"
// @Router /api/v1/accounts/{id} [delete]
func (h *AccountHandler) Deactivate(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := database.DB.Model(&models.Account{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", false)
	if res.Error != nil {
		InternalError(c, SafeErrorMessage(res.Error, "停用失败"))
		return
	}
	if res.RowsAffected == 0 {
		NotFound(c, "账户不存在")
		return
	}
	SuccessWithMessage(c, "停用成功", nil)
}
