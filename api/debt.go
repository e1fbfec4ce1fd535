package api

import (
	"moneybook/database"
	"moneybook/middleware"
	"moneybook/models"
	"moneybook/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DebtHandler 债务、贷款和信用卡
type DebtHandler struct {
	svc *service.Debts
}

// NewDebtHandler 创建债务处理器
func NewDebtHandler(svc *service.Debts) *DebtHandler {
	return &DebtHandler{svc: svc}
}

// CreateDebtRequest 新建债务
type CreateDebtRequest struct {
	Name           string           `json:"name" binding:"required,max=128" example:"房贷"`
	DebtType       string           `json:"debt_type" binding:"omitempty,oneof=debt credit credit_card" example:"credit"`
	Amount         decimal.Decimal  `json:"amount" example:"100000.00"`
	CurrentBalance *decimal.Decimal `json:"current_balance"`
	CreditLimit    *decimal.Decimal `json:"credit_limit"`
	IsOwedToMe     bool             `json:"is_owed_to_me"`
	InterestRate   *decimal.Decimal `json:"interest_rate"`
	PaymentDate    string           `json:"payment_date" example:"2024-02-15"`
	PaymentAmount  *decimal.Decimal `json:"payment_amount"`
	MinPayment     *decimal.Decimal `json:"min_payment"`
	DueDate        string           `json:"due_date"`
	AccountID      *uint            `json:"account_id"`
	Notes          string           `json:"notes" binding:"omitempty,max=512"`
}

// UpdateDebtRequest 修改债务，整体替换可编辑字段
type UpdateDebtRequest struct {
	CreateDebtRequest
	PaidAmount *decimal.Decimal `json:"paid_amount"` // 信用卡忽略
	IsActive   *bool            `json:"is_active"`
}

// PaymentRequest 还款请求
type PaymentRequest struct {
	Amount            decimal.Decimal `json:"amount" example:"1000.00"`
	Date              string          `json:"date" example:"2024-02-15"`
	CreateTransaction bool            `json:"create_transaction"` // 同时记一笔还款支出
}

// DebtView 列表展示，附带剩余金额和可用额度
type DebtView struct {
	models.Debt
	Remaining       decimal.Decimal `json:"remaining"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
}

func newDebtView(d models.Debt) DebtView {
	return DebtView{Debt: d, Remaining: d.Remaining(), AvailableCredit: d.AvailableCredit()}
}

// Create 新建债务
// @Summary 新建债务
// @Tags 债务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDebtRequest true "债务信息"
// @Success 200 {object} Response{data=DebtView} "创建成功"
// @Router /api/v1/debts [post]
func (h *DebtHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	debtType := models.DebtType(req.DebtType)
	if debtType == "" {
		debtType = models.DebtTypeDebt
	}
	if debtType != models.DebtTypeCreditCard && !req.Amount.IsPositive() {
		BadRequest(c, service.ErrInvalidAmount.Error())
		return
	}
	paymentDate, err := parseOptionalDate(req.PaymentDate)
	if err != nil {
		BadRequest(c, "还款日期格式错误，应为: 2006-01-02")
		return
	}
	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		BadRequest(c, "到期日期格式错误，应为: 2006-01-02")
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

	d := models.Debt{
		UserID:         &userID,
		Name:           req.Name,
		DebtType:       debtType,
		Amount:         req.Amount,
		CurrentBalance: req.CurrentBalance,
		CreditLimit:    req.CreditLimit,
		IsOwedToMe:     req.IsOwedToMe,
		InterestRate:   req.InterestRate,
		PaymentDate:    paymentDate,
		PaymentAmount:  req.PaymentAmount,
		MinPayment:     req.MinPayment,
		DueDate:        dueDate,
		AccountID:      req.AccountID,
		Notes:          req.Notes,
		IsActive:       true,
	}
	if err := database.DB.Create(&d).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建债务失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", newDebtView(d))
}

// Update 修改债务
// @Summary 修改债务
// @Description 信用卡的总额取额度，已还金额清零，当前欠款取请求值
// @Tags 债务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "债务ID"
// @Param request body UpdateDebtRequest true "债务信息"
// @Success 200 {object} Response{data=DebtView} "更新成功"
// @Failure 404 {object} Response "债务不存在"
// @Router /api/v1/debts/{id} [put]
func (h *DebtHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var d models.Debt
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&d).Error; err != nil {
		NotFound(c, "债务不存在")
		return
	}

	var req UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	debtType := models.DebtType(req.DebtType)
	if debtType == "" {
		debtType = d.DebtType
	}
	paymentDate, err := parseOptionalDate(req.PaymentDate)
	if err != nil {
		BadRequest(c, "还款日期格式错误，应为: 2006-01-02")
		return
	}
	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		BadRequest(c, "到期日期格式错误，应为: 2006-01-02")
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

	d.Name = req.Name
	d.DebtType = debtType
	d.IsOwedToMe = req.IsOwedToMe
	d.InterestRate = req.InterestRate
	d.PaymentDate = paymentDate
	d.PaymentAmount = req.PaymentAmount
	d.MinPayment = req.MinPayment
	d.AccountID = req.AccountID
	d.Notes = req.Notes
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}

	if debtType == models.DebtTypeCreditCard {
		limit := req.Amount
		if req.CreditLimit != nil && req.CreditLimit.IsPositive() {
			limit = *req.CreditLimit
		}
		if !limit.IsPositive() {
			BadRequest(c, "请填写信用卡额度")
			return
		}
		balance := decimal.Zero
		if req.CurrentBalance != nil {
			balance = *req.CurrentBalance
		}
		d.Amount = limit
		d.PaidAmount = decimal.Zero
		d.CurrentBalance = &balance
		d.CreditLimit = &limit
		d.DueDate = nil // 信用卡没有到期日
	} else {
		if !req.Amount.IsPositive() {
			BadRequest(c, service.ErrInvalidAmount.Error())
			return
		}
		d.Amount = req.Amount
		d.PaidAmount = decimal.Zero
		if req.PaidAmount != nil {
			d.PaidAmount = *req.PaidAmount
		}
		d.CurrentBalance = nil
		d.CreditLimit = nil
		if debtType == models.DebtTypeCredit {
			d.CreditLimit = req.CreditLimit
		}
		d.DueDate = dueDate
	}

	if err := database.DB.Save(&d).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新债务失败"))
		return
	}
	SuccessWithMessage(c, "更新成功", newDebtView(d))
}

// List 债务列表
// @Summary 债务列表
// @Tags 债务
// @Produce json
// @Security BearerAuth
// @Param include_inactive query bool false "包含已结清"
// @Success 200 {object} Response{data=[]DebtView} "获取成功"
// @Router /api/v1/debts [get]
func (h *DebtHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}
	var list []models.Debt
	if err := query.Order("payment_date, id").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	views := make([]DebtView, 0, len(list))
	for _, d := range list {
		views = append(views, newDebtView(d))
	}
	Success(c, views)
}

// Get 债务详情
// @Summary 债务详情
// @Tags 债务
// @Produce json
// @Security BearerAuth
// @Param id path int true "债务ID"
// @Success 200 {object} Response{data=DebtView} "获取成功"
// @Router /api/v1/debts/{id} [get]
func (h *DebtHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var d models.Debt
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&d).Error; err != nil {
		NotFound(c, "债务不存在")
		return
	}
	Success(c, newDebtView(d))
}

// Delete 删除债务，已记的还款流水保留
// @Summary 删除债务
// @Tags 债务
// @Produce json
// @Security BearerAuth
// @Param id path int true "债务ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/debts/{id} [delete]
func (h *DebtHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	result := database.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Debt{})
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "删除债务失败"))
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "债务不存在")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Pay 登记还款
// @Summary 还款
// @Description create_transaction 为 true 且债务关联账户时，同时记一笔 "Debt repayment" 支出
// @Tags 债务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "债务ID"
// @Param request body PaymentRequest true "还款信息"
// @Success 200 {object} Response{data=service.PaymentResult} "还款成功"
// @Router /api/v1/debts/{id}/payments [post]
func (h *DebtHandler) Pay(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	date, err := parseDateTime(req.Date)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	res, err := h.svc.MakePayment(c.Request.Context(), userID, id, service.PaymentInput{
		Amount:            req.Amount,
		Date:              date,
		CreateTransaction: req.CreateTransaction,
	})
	if err != nil {
		ServiceError(c, err, "还款失败")
		return
	}
	SuccessWithMessage(c, "还款成功", res)
}
