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

// TransactionHandler 收支流水。所有写操作经过 Ledger，保证账户余额同步
type TransactionHandler struct {
	ledger *service.Ledger
}

// NewTransactionHandler 创建流水处理器
func NewTransactionHandler(ledger *service.Ledger) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// TransactionRequest 新建或修改流水
type TransactionRequest struct {
	Date       string          `json:"date" example:"2024-01-15"` // 2006-01-02 或 2006-01-02 15:04:05，为空取当前时间
	Amount     decimal.Decimal `json:"amount" example:"99.99"`
	Type       string          `json:"type" binding:"required,oneof=income expense" example:"expense"`
	CategoryID *uint           `json:"category_id"`
	AccountID  *uint           `json:"account_id"`
	Note       string          `json:"note" binding:"omitempty,max=256" example:"午餐"`
	TagIDs     []uint          `json:"tag_ids"` // 修改时不传则保留原标签，传 [] 清空
}

// TransactionListRequest 流水列表查询
type TransactionListRequest struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	Type       string `form:"type" binding:"omitempty,oneof=income expense"`
	CategoryID uint   `form:"category_id"`
	AccountID  uint   `form:"account_id"`
	Source     string `form:"source"`
	Keyword    string `form:"keyword"`
	TagID      uint   `form:"tag_id"`
}

// BulkRequest 批量操作
type BulkRequest struct {
	TransactionIDs []uint `json:"transaction_ids" binding:"required,min=1"`
	CategoryID     *uint  `json:"category_id"`
	AccountID      *uint  `json:"account_id"`
}

// TransferRequest 转账请求
type TransferRequest struct {
	FromAccountID uint            `json:"from_account_id" binding:"required"`
	ToAccountID   uint            `json:"to_account_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date" example:"2024-01-15"`
	Note          string          `json:"note" binding:"omitempty,max=200"`
}

func parseDateTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local); err == nil {
		return t, nil
	}
	return parseDate(s)
}

func (r *TransactionRequest) input() (service.TransactionInput, error) {
	date, err := parseDateTime(r.Date)
	if err != nil {
		return service.TransactionInput{}, err
	}
	return service.TransactionInput{
		Date:       date,
		Amount:     r.Amount,
		Type:       models.TransactionType(r.Type),
		CategoryID: r.CategoryID,
		AccountID:  r.AccountID,
		Note:       r.Note,
		TagIDs:     r.TagIDs,
	}, nil
}

// List 流水列表，支持分页和筛选
// @Summary 流水列表
// @Tags 流水
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量"
// @Param type query string false "income / expense"
// @Param category_id query int false "类别ID"
// @Param account_id query int false "账户ID"
// @Param source query string false "来源 manual / transfer / template / debt / recurring"
// @Param keyword query string false "备注关键字"
// @Param tag_id query int false "标签ID"
// @Param start_date query string false "开始日期 (2024-01-01)"
// @Param end_date query string false "结束日期 (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "获取成功"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	page, size := pageParams(req.Page, req.PageSize)

	query := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.CategoryID != 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.AccountID != 0 {
		query = query.Where("account_id = ?", req.AccountID)
	}
	if req.Source != "" {
		query = query.Where("source = ?", req.Source)
	}
	if req.Keyword != "" {
		query = query.Where("note LIKE ?", "%"+req.Keyword+"%")
	}
	if req.TagID != 0 {
		query = query.Where("id IN (?)",
			database.DB.Table("transaction_tags").Select("transaction_id").Where("tag_id = ?", req.TagID))
	}
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date < ?", *end)
	}

	var total int64
	query.Count(&total)

	var list []models.Transaction
	if err := query.Preload("Tags").Order("date DESC, id DESC").Offset((page - 1) * size).Limit(size).Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: size,
		List:     list,
	})
}

// Get 流水详情
// @Summary 流水详情
// @Tags 流水
// @Produce json
// @Security BearerAuth
// @Param id path int true "流水ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var t models.Transaction
	if err := database.DB.Preload("Tags").Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}
	Success(c, t)
}

// Create 新建流水
// @Summary 新建流水
// @Description 关联账户时同步调整账户余额
// @Tags 流水
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "流水信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	in, err := req.input()
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	t, err := h.ledger.Create(c.Request.Context(), userID, in)
	if err != nil {
		ServiceError(c, err, "创建流水失败")
		return
	}
	SuccessWithMessage(c, "创建成功", t)
}

// Update 修改流水
// @Summary 修改流水
// @Description 先撤销原金额对原账户的影响，再计入新账户
// @Tags 流水
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "流水ID"
// @Param request body TransactionRequest true "流水信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	in, err := req.input()
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	t, err := h.ledger.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		ServiceError(c, err, "更新流水失败")
		return
	}
	SuccessWithMessage(c, "更新成功", t)
}

// Delete 删除流水
// @Summary 删除流水
// @Tags 流水
// @Produce json
// @Security BearerAuth
// @Param id path int true "流水ID"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.ledger.Delete(c.Request.Context(), userID, id); err != nil {
		ServiceError(c, err, "删除流水失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// BulkDelete 批量删除
// @Summary 批量删除流水
// @Tags 流水
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkRequest true "流水ID列表"
// @Success 200 {object} Response "删除成功"
// @Router /api/v1/transactions/bulk-delete [post]
func (h *TransactionHandler) BulkDelete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "未选择任何流水")
		return
	}

	n, err := h.ledger.BulkDelete(c.Request.Context(), userID, req.TransactionIDs)
	if err != nil {
		ServiceError(c, err, "批量删除失败")
		return
	}
	Success(c, gin.H{"deleted": n})
}

// BulkEdit 批量修改类别或账户
// @Summary 批量修改流水
// @Tags 流水
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkRequest true "流水ID列表及新的类别/账户"
// @Success 200 {object} Response "更新成功"
// @Router /api/v1/transactions/bulk-edit [post]
func (h *TransactionHandler) BulkEdit(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "未选择任何流水")
		return
	}
	if req.CategoryID == nil && req.AccountID == nil {
		BadRequest(c, "请指定新的类别或账户")
		return
	}

	n, err := h.ledger.BulkEdit(c.Request.Context(), userID, req.TransactionIDs, service.BulkEditInput{
		CategoryID: req.CategoryID,
		AccountID:  req.AccountID,
	})
	if err != nil {
		ServiceError(c, err, "批量修改失败")
		return
	}
	Success(c, gin.H{"updated": n})
}

// Transfer 账户间转账
// @Summary 转账
// @Tags 流水
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransferRequest true "转账信息"
// @Success 200 {object} Response{data=[]models.Transaction} "转账成功"
// @Failure 400 {object} Response "同一账户、余额不足或账户已停用"
// @Router /api/v1/transfers [post]
func (h *TransactionHandler) Transfer(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	date, err := parseDateTime(req.Date)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2006-01-02")
		return
	}

	out, err := h.ledger.Transfer(c.Request.Context(), userID, service.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Date:          date,
		Note:          req.Note,
	})
	if err != nil {
		ServiceError(c, err, "转账失败")
		return
	}
	SuccessWithMessage(c, "转账成功", out)
}
