package api

import (
	"moneybook/database"
	"moneybook/middleware"
	"moneybook/models"
	"moneybook/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SummaryResponse 期间汇总
type SummaryResponse struct {
	Start        string           `json:"start" example:"2024-01-01"`
	End          string           `json:"end" example:"2024-01-31"`
	Summary      service.Summary  `json:"summary"`
	Accounts     []models.Account `json:"accounts"`
	TotalBalance decimal.Decimal  `json:"total_balance"` // 启用账户余额合计
}

// Summary 期间收入、支出、结余及账户余额
// @Summary 收支汇总
// @Description 不传日期则统计当月
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "开始日期 (YYYY-MM-DD)"
// @Param end_date query string false "结束日期 (YYYY-MM-DD)"
// @Success 200 {object} Response{data=SummaryResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	start, end, ok := period(c)
	if !ok {
		return
	}

	list, err := periodTransactions(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	var accounts []models.Account
	if err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).Order("id").Find(&accounts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}

	Success(c, SummaryResponse{
		Start:        start.Format(dateLayout),
		End:          lastDay(end).Format(dateLayout),
		Summary:      service.Summarize(list),
		Accounts:     accounts,
		TotalBalance: total,
	})
}
