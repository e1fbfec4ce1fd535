package api

import (
	"strconv"
	"time"

	"moneybook/database"
	"moneybook/middleware"
	"moneybook/models"
	"moneybook/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler 报表与导出
type ReportHandler struct{}

// NewReportHandler 创建报表处理器
func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

// period 解析报表区间，未指定时取当月。返回 [start, end)
func period(c *gin.Context) (time.Time, time.Time, bool) {
	start, end, ok := dateRange(c)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	now := time.Now()
	monthStart, nextMonth := service.MonthRange(now.Year(), now.Month(), time.Local)
	if start == nil {
		start = &monthStart
	}
	if end == nil {
		end = &nextMonth
	}
	if !end.After(*start) {
		BadRequest(c, service.ErrInvalidDateRange.Error())
		return time.Time{}, time.Time{}, false
	}
	return *start, *end, true
}

func periodTransactions(userID uint, start, end time.Time) ([]models.Transaction, error) {
	var list []models.Transaction
	err := database.DB.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date DESC, id DESC").
		Find(&list).Error
	return list, err
}

// categoryNames 当前用户可见的类别名称，含已删除的
func categoryNames(userID uint) map[uint]string {
	var cats []models.Category
	database.DB.Unscoped().Where("user_id IS NULL OR user_id = ?", userID).Find(&cats)
	names := make(map[uint]string, len(cats))
	for _, cat := range cats {
		names[cat.ID] = cat.Name
	}
	return names
}

// ByCategory 按类别统计
// @Summary 类别统计
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "开始日期，默认当月第一天"
// @Param end_date query string false "结束日期，默认当月最后一天"
// @Success 200 {object} Response{data=[]service.CategoryTotal} "获取成功"
// @Router /api/v1/reports/categories [get]
func (h *ReportHandler) ByCategory(c *gin.Context) {
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
	Success(c, service.ByCategory(list, categoryNames(userID)))
}

// Trend 最近几个月的收支趋势
// @Summary 月度趋势
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param months query int false "月数，默认 6，最大 24"
// @Success 200 {object} Response{data=[]service.MonthTotal} "获取成功"
// @Router /api/v1/reports/trend [get]
func (h *ReportHandler) Trend(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	months := 6
	if s := c.Query("months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			BadRequest(c, "无效的月数")
			return
		}
		months = n
	}
	if months > 24 {
		months = 24
	}

	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, -(months - 1), 0)
	list, err := periodTransactions(userID, first, now.AddDate(0, 1, 0))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, service.MonthlyTrend(list, now, months))
}
