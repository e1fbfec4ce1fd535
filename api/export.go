package api

import (
	"bytes"
	"fmt"
	"net/http"

	"moneybook/database"
	"moneybook/middleware"
	"moneybook/models"
	"moneybook/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export 导出期间报表为 Excel
// @Summary 导出报表
// @Description 根据时间范围导出流水明细和汇总，格式为 xlsx
// @Tags 报表
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string false "开始日期 (2024-01-01)，默认当月第一天"
// @Param end_date query string false "结束日期 (2024-12-31)，默认当月最后一天"
// @Success 200 {file} file "xlsx 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	start, end, ok := period(c)
	if !ok {
		return
	}

	list, err := periodTransactions(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	var accounts []models.Account
	database.DB.Where("user_id = ?", userID).Find(&accounts)
	accountNames := make(map[uint]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}

	buf := new(bytes.Buffer)
	if err := service.WriteReportWorkbook(buf, &service.Report{
		Start:        start,
		End:          lastDay(end),
		Transactions: list,
		Categories:   categoryNames(userID),
		Accounts:     accountNames,
	}); err != nil {
		middleware.GetLogger(c).WithError(err).Error("生成报表失败")
		InternalError(c, "生成 Excel 失败")
		return
	}

	filename := fmt.Sprintf("report_%s_%s.xlsx", start.Format(dateLayout), lastDay(end).Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
