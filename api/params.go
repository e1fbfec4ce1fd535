package api

import (
	"strconv"
	"time"

	"moneybook/config"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// pathID 解析路径中的 :id
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// parseDate 解析 2006-01-02 格式的本地日期
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.Local)
}

// parseOptionalDate 空字符串返回 nil
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dateRange 解析 start_date / end_date 查询参数。
// 返回的 end 为 end_date 次日零点，查询用 date < end，end_date 当天整天都包含在内
func dateRange(c *gin.Context) (start, end *time.Time, ok bool) {
	var err error
	if start, err = parseOptionalDate(c.Query("start_date")); err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return nil, nil, false
	}
	if end, err = parseOptionalDate(c.Query("end_date")); err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return nil, nil, false
	}
	if end != nil {
		e := end.AddDate(0, 0, 1)
		end = &e
	}
	return start, end, true
}

// lastDay 半开区间 end 对应的最后一个自然日，用于展示
func lastDay(end time.Time) time.Time {
	return end.AddDate(0, 0, -1)
}

// pageParams 分页参数，page_size 默认取配置，最大 100
func pageParams(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
		if config.GlobalConfig != nil {
			size = config.GlobalConfig.App.PageSize
		}
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
