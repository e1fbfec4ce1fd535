package middleware

import (
	"context"

	"moneybook/service"

	"github.com/gin-gonic/gin"
)

// OccurrenceRunner 周期流水生成器
type OccurrenceRunner interface {
	Run(ctx context.Context, opts service.RunOptions) service.RunResult
}

// RecurringCatchUp 在处理已认证请求前补齐当前用户到期的周期流水。
// 生成失败只记录日志，不影响请求本身
func RecurringCatchUp(gen OccurrenceRunner) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetCurrentUserID(c)
		if userID == 0 {
			c.Next()
			return
		}

		res := gen.Run(c.Request.Context(), service.RunOptions{UserID: &userID})
		if res.Err != nil {
			GetLogger(c).WithError(res.Err).WithField("attempts", res.Attempts).Warn("补生成周期流水失败")
		} else if res.Created > 0 {
			GetLogger(c).WithField("created", res.Created).Debug("已补生成周期流水")
		}
		c.Next()
	}
}
