package api

import (
	"errors"
	"strings"

	"moneybook/database"
	"moneybook/middleware"
	"moneybook/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TagHandler 流水标签。共享标签只读，删除标签同时解除与流水的关联
type TagHandler struct{}

func NewTagHandler() *TagHandler {
	return &TagHandler{}
}

type TagCreateRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=64"`
	Color string `json:"color" binding:"omitempty,max=7"` // 默认 #8b5cf6
}

// List 共享标签与当前用户的标签，按名称排序
// @Summary 标签列表
// @Tags 标签
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Tag} "获取成功"
// @Router /api/v1/tags [get]
func (h *TagHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var list []models.Tag
	if err := database.DB.Where("user_id IS NULL OR user_id = ?", userID).
		Order("name").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Create 创建个人标签
// @Summary 创建标签
// @Tags 标签
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TagCreateRequest true "标签信息"
// @Success 200 {object} Response{data=models.Tag} "创建成功"
// @Failure 400 {object} Response "参数错误或标签已存在"
// @Router /api/v1/tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TagCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	var existing models.Tag
	if err := database.DB.Where("name = ? AND (user_id IS NULL OR user_id = ?)", req.Name, userID).
		First(&existing).Error; err == nil {
		BadRequest(c, "标签已存在")
		return
	}

	tag := models.Tag{UserID: &userID, Name: req.Name, Color: req.Color}
	if tag.Color == "" {
		tag.Color = models.DefaultTagColor
	}
	if err := database.DB.Create(&tag).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", tag)
}

// Delete 删除个人标签
// @Summary 删除标签
// @Tags 标签
// @Produce json
// @Security BearerAuth
// @Param id path int true "标签ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "标签不存在"
// @Router /api/v1/tags/{id} [delete]
func (h *TagHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Tag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Exec("DELETE FROM transaction_tags WHERE tag_id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "标签不存在")
		return
	}
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
