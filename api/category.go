package api

import (
	"strings"

	"moneybook/database"
	"moneybook/middleware"
	"moneybook/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 收支类别。共享类别所有人可见但只读，用户只能维护自己的类别
type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

type CategoryCreateRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=64"`
	Sort  int    `json:"sort"`
	Color string `json:"color" binding:"omitempty,max=7"` // 颜色代码，如 #ef4444
	Icon  string `json:"icon" binding:"omitempty,max=32"`
}

type CategoryUpdateRequest struct {
	Name  string  `json:"name" binding:"omitempty,min=1,max=64"`
	Sort  *int    `json:"sort"`
	Color *string `json:"color" binding:"omitempty,max=7"`
	Icon  *string `json:"icon" binding:"omitempty,max=32"`
}

// List 共享类别与当前用户的类别（不包含软删除）
// @Summary 类别列表
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var list []models.Category
	if err := database.DB.Where("user_id IS NULL OR user_id = ?", userID).
		Order("sort ASC, id ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, list)
}

// Create 创建个人类别
// @Summary 创建类别
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryCreateRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "参数错误或类别名称已存在"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	// 同一用户可见范围内名称唯一
	var existing models.Category
	if err := database.DB.Where("name = ? AND (user_id IS NULL OR user_id = ?)", req.Name, userID).
		First(&existing).Error; err == nil {
		BadRequest(c, "类别名称已存在")
		return
	}

	color := req.Color
	if color == "" {
		color = "#64748b" // 默认灰色
	}
	cat := models.Category{UserID: &userID, Name: req.Name, Sort: req.Sort, Color: color, Icon: req.Icon}
	if err := database.DB.Create(&cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", cat)
}

// Update 更新个人类别
// @Summary 更新类别
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Param request body CategoryUpdateRequest true "更新的类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var cat models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error; err != nil {
		NotFound(c, "类别不存在")
		return
	}

	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			BadRequest(c, "名称不能为空")
			return
		}
		if name != cat.Name {
			var dup models.Category
			if err := database.DB.Where("name = ? AND (user_id IS NULL OR user_id = ?) AND id <> ?", name, userID, cat.ID).
				First(&dup).Error; err == nil {
				BadRequest(c, "类别名称已存在")
				return
			}
		}
		updates["name"] = name
	}
	if req.Sort != nil {
		updates["sort"] = *req.Sort
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&cat).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "更新失败"))
			return
		}
	}

	database.DB.First(&cat, cat.ID)
	SuccessWithMessage(c, "更新成功", cat)
}

// Delete 删除个人类别（软删除），已有流水保留原类别引用
// @Summary 删除类别
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := database.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Category{})
	if res.Error != nil {
		InternalError(c, SafeErrorMessage(res.Error, "删除失败"))
		return
	}
	if res.RowsAffected == 0 {
		NotFound(c, "类别不存在")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
