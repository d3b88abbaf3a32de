package main

import (
	"net/http"

	"fintrack/models"

	"github.com/gin-gonic/gin"
)

func listCategoriesHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := db.Where("user_id = ?", user.ID)
	if v := c.Query("type"); v != "" {
		q = q.Where("type = ?", v)
	}
	if v := c.Query("isActive"); v != "" {
		q = q.Where("is_active = ?", v == "true")
	}
	var categories []models.Category
	if err := q.Order("name asc").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func loadCategory(c *gin.Context, userID, id uint) (*models.Category, bool) {
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return nil, false
	}
	if category.UserID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
		return nil, false
	}
	return &category, true
}

func getCategoryHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	category, ok := loadCategory(c, user.ID, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, category)
}

// categoryNameTaken checks the case-insensitive (owner, name, type) uniqueness
// rule, ignoring excludeID so updates don't collide with themselves.
func categoryNameTaken(userID uint, name, ctype string, excludeID uint) (bool, error) {
	var count int64
	q := db.Model(&models.Category{}).
		Where("user_id = ? AND type = ? AND LOWER(name) = LOWER(?)", userID, ctype, name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func createCategoryHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		Name  string `json:"name" binding:"required"`
		Type  string `json:"type" binding:"required"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidCategoryType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category type"})
		return
	}
	taken, err := categoryNameTaken(user.ID, req.Name, req.Type, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category with this name already exists"})
		return
	}
	category := models.Category{
		UserID:   user.ID,
		Name:     req.Name,
		Type:     req.Type,
		Icon:     req.Icon,
		Color:    req.Color,
		IsActive: true,
	}
	if category.Icon == "" {
		category.Icon = "folder"
	}
	if category.Color == "" {
		category.Color = "#6B7280"
	}
	if err := db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func updateCategoryHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	category, ok := loadCategory(c, user.ID, id)
	if !ok {
		return
	}
	if category.IsDefault {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot update default categories"})
		return
	}
	var req struct {
		Name     *string `json:"name"`
		Type     *string `json:"type"`
		Icon     *string `json:"icon"`
		Color    *string `json:"color"`
		IsActive *bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type != nil && !models.ValidCategoryType(*req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category type"})
		return
	}
	name := category.Name
	ctype := category.Type
	if req.Name != nil {
		name = *req.Name
	}
	if req.Type != nil {
		ctype = *req.Type
	}
	if name != category.Name || ctype != category.Type {
		taken, err := categoryNameTaken(user.ID, name, ctype, category.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		if taken {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category with this name already exists"})
			return
		}
	}
	category.Name = name
	category.Type = ctype
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if err := db.Save(category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, category)
}

func deleteCategoryHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	category, ok := loadCategory(c, user.ID, id)
	if !ok {
		return
	}
	if category.IsDefault {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete default categories"})
		return
	}
	var refs int64
	if err := db.Model(&models.Transaction{}).Where("category_id = ?", category.ID).Count(&refs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if refs > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete category with existing transactions; delete or reassign transactions first"})
		return
	}
	if err := db.Delete(category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted successfully"})
}
