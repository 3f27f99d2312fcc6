package api

import (
	"errors"
	"log"
	"time"

	"masha/database"
	"masha/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// selectUserRef narrows a creator/updater preload to the reference shape
// every record read returns: id, name, employee_type and the permission.
func selectUserRef(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "employee_type", "permission_id")
}

// selectPermissionRef narrows a permission preload to id + permission_name.
func selectPermissionRef(db *gorm.DB) *gorm.DB {
	return db.Select("id", "permission_name")
}

// withAuditUsers preloads the creating and updating users, each with the
// permission name, onto markets, missions and inhibits queries.
func withAuditUsers(db *gorm.DB) *gorm.DB {
	return db.
		Preload("CreatedByUser", selectUserRef).
		Preload("CreatedByUser.Permission", selectPermissionRef).
		Preload("UpdatedByUser", selectUserRef).
		Preload("UpdatedByUser.Permission", selectPermissionRef)
}

type lastUpdateRow struct {
	UpdatedAt time.Time
	UpdatedBy uint
}

// lastUserUpdate answers the "who touched this table last" endpoints
// shared by markets, missions and inhibits.
func lastUserUpdate(c *gin.Context, model interface{}) {
	var row lastUpdateRow
	err := database.DB.Model(model).
		Select("updated_at", "updated_by").
		Where("is_deleted = ?", false).
		Order("updated_at DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "no user found")
		return
	}
	if err != nil {
		log.Printf("last user update: %v", err)
		InternalError(c)
		return
	}

	var user models.User
	if err := database.DB.Select("id", "name").First(&user, row.UpdatedBy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "no user found")
			return
		}
		log.Printf("last user update: %v", err)
		InternalError(c)
		return
	}

	Data(c, gin.H{
		"user": gin.H{
			"id":   user.ID,
			"name": user.Name,
		},
		"updated_at_date": row.UpdatedAt.Format("2006-01-02"),
		"updated_at_time": row.UpdatedAt.Format("15:04:05"),
	})
}
