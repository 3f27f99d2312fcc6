package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"masha/database"
	"masha/middleware"
	"masha/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InhibitHandler implements the /inhibits endpoints.
type InhibitHandler struct{}

func NewInhibitHandler() *InhibitHandler {
	return &InhibitHandler{}
}

// List returns all non-deleted inhibits.
// @Summary List inhibits
// @Tags inhibits
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /inhibits [get]
func (h *InhibitHandler) List(c *gin.Context) {
	var inhibits []models.Inhibit
	if err := withAuditUsers(database.DB).
		Where("is_deleted = ?", false).
		Find(&inhibits).Error; err != nil {
		log.Printf("inhibits: list: %v", err)
		InternalError(c)
		return
	}
	Data(c, inhibits)
}

// Get returns one inhibit by id.
func (h *InhibitHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "a row identifier is required")
		return
	}

	var inhibit models.Inhibit
	err = withAuditUsers(database.DB).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&inhibit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, msgRowNotFound)
		return
	}
	if err != nil {
		log.Printf("inhibits: get: %v", err)
		InternalError(c)
		return
	}
	Data(c, inhibit)
}

// ByYear returns the non-deleted inhibits of one year.
func (h *InhibitHandler) ByYear(c *gin.Context) {
	yearStr := c.Query("selected_year")
	if yearStr == "" {
		BadRequest(c, "a year to search is required")
		return
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		BadRequest(c, "a year to search is required")
		return
	}
	if year > time.Now().Year() {
		BadRequest(c, "a future year cannot be searched")
		return
	}

	var inhibits []models.Inhibit
	if err := withAuditUsers(database.DB).
		Where("year = ? AND is_deleted = ?", year, false).
		Find(&inhibits).Error; err != nil {
		log.Printf("inhibits: by year: %v", err)
		InternalError(c)
		return
	}
	Data(c, inhibits)
}

// ByYearAndMonth returns the non-deleted inhibits matching an exact
// year and month pair.
func (h *InhibitHandler) ByYearAndMonth(c *gin.Context) {
	year, month, ok := yearMonthQuery(c)
	if !ok {
		return
	}

	var inhibits []models.Inhibit
	if err := withAuditUsers(database.DB).
		Where("year = ? AND month = ? AND is_deleted = ?", year, month, false).
		Find(&inhibits).Error; err != nil {
		log.Printf("inhibits: by year and month: %v", err)
		InternalError(c)
		return
	}
	Data(c, inhibits)
}

// LastUserUpdate reports who last touched the inhibits table.
func (h *InhibitHandler) LastUserUpdate(c *gin.Context) {
	lastUserUpdate(c, &models.Inhibit{})
}

type InhibitCreateRequest struct {
	InhibitTa     string `json:"inhibit_ta" binding:"required"`
	InhibitMrahs  string `json:"inhibit_mrahs" binding:"required"`
	ActivRequired string `json:"activ_required" binding:"required"`
	ImpactedTasks string `json:"impacted_tasks" binding:"required"`
	Comment       string `json:"comment" binding:"required"`
	ColorComment  *int   `json:"color_comment" binding:"omitempty,min=0,max=3"`
	Year          int    `json:"year" binding:"required,min=1900,max=2099"`
	Month         int    `json:"month" binding:"required,min=1,max=12"`
}

// Store creates an inhibit.
// @Summary Create inhibit
// @Tags inhibits
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /inhibits [post]
func (h *InhibitHandler) Store(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	var req InhibitCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	colorComment := models.ColorGreen
	if req.ColorComment != nil && *req.ColorComment != models.ColorUnset {
		colorComment = *req.ColorComment
	}

	inhibit := models.Inhibit{
		InhibitTa:     req.InhibitTa,
		InhibitMrahs:  req.InhibitMrahs,
		ActivRequired: req.ActivRequired,
		ImpactedTasks: req.ImpactedTasks,
		Comment:       req.Comment,
		ColorComment:  colorComment,
		Year:          req.Year,
		Month:         req.Month,
		CreatedBy:     user.ID,
		UpdatedBy:     user.ID,
	}
	if err := database.DB.Create(&inhibit).Error; err != nil {
		log.Printf("inhibits: store: %v", err)
		InternalError(c)
		return
	}

	Created(c, "row created successfully")
}

type InhibitUpdateRequest struct {
	InhibitTa     *string `json:"inhibit_ta"`
	InhibitMrahs  *string `json:"inhibit_mrahs"`
	ActivRequired *string `json:"activ_required"`
	ImpactedTasks *string `json:"impacted_tasks"`
	Comment       *string `json:"comment"`
	ColorComment  *int    `json:"color_comment" binding:"omitempty,min=0,max=3"`
	Year          *int    `json:"year" binding:"omitempty,min=1900,max=2099"`
	Month         *int    `json:"month" binding:"omitempty,min=1,max=12"`
}

// Update applies a partial update; fields not sent keep their stored
// value.
func (h *InhibitHandler) Update(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "a row identifier is required")
		return
	}

	var req InhibitUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var inhibit models.Inhibit
	err = database.DB.Where("id = ? AND is_deleted = ?", id, false).
		First(&inhibit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "this row does not exist in the system")
		return
	}
	if err != nil {
		log.Printf("inhibits: update: %v", err)
		InternalError(c)
		return
	}

	updates := map[string]interface{}{"updated_by": user.ID}
	if req.InhibitTa != nil {
		updates["inhibit_ta"] = *req.InhibitTa
	}
	if req.InhibitMrahs != nil {
		updates["inhibit_mrahs"] = *req.InhibitMrahs
	}
	if req.ActivRequired != nil {
		updates["activ_required"] = *req.ActivRequired
	}
	if req.ImpactedTasks != nil {
		updates["impacted_tasks"] = *req.ImpactedTasks
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}
	if req.ColorComment != nil {
		updates["color_comment"] = *req.ColorComment
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Month != nil {
		updates["month"] = *req.Month
	}

	if err := database.DB.Model(&inhibit).Updates(updates).Error; err != nil {
		log.Printf("inhibits: update: %v", err)
		InternalError(c)
		return
	}

	Message(c, http.StatusOK, "row updated successfully")
}

// Delete soft-deletes one inhibit.
func (h *InhibitHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "a row identifier is required")
		return
	}

	var inhibit models.Inhibit
	err = database.DB.Where("id = ? AND is_deleted = ?", id, false).
		First(&inhibit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "this row does not exist in the system")
		return
	}
	if err != nil {
		log.Printf("inhibits: delete: %v", err)
		InternalError(c)
		return
	}

	if err := database.DB.Model(&inhibit).Update("is_deleted", true).Error; err != nil {
		log.Printf("inhibits: delete: %v", err)
		InternalError(c)
		return
	}

	Message(c, http.StatusOK, "row deleted successfully")
}

var errUnknownInhibitID = errors.New("unknown inhibit id")

// MassDelete soft-deletes the listed inhibits. Every submitted id must
// name an existing non-deleted row or the whole batch is rolled back.
func (h *InhibitHandler) MassDelete(c *gin.Context) {
	var req MassDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "a list of row identifiers is required")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Inhibit{}).
			Where("id IN ? AND is_deleted = ?", req.DeletedIDs, false).
			Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(req.DeletedIDs)) {
			return errUnknownInhibitID
		}
		return tx.Model(&models.Inhibit{}).
			Where("id IN ?", req.DeletedIDs).
			Update("is_deleted", true).Error
	})
	if errors.Is(err, errUnknownInhibitID) {
		NotFound(c, "this row does not exist in the system")
		return
	}
	if err != nil {
		log.Printf("inhibits: mass delete: %v", err)
		InternalError(c)
		return
	}

	Message(c, http.StatusOK, "rows deleted successfully")
}
