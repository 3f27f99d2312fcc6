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

// MissionHandler implements the /missions endpoints.
type MissionHandler struct{}

func NewMissionHandler() *MissionHandler {
	return &MissionHandler{}
}

// List returns all non-deleted missions.
// @Summary List missions
// @Tags missions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /missions [get]
func (h *MissionHandler) List(c *gin.Context) {
	var missions []models.Mission
	if err := withAuditUsers(database.DB).
		Where("is_deleted = ?", false).
		Find(&missions).Error; err != nil {
		log.Printf("missions: list: %v", err)
		InternalError(c)
		return
	}
	Data(c, missions)
}

// Get returns one mission by id.
func (h *MissionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "a row identifier is required")
		return
	}

	var mission models.Mission
	err = withAuditUsers(database.DB).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&mission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, msgRowNotFound)
		return
	}
	if err != nil {
		log.Printf("missions: get: %v", err)
		InternalError(c)
		return
	}
	Data(c, mission)
}

// ByYear returns the non-deleted missions of one year.
func (h *MissionHandler) ByYear(c *gin.Context) {
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

	var missions []models.Mission
	if err := withAuditUsers(database.DB).
		Where("year = ? AND is_deleted = ?", year, false).
		Find(&missions).Error; err != nil {
		log.Printf("missions: by year: %v", err)
		InternalError(c)
		return
	}
	Data(c, missions)
}

// yearMonthQuery validates the selected_year/selected_month query pair
// shared by the missions, inhibits and rekemadvanced year-month reads.
func yearMonthQuery(c *gin.Context) (year, month int, ok bool) {
	year, err := strconv.Atoi(c.Query("selected_year"))
	if err != nil || year < 1990 || year > time.Now().Year() {
		BadRequest(c, "a year between 1990 and the current year is required")
		return 0, 0, false
	}
	month, err = strconv.Atoi(c.Query("selected_month"))
	if err != nil || month < 1 || month > 12 {
		BadRequest(c, "a month between 1 and 12 is required")
		return 0, 0, false
	}
	return year, month, true
}

// ByYearAndMonth returns the non-deleted missions matching an exact
// year and month pair.
func (h *MissionHandler) ByYearAndMonth(c *gin.Context) {
	year, month, ok := yearMonthQuery(c)
	if !ok {
		return
	}

	var missions []models.Mission
	if err := withAuditUsers(database.DB).
		Where("year = ? AND month = ? AND is_deleted = ?", year, month, false).
		Find(&missions).Error; err != nil {
		log.Printf("missions: by year and month: %v", err)
		InternalError(c)
		return
	}
	Data(c, missions)
}

// LastUserUpdate reports who last touched the missions table.
func (h *MissionHandler) LastUserUpdate(c *gin.Context) {
	lastUserUpdate(c, &models.Mission{})
}

type MissionCreateRequest struct {
	Platform           string `json:"platform" binding:"required"`
	Comment            string `json:"comment" binding:"required"`
	ColorComment       *int   `json:"color_comment" binding:"omitempty,min=0,max=3"`
	Month              int    `json:"month" binding:"required,min=1,max=12"`
	PlanWeekPerMonth   *int   `json:"plan_week_per_month" binding:"required"`
	CumulativePerMonth *int   `json:"cumulative_per_month" binding:"required"`
	Year               int    `json:"year" binding:"required,min=1900,max=2099"`
	PlanWeekPerYear    *int   `json:"plan_week_per_year" binding:"required"`
	CumulativePerYear  *int   `json:"cumulative_per_year" binding:"required"`
}

// Store creates a mission.
// @Summary Create mission
// @Tags missions
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /missions [post]
func (h *MissionHandler) Store(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	var req MissionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	colorComment := models.ColorGreen
	if req.ColorComment != nil && *req.ColorComment != models.ColorUnset {
		colorComment = *req.ColorComment
	}

	mission := models.Mission{
		Platform:           req.Platform,
		Comment:            req.Comment,
		ColorComment:       colorComment,
		Month:              req.Month,
		PlanWeekPerMonth:   *req.PlanWeekPerMonth,
		CumulativePerMonth: *req.CumulativePerMonth,
		Year:               req.Year,
		PlanWeekPerYear:    *req.PlanWeekPerYear,
		CumulativePerYear:  *req.CumulativePerYear,
		CreatedBy:          user.ID,
		UpdatedBy:          user.ID,
	}
	if err := database.DB.Create(&mission).Error; err != nil {
		log.Printf("missions: store: %v", err)
		InternalError(c)
		return
	}

	Created(c, "row created successfully")
}

type MissionUpdateRequest struct {
	Platform           *string `json:"platform"`
	Comment            *string `json:"comment"`
	ColorComment       *int    `json:"color_comment" binding:"omitempty,min=0,max=3"`
	Month              *int    `json:"month" binding:"omitempty,min=1,max=12"`
	PlanWeekPerMonth   *int    `json:"plan_week_per_month"`
	CumulativePerMonth *int    `json:"cumulative_per_month"`
	Year               *int    `json:"year" binding:"omitempty,min=1900,max=2099"`
	PlanWeekPerYear    *int    `json:"plan_week_per_year"`
	CumulativePerYear  *int    `json:"cumulative_per_year"`
}

// Update applies a partial update; fields not sent keep their stored
// value.
func (h *MissionHandler) Update(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "a row identifier is required")
		return
	}

	var req MissionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var mission models.Mission
	err = database.DB.Where("id = ? AND is_deleted = ?", id, false).
		First(&mission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "this row does not exist in the system")
		return
	}
	if err != nil {
		log.Printf("missions: update: %v", err)
		InternalError(c)
		return
	}

	updates := map[string]interface{}{"updated_by": user.ID}
	if req.Platform != nil {
		updates["platform"] = *req.Platform
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}
	if req.ColorComment != nil {
		updates["color_comment"] = *req.ColorComment
	}
	if req.Month != nil {
		updates["month"] = *req.Month
	}
	if req.PlanWeekPerMonth != nil {
		updates["plan_week_per_month"] = *req.PlanWeekPerMonth
	}
	if req.CumulativePerMonth != nil {
		updates["cumulative_per_month"] = *req.CumulativePerMonth
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.PlanWeekPerYear != nil {
		updates["plan_week_per_year"] = *req.PlanWeekPerYear
	}
	if req.CumulativePerYear != nil {
		updates["cumulative_per_year"] = *req.CumulativePerYear
	}

	if err := database.DB.Model(&mission).Updates(updates).Error; err != nil {
		log.Printf("missions: update: %v", err)
		InternalError(c)
		return
	}

	Message(c, http.StatusOK, "row updated successfully")
}

// Delete soft-deletes one mission.
func (h *MissionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "a row identifier is required")
		return
	}

	var mission models.Mission
	err = database.DB.Where("id = ? AND is_deleted = ?", id, false).
		First(&mission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "this row does not exist in the system")
		return
	}
	if err != nil {
		log.Printf("missions: delete: %v", err)
		InternalError(c)
		return
	}

	if err := database.DB.Model(&mission).Update("is_deleted", true).Error; err != nil {
		log.Printf("missions: delete: %v", err)
		InternalError(c)
		return
	}

	Message(c, http.StatusOK, "row deleted successfully")
}

// MassDelete soft-deletes the listed missions.
func (h *MissionHandler) MassDelete(c *gin.Context) {
	var req MassDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "a list of row identifiers is required")
		return
	}

	if err := database.DB.Model(&models.Mission{}).
		Where("id IN ?", req.DeletedIDs).
		Update("is_deleted", true).Error; err != nil {
		log.Printf("missions: mass delete: %v", err)
		InternalError(c)
		return
	}

	Message(c, http.StatusOK, "rows deleted successfully")
}
