package api

import (
	"errors"
	"log"
	"strconv"

	"masha/database"
	"masha/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RekemAdvancedHandler exposes a restricted read-only view of the
// missions table. The monthly planning fields never leave this handler,
// and an empty result set reads as not found.
type RekemAdvancedHandler struct{}

func NewRekemAdvancedHandler() *RekemAdvancedHandler {
	return &RekemAdvancedHandler{}
}

// rekemAdvancedView is a mission with the monthly planning fields
// stripped out.
type rekemAdvancedView struct {
	ID                uint         `json:"id"`
	Platform          string       `json:"platform"`
	Comment           string       `json:"comment"`
	ColorComment      int          `json:"color_comment"`
	Year              int          `json:"year"`
	PlanWeekPerYear   int          `json:"plan_week_per_year"`
	CumulativePerYear int          `json:"cumulative_per_year"`
	CreatedByUser     *models.User `json:"created_by_user,omitempty"`
	UpdatedByUser     *models.User `json:"updated_by_user,omitempty"`
}

func maskMission(m models.Mission) rekemAdvancedView {
	return rekemAdvancedView{
		ID:                m.ID,
		Platform:          m.Platform,
		Comment:           m.Comment,
		ColorComment:      m.ColorComment,
		Year:              m.Year,
		PlanWeekPerYear:   m.PlanWeekPerYear,
		CumulativePerYear: m.CumulativePerYear,
		CreatedByUser:     m.CreatedByUser,
		UpdatedByUser:     m.UpdatedByUser,
	}
}

func maskMissions(missions []models.Mission) []rekemAdvancedView {
	views := make([]rekemAdvancedView, 0, len(missions))
	for _, m := range missions {
		views = append(views, maskMission(m))
	}
	return views
}

// List returns every non-deleted mission through the masked view.
// @Summary List the restricted mission view
// @Tags rekemadvanced
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /rekemadvanced [get]
func (h *RekemAdvancedHandler) List(c *gin.Context) {
	var missions []models.Mission
	if err := withAuditUsers(database.DB).
		Where("is_deleted = ?", false).
		Find(&missions).Error; err != nil {
		log.Printf("rekemadvanced: list: %v", err)
		InternalError(c)
		return
	}
	if len(missions) == 0 {
		NotFound(c, msgRowNotFound)
		return
	}
	Data(c, maskMissions(missions))
}

// Get returns one mission by id through the masked view.
func (h *RekemAdvancedHandler) Get(c *gin.Context) {
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
		log.Printf("rekemadvanced: get: %v", err)
		InternalError(c)
		return
	}
	Data(c, maskMission(mission))
}

// ByYearAndMonth returns the masked missions matching an exact year and
// month pair. The month is used only to filter, it is still absent from
// the response.
func (h *RekemAdvancedHandler) ByYearAndMonth(c *gin.Context) {
	year, month, ok := yearMonthQuery(c)
	if !ok {
		return
	}

	var missions []models.Mission
	if err := withAuditUsers(database.DB).
		Where("year = ? AND month = ? AND is_deleted = ?", year, month, false).
		Find(&missions).Error; err != nil {
		log.Printf("rekemadvanced: by year and month: %v", err)
		InternalError(c)
		return
	}
	if len(missions) == 0 {
		NotFound(c, msgRowNotFound)
		return
	}
	Data(c, maskMissions(missions))
}

// LastUserUpdate reports who last touched the missions table.
func (h *RekemAdvancedHandler) LastUserUpdate(c *gin.Context) {
	lastUserUpdate(c, &models.Mission{})
}
