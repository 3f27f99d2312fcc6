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

// MarketHandler implements the /markets endpoints.
type MarketHandler struct{}

func NewMarketHandler() *MarketHandler {
	return &MarketHandler{}
}

// marketScope preloads the month row and the audit users onto a markets
// query, the shape every market read returns.
func marketScope(db *gorm.DB) *gorm.DB {
	return withAuditUsers(db.Preload("Month"))
}

// List returns all non-deleted markets.
// @Summary List markets
// @Tags markets
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /markets [get]
func (h *MarketHandler) List(c *gin.Context) {
	var markets []models.Market
	if err := marketScope(database.DB).
		Where("is_deleted = ?", false).
		Find(&markets).Error; err != nil {
		log.Printf("markets: list: %v", err)
		InternalError(c)
		return
	}
	Data(c, markets)
}

// Get returns one market by id.
func (h *MarketHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "a row identifier is required")
		return
	}

	var market models.Market
	err = marketScope(database.DB).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&market).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, msgRowNotFound)
		return
	}
	if err != nil {
		log.Printf("markets: get: %v", err)
		InternalError(c)
		return
	}
	Data(c, market)
}

// ByYear returns the non-deleted markets of one year.
func (h *MarketHandler) ByYear(c *gin.Context) {
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

	var markets []models.Market
	if err := marketScope(database.DB).
		Where("year = ? AND is_deleted = ?", year, false).
		Find(&markets).Error; err != nil {
		log.Printf("markets: by year: %v", err)
		InternalError(c)
		return
	}
	Data(c, markets)
}

// LastUserUpdate reports who last touched the markets table.
func (h *MarketHandler) LastUserUpdate(c *gin.Context) {
	lastUserUpdate(c, &models.Market{})
}

type MarketCreateRequest struct {
	IDNum            int    `json:"id_num" binding:"required"`
	NameMeshek       string `json:"name_meshek" binding:"required"`
	Year             int    `json:"year" binding:"required,min=1900,max=2099"`
	ExpiredAgreement string `json:"expired_agreement" binding:"required"`
	ColorComment     *int   `json:"color_comment" binding:"omitempty,min=0,max=3"`
	Comment          string `json:"comment" binding:"required"`
	IsOpen           *bool  `json:"is_open" binding:"required"`
}

// Store creates a market together with its month row (all twelve columns
// green) in one transaction.
// @Summary Create market
// @Tags markets
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /markets [post]
func (h *MarketHandler) Store(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	var req MarketCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	expired, err := time.Parse("2006-01-02", req.ExpiredAgreement)
	if err != nil {
		BadRequest(c, "expired_agreement must be a date in YYYY-MM-DD format")
		return
	}
	if expired.Year() <= req.Year {
		BadRequest(c, "the agreement expiry must fall after the market's year")
		return
	}

	var existing models.Market
	err = database.DB.Where("id_num = ? AND is_deleted = ?", req.IDNum, false).
		First(&existing).Error
	if err == nil {
		Conflict(c, "this row already exists in the system")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("markets: store: %v", err)
		InternalError(c)
		return
	}

	colorComment := models.ColorGreen
	if req.ColorComment != nil && *req.ColorComment != models.ColorUnset {
		colorComment = *req.ColorComment
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		month := models.AllGreen()
		if err := tx.Create(&month).Error; err != nil {
			return err
		}
		market := models.Market{
			IDNum:            req.IDNum,
			NameMeshek:       req.NameMeshek,
			Year:             req.Year,
			ExpiredAgreement: expired,
			Comment:          req.Comment,
			ColorComment:     colorComment,
			IsOpen:           *req.IsOpen,
			MonthID:          &month.ID,
			CreatedBy:        user.ID,
			UpdatedBy:        user.ID,
		}
		return tx.Create(&market).Error
	})
	if err != nil {
		log.Printf("markets: store: %v", err)
		InternalError(c)
		return
	}

	Created(c, "row created successfully")
}

type MarketUpdateRequest struct {
	IDNum            *int    `json:"id_num"`
	NameMeshek       *string `json:"name_meshek"`
	Year             *int    `json:"year" binding:"omitempty,min=1900,max=2099"`
	ExpiredAgreement *string `json:"expired_agreement"`
	ColorComment     *int    `json:"color_comment" binding:"omitempty,min=0,max=3"`
	Comment          *string `json:"comment"`
	IsOpen           *bool   `json:"is_open"`
}

// Update applies a partial update; fields not sent keep their stored
// value. The year/agreement invariant is checked against whichever side
// is changing, using the stored value for the other.
func (h *MarketHandler) Update(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "a row identifier is required")
		return
	}

	var req MarketUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var expired time.Time
	if req.ExpiredAgreement != nil {
		expired, err = time.Parse("2006-01-02", *req.ExpiredAgreement)
		if err != nil {
			BadRequest(c, "expired_agreement must be a date in YYYY-MM-DD format")
			return
		}
	}

	var market models.Market
	err = database.DB.Where("id = ? AND is_deleted = ?", id, false).
		First(&market).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "this row does not exist in the system")
		return
	}
	if err != nil {
		log.Printf("markets: update: %v", err)
		InternalError(c)
		return
	}

	newYear := market.Year
	if req.Year != nil {
		newYear = *req.Year
	}
	newExpired := market.ExpiredAgreement
	if req.ExpiredAgreement != nil {
		newExpired = expired
	}
	if newExpired.Year() <= newYear {
		BadRequest(c, "the agreement expiry must fall after the market's year")
		return
	}

	updates := map[string]interface{}{"updated_by": user.ID}
	if req.IDNum != nil {
		updates["id_num"] = *req.IDNum
	}
	if req.NameMeshek != nil {
		updates["name_meshek"] = *req.NameMeshek
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.ExpiredAgreement != nil {
		updates["expired_agreement"] = expired
	}
	if req.ColorComment != nil {
		updates["color_comment"] = *req.ColorComment
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}
	if req.IsOpen != nil {
		updates["is_open"] = *req.IsOpen
	}

	if err := database.DB.Model(&market).Updates(updates).Error; err != nil {
		log.Printf("markets: update: %v", err)
		InternalError(c)
		return
	}

	Message(c, http.StatusOK, "row updated successfully")
}

type MarketMonthUpdateRequest struct {
	SelectedMonth int `json:"selected_month" binding:"required,min=1,max=12"`
	SetColor      int `json:"set_color" binding:"required"`
}

// UpdateMonth sets one calendar month's color on the market's month row
// and touches the market's updated_by/updated_at, in one transaction.
func (h *MarketHandler) UpdateMonth(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "a row identifier is required")
		return
	}

	var req MarketMonthUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "a valid month is required")
		return
	}
	if !models.ValidUpdateColor(req.SetColor) {
		BadRequest(c, "invalid color value, send a value between 1 and 3")
		return
	}
	column, ok := models.ColumnForMonth(req.SelectedMonth)
	if !ok {
		BadRequest(c, "a valid month is required")
		return
	}

	var market models.Market
	err = database.DB.Preload("Month").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&market).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "this row does not exist in the system")
		return
	}
	if err != nil {
		log.Printf("markets: update month: %v", err)
		InternalError(c)
		return
	}
	if market.Month == nil {
		BadRequest(c, "this row cannot be edited, recreate it")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(market.Month).Update(column, req.SetColor).Error; err != nil {
			return err
		}
		return tx.Model(&market).Updates(map[string]interface{}{"updated_by": user.ID}).Error
	})
	if err != nil {
		log.Printf("markets: update month: %v", err)
		InternalError(c)
		return
	}

	Message(c, http.StatusOK, "row updated successfully")
}

// Delete soft-deletes one market and cascades onto its month row.
func (h *MarketHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "a row identifier is required")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var market models.Market
		if err := tx.Preload("Month").
			Where("id = ? AND is_deleted = ?", id, false).
			First(&market).Error; err != nil {
			return err
		}
		if err := tx.Model(&market).Update("is_deleted", true).Error; err != nil {
			return err
		}
		if market.Month != nil {
			if err := tx.Model(market.Month).Update("is_deleted", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "this row does not exist in the system")
		return
	}
	if err != nil {
		log.Printf("markets: delete: %v", err)
		InternalError(c)
		return
	}

	Message(c, http.StatusOK, "row deleted successfully")
}

type MassDeleteRequest struct {
	DeletedIDs []uint `json:"deleted_ids" binding:"required,min=1"`
}

// MassDelete soft-deletes the listed markets and every month row they
// own, in one transaction.
func (h *MarketHandler) MassDelete(c *gin.Context) {
	var req MassDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "a list of row identifiers is required")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Market{}).
			Where("id IN ?", req.DeletedIDs).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		var monthIDs []uint
		if err := tx.Model(&models.Market{}).
			Where("id IN ? AND month_id IS NOT NULL", req.DeletedIDs).
			Pluck("month_id", &monthIDs).Error; err != nil {
			return err
		}
		if len(monthIDs) == 0 {
			return nil
		}
		return tx.Model(&models.Month{}).
			Where("id IN ?", monthIDs).
			Update("is_deleted", true).Error
	})
	if err != nil {
		log.Printf("markets: mass delete: %v", err)
		InternalError(c)
		return
	}

	Message(c, http.StatusOK, "rows deleted successfully")
}
