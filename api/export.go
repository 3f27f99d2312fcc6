package api

import (
	"fmt"
	"log"
	"time"

	"masha/database"
	"masha/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler produces the Excel snapshot of the markets and missions
// tables.
type ExportHandler struct{}

func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

var monthHeaders = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// Excel writes an xlsx attachment with a markets sheet and a missions
// sheet, both filtered to non-deleted rows.
// @Summary Export markets and missions to Excel
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /export/excel [get]
func (h *ExportHandler) Excel(c *gin.Context) {
	var markets []models.Market
	if err := database.DB.Preload("Month").
		Where("is_deleted = ?", false).
		Find(&markets).Error; err != nil {
		log.Printf("export: markets: %v", err)
		InternalError(c)
		return
	}

	var missions []models.Mission
	if err := database.DB.
		Where("is_deleted = ?", false).
		Find(&missions).Error; err != nil {
		log.Printf("export: missions: %v", err)
		InternalError(c)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	marketsSheet := "Markets"
	f.SetSheetName("Sheet1", marketsSheet)

	marketHeaders := append([]string{"ID", "Number", "Name", "Year", "Agreement Expiry", "Comment", "Open"}, monthHeaders...)
	for i, header := range marketHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(marketsSheet, cell, header)
		f.SetCellStyle(marketsSheet, cell, cell, headerStyle)
	}
	f.SetColWidth(marketsSheet, "B", "C", 20)
	f.SetColWidth(marketsSheet, "E", "F", 25)

	for i, market := range markets {
		row := i + 2
		values := []interface{}{
			market.ID,
			market.IDNum,
			market.NameMeshek,
			market.Year,
			market.ExpiredAgreement.Format("2006-01-02"),
			market.Comment,
			market.IsOpen,
		}
		if market.Month != nil {
			for _, color := range market.Month.Colors() {
				values = append(values, color)
			}
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(marketsSheet, cell, value)
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(marketHeaders), row)
		f.SetCellStyle(marketsSheet, first, last, dataStyle)
	}

	missionsSheet := "Missions"
	f.NewSheet(missionsSheet)

	missionHeaders := []string{"ID", "Platform", "Comment", "Month", "Plan/Month", "Cumulative/Month", "Year", "Plan/Year", "Cumulative/Year"}
	for i, header := range missionHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(missionsSheet, cell, header)
		f.SetCellStyle(missionsSheet, cell, cell, headerStyle)
	}
	f.SetColWidth(missionsSheet, "B", "C", 25)

	for i, mission := range missions {
		row := i + 2
		values := []interface{}{
			mission.ID,
			mission.Platform,
			mission.Comment,
			mission.Month,
			mission.PlanWeekPerMonth,
			mission.CumulativePerMonth,
			mission.Year,
			mission.PlanWeekPerYear,
			mission.CumulativePerYear,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(missionsSheet, cell, value)
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(missionHeaders), row)
		f.SetCellStyle(missionsSheet, first, last, dataStyle)
	}

	filename := fmt.Sprintf("masha_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := f.Write(c.Writer); err != nil {
		log.Printf("export: write: %v", err)
		InternalError(c)
		return
	}
}
