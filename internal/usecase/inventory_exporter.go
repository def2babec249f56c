package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/pkg/logger"
	"cpaptracker-service/pkg/utils"

	"github.com/xuri/excelize/v2"
)

// InventorySheet is the name of the worksheet holding the status report
const InventorySheet = "Parts"

var (
	// ErrNoDataToExport is returned when there are no parts to export
	ErrNoDataToExport = errors.New("no data to export")

	// ErrUnknownExportColumn is returned for a column selection outside the known set
	ErrUnknownExportColumn = errors.New("unknown export column")
)

type exportColumn struct {
	header string
	width  float64
	value  func(v entity.PartStatusView) interface{}
}

var exportColumns = map[string]exportColumn{
	"name":         {"Part", 28, func(v entity.PartStatusView) interface{} { return v.Part.Name }},
	"category":     {"Category", 20, func(v entity.PartStatusView) interface{} { return string(v.Part.Category) }},
	"manufacturer": {"Manufacturer", 16, func(v entity.PartStatusView) interface{} { return v.Part.Manufacturer }},
	"model":        {"Compatible Model", 22, func(v entity.PartStatusView) interface{} { return v.Part.CompatibleModel }},
	"interval":     {"Interval (days)", 16, func(v entity.PartStatusView) interface{} { return v.Part.RecommendedIntervalDays }},
	"last_replaced": {"Last Replaced", 16, func(v entity.PartStatusView) interface{} {
		if v.Latest == nil {
			return ""
		}
		return utils.FormatDate(v.Latest.LastReplacedDate)
	}},
	"next_replacement": {"Next Replacement", 18, func(v entity.PartStatusView) interface{} {
		if v.Latest == nil {
			return ""
		}
		return utils.FormatDate(v.Latest.NextReplacementDate)
	}},
	"days_until": {"Days Until", 12, func(v entity.PartStatusView) interface{} {
		if v.DaysUntilReplacement == nil {
			return ""
		}
		return *v.DaysUntilReplacement
	}},
	"status": {"Status", 14, func(v entity.PartStatusView) interface{} { return string(v.Status) }},
	"ordered": {"Ordered", 10, func(v entity.PartStatusView) interface{} {
		return v.Latest != nil && v.Latest.IsOrdered
	}},
	"order_date": {"Order Date", 14, func(v entity.PartStatusView) interface{} {
		if v.Latest == nil || v.Latest.OrderDate == nil {
			return ""
		}
		return utils.FormatDate(*v.Latest.OrderDate)
	}},
}

// DefaultExportColumns is the column selection used when none is given
var DefaultExportColumns = []string{
	"name", "category", "model", "last_replaced", "next_replacement", "days_until", "status",
}

// InventoryExporter writes the part status report as an xlsx workbook
type InventoryExporter struct {
	tracker *PartTracker
	logger  logger.Logger
}

// NewInventoryExporter creates a new inventory exporter
func NewInventoryExporter(tracker *PartTracker, logger logger.Logger) *InventoryExporter {
	return &InventoryExporter{
		tracker: tracker,
		logger:  logger,
	}
}

// Export writes the status of every part at today to w and returns the row count
func (e *InventoryExporter) Export(ctx context.Context, w io.Writer, today time.Time, columns []string) (int, error) {
	views, err := e.tracker.AllWithStatus(ctx, today)
	if err != nil {
		return 0, err
	}

	f, err := BuildInventoryWorkbook(views, columns)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Exported part inventory", "rows", len(views), "columns", len(columnsOrDefault(columns)))
	return len(views), nil
}

// BuildInventoryWorkbook renders views into a new workbook with the selected columns
func BuildInventoryWorkbook(views []entity.PartStatusView, columns []string) (*excelize.File, error) {
	if len(views) == 0 {
		return nil, ErrNoDataToExport
	}

	columns = columnsOrDefault(columns)
	selected := make([]exportColumn, 0, len(columns))
	for _, key := range columns {
		col, ok := exportColumns[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownExportColumn, key)
		}
		selected = append(selected, col)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", InventorySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range selected {
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(InventorySheet, name+"1", col.header)
		f.SetCellStyle(InventorySheet, name+"1", name+"1", headerStyle)
		f.SetColWidth(InventorySheet, name, name, col.width)
	}

	for r, view := range views {
		for i, col := range selected {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			f.SetCellValue(InventorySheet, cell, col.value(view))
		}
	}

	return f, nil
}

func columnsOrDefault(columns []string) []string {
	if len(columns) == 0 {
		return DefaultExportColumns
	}
	return columns
}
