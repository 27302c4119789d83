package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
	"github.com/kaylahuffman7/Plated-v2/internal/week"
)

// weekGrid is the rendered view of one week: days down, active slots
// across, with a daily calorie total.
type weekGrid struct {
	weekKey string
	slots   []string
	rows    []gridRow
}

type gridRow struct {
	day      string
	cells    []string // meal name per slot, empty when unassigned
	calories float64
}

// buildGrid resolves assignments against the catalog. Dangling meal
// refs render as an empty cell and add nothing to the total.
func buildGrid(weekKey string, activeSlots []string, plans []storage.MealPlan, catalog map[string]storage.Meal) weekGrid {
	bySlot := make(map[string]map[string]storage.MealPlan)
	for _, plan := range plans {
		if bySlot[plan.DayOfWeek] == nil {
			bySlot[plan.DayOfWeek] = make(map[string]storage.MealPlan)
		}
		bySlot[plan.DayOfWeek][plan.MealSlot] = plan
	}

	rows := make([]gridRow, 0, len(week.Days))
	for _, day := range week.Days {
		row := gridRow{day: day, cells: make([]string, len(activeSlots))}
		for i, slot := range activeSlots {
			plan, ok := bySlot[day][slot]
			if !ok {
				continue
			}
			meal, ok := catalog[plan.MealID]
			if !ok {
				continue
			}
			row.cells[i] = meal.Name
			row.calories += meal.Macros.Calories
		}
		rows = append(rows, row)
	}

	return weekGrid{weekKey: weekKey, slots: activeSlots, rows: rows}
}

func formatCalories(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// renderCSV writes the grid as day-per-row CSV.
func renderCSV(grid weekGrid) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"day"}, grid.slots...)
	header = append(header, "calories")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range grid.rows {
		record := append([]string{row.day}, row.cells...)
		record = append(record, formatCalories(row.calories))
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderPDF writes the grid as an A4 landscape table.
func renderPDF(grid weekGrid) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Meal plan, week of %s", grid.weekKey), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	dayWidth := 28.0
	calWidth := 22.0
	slotWidth := (usable - dayWidth - calWidth) / float64(len(grid.slots))

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(dayWidth, 7, "Day", "1", 0, "C", false, 0, "")
	for _, slot := range grid.slots {
		pdf.CellFormat(slotWidth, 7, slot, "1", 0, "C", false, 0, "")
	}
	pdf.CellFormat(calWidth, 7, "kcal", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range grid.rows {
		pdf.CellFormat(dayWidth, 7, row.day, "1", 0, "L", false, 0, "")
		for _, cell := range row.cells {
			pdf.CellFormat(slotWidth, 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.CellFormat(calWidth, 7, formatCalories(row.calories), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
