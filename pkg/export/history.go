// Package export renders the plant list and watering history as an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"plantcare/entities"
	"plantcare/pkg/schedule"
)

const (
	SheetPlants  = "Plants"
	SheetHistory = "Watering history"

	timeLayout = "2006-01-02 15:04"
)

type PlantLister interface {
	List(ctx context.Context) ([]entities.Plant, error)
}

type LogLister interface {
	ListAll(ctx context.Context) ([]entities.WateringLog, error)
}

type Exporter struct {
	plants PlantLister
	logs   LogLister
	now    func() time.Time
}

func NewExporter(plants PlantLister, logs LogLister, now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{plants: plants, logs: logs, now: now}
}

// Write streams the workbook to w. Times are rendered in now's location.
func (e *Exporter) Write(ctx context.Context, w io.Writer) error {
	plants, err := e.plants.List(ctx)
	if err != nil {
		return fmt.Errorf("list plants: %w", err)
	}
	logs, err := e.logs.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list waterings: %w", err)
	}
	f, err := Build(plants, logs, e.now())
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Build lays out both sheets.
func Build(plants []entities.Plant, logs []entities.WateringLog, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetPlants); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetHistory); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	loc := now.Location()
	names := make(map[string]string, len(plants))
	rows := [][]any{{"Name", "Type", "Species", "Last watered", "Status", "Next due", "Days until due", "Frequency (days)", "Advice source"}}
	for i := range plants {
		p := &plants[i]
		names[p.ID] = p.DisplayName()
		st := schedule.Evaluate(p, now)
		source := ""
		if p.WateringAdvice != nil {
			source = "ai"
			if p.WateringAdvice.IsFallback {
				source = "fallback"
			}
		}
		rows = append(rows, []any{
			p.DisplayName(), string(p.Type), p.Species,
			formatTime(p.LastWatered, loc), string(st.Urgency), formatTime(st.NextDue, loc),
			intOrBlank(st.DaysUntilDue), schedule.FrequencyDays(p), source,
		})
	}
	if err := writeSheet(f, SheetPlants, rows, bold); err != nil {
		return nil, err
	}

	rows = [][]any{{"Plant", "Watered at"}}
	for _, l := range logs {
		name, ok := names[l.PlantID]
		if !ok {
			name = l.PlantID
		}
		at := l.WateredAt.In(loc)
		rows = append(rows, []any{name, formatTime(&at, loc)})
	}
	if err := writeSheet(f, SheetHistory, rows, bold); err != nil {
		return nil, err
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 18)
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(timeLayout)
}

func intOrBlank(n *int) any {
	if n == nil {
		return ""
	}
	return *n
}
