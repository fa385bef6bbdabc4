package reports

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/fms-tools/calendly-insights/internal/event"
)

// utf8BOM makes spreadsheet tools detect the encoding and render umlauts
// in the German headers correctly.
const utf8BOM = "\ufeff"

// Exporter defines the interface for exporting the events report in
// different formats
type Exporter interface {
	Export(format string, events []event.Event) ([]byte, string, string, error)
}

type exporter struct{}

func NewExporter() Exporter {
	return &exporter{}
}

func (e *exporter) Export(format string, events []event.Event) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")
	rows := BuildRows(events)

	switch format {
	case FormatCSV:
		data, err := e.exportCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("termine_%s.csv", timestamp)
		return data, filename, "text/csv", nil

	case FormatExcel:
		data, err := e.exportExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("termine_%s.xlsx", timestamp)
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := e.exportPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("termine_%s.pdf", timestamp)
		return data, filename, "application/pdf", nil

	case FormatJSON:
		data, err := e.exportJSON(events)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("termine_%s.json", timestamp)
		return data, filename, "application/json", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func (e *exporter) exportCSV(rows []Row) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(buf)

	if err := w.Write(columnHeaders); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.Date,
			r.Time,
			r.EventName,
			r.HostName,
			r.Invitees,
			r.Status,
			strconv.Itoa(r.Duration),
			r.Location,
		}
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

func (e *exporter) exportExcel(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Termine"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for i, h := range columnHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.Date)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Time)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.EventName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.HostName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Invitees)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.Status)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.Duration)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.Location)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (e *exporter) exportPDF(rows []Row) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Terminreport")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	widths := []float64{24, 18, 52, 40, 58, 22, 24, 36}

	for i, h := range columnHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, r.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.Time, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.EventName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.HostName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.Invitees, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[5], 6, r.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[6], 6, strconv.Itoa(r.Duration), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[7], 6, r.Location, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// exportJSON writes the raw API payloads as a pretty-printed array, so the
// export round-trips fields the store schema does not model.
func (e *exporter) exportJSON(events []event.Event) ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(events))
	for _, ev := range events {
		if len(ev.RawData) > 0 {
			raw = append(raw, json.RawMessage(ev.RawData))
			continue
		}
		fallback, err := json.Marshal(ev)
		if err != nil {
			return nil, err
		}
		raw = append(raw, fallback)
	}
	return json.MarshalIndent(raw, "", "  ")
}
