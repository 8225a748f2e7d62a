package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet every export is written to.
const SheetName = "Báo cáo"

const dateLayout = "02/01/2006"

// Table is a report flattened into a header row and cell rows.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]any
}

// SummaryTable renders the per-document rows of a summary.
func SummaryTable(s Summary, loc *time.Location) Table {
	t := Table{
		Title:   "Báo cáo tổng hợp",
		Columns: []string{"STT", "Số văn bản", "Người gửi", "Địa chỉ", "Loại", "Trạng thái", "Đơn vị xử lý", "Ngày tiếp nhận"},
	}
	for i, r := range s.Rows {
		t.Rows = append(t.Rows, []any{i + 1, r.Number, r.SubmitterName, orDash(r.Address), string(r.Category),
			string(r.Status), r.UnitName, r.CreatedAt.In(loc).Format(dateLayout)})
	}
	return t
}

// OrganizationsTable renders the per-organization report.
func OrganizationsTable(rows []OrganizationRow) Table {
	t := Table{
		Title:   "Theo đơn vị",
		Columns: []string{"STT", "Mã đơn vị", "Tên đơn vị", "Tổng nhận", "Hoàn thành", "Đang xử lý", "Quá hạn", "Tỷ lệ HT (%)"},
	}
	for i, r := range rows {
		t.Rows = append(t.Rows, []any{i + 1, r.Code, r.Name, r.Received, r.Completed, r.InProgress, r.Overdue, r.CompletionRate})
	}
	return t
}

// MonthlyTable renders the monthly performance report.
func MonthlyTable(rows []MonthRow) Table {
	t := Table{
		Title:   "Hiệu suất xử lý",
		Columns: []string{"STT", "Tháng/Năm", "Tiếp nhận", "Hoàn thành", "Quá hạn", "Tỷ lệ HT (%)"},
	}
	for i, r := range rows {
		t.Rows = append(t.Rows, []any{i + 1, r.Month, r.Received, r.Completed, r.Overdue, r.CompletionRate})
	}
	return t
}

// OverdueTable renders the overdue listing.
func OverdueTable(rows []OverdueRow, loc *time.Location) Table {
	t := Table{
		Title:   "Đơn thư quá hạn",
		Columns: []string{"STT", "Số văn bản", "Tiêu đề", "Đơn vị xử lý", "Hạn xử lý", "Số ngày quá hạn", "Trạng thái"},
	}
	for i, r := range rows {
		t.Rows = append(t.Rows, []any{i + 1, r.Number, r.Title, r.UnitName, r.Deadline.In(loc).Format(dateLayout),
			r.OverdueDays, string(r.State)})
	}
	return t
}

// DetailTable renders the detail listing. Document columns are printed once per document.
func DetailTable(rows []DetailRow, loc *time.Location) Table {
	t := Table{
		Title:   "Báo cáo chi tiết",
		Columns: []string{"STT", "Số văn bản", "Người gửi", "Địa chỉ", "Đơn vị xử lý", "Trạng thái", "Ngày nhận", "Số ngày xử lý"},
	}
	prev := ""
	for i, r := range rows {
		number, sender, address := r.Number, r.SubmitterName, r.Address
		if r.DocumentID == prev {
			number, sender, address = "", "", ""
		}
		prev = r.DocumentID

		accepted := "-"
		if r.AcceptedAt != nil {
			accepted = r.AcceptedAt.In(loc).Format(dateLayout)
		}
		days := "-"
		if r.ProcessingDays != nil {
			days = strconv.Itoa(*r.ProcessingDays)
		}
		t.Rows = append(t.Rows, []any{i + 1, number, sender, address, r.UnitName, r.State, accepted, days})
	}
	return t
}

// WriteXLSX writes t as a single-sheet workbook.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &[]any{t.Title}); err != nil {
		return err
	}
	cols := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A2", &cols); err != nil {
		return err
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 2)
		if err := f.SetCellStyle(SheetName, "A2", last, header); err != nil {
			return err
		}
	}

	for i, row := range t.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		r := row
		if err := f.SetSheetRow(SheetName, cell, &r); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
