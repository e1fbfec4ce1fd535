package service

import (
	"fmt"
	"io"
	"time"

	"moneybook/models"

	"github.com/xuri/excelize/v2"
)

// Report 导出用的期间报表
type Report struct {
	Start        time.Time
	End          time.Time
	Transactions []models.Transaction
	Categories   map[uint]string
	Accounts     map[uint]string
}

const (
	sheetTransactions = "Transactions"
	sheetSummary      = "Summary"
)

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

// WriteReportWorkbook 生成 xlsx：流水明细一页，汇总与类别统计一页
func WriteReportWorkbook(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTransactions); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{Border: thinBorder})
	if err != nil {
		return err
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Border: thinBorder,
	})
	if err != nil {
		return err
	}

	// 明细
	headers := []string{"ID", "Date", "Type", "Amount", "Category", "Account", "Note", "Source"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetTransactions, cell, h)
		f.SetCellStyle(sheetTransactions, cell, cell, headerStyle)
	}
	f.SetColWidth(sheetTransactions, "B", "B", 12)
	f.SetColWidth(sheetTransactions, "E", "F", 18)
	f.SetColWidth(sheetTransactions, "G", "G", 36)

	for i, t := range r.Transactions {
		row := i + 2
		category, account := UncategorizedName, ""
		if t.CategoryID != nil {
			if name, ok := r.Categories[*t.CategoryID]; ok {
				category = name
			}
		}
		if t.AccountID != nil {
			account = r.Accounts[*t.AccountID]
		}
		values := []interface{}{
			t.ID, t.Date.Format("2006-01-02"), string(t.Type), t.Amount.InexactFloat64(),
			category, account, t.Note, string(t.Source),
		}
		if err := f.SetSheetRow(sheetTransactions, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		f.SetCellStyle(sheetTransactions, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), dataStyle)
	}

	// 汇总
	s := Summarize(r.Transactions)
	rows := [][]interface{}{
		{"Period", r.Start.Format("2006-01-02") + " ~ " + r.End.Format("2006-01-02")},
		{"Income", s.Income.InexactFloat64()},
		{"Expense", s.Expense.InexactFloat64()},
		{"Net", s.Net.InexactFloat64()},
		{"Transactions", s.Count},
	}
	for i, v := range rows {
		v := v
		if err := f.SetSheetRow(sheetSummary, fmt.Sprintf("A%d", i+1), &v); err != nil {
			return err
		}
	}
	f.SetCellStyle(sheetSummary, "A1", fmt.Sprintf("A%d", len(rows)), summaryStyle)
	f.SetColWidth(sheetSummary, "A", "A", 18)
	f.SetColWidth(sheetSummary, "B", "B", 26)

	start := len(rows) + 2
	catHeaders := []interface{}{"Category", "Type", "Amount", "Count"}
	if err := f.SetSheetRow(sheetSummary, fmt.Sprintf("A%d", start), &catHeaders); err != nil {
		return err
	}
	f.SetCellStyle(sheetSummary, fmt.Sprintf("A%d", start), fmt.Sprintf("D%d", start), headerStyle)
	for i, c := range ByCategory(r.Transactions, r.Categories) {
		v := []interface{}{c.Name, string(c.Type), c.Amount.InexactFloat64(), c.Count}
		if err := f.SetSheetRow(sheetSummary, fmt.Sprintf("A%d", start+i+1), &v); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}
