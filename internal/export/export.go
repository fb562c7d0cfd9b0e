package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/sla"
)

// Dataset is a tabular payload ready for rendering in any format.
type Dataset struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// WriteCSV renders the dataset as CSV.
func WriteCSV(w io.Writer, ds Dataset) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(ds.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range ds.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteExcel renders the dataset as a styled xlsx workbook.
func WriteExcel(w io.Writer, ds Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ds.Name)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, header := range ds.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(ds.Name, cell, header)
		f.SetCellStyle(ds.Name, cell, cell, headerStyle)
	}

	for rowIdx, row := range ds.Rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			f.SetCellValue(ds.Name, cell, value)
		}
	}

	return f.Write(w)
}

// WriteJSON renders the dataset as an array of objects keyed by header.
func WriteJSON(w io.Writer, ds Dataset) error {
	records := make([]map[string]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		record := make(map[string]string, len(ds.Headers))
		for i, header := range ds.Headers {
			if i < len(row) {
				record[header] = row[i]
			}
		}
		records = append(records, record)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// TicketDataset flattens tickets (with their SLA state) into a table.
func TicketDataset(tickets []domain.Ticket, policy sla.Policy, now time.Time) Dataset {
	headers := []string{
		"ID", "Title", "Status", "Priority", "Category",
		"Customer ID", "Agent ID", "Created At", "Resolved At",
		"SLA Hours", "SLA Breached",
	}
	rows := make([][]string, 0, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		res := sla.Evaluate(t, policy, now)

		agentID := ""
		if t.AgentID != nil {
			agentID = *t.AgentID
		}
		resolvedAt := ""
		if t.ResolvedAt != nil {
			resolvedAt = t.ResolvedAt.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			t.ID, t.Title, string(t.Status), string(t.Priority), t.Category,
			t.CustomerID, agentID, t.CreatedAt.Format(time.RFC3339), resolvedAt,
			strconv.Itoa(res.SLAHours), strconv.FormatBool(res.Breached),
		})
	}
	return Dataset{Name: "Tickets", Headers: headers, Rows: rows}
}
