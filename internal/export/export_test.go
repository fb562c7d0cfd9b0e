package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/sla"
)

var sample = Dataset{
	Name:    "Tickets",
	Headers: []string{"ID", "Status"},
	Rows: [][]string{
		{"t1", "open"},
		{"t2", "resolved"},
	},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0][0] != "ID" || records[1][0] != "t1" || records[2][1] != "resolved" {
		t.Errorf("unexpected csv content: %v", records)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sample); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var records []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0]["ID"] != "t1" || records[0]["Status"] != "open" {
		t.Errorf("record 0 = %v", records[0])
	}

	// Re-encoding the parsed structure must reproduce the same records.
	again, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	var reparsed []map[string]string
	if err := json.Unmarshal(again, &reparsed); err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(reparsed) != len(records) || reparsed[1]["ID"] != "t2" {
		t.Errorf("round trip mismatch: %v", reparsed)
	}
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExcel(&buf, sample); err != nil {
		t.Fatalf("WriteExcel: %v", err)
	}
	// xlsx files are zip archives.
	if buf.Len() == 0 || !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Errorf("output does not look like an xlsx archive (%d bytes)", buf.Len())
	}
}

func TestTicketDataset(t *testing.T) {
	now := time.Date(2024, 6, 1, 17, 0, 0, 0, time.UTC)
	agent := "ag1"
	tickets := []domain.Ticket{
		{
			ID: "t1", Title: "VPN down", Status: domain.TicketStatusOpen,
			Priority: domain.TicketPriorityHigh, Category: "network",
			CustomerID: "cu1", AgentID: &agent, CreatedAt: now.Add(-5 * time.Hour),
		},
	}

	ds := TicketDataset(tickets, sla.DefaultPolicy(), now)
	if len(ds.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(ds.Rows))
	}
	row := strings.Join(ds.Rows[0], "|")
	if !strings.Contains(row, "VPN down") || !strings.Contains(row, "true") || !strings.Contains(row, "|4|") {
		t.Errorf("row missing expected fields: %s", row)
	}
}
