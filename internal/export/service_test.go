package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tundeoj/snapsort/constants"
	"github.com/tundeoj/snapsort/internal/history"
)

func seedStore(t *testing.T) *history.Store {
	t.Helper()
	s, err := history.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	entries := []history.Entry{
		{ImagePath: "/shots/talk.png", ContentHash: "h1", Type: constants.TypeEvent, Confidence: 0.91,
			RecordJSON: `{"title":"Tech Talk Night","date":"2025-03-05","time":"18:30","host":"Acme Robotics"}`,
			CreatedAt:  time.Date(2025, 8, 1, 18, 0, 0, 0, time.UTC)},
		{ImagePath: "/shots/song.png", ContentHash: "h2", Type: constants.TypeSong, Confidence: 0.84,
			RecordJSON: `{"title":"Holiday","artist":"Green Day","album":"American Idiot"}`,
			CreatedAt:  time.Date(2025, 8, 2, 9, 0, 0, 0, time.UTC)},
	}
	for i := range entries {
		if err := s.Save(ctx, &entries[i]); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	return s
}

func TestExportXLSX(t *testing.T) {
	svc := NewService(seedStore(t), nil)

	data, err := svc.ExportXLSX(context.Background(), "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Extractions")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Captured At" || rows[0][3] != "Title" {
		t.Fatalf("header row: %v", rows[0])
	}
	// Newest first: the song entry was stored later.
	if rows[1][1] != "song" || rows[1][3] != "Holiday" {
		t.Fatalf("first data row: %v", rows[1])
	}
	if rows[2][1] != "event" || rows[2][3] != "Tech Talk Night" {
		t.Fatalf("second data row: %v", rows[2])
	}
	if rows[2][4] == "" {
		t.Fatal("event details column should carry date/time/host")
	}
}

func TestExportXLSX_TypeFilter(t *testing.T) {
	svc := NewService(seedStore(t), nil)

	data, err := svc.ExportXLSX(context.Background(), constants.TypeSong)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Extractions")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[1][1] != "song" {
		t.Fatalf("filtered row: %v", rows[1])
	}
}

func TestExportXLSX_UndecodableRecordStillExports(t *testing.T) {
	s, err := history.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	e := history.Entry{ImagePath: "/shots/x.png", ContentHash: "h", Type: constants.TypeNote,
		RecordJSON: `not json`}
	if err := s.Save(context.Background(), &e); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := NewService(s, nil).ExportXLSX(context.Background(), "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows("Extractions")
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[1][4] != "not json" {
		t.Fatalf("raw JSON fallback: %v", rows[1])
	}
}
