// Package export produces XLSX workbooks from the history store, one row per
// extracted record with type-aware summary columns.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tundeoj/snapsort/constants"
	"github.com/tundeoj/snapsort/internal/history"
	"github.com/tundeoj/snapsort/internal/record"
)

// Service is a tiny façade over the history store that renders XLSX bytes.
type Service struct {
	store  *history.Store
	logger *slog.Logger
}

func NewService(store *history.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportXLSX returns an XLSX workbook of stored extractions, newest first,
// optionally filtered by type ("" = all types).
func (s *Service) ExportXLSX(ctx context.Context, typeFilter constants.ScreenshotType) ([]byte, error) {
	start := time.Now()

	entries, err := s.store.List(ctx, typeFilter, 0)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Extractions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Captured At",
		"Type",
		"Confidence",
		"Title",
		"Details",
		"Screenshot Path",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, e := range entries {
		title, details := summarize(e)

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, e.CreatedAt.Format("2006-01-02 15:04"))
		write(2, string(e.Type))
		write(3, fmt.Sprintf("%.2f", e.Confidence))
		write(4, title)
		write(5, details)
		write(6, e.ImagePath)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"type_filter", string(typeFilter),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// summarize renders the stored record JSON into a title and a short details
// line for the workbook. A record that no longer decodes still exports with
// its raw JSON as details.
func summarize(e history.Entry) (string, string) {
	raw := []byte(e.RecordJSON)
	switch e.Type {
	case constants.TypeEvent:
		var v record.EventData
		if json.Unmarshal(raw, &v) == nil {
			return v.Title, joinNonEmpty(v.Date, v.Time, v.Location, v.Host)
		}
	case constants.TypeSong:
		var v record.SongData
		if json.Unmarshal(raw, &v) == nil {
			return v.Title, joinNonEmpty(v.Artist, v.Album)
		}
	case constants.TypeVideo:
		var v record.VideoData
		if json.Unmarshal(raw, &v) == nil {
			return v.Title, joinNonEmpty(v.Channel, v.URL)
		}
	case constants.TypeRestaurant:
		var v record.RestaurantData
		if json.Unmarshal(raw, &v) == nil {
			return v.Name, joinNonEmpty(v.Cuisine, v.Address)
		}
	case constants.TypeLink:
		var v record.LinkData
		if json.Unmarshal(raw, &v) == nil {
			return v.Title, v.URL
		}
	case constants.TypeSocialPost:
		var v record.SocialPostData
		if json.Unmarshal(raw, &v) == nil {
			return v.Author, v.Content
		}
	case constants.TypeNote:
		var v record.NoteData
		if json.Unmarshal(raw, &v) == nil {
			return v.Title, v.Content
		}
	}
	return string(e.Type), e.RecordJSON
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}
