package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/grupoevolution/tiktokconteudos/internal/distribution"
	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/store"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []any{"Member", "Category", "Product ID", "Product image", "Reference image", "Video link", "Copy text", "Observation"}

// ExportService renders a plan as an xlsx workbook with one sheet per date.
type ExportService struct {
	store store.Store
}

func NewExportService(s store.Store) *ExportService { return &ExportService{store: s} }

// Workbook returns the xlsx bytes of plan id and a file name for it.
func (s *ExportService) Workbook(ctx context.Context, id int) ([]byte, string, error) {
	plan, err := s.store.LoadPlan(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc, err := distribution.DecodeDocument(plan.Document)
	if err != nil {
		return nil, "", err
	}
	items, err := s.store.ListItems(ctx, model.ItemFilter{})
	if err != nil {
		return nil, "", err
	}
	byID := make(map[int]model.CatalogItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	f := excelize.NewFile()
	defer f.Close()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", fmt.Errorf("export style: %w", err)
	}

	for i, date := range doc.Dates() {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), date); err != nil {
				return nil, "", fmt.Errorf("export sheet %s: %w", date, err)
			}
		} else if _, err := f.NewSheet(date); err != nil {
			return nil, "", fmt.Errorf("export sheet %s: %w", date, err)
		}
		if err := writeDaySheet(f, date, doc, byID, bold); err != nil {
			return nil, "", fmt.Errorf("export sheet %s: %w", date, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("export write: %w", err)
	}
	return bytes.Clone(buf.Bytes()), fmt.Sprintf("distribution-%s.xlsx", doc.WeekStart), nil
}

func writeDaySheet(f *excelize.File, date string, doc *distribution.Document, byID map[int]model.CatalogItem, bold int) error {
	if err := f.SetSheetRow(date, "A1", &exportHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(date, "A1", "H1", bold); err != nil {
		return err
	}
	row := 2
	for _, memberID := range doc.MemberIDs(date) {
		md := doc.Days[date][memberID]
		for _, c := range distribution.Categories {
			for _, itemID := range md.Items[c] {
				it := byID[itemID]
				cell, err := excelize.CoordinatesToCellName(1, row)
				if err != nil {
					return err
				}
				values := []any{md.MemberName, c.String(), itemID, it.ProductImage, it.ReferenceImage, it.VideoLink, it.CopyText, it.Observation}
				if err := f.SetSheetRow(date, cell, &values); err != nil {
					return err
				}
				row++
			}
		}
	}
	return f.SetColWidth(date, "D", "H", 30)
}
