package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/grupoevolution/tiktokconteudos/internal/distribution"
	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/store"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

// CatalogTables locates the MOI tables the mirror appends to.
type CatalogTables struct {
	DatabaseID    sdk.DatabaseID
	ItemsID       sdk.TableID
	AssignmentsID sdk.TableID
}

// CatalogSync mirrors published plans into a MOI catalog for analytics.
// Failures are logged and never reach the caller.
type CatalogSync struct {
	raw    *sdk.RawClient
	sdk    *sdk.SDKClient
	tables CatalogTables
	items  store.ItemStore
	logger *slog.Logger
}

var _ Mirror = (*CatalogSync)(nil)

func NewCatalogSync(raw *sdk.RawClient, tables CatalogTables, items store.ItemStore, logger *slog.Logger) *CatalogSync {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogSync{raw: raw, sdk: sdk.NewSDKClient(raw), tables: tables, items: items, logger: logger}
}

var (
	assignmentColumns = []sdk.FileAndTableColumnMapping{
		{TableColumn: "plan_id", Column: "plan_id", ColNumInFile: 1},
		{TableColumn: "member_id", Column: "member_id", ColNumInFile: 2},
		{TableColumn: "member_name", Column: "member_name", ColNumInFile: 3},
		{TableColumn: "date", Column: "date", ColNumInFile: 4},
		{TableColumn: "category", Column: "category", ColNumInFile: 5},
		{TableColumn: "item_id", Column: "item_id", ColNumInFile: 6},
	}
	itemColumns = []sdk.FileAndTableColumnMapping{
		{TableColumn: "id", Column: "id", ColNumInFile: 1},
		{TableColumn: "category", Column: "category", ColNumInFile: 2},
		{TableColumn: "video_link", Column: "video_link", ColNumInFile: 3},
		{TableColumn: "tags", Column: "tags", ColNumInFile: 4},
		{TableColumn: "status", Column: "status", ColNumInFile: 5},
		{TableColumn: "times_used", Column: "times_used", ColNumInFile: 6},
		{TableColumn: "last_used_date", Column: "last_used_date", ColNumInFile: 7},
	}
)

func (s *CatalogSync) MirrorPlan(ctx context.Context, planID int, doc *distribution.Document) {
	if s == nil {
		return
	}
	s.importCSV(ctx, s.tables.AssignmentsID, assignmentsCSV(planID, doc),
		fmt.Sprintf("plan_%d_assignments.csv", planID), assignmentColumns)

	used := make(map[int]struct{})
	for _, members := range doc.Days {
		for _, md := range members {
			for _, id := range md.ItemIDs() {
				used[id] = struct{}{}
			}
		}
	}
	all, err := s.items.ListItems(ctx, model.ItemFilter{})
	if err != nil {
		s.logger.Warn("catalog.sync.items_failed", "plan_id", planID, "err", err)
		return
	}
	var items []model.CatalogItem
	for _, it := range all {
		if _, ok := used[it.ID]; ok {
			items = append(items, it)
		}
	}
	s.importCSV(ctx, s.tables.ItemsID, itemsCSV(items), fmt.Sprintf("plan_%d_items.csv", planID), itemColumns)
}

func assignmentsCSV(planID int, doc *distribution.Document) string {
	var buf bytes.Buffer
	for _, date := range doc.Dates() {
		for _, memberID := range doc.MemberIDs(date) {
			md := doc.Days[date][memberID]
			for _, c := range distribution.Categories {
				for _, itemID := range md.Items[c] {
					fmt.Fprintf(&buf, "%d,%d,%s,%s,%s,%d\n", planID, memberID, esc(md.MemberName), date, c, itemID)
				}
			}
		}
	}
	return buf.String()
}

func itemsCSV(items []model.CatalogItem) string {
	var buf bytes.Buffer
	for _, it := range items {
		last := ""
		if it.LastUsedDate != nil {
			last = *it.LastUsedDate
		}
		fmt.Fprintf(&buf, "%d,%s,%s,%s,%s,%d,%s\n",
			it.ID, it.Category, esc(it.VideoLink), esc(it.Tags), it.Status, it.TimesUsed, last)
	}
	return buf.String()
}

func (s *CatalogSync) importCSV(ctx context.Context, tableID sdk.TableID, csv, fileName string, mapping []sdk.FileAndTableColumnMapping) {
	if csv == "" {
		return
	}
	resp, err := s.raw.UploadLocalFile(ctx, bytes.NewReader([]byte(csv)), fileName, []sdk.FileMeta{{Filename: fileName, Path: "/"}})
	if err != nil {
		s.logger.Warn("catalog.sync.upload_failed", "table", tableID, "err", err)
		return
	}
	if len(resp.ConnFileIds) == 0 {
		s.logger.Warn("catalog.sync.no_conn_file_ids", "table", tableID)
		return
	}

	_, err = s.sdk.ImportLocalFileToTable(ctx, &sdk.TableConfig{
		ConnFileIDs:      resp.ConnFileIds,
		NewTable:         false,
		DatabaseID:       s.tables.DatabaseID,
		TableID:          tableID,
		IsColumnName:     false,
		RowStart:         1,
		Conflict:         1,
		ExistedTable:     mapping,
		ExistedTableOpts: sdk.ExistedTableOptions{Method: sdk.ExistedTableOptionAppend},
	})
	if err != nil {
		s.logger.Warn("catalog.sync.import_failed", "table", tableID, "file", fileName, "err", err)
		return
	}
	s.logger.Info("catalog.sync.ok", "table", tableID, "file", fileName)
}

func esc(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
