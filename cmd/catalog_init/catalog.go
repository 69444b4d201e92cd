package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/grupoevolution/tiktokconteudos/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

type tableSpec struct {
	name    string
	comment string
	columns []sdk.Column
}

// mirrorTables must keep the column order of the CSV rows the server appends.
var mirrorTables = []tableSpec{
	{"items", "catalog items used by published plans", []sdk.Column{
		{Name: "id", Type: "INT", Comment: "product id"},
		{Name: "category", Type: "VARCHAR(32)", Comment: "validated, apparel, apparel-music or new"},
		{Name: "video_link", Type: "VARCHAR(512)", Comment: "reference video link"},
		{Name: "tags", Type: "VARCHAR(255)", Comment: "comma separated tags"},
		{Name: "status", Type: "VARCHAR(16)", Comment: "active or inactive"},
		{Name: "times_used", Type: "INT", Comment: "assignments published for the item"},
		{Name: "last_used_date", Type: "VARCHAR(10)", Comment: "last assignment date, YYYY-MM-DD"},
	}},
	{"assignments", "one row per published member, date and item", []sdk.Column{
		{Name: "plan_id", Type: "INT", Comment: "distribution id"},
		{Name: "member_id", Type: "INT", Comment: "team member id"},
		{Name: "member_name", Type: "VARCHAR(191)", Comment: "team member name, lower case"},
		{Name: "date", Type: "DATE", Comment: "work day of the assignment"},
		{Name: "category", Type: "VARCHAR(32)", Comment: "category the item was drawn from"},
		{Name: "item_id", Type: "INT", Comment: "relates to items.id"},
	}},
}

func initCatalog(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, error) {
	dbResp, err := client.CreateDatabase(ctx, &sdk.DatabaseCreateRequest{
		CatalogID:    catalogID,
		DatabaseName: dbName,
		Comment:      "content rotation analytics mirror",
	})
	if err != nil {
		if isDuplicate(err) {
			logger.Info("catalog.database.exists", "name", dbName)
			return discoverDatabaseID(ctx, client, catalogID, dbName)
		}
		return 0, fmt.Errorf("create database: %w", err)
	}
	logger.Info("catalog.database.created", "id", dbResp.DatabaseID)

	for _, t := range mirrorTables {
		resp, err := client.CreateTable(ctx, &sdk.TableCreateRequest{
			DatabaseID: dbResp.DatabaseID,
			Name:       t.name,
			Columns:    t.columns,
			Comment:    t.comment,
		})
		if err != nil {
			if isDuplicate(err) {
				logger.Info("catalog.table.exists", "name", t.name)
				continue
			}
			return 0, fmt.Errorf("create table %s: %w", t.name, err)
		}
		logger.Info("catalog.table.created", "name", t.name, "id", resp.TableID)
	}

	return dbResp.DatabaseID, nil
}

func discoverDatabaseID(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, error) {
	resp, err := client.ListDatabases(ctx, &sdk.DatabaseListRequest{CatalogID: catalogID})
	if err != nil {
		return 0, fmt.Errorf("list databases: %w", err)
	}
	for _, db := range resp.List {
		if db.DatabaseName == dbName {
			logger.Info("catalog.database.discovered", "id", db.DatabaseID)
			return db.DatabaseID, nil
		}
	}
	return 0, fmt.Errorf("database %s not found in catalog %d", dbName, catalogID)
}

func isDuplicate(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate") || strings.Contains(s, "already exist") || strings.Contains(s, "exists") || strings.Contains(s, "conflict")
}
