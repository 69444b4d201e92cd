package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMirrorTablesColumns(t *testing.T) {
	cols := map[string][]string{}
	for _, tbl := range mirrorTables {
		for _, c := range tbl.columns {
			cols[tbl.name] = append(cols[tbl.name], c.Name)
		}
	}
	require.Equal(t, []string{"plan_id", "member_id", "member_name", "date", "category", "item_id"}, cols["assignments"])
	require.Equal(t, []string{"id", "category", "video_link", "tags", "status", "times_used", "last_used_date"}, cols["items"])
}

func TestIsDuplicate(t *testing.T) {
	require.True(t, isDuplicate(errors.New("Table already exists")))
	require.True(t, isDuplicate(errors.New("409 Conflict")))
	require.False(t, isDuplicate(errors.New("permission denied")))
}
