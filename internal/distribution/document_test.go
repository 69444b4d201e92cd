package distribution

import (
	"encoding/json"
	"testing"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
	"github.com/stretchr/testify/require"
)

func buildDoc(t *testing.T) *Document {
	t.Helper()
	doc, err := NewPlanner(seeded(11)).Build(Input{
		Members: []Member{{ID: 1, Name: "daniel", Quota: 6}, {ID: 2, Name: "elias", Quota: 9}},
		Dates:   week(t),
		Catalog: catalogOf(map[Category]int{Validated: 10, Apparel: 10, ApparelMusic: 10, New: 20}),
	})
	require.NoError(t, err)
	return doc
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := buildDoc(t)

	data, err := doc.Encode()
	require.NoError(t, err)

	got, err := DecodeDocument(data)
	require.NoError(t, err)
	require.Equal(t, doc, got)
}

func TestDecodeDocumentRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "not json", data: "{oops"},
		{name: "wrong version", data: `{"version":2,"mode":"same","week_start":"2026-10-19","week_end":"2026-10-23"}`},
		{name: "missing days", data: `{"version":1,"mode":"same","week_start":"2026-10-19","week_end":"2026-10-23","quotas":{"1":6},"days":{}}`},
		{name: "bad week end", data: `{"version":1,"mode":"same","week_start":"2026-10-19","week_end":"2026-10-25","quotas":{"1":6}}`},
		{name: "bad mode", data: `{"version":1,"mode":"odd","week_start":"2026-10-19","week_end":"2026-10-23"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument([]byte(tt.data))
			require.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestDecodeDocumentRejectsNonCanonicalCategory(t *testing.T) {
	doc := buildDoc(t)
	md := doc.Days[doc.Dates()[0]][1]
	md.Items["Validated"] = md.Items[Validated]
	delete(md.Items, Validated)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = DecodeDocument(data)
	require.ErrorIs(t, err, apperr.ErrValidation)
	require.Contains(t, apperr.Reason(err), `unknown category "Validated"`)
}

func TestDocumentValidate(t *testing.T) {
	t.Run("member missing from a date", func(t *testing.T) {
		doc := buildDoc(t)
		delete(doc.Days[doc.Dates()[3]], 2)
		require.ErrorIs(t, doc.Validate(), apperr.ErrValidation)
	})

	t.Run("unknown member", func(t *testing.T) {
		doc := buildDoc(t)
		date := doc.Dates()[0]
		doc.Days[date][9] = doc.Days[date][2]
		delete(doc.Days[date], 2)
		require.ErrorIs(t, doc.Validate(), apperr.ErrValidation)
	})

	t.Run("repeated item", func(t *testing.T) {
		doc := buildDoc(t)
		md := doc.Days[doc.Dates()[0]][1]
		md.Items[New] = append(md.Items[New], md.Items[Validated][0])
		require.ErrorIs(t, doc.Validate(), apperr.ErrValidation)
	})

	t.Run("unknown category", func(t *testing.T) {
		doc := buildDoc(t)
		doc.Days[doc.Dates()[0]][1].Items["shoes"] = []int{999}
		require.ErrorIs(t, doc.Validate(), apperr.ErrValidation)
	})

	t.Run("encode refuses invalid", func(t *testing.T) {
		doc := buildDoc(t)
		doc.Version = 0
		_, err := doc.Encode()
		require.ErrorIs(t, err, apperr.ErrValidation)
	})
}
