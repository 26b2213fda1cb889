package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/medical-device-tracker/pkg/common"
	"liyu1981.xyz/medical-device-tracker/pkg/models"
	_ "liyu1981.xyz/medical-device-tracker/pkg/testing"
)

func parse(t *testing.T, body string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestToCSVQuotesAndRoundTrips(t *testing.T) {
	records := []map[string]any{{"name": "O'Brien, J."}}

	body, err := ToCSV(records, []Header{{"name", "Name"}})
	require.NoError(t, err)

	assert.Equal(t, "Name\n\"O'Brien, J.\"", body)
	assert.Equal(t, [][]string{{"Name"}, {"O'Brien, J."}}, parse(t, body))
}

func TestToCSVEscapesQuotesAndNewlines(t *testing.T) {
	records := []map[string]any{{"notes": "said \"ok\"\nthen left"}}

	body, err := ToCSV(records, []Header{{"notes", "Notes"}})
	require.NoError(t, err)

	assert.Equal(t, "Notes\n\"said \"\"ok\"\"\nthen left\"", body)
	assert.Equal(t, "said \"ok\"\nthen left", parse(t, body)[1][0])
}

func TestToCSVKeepsEmptySingleColumnRows(t *testing.T) {
	records := []map[string]any{{"name": ""}, {"name": "x"}, {}}

	body, err := ToCSV(records, []Header{{"name", "Name"}})
	require.NoError(t, err)

	assert.Equal(t, "Name\n\"\"\nx\n\"\"", body)
	assert.Equal(t, [][]string{{"Name"}, {""}, {"x"}, {""}}, parse(t, body))
}

func TestToCSVDoesNotEscapeHTMLInJSONCells(t *testing.T) {
	records := []map[string]any{{"tags": []string{"a&b", "<x>"}}}

	body, err := ToCSV(records, []Header{{"tags", "Tags"}})
	require.NoError(t, err)

	assert.Equal(t, `["a&b","<x>"]`, parse(t, body)[1][0])
	assert.NotContains(t, body, `\u0026`)
}

func TestToCSVEmptyCollection(t *testing.T) {
	_, err := ToCSV([]models.Device{}, DeviceHeaders)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ToCSV([]models.Device(nil), DeviceHeaders)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestToCSVValueKinds(t *testing.T) {
	type row struct {
		Name    string         `json:"name"`
		Count   int            `json:"count"`
		Value   float64        `json:"value"`
		Active  bool           `json:"active"`
		Missing *string        `json:"missing"`
		Tags    []string       `json:"tags"`
		Address models.Address `json:"address"`
	}
	records := []row{{
		Name:    "plain",
		Count:   3,
		Value:   1234.5,
		Active:  true,
		Tags:    []string{"a", "b"},
		Address: models.Address{City: "Springfield"},
	}}
	headers := []Header{
		{"name", "Name"},
		{"count", "Count"},
		{"value", "Value"},
		{"active", "Active"},
		{"missing", "Missing"},
		{"tags", "Tags"},
		{"address.city", "City"},
		{"address.nowhere.deeper", "Deep"},
	}

	body, err := ToCSV(records, headers)
	require.NoError(t, err)

	rows := parse(t, body)
	assert.Equal(t, []string{"plain", "3", "1234.5", "true", "", `["a","b"]`, "Springfield", ""}, rows[1])
	assert.Contains(t, body, `"[""a"",""b""]"`)
	assert.False(t, strings.HasSuffix(body, "\n"))
}

func TestToCSVRejectsNonList(t *testing.T) {
	_, err := ToCSV(map[string]any{"name": "x"}, []Header{{"name", "Name"}})
	assert.Error(t, err)
}

func TestToCSVLeavesInputAlone(t *testing.T) {
	logs := []models.PhotoLog{{Filename: "a.jpg", Tags: []string{"x", "y"}, IsAlert: true}}

	_, err := ToCSV(photoLogRows(logs), PhotoLogHeaders)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, logs[0].Tags)
	assert.True(t, logs[0].IsAlert)
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, time.June, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "devices_export_2024-06-15.csv", Filename(CollectionDevices, now))
	assert.Equal(t, "service_visits_export_2024-06-15.csv", Filename(CollectionServiceVisits, now))
}

func TestExportCollection(t *testing.T) {
	common.SetTestLoggerNop()
	now := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	high := models.AlertLevelHigh

	state := models.EmptyState()
	state.PhotoLogs = []models.PhotoLog{
		{Filename: "crack.jpg", DeviceID: "MD-001", Category: models.PhotoCategoryIssueDocumentation, IsAlert: true, AlertLevel: &high, Tags: []string{"damage", "casing"}},
		{Filename: "ok.jpg", DeviceID: "MD-002", Category: models.PhotoCategoryGeneral, Tags: []string{}},
	}
	state.Facilities = []models.Facility{
		{ID: "FAC-001", Name: "City General Hospital", Address: models.Address{Street: "123 Main St", City: "Springfield"}, DeviceCount: 12, Status: models.FacilityStatusActive},
	}

	filename, body, err := ExportCollection(state, CollectionPhotoLogs, now)
	require.NoError(t, err)
	assert.Equal(t, "photo_logs_export_2024-06-15.csv", filename)
	rows := parse(t, body)
	require.Len(t, rows, 3)
	assert.Equal(t, "Is Alert", rows[0][9])
	assert.Equal(t, []string{"Yes", "High", "damage, casing"}, rows[1][9:12])
	assert.Equal(t, []string{"No", "", ""}, rows[2][9:12])

	_, body, err = ExportCollection(state, CollectionFacilities, now)
	require.NoError(t, err)
	rows = parse(t, body)
	assert.Equal(t, []string{"FAC-001", "City General Hospital", "", "123 Main St", "Springfield"}, rows[1][:5])
	assert.Equal(t, "12", rows[1][15])

	_, _, err = ExportCollection(state, CollectionContracts, now)
	assert.ErrorIs(t, err, ErrNoData)

	_, _, err = ExportCollection(state, "engineers", now)
	assert.ErrorIs(t, err, ErrUnknownCollection)
}
