package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextUnmarshal(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		want    Text
		wantErr bool
	}{
		{name: "string", in: `" V-17 "`, want: "V-17"},
		{name: "integer", in: `42`, want: "42"},
		{name: "float", in: `23.7412`, want: "23.7412"},
		{name: "bool", in: `true`, want: "true"},
		{name: "null", in: `null`, want: ""},
		{name: "object", in: `{"a": 1}`, wantErr: true},
		{name: "array", in: `[1]`, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got Text
			err := json.Unmarshal([]byte(tc.in), &got)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRecordDisplay(t *testing.T) {
	r := ViolationRecord{ID: "1", Latitude: "23.7", Longitude: ""}
	assert.Equal(t, "23.7, N/A", r.GPS())
	assert.Equal(t, Placeholder, r.Timestamp.OrPlaceholder())

	_, _, ok := r.LatLng()
	assert.False(t, ok)

	r.Longitude = "86.4"
	lat, lng, ok := r.LatLng()
	assert.True(t, ok)
	assert.Equal(t, 23.7, lat)
	assert.Equal(t, 86.4, lng)

	r.Latitude = "123"
	_, _, ok = r.LatLng()
	assert.False(t, ok)
}

func TestSiteDefaults(t *testing.T) {
	var req ReportRequest
	site := req.Site()
	assert.Equal(t, SiteMetadata{Location: DefaultLocation, Date: DefaultDate, DroneID: DefaultDroneID}, site)

	req = ReportRequest{Location: "Block_B_North", Date: "2024-05-01", DroneID: "D1", VideoLink: " https://v "}
	site = req.Site()
	assert.Equal(t, "Block B North", site.Location)
	assert.Equal(t, "2024-05-01", site.Date)
	assert.Equal(t, "D1", site.DroneID)
	assert.Equal(t, "https://v", site.VideoLink)
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Cracks", CategoryLabel("cracks"))
	assert.Equal(t, "Vehicle Red Flag Absent", CategoryLabel("vehicle_red_flag_absent"))
	assert.Equal(t, 0, TypeIndex("stagnant_water"))
	assert.Equal(t, -1, TypeIndex("unknown"))
	assert.Len(t, ViolationTypes, 24)
}

func TestSummarizeTopCategoryTies(t *testing.T) {
	testCases := []struct {
		name  string
		types []string
		want  string
	}{
		{name: "single", types: []string{"smoke"}, want: "smoke"},
		{name: "tie against enumeration order", types: []string{"stagnant_water", "cracks"}, want: "cracks"},
		{name: "tie against input order", types: []string{"smoke", "fire", "smoke", "fire"}, want: "fire"},
		{name: "majority wins", types: []string{"cracks", "stagnant_water", "stagnant_water"}, want: "stagnant_water"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records := make([]ViolationRecord, 0, len(tc.types))
			for i, typ := range tc.types {
				records = append(records, ViolationRecord{ID: Text(string(rune('a' + i))), Type: typ})
			}
			assert.Equal(t, tc.want, Summarize(records).TopCategory)
		})
	}
}

func TestNewRecordSet(t *testing.T) {
	testCases := []struct {
		name    string
		records []ViolationRecord
		want    error
	}{
		{name: "empty", want: ErrNoViolations},
		{name: "missing id", records: []ViolationRecord{{Type: "fire"}}, want: ErrMalformedRecord},
		{name: "missing type", records: []ViolationRecord{{ID: "1", Type: "  "}}, want: ErrMalformedRecord},
		{name: "unknown type", records: []ViolationRecord{{ID: "1", Type: "meteor"}}, want: ErrUnknownCategory},
		{
			name:    "duplicate id",
			records: []ViolationRecord{{ID: "1", Type: "fire"}, {ID: "1", Type: "smoke"}},
			want:    ErrDuplicateRecord,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := NewRecordSet(tc.records)
			assert.Nil(t, set)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, IsInputError(err))
		})
	}
}

func TestRecordSetSummary(t *testing.T) {
	records := []ViolationRecord{
		{ID: "1", Type: "smoke"},
		{ID: "2", Type: " fire "},
		{ID: "3", Type: "smoke"},
		{ID: "4", Type: "fire"},
		{ID: "5", Type: "cracks"},
	}
	set, err := NewRecordSet(records)
	require.NoError(t, err)

	s := set.Summary()
	assert.Equal(t, 5, s.Total)
	// fire and smoke tie; fire comes first alphabetically.
	assert.Equal(t, "fire", s.TopCategory)
	assert.Equal(t, map[string]int{"smoke": 2, "fire": 2, "cracks": 1}, s.Counts)
	assert.Equal(t, s, set.Summary())
	assert.Equal(t, s, Summarize(set.Records()))

	// Callers cannot alter the set through returned values.
	s.Counts["fire"] = 99
	set.Records()[0].Type = "cracks"
	assert.Equal(t, 2, set.Summary().Counts["fire"])
	assert.Equal(t, "smoke", set.Records()[0].Type)

	fires := set.ByCategory("fire")
	require.Len(t, fires, 2)
	assert.Equal(t, Text("2"), fires[0].ID)
	assert.Equal(t, Text("4"), fires[1].ID)
	assert.Empty(t, set.ByCategory("rest_shelter"))
}
