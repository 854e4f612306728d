package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ViolationTypes is the fixed enumeration of detector categories. Evidence
// sections are emitted in this order regardless of arrival order.
var ViolationTypes = []string{
	"stagnant_water",
	"water_logging_at_toe_OB_dump",
	"vehicle_red_flag_absent",
	"vehicle_red_flag_present",
	"overhanging_loose_boulders",
	"cracks",
	"unsafe_movement_person_on_haul_road",
	"unsafe_movement_lmv_near_shovel_dumper_dozer_drill",
	"rest_shelter",
	"lighting_arrangement",
	"blocked_drain",
	"water_sprinkling_arrangement",
	"fire",
	"smoke",
	"person_near_edge_unsafe_area",
	"unsafe_movement_person_near_dumper_dozer_shovel_drill",
	"scrap_management_required",
	"exit_boom_barrier_open",
	"lmv_tipper_plying_on_same_road",
	"vehicle_crowding",
	"person_unsafe",
	"overcrowding_person",
	"illegal_mining_pit",
	"broken_fence",
}

var typeIndex = func() map[string]int {
	m := make(map[string]int, len(ViolationTypes))
	for i, t := range ViolationTypes {
		m[t] = i
	}
	return m
}()

// TypeIndex returns the enumeration position of a category, or -1.
func TypeIndex(category string) int {
	if i, ok := typeIndex[category]; ok {
		return i
	}
	return -1
}

// CategoryLabel turns "water_logging_at_toe_OB_dump" into
// "Water Logging At Toe Ob Dump".
func CategoryLabel(category string) string {
	// cases.Caser is stateful, so one per call.
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(category, "_", " "))
}
