package domain

import (
	"reflect"
	"testing"
)

func TestFrameState(t *testing.T) {
	approved := int64(7200)
	cases := []struct {
		name  string
		frame Frame
		want  FrameState
	}{
		{"fresh claim", Frame{IsPending: true}, StatePendingInitial},
		{"approved", Frame{IsPending: false, ApprovedTime: &approved}, StateApproved},
		{"back for review", Frame{IsPending: true, ApprovedTime: &approved}, StatePendingReview},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.frame.State(); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProjectNameList(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"canvas", []string{"canvas"}},
		{"canvas, painter ,  editor", []string{"canvas", "painter", "editor"}},
		{" , ,", []string{}},
		{"", []string{}},
	}
	for _, tc := range cases {
		f := Frame{ProjectNames: tc.raw}
		if got := f.ProjectNameList(); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ProjectNameList(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestRemainingTime(t *testing.T) {
	if got := (&Frame{}).RemainingTime(); got != 0 {
		t.Fatalf("unapproved frame should have no time, got %d", got)
	}
	approved := int64(2 * TileCost)
	f := Frame{ApprovedTime: &approved, PlacedTiles: 1}
	if got := f.RemainingTime(); got != TileCost {
		t.Fatalf("got %d, want %d", got, TileCost)
	}
}

func TestAdjacentTo(t *testing.T) {
	tile := Tile{X: 5, Y: 5}
	adjacent := [][2]int{{6, 5}, {4, 5}, {5, 6}, {5, 4}}
	for _, c := range adjacent {
		if !tile.AdjacentTo(c[0], c[1]) {
			t.Errorf("(%d, %d) should be adjacent to (5, 5)", c[0], c[1])
		}
	}
	notAdjacent := [][2]int{{5, 5}, {6, 6}, {4, 4}, {7, 5}, {5, 3}}
	for _, c := range notAdjacent {
		if tile.AdjacentTo(c[0], c[1]) {
			t.Errorf("(%d, %d) should not be adjacent to (5, 5)", c[0], c[1])
		}
	}
}
