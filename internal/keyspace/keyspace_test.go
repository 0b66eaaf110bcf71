package keyspace_test

import (
	"errors"
	"testing"

	"slotter/internal/keyspace"
)

func TestWidthCoversCount(t *testing.T) {
	cases := []struct {
		count, floor, want int
	}{
		{count: 0, floor: 0, want: 0},
		{count: 0, floor: 3, want: 3},
		{count: 1, floor: 0, want: 0},
		{count: 1, floor: 1, want: 1},
		{count: 2, floor: 0, want: 1},
		{count: 10, floor: 1, want: 1},
		{count: 16, floor: 1, want: 1},
		{count: 17, floor: 1, want: 2},
		{count: 256, floor: 1, want: 2},
		{count: 257, floor: 1, want: 3},
		{count: 4096, floor: 0, want: 3},
		{count: 5, floor: 4, want: 4},
	}
	for _, tc := range cases {
		got := keyspace.Width(tc.count, tc.floor)
		if got != tc.want {
			t.Errorf("Width(%d, %d) = %d, want %d", tc.count, tc.floor, got, tc.want)
		}
	}
}

func TestWidthBounds(t *testing.T) {
	for count := 1; count <= 4500; count++ {
		w := keyspace.Width(count, 0)
		if keyspace.SlotCount(w) < count {
			t.Fatalf("Width(%d, 0) = %d gives %d slots, cannot cover count", count, w, keyspace.SlotCount(w))
		}
		if w > 0 && keyspace.SlotCount(w-1) >= count {
			t.Fatalf("Width(%d, 0) = %d is not minimal", count, w)
		}
	}
}

func TestWidthHonorsFloor(t *testing.T) {
	for floor := 0; floor <= 4; floor++ {
		if got := keyspace.Width(3, floor); got < floor {
			t.Fatalf("Width(3, %d) = %d below floor", floor, got)
		}
	}
	if got := keyspace.Width(100, -2); got != 2 {
		t.Fatalf("negative floor should act as zero, got width %d", got)
	}
}

func TestSlotName(t *testing.T) {
	cases := []struct {
		slot, width int
		want        string
	}{
		{0, 1, "0"},
		{10, 1, "a"},
		{15, 1, "f"},
		{0, 2, "00"},
		{26, 2, "1a"},
		{255, 2, "ff"},
		{1, 4, "0001"},
	}
	for _, tc := range cases {
		if got := keyspace.SlotName(tc.slot, tc.width); got != tc.want {
			t.Errorf("SlotName(%d, %d) = %q, want %q", tc.slot, tc.width, got, tc.want)
		}
	}
}

func TestAllocateCyclingLaw(t *testing.T) {
	items := []string{"a", "b", "c"}
	mapping, err := keyspace.Allocate(items, 16)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if len(mapping) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(mapping))
	}
	for i, got := range mapping {
		want := items[i%len(items)]
		if got != want {
			t.Fatalf("slot %d = %q, want %q", i, got, want)
		}
	}
}

func TestAllocateMoreItemsThanSlots(t *testing.T) {
	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}
	mapping, err := keyspace.Allocate(items, 16)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	for i, got := range mapping {
		if got != i {
			t.Fatalf("slot %d = %d, want prefix item %d", i, got, i)
		}
	}
}

func TestAllocateDeterminism(t *testing.T) {
	items := []string{"x", "y", "z", "w"}
	first, err := keyspace.Allocate(items, 256)
	if err != nil {
		t.Fatalf("first Allocate: %v", err)
	}
	second, err := keyspace.Allocate(items, 256)
	if err != nil {
		t.Fatalf("second Allocate: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("slot %d differs between identical invocations", i)
		}
	}
}

func TestAllocateEmptyItems(t *testing.T) {
	_, err := keyspace.Allocate([]string(nil), 16)
	if !errors.Is(err, keyspace.ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
}

func TestExampleScenarioFromTenAndThree(t *testing.T) {
	// 10 landscape and 3 portrait items with floor 1 share width 1.
	width := keyspace.Width(max(10, 3), 1)
	if width != 1 {
		t.Fatalf("expected width 1, got %d", width)
	}
	slots := keyspace.SlotCount(width)
	if slots != 16 {
		t.Fatalf("expected 16 slots, got %d", slots)
	}

	portrait := []int{0, 1, 2}
	mapping, err := keyspace.Allocate(portrait, slots)
	if err != nil {
		t.Fatalf("Allocate portrait: %v", err)
	}
	for i, got := range mapping {
		if got != i%3 {
			t.Fatalf("portrait slot %d = %d, want %d", i, got, i%3)
		}
	}

	landscape := make([]int, 10)
	for i := range landscape {
		landscape[i] = i
	}
	mapping, err = keyspace.Allocate(landscape, slots)
	if err != nil {
		t.Fatalf("Allocate landscape: %v", err)
	}
	for i := 10; i < 16; i++ {
		if mapping[i] != i-10 {
			t.Fatalf("landscape slot %d = %d, want repeat of item %d", i, mapping[i], i-10)
		}
	}
}
