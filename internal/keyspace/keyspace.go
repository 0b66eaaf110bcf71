package keyspace

import (
	"errors"
	"fmt"
)

// MaxWidth bounds slot identifiers to 15 hex digits so slot counts always
// fit in an int64 without overflow.
const MaxWidth = 15

// ErrNoItems indicates an allocation was requested for an empty item set.
var ErrNoItems = errors.New("keyspace: no items to allocate")

// Width returns the smallest hex-digit count w such that 16^w >= count,
// raised to floor when that is larger. A zero count needs no addressing and
// returns floor directly; callers must not materialize an empty group.
//
// The computation is pure integer math. A count that lands exactly on a
// power of 16 uses that power (count=16 -> width 1, every slot used once).
func Width(count, floor int) int {
	if floor < 0 {
		floor = 0
	}
	if count <= 0 {
		return floor
	}
	width := 0
	slots := 1
	for slots < count && width < MaxWidth {
		slots *= 16
		width++
	}
	if width < floor {
		return floor
	}
	return width
}

// SlotCount returns 16^width, the number of addressable slots.
func SlotCount(width int) int {
	if width < 0 || width > MaxWidth {
		panic(fmt.Sprintf("keyspace: width %d out of range", width))
	}
	return 1 << (4 * width)
}

// SlotName renders a slot index as exactly width lowercase hex digits,
// zero padded. These names are embedded verbatim in routing rules, so the
// format must never drift from what the materializer writes to disk.
func SlotName(slot, width int) string {
	return fmt.Sprintf("%0*x", width, slot)
}

// Allocate maps every slot in [0, slotCount) to an item by cyclic
// repetition: slot i receives items[i mod len(items)]. The same modulo
// formula covers both the repeating case (fewer items than slots) and the
// truncating case (more items than slots); neither is special-cased.
func Allocate[T any](items []T, slotCount int) ([]T, error) {
	if slotCount < 0 {
		return nil, fmt.Errorf("keyspace: negative slot count %d", slotCount)
	}
	if len(items) == 0 {
		if slotCount == 0 {
			return nil, nil
		}
		return nil, ErrNoItems
	}
	mapping := make([]T, slotCount)
	for i := range mapping {
		mapping[i] = items[i%len(items)]
	}
	return mapping, nil
}
