package model

// Side is a human-friendly position label for a ledger row.
// Keep these values stable; they are intended for CSV output.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
	SideFlat  Side = "FLAT"
)

func SideFromPosition(position int) Side {
	switch {
	case position > 0:
		return SideLong
	case position < 0:
		return SideShort
	default:
		return SideFlat
	}
}
