package models

// Friend is a member of the participant roster. The roster consists of
// distinct display names; Self is implicit and never stored as a Friend.
type Friend struct {
	// ID is the unique identifier for the friend (UUID format).
	ID string `json:"id"`

	// Name is the display name used in message matching and splits.
	Name string `json:"name"`

	// AddedAt is the epoch-millisecond time the friend was added.
	AddedAt int64 `json:"addedAt"`
}
