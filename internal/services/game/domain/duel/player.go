package duel

// PlayerID is the opaque identity of a user, supplied by the auth layer.
type PlayerID string

// OptionalPlayer holds a PlayerID that may be absent.
// The zero value is absent.
type OptionalPlayer struct {
	id  PlayerID
	set bool
}

// SomePlayer returns a present OptionalPlayer.
func SomePlayer(id PlayerID) OptionalPlayer {
	return OptionalPlayer{id: id, set: true}
}

// NoPlayer returns an absent OptionalPlayer.
func NoPlayer() OptionalPlayer {
	return OptionalPlayer{}
}

// Get returns the player and whether one is present.
func (o OptionalPlayer) Get() (PlayerID, bool) {
	return o.id, o.set
}

// IsSet reports whether a player is present.
func (o OptionalPlayer) IsSet() bool {
	return o.set
}

// Is reports whether the optional holds exactly id.
func (o OptionalPlayer) Is(id PlayerID) bool {
	return o.set && o.id == id
}

// String returns the player id or an empty string when absent.
func (o OptionalPlayer) String() string {
	return string(o.id)
}
