package present

import "encoding/json"

// Snapshot serializes the dialog position for persistence alongside the
// rest of the player's saved state.
func (s Session) Snapshot() ([]byte, error) {
	return json.Marshal(s)
}

// LoadSession restores a dialog position from a snapshot.
func LoadSession(data []byte) (Session, error) {
	var s Session
	err := json.Unmarshal(data, &s)
	return s, err
}
