package store

import (
	"encoding/json"
	"fmt"

	"fyne.io/fyne/v2"
	"github.com/borgmon/alarm-clock/pkg/models"
)

// Preference keys. The state blob and the volume are stored separately so a
// corrupt blob never resets the volume.
const (
	stateKey  = "alarm-clock-state-v1"
	volumeKey = "alarm-volume-v1"
)

// StateStore persists the alarm, the selected sound and the volume in Fyne
// preferences.
type StateStore struct {
	prefs fyne.Preferences
}

// NewStateStore creates a new StateStore instance
func NewStateStore(prefs fyne.Preferences) *StateStore {
	return &StateStore{prefs: prefs}
}

// Load reads the persisted state. Missing values come back as "unset": no
// alarm, SoundIndex and Volume -1. A blob that cannot be decoded is an
// error.
func (s *StateStore) Load() (models.PersistedState, error) {
	state := models.PersistedState{
		SoundIndex: -1,
		Volume:     s.prefs.IntWithFallback(volumeKey, -1),
	}

	blob := s.prefs.String(stateKey)
	if blob == "" {
		return state, nil
	}
	if err := json.Unmarshal([]byte(blob), &state); err != nil {
		return state, fmt.Errorf("decode %s: %w", stateKey, err)
	}

	if a := state.Alarm; a != nil {
		if _, err := models.ParseClockTime(a.Time); err != nil {
			return state, fmt.Errorf("decode %s: %w", stateKey, err)
		}
		if _, ok := models.LookupSound(a.SoundKey); !ok {
			a.SoundKey = models.DefaultSound
		}
	}
	if state.SoundIndex >= len(models.Sounds) {
		state.SoundIndex = -1
	}
	return state, nil
}

// Save writes state, replacing whatever was stored.
func (s *StateStore) Save(state models.PersistedState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode %s: %w", stateKey, err)
	}
	s.prefs.SetString(stateKey, string(blob))
	s.prefs.SetInt(volumeKey, state.Volume)
	return nil
}

// Clear forgets everything stored.
func (s *StateStore) Clear() {
	s.prefs.RemoveValue(stateKey)
	s.prefs.RemoveValue(volumeKey)
}
