package models

// SoundKey identifies one of the available alarm sounds
type SoundKey string

const (
	SoundRooster       SoundKey = "rooster"
	SoundTrumpet       SoundKey = "trumpet"
	SoundFireAlarm     SoundKey = "firealarm"
	SoundElectronic    SoundKey = "electronic"
	SoundIPhone        SoundKey = "iphone"
	SoundMorningFlower SoundKey = "morningflower"
	SoundFunMix        SoundKey = "funmix"
	SoundBeep          SoundKey = "beep"
	SoundPulse         SoundKey = "pulse"
	SoundChime         SoundKey = "chime"
)

// DefaultSound is selected when nothing else was chosen
const DefaultSound = SoundRooster

// FallbackSound is rung when the chosen sound cannot be loaded
const FallbackSound = SoundBeep

// Pattern names a synthesized sound
type Pattern string

const (
	PatternNone  Pattern = ""
	PatternBeep  Pattern = "beep"
	PatternPulse Pattern = "pulse"
	PatternChime Pattern = "chime"
)

// Sound describes one entry of the sound catalog. Exactly one of File or
// Pattern is set.
type Sound struct {
	Key     SoundKey
	Title   string
	File    string  // path relative to the sounds directory
	Pattern Pattern // synthesized at load time
}

// Sounds is the fixed catalog, in carousel order
var Sounds = []Sound{
	{Key: SoundRooster, Title: "Rooster", File: "alarm-rooster.wav"},
	{Key: SoundTrumpet, Title: "Military trumpet", File: "military-trumpet.wav"},
	{Key: SoundFireAlarm, Title: "Fire alarm", File: "fire-alarm.wav"},
	{Key: SoundElectronic, Title: "Electronic alarm", File: "electronic.wav"},
	{Key: SoundIPhone, Title: "Classic phone alarm", File: "iphone-alarm.wav"},
	{Key: SoundMorningFlower, Title: "Morning flower", File: "morning-flower.wav"},
	{Key: SoundFunMix, Title: "Perfect alarm", File: "perfect-alarm.wav"},
	{Key: SoundBeep, Title: "Digital beep", Pattern: PatternBeep},
	{Key: SoundPulse, Title: "Two-tone pulse", Pattern: PatternPulse},
	{Key: SoundChime, Title: "Soft chime", Pattern: PatternChime},
}

// LookupSound returns the catalog entry for key
func LookupSound(key SoundKey) (Sound, bool) {
	for _, s := range Sounds {
		if s.Key == key {
			return s, true
		}
	}
	return Sound{}, false
}

// SoundIndex returns the carousel position of key, or -1
func SoundIndex(key SoundKey) int {
	for i, s := range Sounds {
		if s.Key == key {
			return i
		}
	}
	return -1
}

// SoundAt returns the sound at index i, wrapping around the catalog
func SoundAt(i int) Sound {
	n := len(Sounds)
	return Sounds[((i%n)+n)%n]
}

// SoundTitle returns the display title for key
func SoundTitle(key SoundKey) string {
	if s, ok := LookupSound(key); ok {
		return s.Title
	}
	return string(key)
}
