package models

type Settings struct {
	SoundEnabled bool `json:"soundEnabled"`
	MusicEnabled bool `json:"musicEnabled"`
}

// DefaultSettings has everything switched on.
func DefaultSettings() Settings {
	return Settings{SoundEnabled: true, MusicEnabled: true}
}
