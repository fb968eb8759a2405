package domain

// StreamPreset est le réglage réellement demandé à l'extracteur.
type StreamPreset string

const (
	PresetHighestAudio StreamPreset = "highestaudio"
	PresetLowestAudio  StreamPreset = "lowestaudio"
	PresetHighest      StreamPreset = "highest"
	PresetHigh         StreamPreset = "high"
	PresetMedium       StreamPreset = "medium"
)

func (p StreamPreset) AudioOnly() bool {
	return p == PresetHighestAudio || p == PresetLowestAudio
}

// Table volontairement non injective: tout label inconnu retombe sur un seul réglage.
var (
	audioPresets = map[string]StreamPreset{
		"320kbps": PresetHighestAudio,
		"192kbps": PresetHighestAudio,
	}
	videoPresets = map[string]StreamPreset{
		"1080p": PresetHighest,
		"720p":  PresetHigh,
	}
)

func SelectPreset(format Format, quality string) StreamPreset {
	if format == FormatMP3 {
		if p, ok := audioPresets[quality]; ok {
			return p
		}
		return PresetLowestAudio
	}
	if p, ok := videoPresets[quality]; ok {
		return p
	}
	return PresetMedium
}
