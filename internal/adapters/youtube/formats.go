package youtube

import (
	"errors"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/neotube/neotube/internal/domain"
)

var errNoFormat = errors.New("no matching format available")

// Hauteur cible par réglage vidéo; 0 = la meilleure disponible.
var presetHeights = map[domain.StreamPreset]int{
	domain.PresetHighest: 0,
	domain.PresetHigh:    720,
	domain.PresetMedium:  480,
}

func selectFormat(formats youtube.FormatList, preset domain.StreamPreset) (*youtube.Format, error) {
	if preset.AudioOnly() {
		return pickAudio(audioOnly(formats), preset == domain.PresetLowestAudio)
	}
	return pickVideo(progressive(formats), presetHeights[preset])
}

func audioOnly(formats youtube.FormatList) []*youtube.Format {
	var out []*youtube.Format
	for i := range formats {
		f := &formats[i]
		if strings.HasPrefix(f.MimeType, "audio/") && f.AudioChannels > 0 {
			out = append(out, f)
		}
	}
	return out
}

// progressive garde les formats vidéo qui portent aussi l'audio; mp4 en priorité.
func progressive(formats youtube.FormatList) []*youtube.Format {
	var mp4, other []*youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "video/") || f.AudioChannels == 0 {
			continue
		}
		if strings.HasPrefix(f.MimeType, "video/mp4") {
			mp4 = append(mp4, f)
		} else {
			other = append(other, f)
		}
	}
	if len(mp4) > 0 {
		return mp4
	}
	return other
}

func pickAudio(candidates []*youtube.Format, lowest bool) (*youtube.Format, error) {
	var best *youtube.Format
	for _, f := range candidates {
		if best == nil {
			best = f
			continue
		}
		if lowest && bitrate(f) < bitrate(best) {
			best = f
		}
		if !lowest && bitrate(f) > bitrate(best) {
			best = f
		}
	}
	if best == nil {
		return nil, errNoFormat
	}
	return best, nil
}

func pickVideo(candidates []*youtube.Format, targetHeight int) (*youtube.Format, error) {
	var best *youtube.Format
	if targetHeight == 0 {
		for _, f := range candidates {
			if best == nil || betterVideo(f, best) {
				best = f
			}
		}
	} else {
		for _, f := range candidates {
			if f.Height == 0 || f.Height > targetHeight {
				continue
			}
			if best == nil || betterVideo(f, best) {
				best = f
			}
		}
		if best == nil {
			// Rien sous la cible : le plus proche au-dessus.
			for _, f := range candidates {
				if f.Height == 0 {
					continue
				}
				if best == nil || f.Height < best.Height || (f.Height == best.Height && bitrate(f) > bitrate(best)) {
					best = f
				}
			}
		}
		if best == nil {
			// Hauteurs inconnues partout: meilleur débit.
			for _, f := range candidates {
				if best == nil || bitrate(f) > bitrate(best) {
					best = f
				}
			}
		}
	}
	if best == nil {
		return nil, errNoFormat
	}
	return best, nil
}

func betterVideo(a, b *youtube.Format) bool {
	if a.Height != b.Height {
		return a.Height > b.Height
	}
	return bitrate(a) > bitrate(b)
}

func bitrate(f *youtube.Format) int {
	if f.AverageBitrate > 0 {
		return f.AverageBitrate
	}
	return f.Bitrate
}
