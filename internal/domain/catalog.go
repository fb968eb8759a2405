package domain

// DownloadOptions renvoie le catalogue des choix proposés à l'utilisateur.
// L'ordre est celui de l'affichage. Chaque appel renvoie une nouvelle slice.
func DownloadOptions(isCollection bool) []DownloadOption {
	if isCollection {
		return []DownloadOption{
			{Format: FormatMP4, Quality: "720p", Label: "720p MP4 (All Videos)"},
			{Format: FormatMP3, Quality: "192kbps", Label: "192kbps MP3 (All Audio)"},
			{Format: FormatMP4, Quality: "zip", Label: "ZIP (All Videos)"},
		}
	}
	return []DownloadOption{
		{Format: FormatMP4, Quality: "1080p", Label: "1080p MP4"},
		{Format: FormatMP4, Quality: "720p", Label: "720p MP4"},
		{Format: FormatMP4, Quality: "480p", Label: "480p MP4"},
		{Format: FormatMP3, Quality: "320kbps", Label: "320kbps MP3"},
		{Format: FormatMP3, Quality: "192kbps", Label: "192kbps MP3"},
		{Format: FormatMP3, Quality: "128kbps", Label: "128kbps MP3"},
	}
}

func FindOption(isCollection bool, format Format, quality string) (DownloadOption, bool) {
	for _, opt := range DownloadOptions(isCollection) {
		if opt.Format == format && opt.Quality == quality {
			return opt, true
		}
	}
	return DownloadOption{}, false
}
