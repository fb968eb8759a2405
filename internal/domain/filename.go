package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxFilenameTitle = 50
	defaultFileTitle = "video"
)

// \s ne couvre que l'ASCII en RE2: \p{Zs} garde les espaces Unicode (NBSP, U+3000).
var nonWordChars = regexp.MustCompile(`[^\w\p{Zs}\s]`)

// SanitizeFilename construit le nom annoncé dans Content-Disposition:
// on retire tout sauf lettres ASCII, chiffres, _ et espaces, on tronque à 50 caractères puis on ajoute l'extension.
func SanitizeFilename(title string, format Format) string {
	name := nonWordChars.ReplaceAllString(title, "")
	if r := []rune(name); len(r) > MaxFilenameTitle {
		name = string(r[:MaxFilenameTitle])
	}
	if strings.TrimSpace(name) == "" {
		name = defaultFileTitle
	}
	return name + "." + string(NormalizeFormat(string(format)))
}

func ContentType(format Format) string {
	if format == FormatMP3 {
		return "audio/mpeg"
	}
	return "video/mp4"
}

// FormatDuration rend une durée en secondes sous la forme h:mm:ss ou m:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
