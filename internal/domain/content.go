package domain

type Format string

const (
	FormatMP4 Format = "mp4"
	FormatMP3 Format = "mp3"
)

// NormalizeFormat ramène tout ce qui n'est pas mp3 vers mp4.
func NormalizeFormat(raw string) Format {
	if Format(raw) == FormatMP3 {
		return FormatMP3
	}
	return FormatMP4
}

// ContentRef identifie un contenu extrait d'une URL collée par l'utilisateur.
// Une chaîne vide tient lieu de "absent".
type ContentRef struct {
	ContentID    string
	CollectionID string
}

func (r ContentRef) Valid() bool {
	return r.ContentID != "" || r.CollectionID != ""
}

// ContentInfo est la fiche d'un contenu telle que renvoyée par /api/video-info.
type ContentInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Duration  string `json:"duration"`
	Author    string `json:"author"`

	IsCollection    bool   `json:"isPlaylist"`
	CollectionID    string `json:"playlistId,omitempty"`
	CollectionTitle string `json:"playlistTitle,omitempty"`
	ItemCount       int    `json:"videoCount,omitempty"`
}

type DownloadOption struct {
	Format  Format `json:"format"`
	Quality string `json:"quality"`
	Label   string `json:"label"`
}

type DownloadRequest struct {
	ContentID string
	Format    Format
	Quality   string
}

// DownloadedFile est le résultat complet d'un téléchargement côté client.
type DownloadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
