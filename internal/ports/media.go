package ports

import (
	"context"
	"io"

	"github.com/neotube/neotube/internal/domain"
)

// MediaSource est l'extracteur tiers vu par le serveur.
type MediaSource interface {
	Video(ctx context.Context, videoID string) (domain.ContentInfo, error)
	Playlist(ctx context.Context, playlistID string) (PlaylistInfo, error)
	Stream(ctx context.Context, videoID string, preset domain.StreamPreset) (MediaStream, error)
}

type PlaylistInfo struct {
	ID     string
	Title  string
	Author string
	// Entries contient au minimum l'identifiant de chaque élément, dans l'ordre de la playlist.
	Entries []domain.ContentInfo
}

// MediaStream doit être fermé par l'appelant. Size vaut 0 quand la taille est inconnue.
type MediaStream struct {
	Title    string
	MimeType string
	Size     int64
	Body     io.ReadCloser
}

// Proxy est le client du serveur proxy vu par la session.
type Proxy interface {
	FetchInfo(ctx context.Context, contentID, collectionID string) (domain.ContentInfo, error)
	StreamDownload(ctx context.Context, req domain.DownloadRequest, onProgress func(progress float64)) (domain.DownloadedFile, error)
}

// FileSaver matérialise un fichier téléchargé et renvoie son emplacement.
type FileSaver interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}
