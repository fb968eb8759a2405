package domain

// MaxHistoryEntries borne l'historique local; les plus anciennes entrées sont évincées.
const MaxHistoryEntries = 50

type HistoryRecord struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	Format       Format `json:"format"`
	Quality      string `json:"quality"`
	DownloadDate string `json:"downloadDate"`
	SourceURL    string `json:"url"`
}

// PrependHistory place rec en tête (plus récent d'abord) et tronque à MaxHistoryEntries.
// La slice d'entrée n'est pas modifiée.
func PrependHistory(list []HistoryRecord, rec HistoryRecord) []HistoryRecord {
	n := len(list) + 1
	if n > MaxHistoryEntries {
		n = MaxHistoryEntries
	}
	out := make([]HistoryRecord, 0, n)
	out = append(out, rec)
	for _, r := range list {
		if len(out) == n {
			break
		}
		out = append(out, r)
	}
	return out
}
