package domain

type DownloadStatus string

const (
	StatusIdle        DownloadStatus = "idle"
	StatusLoading     DownloadStatus = "loading"
	StatusDownloading DownloadStatus = "downloading"
	StatusComplete    DownloadStatus = "complete"
	StatusError       DownloadStatus = "error"
)

func (s DownloadStatus) IsTerminal() bool {
	return s == StatusComplete || s == StatusError
}

// DownloadProgress est l'état observable d'une tentative. Progress est en pourcentage [0,100].
type DownloadProgress struct {
	Status   DownloadStatus `json:"status"`
	Progress float64        `json:"progress"`
	Error    string         `json:"error,omitempty"`
}

func IdleProgress() DownloadProgress {
	return DownloadProgress{Status: StatusIdle}
}

func CanTransition(from, to DownloadStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusIdle:
		return to == StatusLoading || to == StatusDownloading
	case StatusLoading:
		return to == StatusIdle || to == StatusError
	case StatusDownloading:
		return to == StatusComplete || to == StatusError
	case StatusComplete, StatusError:
		// Une nouvelle soumission ou une nouvelle tentative repart de zéro.
		return to == StatusIdle || to == StatusLoading || to == StatusDownloading
	default:
		return false
	}
}
