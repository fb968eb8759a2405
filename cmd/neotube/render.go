package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/neotube/neotube/internal/app"
	"github.com/neotube/neotube/internal/domain"
	"github.com/neotube/neotube/internal/ports"
)

const topicRenderSync = "cli.sync"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// renderer affiche les événements de session publiés sur le bus.
// Les erreurs ne sont pas affichées ici: main les rapporte une seule fois en sortie.
type renderer struct {
	mu      sync.Mutex
	out     io.Writer
	bar     progress.Model
	barOpen bool
	synced  chan struct{}
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{
		out:    out,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		synced: make(chan struct{}, 1),
	}
}

func (r *renderer) consume(events <-chan ports.Event) {
	for evt := range events {
		switch evt.Topic {
		case app.TopicSessionProgress:
			var p domain.DownloadProgress
			if json.Unmarshal(evt.Payload, &p) == nil {
				r.progress(p)
			}
		case app.TopicSessionNotice:
			var n app.Notice
			if json.Unmarshal(evt.Payload, &n) == nil && n.Level == app.NoticeSuccess {
				r.println(successStyle.Render(n.Title) + " " + n.Message)
			}
		case app.TopicSessionState:
			var st app.SessionState
			if json.Unmarshal(evt.Payload, &st) == nil && st.Phase == app.PhaseLoading {
				r.println(dimStyle.Render("Fetching video info..."))
			}
		case topicRenderSync:
			select {
			case r.synced <- struct{}{}:
			default:
			}
		}
	}
}

// sync attend que les événements déjà publiés aient été affichés.
func (r *renderer) sync(bus ports.EventBus) {
	bus.Publish(topicRenderSync, nil)
	select {
	case <-r.synced:
	case <-time.After(time.Second):
	}
}

func (r *renderer) progress(p domain.DownloadProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Status == domain.StatusDownloading || p.Status == domain.StatusComplete {
		fmt.Fprintf(r.out, "\r%s %5.1f%%", r.bar.ViewAs(p.Progress/100), p.Progress)
		r.barOpen = true
	}
	if p.Status.IsTerminal() && r.barOpen {
		fmt.Fprintln(r.out)
		r.barOpen = false
	}
}

func (r *renderer) println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.barOpen {
		fmt.Fprintln(r.out)
		r.barOpen = false
	}
	fmt.Fprintln(r.out, s)
}

func (r *renderer) info(info *domain.ContentInfo, opts []domain.DownloadOption) {
	if info == nil {
		return
	}
	r.println(titleStyle.Render(info.Title))
	r.println(dimStyle.Render(joinNonEmpty(" · ", info.Author, info.Duration)))
	if info.IsCollection {
		r.println(fmt.Sprintf("%s %s (%d videos)", labelStyle.Render("Playlist:"), info.CollectionTitle, info.ItemCount))
	}
	if info.Thumbnail != "" {
		r.println(dimStyle.Render(info.Thumbnail))
	}
	r.options(opts)
}

func (r *renderer) options(opts []domain.DownloadOption) {
	if len(opts) == 0 {
		return
	}
	r.println(labelStyle.Render("Download options:"))
	for _, o := range opts {
		r.println(fmt.Sprintf("  %-24s -format %s -quality %s", o.Label, o.Format, o.Quality))
	}
}

func (r *renderer) startDownload(info *domain.ContentInfo, sel *domain.DownloadOption) {
	if info == nil || sel == nil {
		return
	}
	r.println(fmt.Sprintf("%s %s (%s)", labelStyle.Render("Downloading"), info.Title, sel.Label))
}

func (r *renderer) saved(path string) {
	r.println(dimStyle.Render("Saved to " + path))
}

func (r *renderer) history(list []domain.HistoryRecord) {
	if len(list) == 0 {
		r.println(dimStyle.Render("No downloads yet."))
		return
	}
	for _, rec := range list {
		date := rec.DownloadDate
		if t, err := time.Parse(time.RFC3339, rec.DownloadDate); err == nil {
			date = t.Local().Format("2006-01-02 15:04")
		}
		r.println(fmt.Sprintf("%s  %s  %s", dimStyle.Render(date), labelStyle.Render(fmt.Sprintf("%s %s", rec.Format, rec.Quality)), titleStyle.Render(rec.Title)))
		r.println(dimStyle.Render("    " + rec.SourceURL))
	}
}

func (r *renderer) historyCleared() {
	r.println(successStyle.Render("History cleared"))
}
