package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/neotube/neotube/internal/adapters/localfs"
	"github.com/neotube/neotube/internal/adapters/memorybus"
	"github.com/neotube/neotube/internal/adapters/memstore"
	"github.com/neotube/neotube/internal/adapters/proxyclient"
	"github.com/neotube/neotube/internal/adapters/sqlite"
	"github.com/neotube/neotube/internal/app"
	"github.com/neotube/neotube/internal/config"
	"github.com/neotube/neotube/internal/domain"
	"github.com/neotube/neotube/internal/ports"
	"github.com/rs/zerolog"
)

const usage = `Usage: neotube [flags] <command>

Commandes:
  info <url>           affiche la fiche et les options de téléchargement
  download <url>       télécharge avec -format/-quality
  history              liste l'historique local
  history clear        vide l'historique local
  health | version     interroge le serveur`

func main() {
	def := config.Default()
	baseURL := flag.String("server", def.ServerURL, "URL du serveur (ex: http://127.0.0.1:5000)")
	timeout := flag.Duration("timeout", 0, "Timeout HTTP (0 = aucun)")
	historyDB := flag.String("db", def.HistoryDB, "Chemin SQLite de l'historique (:memory: pour ne rien garder)")
	outDir := flag.String("out", def.DownloadDir, "Dossier de destination des fichiers")
	format := flag.String("format", string(domain.FormatMP4), "Format: mp4 ou mp3")
	quality := flag.String("quality", "720p", "Qualité (ex: 1080p, 720p, 320kbps)")
	logLevel := flag.String("log-level", def.LogLevel, "Niveau de log (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: *timeout}

	switch args[0] {
	case "health":
		os.Exit(run(ctx, httpClient, *baseURL+"/api/health"))
	case "version":
		os.Exit(run(ctx, httpClient, *baseURL+"/api/version"))
	}

	repo, closeRepo, err := openHistory(ctx, *historyDB, logger.With().Str("component", "sqlite").Logger())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erreur:", err)
		os.Exit(1)
	}
	defer closeRepo()

	// Seule la dernière progression en attente compte pour l'affichage.
	bus := memorybus.New(memorybus.WithCoalescedTopics(app.TopicSessionProgress))
	proxy := proxyclient.New(*baseURL, httpClient, logger.With().Str("component", "proxy").Logger())
	history := app.NewHistoryService(logger.With().Str("component", "history").Logger(), repo)
	session := app.NewSession(logger.With().Str("component", "session").Logger(), proxy, history, localfs.NewSaver(*outDir), bus)

	r := newRenderer(os.Stdout)
	events, cancel := bus.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.consume(events)
	}()

	code := dispatch(ctx, session, bus, r, args, domain.DownloadOption{Format: domain.NormalizeFormat(*format), Quality: *quality})

	cancel()
	<-done
	bus.Close()
	closeRepo()
	os.Exit(code)
}

func dispatch(ctx context.Context, session *app.Session, bus ports.EventBus, r *renderer, args []string, opt domain.DownloadOption) int {
	switch args[0] {
	case "info":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: neotube info <url>")
			return 2
		}
		err := session.SubmitURL(ctx, args[1])
		r.sync(bus)
		if err != nil {
			return fail(err)
		}
		opts, _ := session.Options()
		r.info(session.State().Info, opts)
		return 0

	case "download":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: neotube [-format mp4|mp3] [-quality q] download <url>")
			return 2
		}
		err := session.SubmitURL(ctx, args[1])
		r.sync(bus)
		if err != nil {
			return fail(err)
		}
		if err := session.SelectOption(opt); err != nil {
			opts, _ := session.Options()
			r.options(opts)
			return fail(err)
		}
		r.startDownload(session.State().Info, session.State().Selected)
		path, err := session.Download(ctx)
		r.sync(bus)
		if err != nil {
			return fail(err)
		}
		r.saved(path)
		return 0

	case "history":
		if len(args) > 1 && args[1] == "clear" {
			session.ClearHistory(ctx)
			r.sync(bus)
			r.historyCleared()
			return 0
		}
		r.history(session.History(ctx))
		return 0

	default:
		fmt.Fprintln(os.Stderr, "Commande inconnue:", args[0])
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
}

// openHistory ouvre le stockage de l'historique; ":memory:" garde tout en mémoire.
func openHistory(ctx context.Context, path string, logger zerolog.Logger) (ports.HistoryRepository, func(), error) {
	if path == ":memory:" {
		return memstore.NewHistoryRepository(), func() {}, nil
	}
	db, err := sqlite.Open(ctx, path, logger)
	if err != nil {
		return nil, nil, err
	}
	var closed bool
	return sqlite.NewHistoryRepository(db.SQL), func() {
		if !closed {
			closed = true
			_ = db.Close()
		}
	}, nil
}

func fail(err error) int {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Annulé.")
		return 130
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render("Erreur: "+app.UserMessage(err)))
	return 1
}

func run(ctx context.Context, client *http.Client, url string) int {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erreur:", err)
		return 1
	}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erreur:", err)
		return 1
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	var pretty any
	if err := json.Unmarshal(b, &pretty); err == nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(pretty)
	} else {
		os.Stdout.Write(b)
		os.Stdout.Write([]byte("\n"))
	}
	if resp.StatusCode >= 400 {
		return 1
	}
	return 0
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
