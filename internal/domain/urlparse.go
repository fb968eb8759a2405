package domain

import (
	"net/url"
	"strings"
)

const shortLinkHost = "youtu.be"

var allowedHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"youtu.be":        true,
	"m.youtube.com":   true,
}

// ParseURL extrait les identifiants d'un lien. Une entrée illisible renvoie une
// ContentRef vide, sans erreur.
func ParseURL(raw string) ContentRef {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ContentRef{}
	}
	q := u.Query()

	id := q.Get("v")
	switch {
	case id != "":
	case strings.HasPrefix(u.Path, "/watch/"):
		parts := strings.Split(u.Path, "/")
		id = parts[2]
	case strings.ToLower(u.Hostname()) == shortLinkHost:
		id = strings.TrimPrefix(u.Path, "/")
	}

	return ContentRef{ContentID: id, CollectionID: q.Get("list")}
}

func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	if !allowedHosts[strings.ToLower(u.Hostname())] {
		return false
	}
	return ParseURL(raw).Valid()
}

func WatchURL(contentID string) string {
	if contentID == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(contentID)
}
