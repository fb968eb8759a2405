package domain

import (
	"reflect"
	"testing"
)

func TestDownloadOptions_Counts(t *testing.T) {
	if got := len(DownloadOptions(false)); got != 6 {
		t.Fatalf("single item options: want 6, got %d", got)
	}
	if got := len(DownloadOptions(true)); got != 3 {
		t.Fatalf("collection options: want 3, got %d", got)
	}
}

func TestDownloadOptions_DeterministicAndIsolated(t *testing.T) {
	a := DownloadOptions(false)
	b := DownloadOptions(false)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical catalogs across calls")
	}
	a[0].Label = "mutated"
	if DownloadOptions(false)[0].Label != "1080p MP4" {
		t.Fatalf("mutating a returned slice must not affect later calls")
	}
}

func TestDownloadOptions_Order(t *testing.T) {
	single := DownloadOptions(false)
	wantQualities := []string{"1080p", "720p", "480p", "320kbps", "192kbps", "128kbps"}
	for i, q := range wantQualities {
		if single[i].Quality != q {
			t.Fatalf("single[%d]: want %q, got %q", i, q, single[i].Quality)
		}
	}
	coll := DownloadOptions(true)
	if coll[2].Format != FormatMP4 || coll[2].Quality != "zip" {
		t.Fatalf("expected archive placeholder last, got %+v", coll[2])
	}
}

func TestFindOption(t *testing.T) {
	opt, ok := FindOption(false, FormatMP3, "192kbps")
	if !ok || opt.Label != "192kbps MP3" {
		t.Fatalf("expected 192kbps MP3, got %+v (ok=%v)", opt, ok)
	}
	if _, ok := FindOption(false, FormatMP4, "zip"); ok {
		t.Fatalf("zip must only exist for collections")
	}
	if _, ok := FindOption(true, FormatMP4, "zip"); !ok {
		t.Fatalf("expected zip option for collections")
	}
}
