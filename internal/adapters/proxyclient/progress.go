package proxyclient

import "math"

const (
	// Plafond tant que le flux n'est pas terminé.
	streamingCeiling = 99.0
	// Sans taille connue: +1 par morceau jusqu'ici, puis on divise l'écart par deux.
	estimateLinearUntil = 90.0
	estimateStep        = 1.0
)

// progressTracker convertit les octets reçus en pourcentage.
// Avec une taille connue: reçu/total; sinon une estimation strictement croissante.
type progressTracker struct {
	total    int64
	received int64
	last     float64
	emit     func(float64)
}

func newProgressTracker(total int64, emit func(float64)) *progressTracker {
	return &progressTracker{total: total, emit: emit}
}

func (t *progressTracker) add(n int64) {
	t.received += n
	var p float64
	if t.total > 0 {
		p = float64(t.received) / float64(t.total) * 100
	} else if t.last < estimateLinearUntil {
		p = t.last + estimateStep
	} else {
		p = t.last + (streamingCeiling-t.last)/2
	}
	p = math.Min(p, streamingCeiling)
	if p < t.last {
		p = t.last
	}
	t.last = p
	t.emit(p)
}

func (t *progressTracker) finish() {
	t.last = 100
	t.emit(100)
}
