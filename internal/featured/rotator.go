package featured

import (
	"context"
	"errors"
	"sync"
	"time"

	"sumo-go/internal/logger"
	"sumo-go/internal/metrics"
)

const DefaultInterval = 5 * time.Second

var ErrNoCards = errors.New("featured: no cards to rotate")

// Kind is the award a featured card celebrates
type Kind string

const (
	KindTopOfWeek   Kind = "top_of_week"
	KindMostRegular Kind = "most_regular"
	KindRising      Kind = "rising"
)

type Card struct {
	Title string `json:"title"`
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
}

var DefaultCards = []Card{
	{Title: "أفضل طالب هذا الأسبوع", Name: "عبدالله محمد", Kind: KindTopOfWeek},
	{Title: "الطالب المنتظم في الأسبوع", Name: "أحمد خالد", Kind: KindMostRegular},
	{Title: "الطالب الصاعد في الأسبوع", Name: "محمد سعد", Kind: KindRising},
}

// Rotator cycles through featured cards on a fixed interval and fans each
// change out to subscribers. Slow subscribers miss updates instead of
// blocking the rotation.
type Rotator struct {
	cards    []Card
	interval time.Duration

	mu    sync.RWMutex
	index int
	subs  map[chan Card]struct{}
}

func NewRotator(cards []Card, interval time.Duration) (*Rotator, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Rotator{
		cards:    append([]Card(nil), cards...),
		interval: interval,
		subs:     make(map[chan Card]struct{}),
	}, nil
}

// Run advances the rotation every interval until ctx is cancelled
func (r *Rotator) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log := logger.FromContext(ctx)
	log.Info("Featured rotation started", "interval", r.interval, "cards", len(r.cards))

	for {
		select {
		case <-ctx.Done():
			log.Info("Featured rotation stopped")
			return
		case <-ticker.C:
			r.advance()
		}
	}
}

func (r *Rotator) Current() Card {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cards[r.index]
}

// Subscribe returns a channel of card changes and a function to stop receiving them
func (r *Rotator) Subscribe() (<-chan Card, func()) {
	ch := make(chan Card, 1)

	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, ch)
			r.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (r *Rotator) advance() Card {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.index = (r.index + 1) % len(r.cards)
	card := r.cards[r.index]

	for ch := range r.subs {
		select {
		case ch <- card:
		default:
		}
	}

	metrics.FeaturedRotations.Inc()
	return card
}
