package ads

import (
	"context"
	"sync"
	"time"

	"github.com/meur/battlebuddy/internal/services"
)

// LocalProvider simulates an ad network: every load succeeds after
// LoadDelay and every shown video is watched to the end.
type LocalProvider struct {
	LoadDelay time.Duration

	mu      sync.Mutex
	handler func(ProviderEvent)
	shown   int
}

func (p *LocalProvider) SetEventHandler(handler func(ProviderEvent)) {
	p.mu.Lock()
	p.handler = handler
	p.mu.Unlock()
}

func (p *LocalProvider) emit(e ProviderEvent) {
	p.mu.Lock()
	h := p.handler
	p.mu.Unlock()
	if h != nil {
		h(e)
	}
}

func (p *LocalProvider) LoadRewardedVideo(ctx context.Context) {
	go func() {
		p.emit(EventLoadStarted)
		select {
		case <-time.After(p.LoadDelay):
			p.emit(EventLoaded)
		case <-ctx.Done():
			p.emit(EventLoadFailed)
		}
	}()
}

func (p *LocalProvider) ShowRewardedVideo(services.Presenter) error {
	p.mu.Lock()
	p.shown++
	p.mu.Unlock()

	go func() {
		p.emit(EventRewarded)
		p.emit(EventDismissed)
	}()
	return nil
}

// Shown returns how many videos were shown
func (p *LocalProvider) Shown() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shown
}
