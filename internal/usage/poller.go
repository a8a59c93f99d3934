package usage

import (
	"context"
	"sync"
	"time"

	"github.com/J-Palomino/flow-actions-sub000/internal/logger"
	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

// DeliveryMode selects how a poller receives fresh samples
type DeliveryMode string

const (
	// DeliverPull polls the gateway on a fixed cadence
	DeliverPull DeliveryMode = "pull"
	// DeliverPush accepts samples fed by an external event source
	DeliverPush DeliveryMode = "push"
)

// Poller is the one scheduled task per vault that keeps the pending sample
// fresh. Pull mode polls the engine on an interval; push mode drains samples
// fed through Feed. Both share the same sample sink (the engine's cache).
//
// Start and Stop are idempotent: starting a running poller or stopping a
// stopped one is a no-op, never an error.
type Poller struct {
	engine       *Engine
	vaultID      uint64
	credentialID string
	mode         DeliveryMode
	interval     time.Duration
	log          *logger.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
	feed    chan model.UsagePendingSample
}

// NewPoller creates a poller for one vault/credential pair
func NewPoller(engine *Engine, vaultID uint64, credentialID string, mode DeliveryMode, interval time.Duration) *Poller {
	return &Poller{
		engine:       engine,
		vaultID:      vaultID,
		credentialID: credentialID,
		mode:         mode,
		interval:     interval,
		log:          logger.New("usage-poller"),
		feed:         make(chan model.UsagePendingSample, 16),
	}
}

// Start launches the task. No-op if already running.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	p.running = true
	p.stop = make(chan struct{})
	p.done = make(chan struct{})

	p.engine.Bind(p.vaultID, p.credentialID)
	go p.run(p.stop, p.done)

	p.log.Info(p.vaultID, "poller started", map[string]interface{}{
		"mode":     string(p.mode),
		"interval": p.interval.String(),
	})
}

// Stop halts the task and waits for it to exit. No-op if not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stop)
	done := p.done
	p.mu.Unlock()

	<-done
	p.log.Info(p.vaultID, "poller stopped", nil)
}

// Feed hands a push-delivered sample to the task. Ignored in pull mode.
func (p *Poller) Feed(sample model.UsagePendingSample) {
	if p.mode != DeliverPush {
		return
	}
	select {
	case p.feed <- sample:
	default:
		// Slow consumer: pending samples are absolute, dropping one only
		// means the next supersedes it sooner
	}
}

func (p *Poller) run(stop, done chan struct{}) {
	defer close(done)

	if p.mode == DeliverPush {
		for {
			select {
			case <-stop:
				return
			case sample := <-p.feed:
				p.engine.mu.Lock()
				p.engine.samples[p.credentialID] = sample
				p.engine.mu.Unlock()
			}
		}
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), p.interval)
			_, err := p.engine.GetPendingSample(ctx, p.credentialID)
			cancel()
			if err != nil {
				p.log.Warn(p.vaultID, "pending sample refresh failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
