package match

import (
	"context"
	"log"
	"time"
)

// Run drives the match at its tick rate until ctx is cancelled or the match
// is over.
func (m *Match) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(m.rate))
	defer ticker.Stop()

	log.Printf("[TICK] match %s loop started (%d Hz)", m.ID, m.rate)
	for {
		select {
		case <-ticker.C:
			m.Tick()
			if m.Over() {
				log.Printf("[TICK] match %s loop finished", m.ID)
				return
			}
		case <-ctx.Done():
			log.Printf("[TICK] match %s loop cancelled", m.ID)
			return
		}
	}
}
