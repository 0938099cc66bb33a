package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// pusher runs fire-and-forget remote pushes. The standing ordering
// guarantee is local-write-then-remote-push, never the reverse; a failed
// push leaves the record unsynced until the next reconciliation pass, so
// failures here are logged and swallowed.
type pusher struct {
	wg sync.WaitGroup
}

func (p *pusher) push(what string, fn func(context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Printf("Remote push failed (%s), record stays unsynced until next reconciliation: %v", what, err)
		}
	}()
}

// wait blocks until every in-flight push has finished. Tests use it to make
// the asynchronous pushes deterministic.
func (p *pusher) wait() {
	p.wg.Wait()
}
