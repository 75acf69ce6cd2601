/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modes

import "sync"

// ecbBatchBlocks is the number of blocks handed to a worker at a time.
const ecbBatchBlocks = 256

// blockPool runs functions on at most a fixed number of goroutines. A
// buffered channel acts as a counting semaphore: Go blocks until a permit
// is available.
type blockPool struct {
	permits chan struct{}
	wg      sync.WaitGroup
}

func newBlockPool(workers int) *blockPool {
	if workers <= 0 {
		panic("workers must be greater than 0")
	}
	return &blockPool{permits: make(chan struct{}, workers)}
}

// Go acquires a permit and runs fn on a new goroutine. The permit is
// released when fn returns.
func (p *blockPool) Go(fn func()) {
	p.permits <- struct{}{}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.release()
		fn()
	}()
}

func (p *blockPool) release() {
	select {
	case <-p.permits:
	default:
		panic("block pool permits are empty")
	}
}

// Wait blocks until every function started with Go has returned.
func (p *blockPool) Wait() {
	p.wg.Wait()
}
