package engine

import (
	"fmt"
	"sync"
	"time"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalTimeout is the limit in effect; tests shorten it.
var evalTimeout = EvalTimeout

// evalResult passes an evaluation's output through a channel.
type evalResult struct {
	program *Program
	errors  []EvalError
	err     error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds evalTimeout. The generation counter discards
// results of evaluations that a newer call has superseded.
//
// On timeout the goroutine may still be running; its result is dropped
// when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*Program, []EvalError, error) {
	timer := time.NewTimer(evalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.program, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", evalTimeout)
	}
}
