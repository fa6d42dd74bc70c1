package runtime

import (
	"context"
	"sync"
	"time"
)

// ReadyCheck is a named dependency check.
type ReadyCheck struct {
	Name  string
	Check func(context.Context) error
}

type CheckResult struct {
	Name     string
	Err      error
	Duration time.Duration
}

func (r CheckResult) OK() bool { return r.Err == nil }

// RunChecks runs the checks concurrently, each bounded by timeout, and
// returns their results in the order given. Checks without a func are skipped.
func RunChecks(ctx context.Context, timeout time.Duration, checks ...ReadyCheck) []CheckResult {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	runnable := make([]ReadyCheck, 0, len(checks))
	for _, check := range checks {
		if check.Check != nil {
			runnable = append(runnable, check)
		}
	}

	results := make([]CheckResult, len(runnable))
	var wg sync.WaitGroup
	for i, check := range runnable {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := check.Name
			if name == "" {
				name = "dependency"
			}
			start := time.Now()
			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			err := check.Check(checkCtx)
			results[i] = CheckResult{Name: name, Err: err, Duration: time.Since(start)}
		}()
	}
	wg.Wait()
	return results
}
