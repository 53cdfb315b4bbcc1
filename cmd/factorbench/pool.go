package main

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/tomb.v2"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/prof"
)

type job struct {
	index int
	rep   int
	name  string
	run   runner
}

type result struct {
	index int
	rep   int
	dur   time.Duration
	out   outcome
	err   error
}

// runJobs factors every job on a pool of workers. Each job draws from its
// own generator seeded from seed, index and rep, so a run is reproducible
// regardless of scheduling. With failFast the first error stops the pool;
// otherwise errors are reported per result.
func runJobs(workers int, seed int64, jobs []job, failFast bool) ([]result, error) {
	if workers < 1 {
		workers = 1
	}
	var t tomb.Tomb
	in := make(chan job)
	results := make(chan result, len(jobs))

	t.Go(func() error {
		defer close(in)
		for _, j := range jobs {
			select {
			case in <- j:
			case <-t.Dying():
				return nil
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		t.Go(func() error {
			for j := range in {
				rnd := domain.NewSeededRNG(seed + int64(j.index)*1000003 + int64(j.rep))
				start := time.Now()
				out, err := j.run(rnd)
				prof.Track(start, j.name)
				if err != nil {
					if failFast {
						return errors.Wrapf(err, "repetition %d", j.rep)
					}
					log.Warnf("%s repetition %d: %v", j.name, j.rep, err)
				}
				results <- result{index: j.index, rep: j.rep, dur: time.Since(start), out: out, err: err}
			}
			return nil
		})
	}
	err := t.Wait()
	close(results)

	var out []result
	for r := range results {
		out = append(out, r)
	}
	return out, err
}
