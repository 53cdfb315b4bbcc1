// Command factorbench times multivariate factorizations described in a TOML
// file, keeps the latest summary of each case in a leveldb store and renders
// an HTML report comparing the run with the previous one.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/tueda/rings/internal/metrics"
	"github.com/tueda/rings/prof"
)

var (
	configFile = flag.String("config", "factorbench.toml", "benchmark definition")
	workers    = flag.Int("workers", DefaultWorkers, "concurrent factorizations")
	reps       = flag.Int("reps", DefaultRepetitions, "repetitions per case")
	seed       = flag.Int64("seed", DefaultSeed, "random seed")
	outDir     = flag.String("out", DefaultOutDir, "report directory")
	dbPath     = flag.String("db", DefaultDBPath, "leveldb results store")
	failFast   = flag.Bool("fail-fast", false, "stop at the first failing case")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if err := run(); err != nil {
		log.Fatalf("%+v", err)
	}
}

// applyFlags overrides the settings with the flags given on the command
// line.
func applyFlags(s *Settings) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			s.Bench.Workers = *workers
		case "reps":
			s.Bench.Repetitions = *reps
		case "seed":
			s.Bench.Seed = *seed
		case "out":
			s.Bench.Out = *outDir
		case "db":
			s.Bench.DB = *dbPath
		}
	})
}

func run() error {
	data, err := os.ReadFile(*configFile)
	if err != nil {
		return errors.WithStack(err)
	}
	settings, err := ParseSettings(string(data))
	if err != nil {
		return errors.Wrapf(err, "parse %s", *configFile)
	}
	applyFlags(settings)

	reg := prometheus.NewRegistry()
	metrics.Register(reg)

	summaries, samples, err := bench(settings)
	if err != nil {
		return err
	}

	st, err := openStore(settings.Bench.DB)
	if err != nil {
		return err
	}
	defer st.Close()
	previous := make([]*caseSummary, len(summaries))
	for i, cs := range summaries {
		prev, err := st.previous(cs.Fingerprint)
		if err != nil {
			return err
		}
		previous[i] = prev
		if prev == nil {
			log.Infof("%s: median %.3fms, %d factors", cs.Name, cs.Millis.Median, cs.Factors)
			continue
		}
		log.Infof("%s: median %.3fms (was %.3fms on %s), %d factors",
			cs.Name, cs.Millis.Median, prev.Millis.Median, prev.Time.Format(time.RFC3339), cs.Factors)
		if prev.Factors != cs.Factors && cs.Failures == 0 {
			log.Warnf("%s: factor count changed from %d to %d", cs.Name, prev.Factors, cs.Factors)
		}
	}
	if err := st.save(summaries); err != nil {
		return err
	}

	path, err := writeReport(settings.Bench.Out, summaries, previous, samples)
	if err != nil {
		return err
	}
	log.Infof("report written to %s", path)
	return logMetrics(reg)
}

// bench runs every case and summarizes the timings per case. samples holds
// the individual timings in milliseconds.
func bench(s *Settings) ([]caseSummary, map[string][]float64, error) {
	var jobs []job
	for i := range s.Cases {
		c := &s.Cases[i]
		fn, err := c.Runner(s.Bench.Seed)
		if err != nil {
			return nil, nil, err
		}
		for rep := 0; rep < s.Bench.Repetitions; rep++ {
			jobs = append(jobs, job{index: i, rep: rep, name: c.Name, run: fn})
		}
	}
	log.Infof("running %d cases, %d repetitions each, on %d workers",
		len(s.Cases), s.Bench.Repetitions, s.Bench.Workers)

	prof.SnapshotAndReset()
	results, err := runJobs(s.Bench.Workers, s.Bench.Seed, jobs, *failFast)
	if err != nil {
		return nil, nil, err
	}
	_, durs := prof.ByLabel(prof.SnapshotAndReset())

	now := time.Now().UTC()
	summaries := make([]caseSummary, len(s.Cases))
	samples := make(map[string][]float64, len(s.Cases))
	for i := range s.Cases {
		c := &s.Cases[i]
		fp, err := c.Fingerprint()
		if err != nil {
			return nil, nil, err
		}
		samples[c.Name] = millis(durs[c.Name])
		summaries[i] = caseSummary{
			Name:        c.Name,
			Fingerprint: fp,
			Time:        now,
			Millis:      computeStats(samples[c.Name]),
		}
	}
	for _, r := range results {
		cs := &summaries[r.index]
		if r.err != nil {
			cs.Failures++
			continue
		}
		cs.Factors = r.out.Factors
		cs.Degrees = r.out.Degrees
	}
	return summaries, samples, nil
}

func logMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return errors.WithStack(err)
	}
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
		log.Infof("%s: %g", mf.GetName(), total)
	}
	return nil
}
