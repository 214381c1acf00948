package processor

import (
	"net/http"
	"sync"

	"github.com/woozymasta/orthomap/internal/config"
	"github.com/woozymasta/orthomap/internal/geo"

	"github.com/rs/zerolog/log"
)

type job struct {
	Source config.Source
	Index  int
}

type result struct {
	Samples []geo.Sample
	Index   int
}

// LoadAll loads every source with up to concurrency parallel workers.
// Sources that fail are logged and skipped. Samples keep source order.
func LoadAll(client *http.Client, sources []config.Source, concurrency int) []geo.Sample {
	if concurrency <= 0 {
		concurrency = 1
	}

	jobs := make(chan job, len(sources))
	results := make(chan result, len(sources))

	go func() {
		for i, src := range sources {
			jobs <- job{Source: src, Index: i}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				samples, err := LoadSamples(client, j.Source)
				if err != nil {
					log.Error().
						Err(err).
						Str("source", j.Source.Name).
						Msg("Failed to load samples")

					continue
				}
				results <- result{Samples: samples, Index: j.Index}
			}
		}()
	}
	wg.Wait()
	close(results)

	ordered := make([][]geo.Sample, len(sources))
	total := 0
	for res := range results {
		ordered[res.Index] = res.Samples
		total += len(res.Samples)
	}

	all := make([]geo.Sample, 0, total)
	for _, samples := range ordered {
		all = append(all, samples...)
	}

	log.Info().
		Int("sources", len(sources)).
		Int("samples", len(all)).
		Msg("Samples loaded")

	return all
}
