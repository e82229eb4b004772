// Package generator synthesizes unique Samsung mobile Chrome user-agents.
package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/FranksOps/uagen/internal/catalog"
	"github.com/FranksOps/uagen/internal/storage"
	"github.com/FranksOps/uagen/pkg/weighted"
)

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrGenerationExhausted = errors.New("generation exhausted")
)

// AttemptsPerString is the default retry budget per requested string.
const AttemptsPerString = 100

const uaFormat = "Mozilla/5.0 (Linux; Android %d; %s Build/%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Mobile Safari/537.36"

// Sample is one synthesized user-agent together with the draws behind it.
type Sample struct {
	Market    catalog.Market
	Model     string
	Android   int
	BuildTag  string
	Chrome    int
	UserAgent string
}

// Format renders the user-agent template for the given components.
func Format(android int, model, buildTag string, chrome int) string {
	return fmt.Sprintf(uaFormat, android, model, buildTag, chrome)
}

// Batch is the outcome of one Generate call.
type Batch struct {
	Samples    []Sample
	Attempts   int
	Collisions int
}

// UserAgents returns the generated strings in emission order.
func (b *Batch) UserAgents() []string {
	out := make([]string, len(b.Samples))
	for i, s := range b.Samples {
		out[i] = s.UserAgent
	}
	return out
}

// Config configures a Generator.
type Config struct {
	// Catalog defaults to catalog.Default().
	Catalog *catalog.Catalog
	// Rand defaults to a PCG source seeded from the runtime.
	Rand *rand.Rand
	// MaxAttempts caps total draws per Generate call. Zero means
	// n*AttemptsPerString.
	MaxAttempts int
}

// Generator draws user-agents from a catalog. It is not safe for concurrent
// use; the random source is shared across calls.
type Generator struct {
	cat         *catalog.Catalog
	rng         *rand.Rand
	maxAttempts int
	logger      *slog.Logger
}

// New creates a Generator. A nil logger falls back to slog.Default().
func New(cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{
		cat:         cfg.Catalog,
		rng:         cfg.Rand,
		maxAttempts: cfg.MaxAttempts,
		logger:      logger,
	}
}

// ValidateArgs checks the request parameters of Generate.
func ValidateArgs(n int, usaRatio float64) error {
	if n <= 0 {
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidArgument, n)
	}
	if math.IsNaN(usaRatio) || usaRatio < 0 || usaRatio > 1 {
		return fmt.Errorf("%w: usa ratio must be within [0, 1], got %v", ErrInvalidArgument, usaRatio)
	}
	return nil
}

// Generate produces n user-agents not present in existing, adding each one
// to existing as it is accepted so a batch never repeats itself.
//
// When the attempt budget runs out first, the partial batch is returned
// along with ErrGenerationExhausted.
func (g *Generator) Generate(n int, usaRatio float64, existing *storage.Set) (*Batch, error) {
	if err := ValidateArgs(n, usaRatio); err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: existing set is nil", ErrInvalidArgument)
	}

	markets := weighted.MustNew(
		weighted.Option[catalog.Market]{Value: catalog.USA, Weight: usaRatio},
		weighted.Option[catalog.Market]{Value: catalog.Global, Weight: 1 - usaRatio},
	)

	budget := g.maxAttempts
	if budget <= 0 {
		budget = n * AttemptsPerString
	}

	if capacity := g.cat.Capacity(); uint64(n)+uint64(existing.Len()) > capacity {
		g.logger.Warn("requested count exceeds catalog capacity, generation will exhaust",
			"requested", n, "existing", existing.Len(), "capacity", capacity)
	}

	batch := &Batch{Samples: make([]Sample, 0, n)}
	for len(batch.Samples) < n && batch.Attempts < budget {
		batch.Attempts++

		s := g.draw(markets)
		if !existing.Add(s.UserAgent) {
			batch.Collisions++
			g.logger.Debug("collision, retrying", "ua", s.UserAgent, "attempt", batch.Attempts)
			continue
		}
		batch.Samples = append(batch.Samples, s)
	}

	if len(batch.Samples) < n {
		g.logger.Warn("generation exhausted",
			"generated", len(batch.Samples), "requested", n, "attempts", batch.Attempts)
		return batch, fmt.Errorf("%w: only %d of %d unique user-agents after %d attempts",
			ErrGenerationExhausted, len(batch.Samples), n, batch.Attempts)
	}

	g.logger.Debug("batch complete", "generated", n, "attempts", batch.Attempts, "collisions", batch.Collisions)
	return batch, nil
}

func (g *Generator) draw(markets *weighted.Table[catalog.Market]) Sample {
	s := Sample{Market: markets.Pick(g.rng)}
	s.Model = g.cat.Model(g.rng, s.Market)
	s.Android = g.cat.Android(g.rng)
	s.BuildTag = g.cat.BuildTag(g.rng, s.Android)
	s.Chrome = g.cat.Chrome(g.rng)
	s.UserAgent = Format(s.Android, s.Model, s.BuildTag, s.Chrome)
	return s
}
