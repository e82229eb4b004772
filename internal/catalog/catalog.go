// Package catalog holds the static popularity tables that user-agent
// synthesis draws from: device models per market, Android releases with
// their build-tag pools, and Chrome major versions.
package catalog

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/FranksOps/uagen/pkg/weighted"
)

// Market is the geographic device variant axis.
type Market string

const (
	USA    Market = "USA"
	Global Market = "Global"
)

// Markets lists every market in a stable order.
var Markets = []Market{USA, Global}

var ErrIncomplete = errors.New("catalog: incomplete")

// BuildPool describes the plausible build tags for one Android release.
// A tag has the form PREFIX.YYMMDD.NNN, e.g. TP1A.220624.014.
type BuildPool struct {
	Prefixes  []string
	From      time.Time
	To        time.Time
	MaxSerial int
}

func (p BuildPool) days() int {
	return int(p.To.Sub(p.From).Hours()/24) + 1
}

// Size returns the number of distinct tags the pool can produce.
func (p BuildPool) Size() uint64 {
	if len(p.Prefixes) == 0 || p.MaxSerial < 1 || p.To.Before(p.From) {
		return 0
	}
	return uint64(len(p.Prefixes)) * uint64(p.days()) * uint64(p.MaxSerial)
}

// Draw returns a tag chosen uniformly from the pool.
func (p BuildPool) Draw(r *rand.Rand) string {
	prefix := p.Prefixes[r.IntN(len(p.Prefixes))]
	day := p.From.AddDate(0, 0, r.IntN(p.days()))
	serial := r.IntN(p.MaxSerial) + 1
	return fmt.Sprintf("%s.%s.%03d", prefix, day.Format("060102"), serial)
}

// AndroidRelease is an Android major version with its weight and build pool.
type AndroidRelease struct {
	Version int
	Weight  float64
	Builds  BuildPool
}

// Catalog is the full set of tables. It is read-only once built.
type Catalog struct {
	models  map[Market]*weighted.Table[string]
	android *weighted.Table[int]
	builds  map[int]BuildPool
	chrome  *weighted.Table[int]
}

// New assembles a Catalog and checks that every market has models and every
// Android release has a non-empty build pool. chrome maps a Chrome major
// version to its relative weight.
func New(models map[Market][]weighted.Option[string], android []AndroidRelease, chrome map[int]float64) (*Catalog, error) {
	c := &Catalog{
		models: make(map[Market]*weighted.Table[string], len(Markets)),
		builds: make(map[int]BuildPool, len(android)),
	}

	for _, m := range Markets {
		tbl, err := weighted.New(models[m]...)
		if err != nil {
			return nil, fmt.Errorf("%w: %s models: %v", ErrIncomplete, m, err)
		}
		c.models[m] = tbl
	}

	opts := make([]weighted.Option[int], 0, len(android))
	for _, rel := range android {
		if rel.Builds.Size() == 0 {
			return nil, fmt.Errorf("%w: android %d has an empty build pool", ErrIncomplete, rel.Version)
		}
		c.builds[rel.Version] = rel.Builds
		opts = append(opts, weighted.Option[int]{Value: rel.Version, Weight: rel.Weight})
	}

	var err error
	if c.android, err = weighted.New(opts...); err != nil {
		return nil, fmt.Errorf("%w: android versions: %v", ErrIncomplete, err)
	}
	if c.chrome, err = weighted.FromMap(chrome); err != nil {
		return nil, fmt.Errorf("%w: chrome versions: %v", ErrIncomplete, err)
	}

	return c, nil
}

// Model draws a device model for the given market.
func (c *Catalog) Model(r *rand.Rand, m Market) string {
	return c.models[m].Pick(r)
}

// Android draws an Android major version.
func (c *Catalog) Android(r *rand.Rand) int {
	return c.android.Pick(r)
}

// BuildTag draws a build tag belonging to the given Android version.
func (c *Catalog) BuildTag(r *rand.Rand, android int) string {
	return c.builds[android].Draw(r)
}

// Chrome draws a Chrome major version.
func (c *Catalog) Chrome(r *rand.Rand) int {
	return c.chrome.Pick(r)
}

// Capacity returns the number of distinct user-agents the catalog can
// produce. Saturates at math.MaxUint64.
func (c *Catalog) Capacity() uint64 {
	var perModel uint64
	for _, v := range c.android.Values() {
		perModel = satAdd(perModel, c.builds[v].Size())
	}
	perModel = satMul(perModel, uint64(c.chrome.Len()))

	var models uint64
	for _, m := range Markets {
		models += uint64(c.models[m].Len())
	}
	return satMul(perModel, models)
}

func satAdd(a, b uint64) uint64 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint64(0)
}

func satMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if p := a * b; p/b == a {
		return p
	}
	return ^uint64(0)
}
