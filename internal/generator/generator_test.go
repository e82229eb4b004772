package generator

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/FranksOps/uagen/internal/catalog"
	"github.com/FranksOps/uagen/internal/storage"
	"github.com/FranksOps/uagen/pkg/weighted"
)

var (
	formatRe = regexp.MustCompile(`^Mozilla/5\.0 \(Linux; Android (11|12|13|14); SM-\w+ Build/\S+\) AppleWebKit/537\.36 \(KHTML, like Gecko\) Chrome/(115|116|117|118|119|120|121|122)\.0\.0\.0 Mobile Safari/537\.36$`)
	usaRe    = regexp.MustCompile(`SM-\w+U`)
)

func newTestGenerator(seed uint64) *Generator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}, logger)
}

func TestGenerate_CountUniquenessFormat(t *testing.T) {
	g := newTestGenerator(1)
	existing := storage.NewSet("preexisting-1", "preexisting-2")

	batch, err := g.Generate(500, 0.5, existing)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	uas := batch.UserAgents()
	if len(uas) != 500 {
		t.Fatalf("expected 500 user-agents, got %d", len(uas))
	}

	seen := map[string]bool{"preexisting-1": true, "preexisting-2": true}
	for _, ua := range uas {
		if seen[ua] {
			t.Fatalf("duplicate user-agent: %s", ua)
		}
		seen[ua] = true
		if !formatRe.MatchString(ua) {
			t.Fatalf("malformed user-agent: %s", ua)
		}
	}

	if existing.Len() != 502 {
		t.Errorf("expected existing set to grow to 502, got %d", existing.Len())
	}
	if batch.Attempts < 500 {
		t.Errorf("expected at least 500 attempts, got %d", batch.Attempts)
	}
}

func TestGenerate_SampleMatchesString(t *testing.T) {
	g := newTestGenerator(2)
	batch, err := g.Generate(50, 0.5, storage.NewSet())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, s := range batch.Samples {
		if s.UserAgent != Format(s.Android, s.Model, s.BuildTag, s.Chrome) {
			t.Errorf("sample fields do not render to its user-agent: %+v", s)
		}
		if (s.Market == catalog.USA) != usaRe.MatchString(s.UserAgent) {
			t.Errorf("market %s does not match model %s", s.Market, s.Model)
		}
	}
}

func TestGenerate_Ratio(t *testing.T) {
	const n = 10000
	const r = 0.3

	g := newTestGenerator(3)
	batch, err := g.Generate(n, r, storage.NewSet())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	usa := 0
	for _, ua := range batch.UserAgents() {
		if usaRe.MatchString(ua) {
			usa++
		}
	}

	got := float64(usa) / n
	stderr := math.Sqrt(r * (1 - r) / n)
	if math.Abs(got-r) > 4*stderr {
		t.Errorf("expected USA share %.3f +/- %.4f, got %.4f", r, 4*stderr, got)
	}
}

func TestGenerate_BoundaryRatios(t *testing.T) {
	g := newTestGenerator(4)

	batch, err := g.Generate(300, 0.0, storage.NewSet())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, ua := range batch.UserAgents() {
		if usaRe.MatchString(ua) {
			t.Fatalf("ratio 0.0 produced USA user-agent: %s", ua)
		}
	}

	batch, err = g.Generate(300, 1.0, storage.NewSet())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, ua := range batch.UserAgents() {
		if !usaRe.MatchString(ua) {
			t.Fatalf("ratio 1.0 produced global user-agent: %s", ua)
		}
	}
}

func TestGenerate_InvalidArguments(t *testing.T) {
	g := newTestGenerator(5)

	tests := []struct {
		name  string
		n     int
		ratio float64
	}{
		{"zero count", 0, 0.5},
		{"negative count", -3, 0.5},
		{"ratio below zero", 1, -0.1},
		{"ratio above one", 1, 1.01},
		{"ratio NaN", 1, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := storage.NewSet()
			_, err := g.Generate(tt.n, tt.ratio, existing)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			if existing.Len() != 0 {
				t.Errorf("invalid request must not touch the set")
			}
		})
	}

	if _, err := g.Generate(1, 0.5, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for nil set, got %v", err)
	}
}

// singleCombo builds a catalog that can only ever produce one string per market.
func singleCombo(t *testing.T) *catalog.Catalog {
	t.Helper()
	d := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	c, err := catalog.New(
		map[catalog.Market][]weighted.Option[string]{
			catalog.USA:    {{Value: "SM-S928U", Weight: 1}},
			catalog.Global: {{Value: "SM-S928B", Weight: 1}},
		},
		[]catalog.AndroidRelease{{
			Version: 14,
			Weight:  1,
			Builds:  catalog.BuildPool{Prefixes: []string{"UP1A"}, From: d, To: d, MaxSerial: 1},
		}},
		map[int]float64{122: 1},
	)
	if err != nil {
		t.Fatalf("catalog.New failed: %v", err)
	}
	return c
}

func TestGenerate_Exhausted(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := New(Config{
		Catalog: singleCombo(t),
		Rand:    rand.New(rand.NewPCG(6, 6)),
	}, logger)

	existing := storage.NewSet()
	batch, err := g.Generate(2, 1.0, existing)
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("expected ErrGenerationExhausted, got %v", err)
	}
	if len(batch.Samples) != 1 {
		t.Errorf("expected the single possible string in the partial batch, got %d", len(batch.Samples))
	}
	if batch.Attempts != 2*AttemptsPerString {
		t.Errorf("expected %d attempts, got %d", 2*AttemptsPerString, batch.Attempts)
	}

	want := "Mozilla/5.0 (Linux; Android 14; SM-S928U Build/UP1A.240305.001) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Mobile Safari/537.36"
	if batch.Samples[0].UserAgent != want {
		t.Errorf("unexpected string:\n got %s\nwant %s", batch.Samples[0].UserAgent, want)
	}
}

func TestGenerate_MaxAttempts(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := New(Config{
		Catalog:     singleCombo(t),
		Rand:        rand.New(rand.NewPCG(7, 7)),
		MaxAttempts: 5,
	}, logger)

	existing := storage.NewSet(Format(14, "SM-S928B", "UP1A.240305.001", 122))
	batch, err := g.Generate(1, 0.0, existing)
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("expected ErrGenerationExhausted, got %v", err)
	}
	if batch.Attempts != 5 || batch.Collisions != 5 {
		t.Errorf("expected 5 attempts and collisions, got %d/%d", batch.Attempts, batch.Collisions)
	}
}

func TestGenerate_SeedReproducible(t *testing.T) {
	a, err := newTestGenerator(8).Generate(20, 0.5, storage.NewSet())
	if err != nil {
		t.Fatal(err)
	}
	b, err := newTestGenerator(8).Generate(20, 0.5, storage.NewSet())
	if err != nil {
		t.Fatal(err)
	}

	ua, ub := a.UserAgents(), b.UserAgents()
	for i := range ua {
		if ua[i] != ub[i] {
			t.Fatalf("same seed diverged at %d: %s vs %s", i, ua[i], ub[i])
		}
	}
}
