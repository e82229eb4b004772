// Package audit checks stored user-agents with an independent parser.
package audit

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mssola/useragent"

	"github.com/FranksOps/uagen/internal/catalog"
)

var usaModel = regexp.MustCompile(`SM-\w+U`)

// Result is the outcome of auditing a list of user-agents.
type Result struct {
	Total     int
	ByMarket  map[string]int
	ByAndroid map[int]int
	ByChrome  map[int]int
	// Invalid holds entries that do not parse as Chrome on Android.
	Invalid []string
}

// Entry is the parsed view of one user-agent.
type Entry struct {
	Market  catalog.Market
	Android int
	Chrome  int
	Mobile  bool
}

// Parse classifies ua. ok is false when it is not a Chrome on Android string.
func Parse(ua string) (e Entry, ok bool) {
	p := useragent.New(ua)
	if p.Bot() {
		return e, false
	}

	osVersion, found := strings.CutPrefix(p.OS(), "Android ")
	if !found {
		return e, false
	}
	android, err := strconv.Atoi(majorOf(osVersion))
	if err != nil {
		return e, false
	}

	name, version := p.Browser()
	if name != "Chrome" {
		return e, false
	}
	chrome, err := strconv.Atoi(majorOf(version))
	if err != nil {
		return e, false
	}

	e = Entry{
		Market:  catalog.Global,
		Android: android,
		Chrome:  chrome,
		Mobile:  p.Mobile(),
	}
	if usaModel.MatchString(ua) {
		e.Market = catalog.USA
	}
	return e, true
}

func majorOf(version string) string {
	major, _, _ := strings.Cut(version, ".")
	return major
}

// Audit parses every entry and tallies the distribution.
func Audit(uas []string) Result {
	r := Result{
		ByMarket:  make(map[string]int),
		ByAndroid: make(map[int]int),
		ByChrome:  make(map[int]int),
	}

	for _, ua := range uas {
		r.Total++
		e, ok := Parse(ua)
		if !ok {
			r.Invalid = append(r.Invalid, ua)
			continue
		}
		r.ByMarket[string(e.Market)]++
		r.ByAndroid[e.Android]++
		r.ByChrome[e.Chrome]++
	}

	return r
}
