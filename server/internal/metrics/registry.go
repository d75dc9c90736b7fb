package metrics

import (
	"net/http"
	"sort"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// Metric names.
const (
	MatchesActive         = "dlc_matches_active"
	MatchesCreated        = "dlc_matches_created_total"
	InterruptionsRecorded = "dlc_interruptions_recorded_total"
	TargetsComputed       = "dlc_targets_computed_total"
	Errors                = "dlc_errors_total"
)

// Registry accumulates server counters.
type Registry struct {
	mu            sync.Mutex
	created       float64
	targets       float64
	interruptions map[string]float64 // by innings
	errors        map[string]float64 // by error kind
	active        func() int
}

// New returns an empty Registry. active, if non-nil, is sampled on every
// scrape for the dlc_matches_active gauge.
func New(active func() int) *Registry {
	return &Registry{
		interruptions: make(map[string]float64),
		errors:        make(map[string]float64),
		active:        active,
	}
}

// MatchCreated counts one new match.
func (r *Registry) MatchCreated() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.created++
	r.mu.Unlock()
}

// InterruptionRecorded counts one stoppage in the named innings.
func (r *Registry) InterruptionRecorded(innings string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.interruptions[innings]++
	r.mu.Unlock()
}

// TargetComputed counts one revised target.
func (r *Registry) TargetComputed() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.targets++
	r.mu.Unlock()
}

// Error counts one failed operation of the given kind.
func (r *Registry) Error(kind string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.errors[kind]++
	r.mu.Unlock()
}

// Families returns the current metric families, sorted by name.
func (r *Registry) Families() []*dto.MetricFamily {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var active float64
	if r.active != nil {
		active = float64(r.active())
	}

	mfs := []*dto.MetricFamily{
		gaugeFamily(MatchesActive, "Matches currently held in memory.", active),
		counterFamily(MatchesCreated, "Matches created since start.", "", map[string]float64{"": r.created}),
		counterFamily(InterruptionsRecorded, "Stoppages recorded, by innings.", "innings", r.interruptions),
		counterFamily(TargetsComputed, "Revised targets computed.", "", map[string]float64{"": r.targets}),
		counterFamily(Errors, "Failed operations, by error kind.", "kind", r.errors),
	}
	sort.Slice(mfs, func(i, j int) bool { return mfs[i].GetName() < mfs[j].GetName() })
	return mfs
}

// ServeHTTP writes all families in the Prometheus text format.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	for _, mf := range r.Families() {
		// Labelled counters have no series until first use.
		if len(mf.GetMetric()) == 0 {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return
		}
	}
}

func gaugeFamily(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{
			Gauge: &dto.Gauge{Value: proto.Float64(v)},
		}},
	}
}

// counterFamily builds a counter family. An empty label name means a single
// unlabelled series keyed by "".
func counterFamily(name, help, label string, values map[string]float64) *dto.MetricFamily {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mf := &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for _, k := range keys {
		m := &dto.Metric{Counter: &dto.Counter{Value: proto.Float64(values[k])}}
		if label != "" {
			m.Label = []*dto.LabelPair{{Name: proto.String(label), Value: proto.String(k)}}
		}
		mf.Metric = append(mf.Metric, m)
	}
	return mf
}
