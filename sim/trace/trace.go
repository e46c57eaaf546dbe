// Package trace provides Tracker implementations for the sim package: a
// no-op sink, a logrus-backed sink, and a fan-out combinator, plus the
// record types a tracker accumulates and a Summarize aggregator over them.
package trace

import (
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/graphcore-research/gwr/sim"
)

// NullTracker discards everything; IsEnabled always reports false so
// callers skip formatting log messages entirely.
type NullTracker struct {
	alloc uint64
}

// NewNullTracker creates a NullTracker.
func NewNullTracker() *NullTracker { return &NullTracker{} }

func (t *NullTracker) AllocID() sim.Id {
	t.alloc++
	return sim.Id(t.alloc)
}
func (t *NullTracker) AddEntity(sim.Id, string, map[string][]string) error { return nil }
func (t *NullTracker) IsEnabled(sim.Id, sim.LogLevel) bool                 { return false }
func (t *NullTracker) MonitorWindow(sim.Id) (int64, bool)                  { return 0, false }
func (t *NullTracker) Create(sim.Id, string)                               {}
func (t *NullTracker) Destroy(sim.Id, string)                              {}
func (t *NullTracker) Enter(sim.Id, sim.Id, string)                        {}
func (t *NullTracker) Exit(sim.Id, sim.Id, string)                         {}
func (t *NullTracker) Value(sim.Id, string, any)                          {}
func (t *NullTracker) Connect(sim.Id, sim.Id, string)                     {}
func (t *NullTracker) Log(sim.Id, sim.LogLevel, string)                   {}
func (t *NullTracker) Time(float64)                                       {}
func (t *NullTracker) Counter(sim.Id, string, int64)                      {}
func (t *NullTracker) Shutdown() error                                    { return nil }

// entityInfo is what LogrusTracker remembers about a registered entity.
type entityInfo struct {
	fullName string
}

// LogrusTracker backs sim.Tracker with structured logrus fields, filtering
// by entity name regex and level via an embedded sim.Filter, the same
// per-entity override shape the sim package itself defines.
type LogrusTracker struct {
	alloc    uint64
	entities map[sim.Id]entityInfo
	filter   *sim.Filter
	log      *logrus.Logger
}

// NewLogrusTracker creates a LogrusTracker logging through log (or
// logrus.StandardLogger() if nil), applying filter for per-entity level and
// monitoring-window resolution.
func NewLogrusTracker(log *logrus.Logger, filter *sim.Filter) *LogrusTracker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if filter == nil {
		filter = &sim.Filter{DefaultLevel: sim.LogInfo}
	}
	return &LogrusTracker{
		entities: make(map[sim.Id]entityInfo),
		filter:   filter,
		log:      log,
	}
}

func (t *LogrusTracker) AllocID() sim.Id {
	t.alloc++
	return sim.Id(t.alloc)
}

func (t *LogrusTracker) AddEntity(id sim.Id, fullName string, aliases map[string][]string) error {
	if _, exists := t.entities[id]; exists {
		return fmt.Errorf("trace: entity %d already registered", id)
	}
	t.entities[id] = entityInfo{fullName: fullName}
	t.filter.Resolve(id, fullName)
	return nil
}

func (t *LogrusTracker) name(id sim.Id) string {
	if info, ok := t.entities[id]; ok {
		return info.fullName
	}
	return fmt.Sprintf("entity(%d)", id)
}

func (t *LogrusTracker) IsEnabled(id sim.Id, level sim.LogLevel) bool {
	return t.filter.IsEnabled(id, level)
}

func (t *LogrusTracker) MonitorWindow(id sim.Id) (int64, bool) {
	return t.filter.MonitorWindow(id)
}

func (t *LogrusTracker) Create(id sim.Id, fullName string) {
	t.log.WithField("entity", fullName).Debug("[sim] create")
}

func (t *LogrusTracker) Destroy(id sim.Id, fullName string) {
	t.log.WithField("entity", fullName).Debug("[sim] destroy")
}

func (t *LogrusTracker) Enter(id, objID sim.Id, label string) {
	if !t.IsEnabled(id, sim.LogTrace) {
		return
	}
	t.log.WithFields(logrus.Fields{"entity": t.name(id), "object": objID, "port": label}).
		Trace("[sim] enter")
}

func (t *LogrusTracker) Exit(id, objID sim.Id, label string) {
	if !t.IsEnabled(id, sim.LogTrace) {
		return
	}
	t.log.WithFields(logrus.Fields{"entity": t.name(id), "object": objID, "port": label}).
		Trace("[sim] exit")
}

func (t *LogrusTracker) Value(id sim.Id, label string, v any) {
	if _, ok := t.MonitorWindow(id); !ok {
		return
	}
	t.log.WithFields(logrus.Fields{"entity": t.name(id), "metric": label}).Infof("[sim] value=%v", v)
}

func (t *LogrusTracker) Connect(fromID, toID sim.Id, label string) {
	t.log.WithFields(logrus.Fields{"from": t.name(fromID), "to": t.name(toID), "port": label}).
		Debug("[sim] connect")
}

func (t *LogrusTracker) Log(id sim.Id, level sim.LogLevel, msg string) {
	entry := t.log.WithField("entity", t.name(id))
	switch level {
	case sim.LogTrace:
		entry.Trace(msg)
	case sim.LogDebug:
		entry.Debug(msg)
	case sim.LogInfo:
		entry.Info(msg)
	case sim.LogWarn:
		entry.Warn(msg)
	case sim.LogError:
		entry.Error(msg)
	}
}

func (t *LogrusTracker) Time(ns float64) {
	t.log.Debugf("[sim] time_ns=%v", ns)
}

func (t *LogrusTracker) Counter(id sim.Id, name string, v int64) {
	t.log.WithFields(logrus.Fields{"entity": t.name(id), "metric": name}).Infof("[sim] counter+=%d", v)
}

func (t *LogrusTracker) Shutdown() error {
	t.log.Debug("[sim] shutdown")
	return nil
}

// MultiTracker fans every Tracker call out to all of its members, in order.
type MultiTracker struct {
	members []sim.Tracker
}

// NewMultiTracker creates a MultiTracker over members. AllocID is served by
// the first member; the rest must agree to stay in sync, which callers
// ensure by never calling AllocID directly on a member of a MultiTracker.
func NewMultiTracker(members ...sim.Tracker) *MultiTracker {
	return &MultiTracker{members: members}
}

func (t *MultiTracker) AllocID() sim.Id {
	if len(t.members) == 0 {
		return sim.Id(0)
	}
	id := t.members[0].AllocID()
	for _, m := range t.members[1:] {
		m.AllocID()
	}
	return id
}

func (t *MultiTracker) AddEntity(id sim.Id, fullName string, aliases map[string][]string) error {
	for _, m := range t.members {
		if err := m.AddEntity(id, fullName, aliases); err != nil {
			return err
		}
	}
	return nil
}

func (t *MultiTracker) IsEnabled(id sim.Id, level sim.LogLevel) bool {
	for _, m := range t.members {
		if m.IsEnabled(id, level) {
			return true
		}
	}
	return false
}

func (t *MultiTracker) MonitorWindow(id sim.Id) (int64, bool) {
	var remaining int64
	var has bool
	for _, m := range t.members {
		r, ok := m.MonitorWindow(id)
		if ok {
			has = true
			if r > remaining {
				remaining = r
			}
		}
	}
	return remaining, has
}

func (t *MultiTracker) Create(id sim.Id, fullName string) {
	for _, m := range t.members {
		m.Create(id, fullName)
	}
}
func (t *MultiTracker) Destroy(id sim.Id, fullName string) {
	for _, m := range t.members {
		m.Destroy(id, fullName)
	}
}
func (t *MultiTracker) Enter(id, objID sim.Id, label string) {
	for _, m := range t.members {
		m.Enter(id, objID, label)
	}
}
func (t *MultiTracker) Exit(id, objID sim.Id, label string) {
	for _, m := range t.members {
		m.Exit(id, objID, label)
	}
}
func (t *MultiTracker) Value(id sim.Id, label string, v any) {
	for _, m := range t.members {
		m.Value(id, label, v)
	}
}
func (t *MultiTracker) Connect(fromID, toID sim.Id, label string) {
	for _, m := range t.members {
		m.Connect(fromID, toID, label)
	}
}
func (t *MultiTracker) Log(id sim.Id, level sim.LogLevel, msg string) {
	for _, m := range t.members {
		m.Log(id, level, msg)
	}
}
func (t *MultiTracker) Time(ns float64) {
	for _, m := range t.members {
		m.Time(ns)
	}
}
func (t *MultiTracker) Counter(id sim.Id, name string, v int64) {
	for _, m := range t.members {
		m.Counter(id, name, v)
	}
}
func (t *MultiTracker) Shutdown() error {
	for _, m := range t.members {
		if err := m.Shutdown(); err != nil {
			return err
		}
	}
	return nil
}

// PatternLevel is one entry of a NewFilter override list: Pattern is a
// regex matched against an entity's full name, Level is the level to use
// for the first matching entry.
type PatternLevel struct {
	Pattern string
	Level   sim.LogLevel
}

// NewFilter builds a sim.Filter from a default level, an ordered list of
// name-pattern->level overrides (first match wins), and an optional
// monitoring window in ticks (0 disables windowing).
func NewFilter(def sim.LogLevel, overrides []PatternLevel, windowTicks int64) (*sim.Filter, error) {
	out := make([]sim.LevelOverride, 0, len(overrides))
	for _, ov := range overrides {
		re, err := regexp.Compile(ov.Pattern)
		if err != nil {
			return nil, fmt.Errorf("trace: invalid entity pattern %q: %w", ov.Pattern, err)
		}
		out = append(out, sim.LevelOverride{Pattern: re, Level: ov.Level})
	}
	return &sim.Filter{DefaultLevel: def, Overrides: out, WindowTicks: windowTicks}, nil
}
