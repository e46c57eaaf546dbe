package trace

import "github.com/graphcore-research/gwr/sim"

// Record is one accumulated trace event.
type Record struct {
	EntityID sim.Id
	Kind     string // "create", "destroy", "enter", "exit", "connect", "log", "value", "time", "counter"
	Label    string
	TimeNs   float64
	Value    float64
}

// RecordingTracker is a sim.Tracker that accumulates every event as a
// Record instead of logging it, for tests and offline summary that want to
// inspect exactly what the core emitted.
type RecordingTracker struct {
	NullTracker
	records []Record
	nowNs   float64
}

// NewRecordingTracker creates a RecordingTracker.
func NewRecordingTracker() *RecordingTracker { return &RecordingTracker{} }

// Records returns every event recorded so far, in emission order.
func (t *RecordingTracker) Records() []Record { return t.records }

func (t *RecordingTracker) append(id sim.Id, kind, label string, value float64) {
	t.records = append(t.records, Record{EntityID: id, Kind: kind, Label: label, TimeNs: t.nowNs, Value: value})
}

func (t *RecordingTracker) Create(id sim.Id, fullName string)  { t.append(id, "create", fullName, 0) }
func (t *RecordingTracker) Destroy(id sim.Id, fullName string) { t.append(id, "destroy", fullName, 0) }
func (t *RecordingTracker) Enter(id, objID sim.Id, label string) {
	t.append(id, "enter", label, float64(objID))
}
func (t *RecordingTracker) Exit(id, objID sim.Id, label string) {
	t.append(id, "exit", label, float64(objID))
}
func (t *RecordingTracker) Connect(fromID, toID sim.Id, label string) {
	t.append(fromID, "connect", label, float64(toID))
}
func (t *RecordingTracker) Log(id sim.Id, level sim.LogLevel, msg string) {
	t.append(id, "log", msg, float64(level))
}
func (t *RecordingTracker) Value(id sim.Id, label string, v any) {
	f, _ := v.(float64)
	t.append(id, "value", label, f)
}
func (t *RecordingTracker) Counter(id sim.Id, name string, v int64) {
	t.append(id, "counter", name, float64(v))
}
func (t *RecordingTracker) Time(ns float64) {
	t.nowNs = ns
	t.append(sim.Id(0), "time", "", ns)
}
