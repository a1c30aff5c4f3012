package ledger

import (
	"fmt"
	"time"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

type entry struct {
	approved   bool
	adjusted   bool
	voltage    string // catalog key, empty while unassigned
	approvedBy string
	approvedAt time.Time
}

// Ledger tracks approval and voltage assignment per file. Every approved file
// holds exactly one catalog voltage and no voltage is held by two files.
// Ledger is not safe for concurrent use; the owning session serializes access.
type Ledger struct {
	order   []string
	entries map[string]*entry
	bound   map[string]string // voltage key -> file name

	now func() time.Time
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{
		entries: make(map[string]*entry),
		bound:   make(map[string]string),
		now:     time.Now,
	}
}

// Register adds a file in processing order. Registering a known file is a no-op.
func (l *Ledger) Register(fileName string) bool {
	if _, ok := l.entries[fileName]; ok {
		return false
	}
	l.order = append(l.order, fileName)
	l.entries[fileName] = &entry{}
	return true
}

// Has reports whether the file is registered
func (l *Ledger) Has(fileName string) bool {
	_, ok := l.entries[fileName]
	return ok
}

// Files returns file names in processing order
func (l *Ledger) Files() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Approve binds voltage to the file and marks it approved. The voltage must be
// in the catalog and not held by another file; re-approving an approved file
// moves it to the new voltage. Returns the next unapproved file, or "" when
// there is none.
func (l *Ledger) Approve(fileName string, voltage float64, approvedBy string) (string, error) {
	e, ok := l.entries[fileName]
	if !ok {
		return "", fmt.Errorf("%w: %s", analysis.ErrUnknownFile, fileName)
	}

	canonical, ok := CatalogVoltage(voltage)
	if !ok {
		return "", fmt.Errorf("%w: %g V is not in the catalog", analysis.ErrInvalidVoltage, voltage)
	}
	key := voltageKey(canonical)
	if holder, taken := l.bound[key]; taken && holder != fileName {
		return "", fmt.Errorf("%w: %g V is already assigned to %s", analysis.ErrInvalidVoltage, canonical, holder)
	}

	l.release(e)
	e.approved = true
	e.voltage = key
	e.approvedBy = approvedBy
	e.approvedAt = l.now()
	l.bound[key] = fileName

	return l.NextUnapproved(fileName), nil
}

// MarkAdjusted records a manual edit of the file's ramps. An approved file is
// unapproved and its voltage returns to the pool.
func (l *Ledger) MarkAdjusted(fileName string) error {
	e, ok := l.entries[fileName]
	if !ok {
		return fmt.Errorf("%w: %s", analysis.ErrUnknownFile, fileName)
	}
	e.adjusted = true
	l.release(e)
	return nil
}

// Revoke withdraws the file's approval and frees its voltage
func (l *Ledger) Revoke(fileName string) error {
	e, ok := l.entries[fileName]
	if !ok {
		return fmt.Errorf("%w: %s", analysis.ErrUnknownFile, fileName)
	}
	l.release(e)
	return nil
}

// Reset returns the file to its freshly ingested state
func (l *Ledger) Reset(fileName string) error {
	e, ok := l.entries[fileName]
	if !ok {
		return fmt.Errorf("%w: %s", analysis.ErrUnknownFile, fileName)
	}
	l.release(e)
	e.adjusted = false
	return nil
}

func (l *Ledger) release(e *entry) {
	if e.voltage != "" {
		delete(l.bound, e.voltage)
	}
	e.approved = false
	e.voltage = ""
	e.approvedBy = ""
	e.approvedAt = time.Time{}
}

// NextUnapproved returns the first unapproved file in processing order other
// than exclude, or "" when every other file is approved
func (l *Ledger) NextUnapproved(exclude string) string {
	for _, name := range l.order {
		if name == exclude {
			continue
		}
		if !l.entries[name].approved {
			return name
		}
	}
	return ""
}

// Entry returns the state of one file
func (l *Ledger) Entry(fileName string) (models.LedgerEntry, bool) {
	e, ok := l.entries[fileName]
	if !ok {
		return models.LedgerEntry{}, false
	}
	return toModel(fileName, e), true
}

func toModel(fileName string, e *entry) models.LedgerEntry {
	out := models.LedgerEntry{
		FileName:         fileName,
		Approved:         e.approved,
		ManuallyAdjusted: e.adjusted,
		ApprovedBy:       e.approvedBy,
	}
	if e.voltage != "" {
		v := catalogIndex[e.voltage]
		out.Voltage = &v
	}
	if !e.approvedAt.IsZero() {
		at := e.approvedAt
		out.ApprovedAt = &at
	}
	return out
}

// AvailableVoltages returns catalog voltages not held by any file, ascending
func (l *Ledger) AvailableVoltages() []float64 {
	out := make([]float64, 0, len(Catalog))
	for _, v := range Catalog {
		if _, taken := l.bound[voltageKey(v)]; !taken {
			out = append(out, v)
		}
	}
	return out
}

// AssignedVoltages returns catalog voltages currently held, ascending
func (l *Ledger) AssignedVoltages() []float64 {
	out := make([]float64, 0, len(l.bound))
	for _, v := range Catalog {
		if _, taken := l.bound[voltageKey(v)]; taken {
			out = append(out, v)
		}
	}
	return out
}

// Bindings returns the approved files and their voltages in processing order
func (l *Ledger) Bindings() []models.Binding {
	var out []models.Binding
	for _, name := range l.order {
		e := l.entries[name]
		if e.approved && e.voltage != "" {
			out = append(out, models.Binding{FileName: name, Voltage: catalogIndex[e.voltage]})
		}
	}
	return out
}

// Snapshot returns a copy of the whole ledger
func (l *Ledger) Snapshot() models.LedgerSnapshot {
	entries := make([]models.LedgerEntry, 0, len(l.order))
	for _, name := range l.order {
		entries = append(entries, toModel(name, l.entries[name]))
	}
	return models.LedgerSnapshot{
		Entries:           entries,
		AvailableVoltages: l.AvailableVoltages(),
		AssignedVoltages:  l.AssignedVoltages(),
	}
}

// Check verifies the approval/voltage bijection
func (l *Ledger) Check() error {
	approved := 0
	for _, name := range l.order {
		e := l.entries[name]
		if e.approved != (e.voltage != "") {
			return fmt.Errorf("ledger: %s approved=%t with voltage %q", name, e.approved, e.voltage)
		}
		if !e.approved {
			continue
		}
		approved++
		if holder := l.bound[e.voltage]; holder != name {
			return fmt.Errorf("ledger: %s holds %s V but the pool says %q", name, e.voltage, holder)
		}
	}
	if approved != len(l.bound) {
		return fmt.Errorf("ledger: %d approved files but %d bound voltages", approved, len(l.bound))
	}
	return nil
}
