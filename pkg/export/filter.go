package export

// AutomationMode selects which automation class the filter keeps.
type AutomationMode string

const (
	// ModeRegular keeps campaigns whose automation flag is absent, null,
	// or the literal "0".
	ModeRegular AutomationMode = "regular"

	// ModeAutomation keeps campaigns whose automation flag is the
	// literal "1".
	ModeAutomation AutomationMode = "automation"
)

// FilterConfig is the immutable filter configuration for a run. It is
// constructed once at startup and passed by value; there is no process-wide
// filter state.
//
// The two clauses are independent: a disabled clause does not constrain.
// All enabled clauses must pass (conjunction).
type FilterConfig struct {
	// Enabled toggles filtering globally. When false every campaign is
	// kept regardless of the clauses below.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// ByStatus enables the status clause: the campaign's coerced status
	// must equal Status exactly.
	ByStatus bool `json:"byStatus" yaml:"by_status"`
	Status   int  `json:"status" yaml:"status"`

	// ByAutomation enables the automation clause in the given mode.
	ByAutomation   bool           `json:"byAutomation" yaml:"by_automation"`
	AutomationMode AutomationMode `json:"automationMode" yaml:"automation_mode"`
}

// Match reports whether the campaign passes the filter. Pure and
// deterministic: calling it twice with the same inputs yields the same
// result.
func (f FilterConfig) Match(c *Campaign) bool {
	if !f.Enabled {
		return true
	}

	// A campaign without a usable id is never kept, no clause consulted.
	if c.ID.String() == "" {
		return false
	}

	if f.ByStatus {
		if !c.Status.Valid || c.Status.Value != f.Status {
			return false
		}
	}

	if f.ByAutomation {
		switch f.AutomationMode {
		case ModeRegular:
			if c.Automation != AutomationAbsent && c.Automation != AutomationRegular {
				return false
			}
		case ModeAutomation:
			if c.Automation != AutomationEnabled {
				return false
			}
		default:
			// Misconfigured mode keeps nothing rather than everything
			return false
		}
	}

	return true
}
