package export

import (
	"testing"
)

func TestFilterConfig_Match_Disabled(t *testing.T) {
	filter := FilterConfig{Enabled: false, ByStatus: true, Status: 5}

	// Disabled filtering keeps everything, even records without an id
	campaigns := []*Campaign{
		{ID: "1", Status: FlexInt{Value: 5, Valid: true}},
		{ID: "2", Status: FlexInt{Value: 3, Valid: true}},
		{ID: ""},
	}

	for _, c := range campaigns {
		if !filter.Match(c) {
			t.Errorf("Match(%q) = false, want true with filtering disabled", c.ID)
		}
	}
}

func TestFilterConfig_Match_MissingID(t *testing.T) {
	filter := FilterConfig{Enabled: true}

	if filter.Match(&Campaign{ID: ""}) {
		t.Error("Campaign without id should never pass an enabled filter")
	}
	if !filter.Match(&Campaign{ID: "1"}) {
		t.Error("Campaign with id should pass when no clause is enabled")
	}
}

func TestFilterConfig_Match_StatusClause(t *testing.T) {
	filter := FilterConfig{Enabled: true, ByStatus: true, Status: 5}

	tests := []struct {
		name   string
		status FlexInt
		want   bool
	}{
		{
			name:   "exact match",
			status: FlexInt{Value: 5, Valid: true},
			want:   true,
		},
		{
			name:   "different status",
			status: FlexInt{Value: 3, Valid: true},
			want:   false,
		},
		{
			name:   "unusable status",
			status: FlexInt{},
			want:   false,
		},
		{
			name:   "zero status vs nonzero wanted",
			status: FlexInt{Value: 0, Valid: true},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Campaign{ID: "1", Status: tt.status}
			if got := filter.Match(c); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterConfig_Match_AutomationClause(t *testing.T) {
	tests := []struct {
		name string
		mode AutomationMode
		flag AutomationFlag
		want bool
	}{
		{
			name: "regular mode keeps absent flag",
			mode: ModeRegular,
			flag: AutomationAbsent,
			want: true,
		},
		{
			name: "regular mode keeps explicit zero",
			mode: ModeRegular,
			flag: AutomationRegular,
			want: true,
		},
		{
			name: "regular mode rejects automation",
			mode: ModeRegular,
			flag: AutomationEnabled,
			want: false,
		},
		{
			name: "regular mode rejects unknown",
			mode: ModeRegular,
			flag: AutomationUnknown,
			want: false,
		},
		{
			name: "automation mode keeps enabled",
			mode: ModeAutomation,
			flag: AutomationEnabled,
			want: true,
		},
		{
			name: "automation mode rejects absent",
			mode: ModeAutomation,
			flag: AutomationAbsent,
			want: false,
		},
		{
			name: "automation mode rejects explicit zero",
			mode: ModeAutomation,
			flag: AutomationRegular,
			want: false,
		},
		{
			name: "automation mode rejects unknown",
			mode: ModeAutomation,
			flag: AutomationUnknown,
			want: false,
		},
		{
			name: "misconfigured mode keeps nothing",
			mode: AutomationMode("bogus"),
			flag: AutomationAbsent,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := FilterConfig{Enabled: true, ByAutomation: true, AutomationMode: tt.mode}
			c := &Campaign{ID: "1", Automation: tt.flag}
			if got := filter.Match(c); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterConfig_Match_Conjunction(t *testing.T) {
	filter := FilterConfig{
		Enabled:        true,
		ByStatus:       true,
		Status:         5,
		ByAutomation:   true,
		AutomationMode: ModeRegular,
	}

	tests := []struct {
		name     string
		campaign Campaign
		want     bool
	}{
		{
			name:     "both clauses pass",
			campaign: Campaign{ID: "1", Status: FlexInt{Value: 5, Valid: true}, Automation: AutomationAbsent},
			want:     true,
		},
		{
			name:     "status fails",
			campaign: Campaign{ID: "1", Status: FlexInt{Value: 3, Valid: true}, Automation: AutomationAbsent},
			want:     false,
		},
		{
			name:     "automation fails",
			campaign: Campaign{ID: "1", Status: FlexInt{Value: 5, Valid: true}, Automation: AutomationEnabled},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.Match(&tt.campaign); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestFilterConfig_Match_Deterministic ensures repeated evaluation of the
// same campaign never changes the verdict.
func TestFilterConfig_Match_Deterministic(t *testing.T) {
	filter := FilterConfig{
		Enabled:        true,
		ByStatus:       true,
		Status:         5,
		ByAutomation:   true,
		AutomationMode: ModeRegular,
	}
	c := &Campaign{ID: "1", Status: FlexInt{Value: 5, Valid: true}, Automation: AutomationRegular}

	first := filter.Match(c)
	for i := 0; i < 100; i++ {
		if filter.Match(c) != first {
			t.Fatal("Match verdict changed across evaluations")
		}
	}
}
