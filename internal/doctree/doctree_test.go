package doctree

import "testing"

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"scope_of_work":        "Scope Of Work",
		"REGULATORY_standards": "Regulatory Standards",
		"émission_totale":      "Émission Totale",
		"ölçüm":                "Ölçüm",
		"pm2_5":                "Pm2 5",
		"":                     "",
	}
	for key, want := range tests {
		if got := Humanize(key); got != want {
			t.Errorf("Humanize(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestDisplayTitle_FallsBackToHumanizedKey(t *testing.T) {
	n := &SectionNode{Key: "émission_data"}
	if got := n.DisplayTitle(); got != "Émission Data" {
		t.Errorf("unexpected title %q", got)
	}
	n.Title = "Emissions"
	if got := n.DisplayTitle(); got != "Emissions" {
		t.Errorf("expected explicit title, got %q", got)
	}
}
