package numbering

import "testing"

func TestTracker_FirstCallYieldsOne(t *testing.T) {
	tr := NewTracker()
	if got := tr.NextTable("4"); got != "4.1" {
		t.Errorf("expected %q, got %q", "4.1", got)
	}
	if got := tr.NextFigure("4"); got != "4.1" {
		t.Errorf("expected %q, got %q", "4.1", got)
	}
}

func TestTracker_CountersIndependentPerMainSection(t *testing.T) {
	tr := NewTracker()
	tr.NextTable("2")
	tr.NextTable("2")
	if got := tr.NextTable("3"); got != "3.1" {
		t.Errorf("expected %q, got %q", "3.1", got)
	}
	if got := tr.NextTable("2"); got != "2.3" {
		t.Errorf("expected %q, got %q", "2.3", got)
	}
	if tr.Tables("2") != 3 || tr.Tables("3") != 1 {
		t.Errorf("unexpected counts: 2=%d 3=%d", tr.Tables("2"), tr.Tables("3"))
	}
}

func TestTracker_TablesAndFiguresSeparate(t *testing.T) {
	tr := NewTracker()
	tr.NextTable("1")
	tr.NextTable("1")
	if got := tr.NextFigure("1"); got != "1.1" {
		t.Errorf("expected figure %q, got %q", "1.1", got)
	}
	if tr.Figures("1") != 1 {
		t.Errorf("expected 1 figure, got %d", tr.Figures("1"))
	}
}

func TestMainNumber(t *testing.T) {
	tests := map[string]string{
		"4":       "4",
		"4.1":     "4",
		"4.1.2":   "4",
		"12.3.1.": "12",
	}
	for in, want := range tests {
		if got := MainNumber(in); got != want {
			t.Errorf("MainNumber(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestLevelAndChild(t *testing.T) {
	if Level("3") != 1 || Level("3.2") != 2 || Level("3.2.1") != 3 {
		t.Error("unexpected heading levels")
	}
	if got := Child("3.2", 4); got != "3.2.4" {
		t.Errorf("expected %q, got %q", "3.2.4", got)
	}
}
