package notice

import "testing"

func TestFeedDrainOrder(t *testing.T) {
	f := NewFeed(4)
	f.Notify(Info, "one")
	f.Notify(Error, "two")

	got := f.Drain()
	if len(got) != 2 {
		t.Fatalf("got %d notices, want 2", len(got))
	}
	if got[0].Text != "one" || got[1].Text != "two" {
		t.Errorf("order = %q, %q; want one, two", got[0].Text, got[1].Text)
	}
	if got[1].Level != Error {
		t.Errorf("level = %v, want error", got[1].Level)
	}
	if rest := f.Drain(); len(rest) != 0 {
		t.Errorf("second Drain returned %d notices, want 0", len(rest))
	}
}

func TestFeedDropsOldest(t *testing.T) {
	f := NewFeed(2)
	f.Notify(Info, "a")
	f.Notify(Info, "b")
	f.Notify(Info, "c")

	got := f.Drain()
	if len(got) != 2 || got[0].Text != "b" || got[1].Text != "c" {
		t.Errorf("Drain() = %+v, want [b c]", got)
	}
}

func TestFeedIgnoresEmptyText(t *testing.T) {
	f := NewFeed(2)
	f.Notify(Warning, "")
	if got := f.Drain(); len(got) != 0 {
		t.Errorf("got %d notices, want 0", len(got))
	}
}

func TestFeedWaitSignals(t *testing.T) {
	f := NewFeed(2)
	f.Notify(Success, "saved")
	f.Notify(Success, "saved again")
	select {
	case <-f.Wait():
	default:
		t.Fatal("Wait channel not signaled after Notify")
	}
}

func TestLevelString(t *testing.T) {
	tests := map[Level]string{Info: "info", Success: "success", Warning: "warning", Error: "error"}
	for l, want := range tests {
		if got := l.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", l, got, want)
		}
	}
}
