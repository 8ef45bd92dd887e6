package notify

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/rtdcconfig/internal/config/value"
)

func TestChangeType_String(t *testing.T) {
	tests := []struct {
		ct   ChangeType
		want string
	}{
		{ChangeSet, "set"},
		{ChangeDelete, "delete"},
		{ChangeType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.ct, got, tt.want)
		}
	}
}

func TestDiff(t *testing.T) {
	before := value.Table{
		"setup": {
			"medium":    value.String("water"),
			"flow rate": value.Float(0.04),
		},
		"user": {"gone": value.Int(1)},
	}
	after := value.Table{
		"setup": {
			"medium":    value.String("CellCarrier"),
			"flow rate": value.Float(0.04),
		},
		"imaging": {"pixel size": value.Float(0.34)},
	}

	want := []Change{
		{Section: "imaging", Key: "pixel size", Type: ChangeSet, New: value.Float(0.34), Source: "f"},
		{Section: "setup", Key: "medium", Type: ChangeSet, Old: value.String("water"), New: value.String("CellCarrier"), Source: "f"},
		{Section: "user", Key: "gone", Type: ChangeDelete, Old: value.Int(1), Source: "f"},
	}
	if diff := cmp.Diff(want, Diff(before, after, "f")); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}

	if got := Diff(after, after.Clone(), ""); len(got) != 0 {
		t.Errorf("identical tables produced %v", got)
	}
}

func TestNotifier_Subscriptions(t *testing.T) {
	n := New()
	defer n.Close()

	var all, setup []string
	sub := n.Subscribe(func(c Change) { all = append(all, c.Section+":"+c.Key) })
	n.SubscribeSection("setup", func(c Change) { setup = append(setup, c.Key) })

	count := n.Publish([]Change{
		{Section: "setup", Key: "medium"},
		{Section: "imaging", Key: "pixel size"},
	})
	if count != 2 {
		t.Errorf("Publish = %d, want 2", count)
	}

	if diff := cmp.Diff([]string{"setup:medium", "imaging:pixel size"}, all); diff != "" {
		t.Errorf("global observer mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"medium"}, setup); diff != "" {
		t.Errorf("section observer mismatch (-want +got):\n%s", diff)
	}

	sub.Unsubscribe()
	n.Notify(Change{Section: "setup", Key: "flow rate"})
	if len(all) != 2 {
		t.Error("unsubscribed observer was called")
	}
	if len(setup) != 2 {
		t.Error("section observer missed a change")
	}
}

func TestNotifier_Close(t *testing.T) {
	n := New()
	called := false
	n.Subscribe(func(Change) { called = true })

	n.Close()
	n.Close()
	n.Notify(Change{Section: "setup"})
	if called {
		t.Error("observer called after Close")
	}
}
