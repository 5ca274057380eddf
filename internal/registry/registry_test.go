package registry

import (
	"strings"
	"sync"
	"testing"

	"github.com/shieldgate/widgethost/internal/boundary"
	"github.com/shieldgate/widgethost/internal/dom"
	"github.com/shieldgate/widgethost/internal/shared/id"
	"github.com/shieldgate/widgethost/internal/shared/types"
)

func newRecord(t *testing.T) (*Record, *dom.Element) {
	t.Helper()

	doc, err := dom.Parse(strings.NewReader(`<div id="slot" data-sitekey="k"></div>`))
	if err != nil {
		t.Fatal(err)
	}
	container := doc.QueryFirst("#slot")

	cfg := types.DefaultConfig()
	cfg.Sitekey = "k"

	factory := boundary.NewFactory("https://challenges.shieldgate.io", nil)
	frame, err := factory.Create(id.NewWidgetID(), cfg, container)
	if err != nil {
		t.Fatal(err)
	}

	return &Record{
		ID:       frame.WidgetID(),
		Config:   cfg,
		Boundary: frame,
		State:    types.StateMounted,
	}, container
}

func TestInsertAndGet(t *testing.T) {
	r := New()
	rec, _ := newRecord(t)

	if err := r.Insert(rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, ok := r.Get(rec.ID)
	if !ok {
		t.Fatal("record should be retrievable by id")
	}
	if got.Config.Sitekey != "k" || got.State != types.StateMounted {
		t.Errorf("unexpected record snapshot: %+v", got)
	}
}

func TestInsertRejectsDuplicates(t *testing.T) {
	r := New()
	rec, _ := newRecord(t)

	if err := r.Insert(rec); err != nil {
		t.Fatal(err)
	}
	if err := r.Insert(rec); err == nil {
		t.Error("duplicate widget id should be rejected")
	}
	if r.Len() != 1 {
		t.Errorf("registry should hold exactly 1 record, got %d", r.Len())
	}
}

func TestByContainer(t *testing.T) {
	r := New()
	rec, container := newRecord(t)
	if err := r.Insert(rec); err != nil {
		t.Fatal(err)
	}

	widgetID, ok := r.ByContainer(container.Node())
	if !ok || widgetID != rec.ID {
		t.Errorf("container lookup = (%v, %v), want (%v, true)", widgetID, ok, rec.ID)
	}
}

func TestUpdateAtomicSnapshot(t *testing.T) {
	r := New()
	rec, _ := newRecord(t)
	if err := r.Insert(rec); err != nil {
		t.Fatal(err)
	}

	token := "resp-token"
	ok := r.Update(rec.ID, func(rec *Record) {
		rec.Config.Response = &token
		rec.State = types.StateExecuting
	})
	if !ok {
		t.Fatal("Update should find the record")
	}

	got, _ := r.Get(rec.ID)
	if got.Config.Response == nil || *got.Config.Response != token {
		t.Error("response update lost")
	}
	if got.State != types.StateExecuting {
		t.Error("state update lost")
	}
}

func TestUpdateUnknownWidget(t *testing.T) {
	r := New()
	if r.Update(id.NewWidgetID(), func(*Record) {}) {
		t.Error("Update on unknown id should report false")
	}
}

func TestRemove(t *testing.T) {
	r := New()
	rec, container := newRecord(t)
	if err := r.Insert(rec); err != nil {
		t.Fatal(err)
	}

	removed, ok := r.Remove(rec.ID)
	if !ok || removed.ID != rec.ID {
		t.Fatal("Remove should return the record")
	}
	if r.Len() != 0 {
		t.Error("registry should be empty after Remove")
	}
	if _, ok := r.ByContainer(container.Node()); ok {
		t.Error("container index should be cleaned up")
	}
}

func TestConcurrentUpdatesStayConsistent(t *testing.T) {
	r := New()
	rec, _ := newRecord(t)
	if err := r.Insert(rec); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token := "t"
			r.Update(rec.ID, func(rec *Record) {
				// Write two fields; readers must never observe them
				// half-applied.
				rec.Config.Response = &token
				rec.State = types.StateExecuting
			})
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, ok := r.Get(rec.ID)
			if !ok {
				t.Error("record vanished")
				return
			}
			if got.State == types.StateExecuting && got.Config.Response == nil {
				t.Error("observed half-updated record")
			}
		}()
	}
	wg.Wait()
}

func TestStats(t *testing.T) {
	r := New()
	rec, _ := newRecord(t)
	if err := r.Insert(rec); err != nil {
		t.Fatal(err)
	}
	r.Update(rec.ID, func(rec *Record) { rec.State = types.StateExecuting })

	s := r.Stats()
	if s.TotalWidgets != 1 || s.ExecutingWidgets != 1 || s.MountedWidgets != 0 {
		t.Errorf("unexpected stats: %+v", s)
	}
}
