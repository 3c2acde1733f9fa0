package window

import (
	"testing"

	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/platform/platformtest"
	"github.com/1broseidon/treetile/internal/tree"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

type fixture struct {
	geo       *platformtest.Geometry
	notifier  *platformtest.Notifier
	spaces    *tree.Workspaces
	app       *platformtest.App
	reg       *Registry
	refreshes int
	queue     []func()
}

var testDisplays = platformtest.Displays{
	{ID: 0, Name: "left", Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
	{ID: 1, Name: "right", Bounds: platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}},
}

// parked is the bottom-right corner of testDisplays.
var parked = platform.Point{X: 4480, Y: 1440}

func newFixture(t *testing.T, queued bool) *fixture {
	t.Helper()
	f := &fixture{
		geo:      platformtest.NewGeometry(),
		notifier: platformtest.NewNotifier(),
		spaces:   tree.NewWorkspaces("1", "2"),
		app:      &platformtest.App{AppID: 7, AppName: "term"},
	}
	f.spaces.Focused().AssignRect(platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080})

	deps := Deps{
		Geometry:   f.geo,
		Notifier:   f.notifier,
		Workspaces: f.spaces,
		Displays:   testDisplays,
		Refresh:    func() { f.refreshes++ },
		Logger:     zerolog.Nop(),
	}
	if queued {
		deps.Post = func(fn func()) { f.queue = append(f.queue, fn) }
	}
	f.reg = NewRegistry(deps)
	return f
}

func (f *fixture) runQueue() {
	for len(f.queue) > 0 {
		fn := f.queue[0]
		f.queue = f.queue[1:]
		fn()
	}
}

func (f *fixture) addForeign(id platform.WindowID, subrole platform.Subrole) {
	f.geo.Add(id, platformtest.Window{
		Title:    "win",
		Subrole:  subrole,
		TopLeft:  platform.Point{X: 100, Y: 50},
		Size:     platform.Size{Width: 800, Height: 600},
		Closable: true,
	})
}

func (f *fixture) create(t *testing.T, id platform.WindowID) *Window {
	t.Helper()
	f.addForeign(id, platform.SubroleStandard)
	w := f.reg.LookupOrCreate(id, f.app)
	if w == nil {
		t.Fatalf("LookupOrCreate(%d) returned nil", id)
	}
	return w
}

func TestLookupOrCreateSingleInstance(t *testing.T) {
	f := newFixture(t, false)
	w1 := f.create(t, 1)
	w2 := f.reg.LookupOrCreate(1, f.app)

	if w1 != w2 {
		t.Fatal("second lookup returned a different window")
	}
	if f.reg.Len() != 1 {
		t.Fatalf("registry has %d windows, want 1", f.reg.Len())
	}
	if f.notifier.Attempts != len(lifecycleEvents) {
		t.Fatalf("subscribe attempts = %d, want %d", f.notifier.Attempts, len(lifecycleEvents))
	}
	want := []platform.EventKind{
		platform.EventDestroyed,
		platform.EventDeminiaturized,
		platform.EventMiniaturized,
		platform.EventMoved,
		platform.EventResized,
	}
	if diff := cmp.Diff(want, f.notifier.Kinds(1)); diff != "" {
		t.Fatalf("subscribed kinds mismatch (-want +got):\n%s", diff)
	}
	if w1.Workspace() != f.spaces.Focused() {
		t.Fatal("new window should land in the focused workspace")
	}
}

func TestLookupOrCreateRollback(t *testing.T) {
	for failAt := 1; failAt <= len(lifecycleEvents); failAt++ {
		f := newFixture(t, false)
		f.notifier.FailAt = failAt
		f.addForeign(1, platform.SubroleStandard)

		if w := f.reg.LookupOrCreate(1, f.app); w != nil {
			t.Fatalf("failAt=%d: expected nil window", failAt)
		}
		if _, ok := f.reg.Lookup(1); ok {
			t.Fatalf("failAt=%d: window registered after rollback", failAt)
		}
		if live := f.notifier.Live(1); live != 0 {
			t.Fatalf("failAt=%d: %d live subscriptions after rollback", failAt, live)
		}
		if f.notifier.Unsubscribes != failAt-1 {
			t.Fatalf("failAt=%d: unsubscribes = %d, want %d", failAt, f.notifier.Unsubscribes, failAt-1)
		}
		if !f.spaces.Focused().IsEmpty() {
			t.Fatalf("failAt=%d: window left in the tree", failAt)
		}
	}
}

func TestLookupOrCreateAfterRollbackSucceeds(t *testing.T) {
	f := newFixture(t, false)
	f.notifier.FailAt = 3
	f.addForeign(1, platform.SubroleStandard)
	if f.reg.LookupOrCreate(1, f.app) != nil {
		t.Fatal("expected first attempt to fail")
	}
	if f.reg.LookupOrCreate(1, f.app) == nil {
		t.Fatal("retry should succeed once subscriptions work")
	}
}

func TestLookupOrCreatePlacesNextToMostRecent(t *testing.T) {
	f := newFixture(t, false)
	a := f.create(t, 1)
	f.create(t, 2)
	f.create(t, 3)
	if !a.Focus() {
		t.Fatal("focus failed")
	}
	d := f.create(t, 4)

	root := f.spaces.Focused().RootTilingContainer()
	if d.Parent() != root {
		t.Fatal("new window should share the most recent window's container")
	}
	if got := tree.OwnIndex(d); got != 1 {
		t.Fatalf("new window index = %d, want 1", got)
	}
}

func TestLookupOrCreateFloatsDialogs(t *testing.T) {
	f := newFixture(t, false)
	f.addForeign(9, platform.SubroleDialog)
	w := f.reg.LookupOrCreate(9, f.app)
	if w == nil {
		t.Fatal("dialog should still be tracked")
	}
	if !w.IsFloating() {
		t.Fatal("dialog should float")
	}
}

func TestHideUnhideRoundTrip(t *testing.T) {
	f := newFixture(t, false)
	w := f.create(t, 1)

	w.HideViaEmulation()
	if !w.IsHiddenViaEmulation() {
		t.Fatal("window should be hidden")
	}
	if got, _ := w.TopLeft(); got != parked {
		t.Fatalf("hidden position = %v, want %v", got, parked)
	}
	offset, _ := w.hide.restoreOffset()

	// A second hide must keep the first restore point.
	w.HideViaEmulation()
	if again, _ := w.hide.restoreOffset(); again != offset {
		t.Fatalf("restore offset changed from %v to %v", offset, again)
	}

	w.UnhideViaEmulation()
	if w.IsHiddenViaEmulation() {
		t.Fatal("window should be visible")
	}
	if _, hidden := w.hide.restoreOffset(); hidden {
		t.Fatal("restore point should be cleared")
	}
	if got, _ := w.TopLeft(); got != (platform.Point{X: 100, Y: 50}) {
		t.Fatalf("restored position = %v", got)
	}
}

func TestUnhideFollowsWorkspaceRect(t *testing.T) {
	f := newFixture(t, false)
	w := f.create(t, 1)
	w.HideViaEmulation()

	f.spaces.Focused().AssignRect(platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440})
	w.UnhideViaEmulation()

	if got, _ := w.TopLeft(); got != (platform.Point{X: 2020, Y: 50}) {
		t.Fatalf("restored position = %v, want offset from moved workspace", got)
	}
}

func TestHideUnreadablePosition(t *testing.T) {
	f := newFixture(t, false)
	w := f.create(t, 1)
	f.geo.FailTopLeft = true

	w.HideViaEmulation()
	if w.IsHiddenViaEmulation() {
		t.Fatal("hide must not change state when the position is unreadable")
	}
	if len(f.geo.Moves) != 0 {
		t.Fatalf("unexpected moves %v", f.geo.Moves)
	}
}

func TestHideParksPastWorkspaceWithoutDisplays(t *testing.T) {
	f := newFixture(t, false)
	f.reg.deps.Displays = platformtest.Displays{}
	w := f.create(t, 1)

	w.HideViaEmulation()
	if got, _ := w.TopLeft(); got != (platform.Point{X: 1920, Y: 1080}) {
		t.Fatalf("hidden position = %v", got)
	}
}

func TestUnhideVisibleIsNoop(t *testing.T) {
	f := newFixture(t, false)
	w := f.create(t, 1)
	w.UnhideViaEmulation()
	if len(f.geo.Moves) != 0 {
		t.Fatalf("unexpected moves %v", f.geo.Moves)
	}
}

func TestFocus(t *testing.T) {
	tests := []struct {
		name         string
		failRaise    bool
		failActivate bool
		want         bool
	}{
		{name: "success", want: true},
		{name: "raise fails", failRaise: true},
		{name: "activate fails", failActivate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			a := f.create(t, 1)
			b := f.create(t, 2)
			ws := f.spaces.Focused()
			if ws.MostRecentWindow() != tree.Node(b) {
				t.Fatal("last window should start as most recent")
			}

			f.geo.FailRaise = tt.failRaise
			f.app.FailActivate = tt.failActivate
			if got := a.Focus(); got != tt.want {
				t.Fatalf("Focus() = %v, want %v", got, tt.want)
			}

			wantMRU := tree.Node(b)
			if tt.want {
				wantMRU = a
			}
			if ws.MostRecentWindow() != wantMRU {
				t.Fatal("most recent window mismatch")
			}
			if tt.failRaise && f.app.Activations != 0 {
				t.Fatal("application must not be activated when raise fails")
			}
		})
	}
}

func TestFocusMarksAccordion(t *testing.T) {
	f := newFixture(t, false)
	w := f.create(t, 1)
	acc := tree.NewContainer(tree.LayoutAccordion)
	tree.Bind(acc, f.spaces.Focused().RootTilingContainer(), tree.IndexBindLast, 1)
	tree.Bind(w, acc, tree.IndexBindLast, 1)
	f.create(t, 2)

	if !w.Focus() {
		t.Fatal("focus failed")
	}
	if acc.AccordionMostRecentChild() != tree.Node(w) {
		t.Fatal("accordion MRU not updated")
	}
}

func TestClose(t *testing.T) {
	f := newFixture(t, false)
	w := f.create(t, 1)
	if !w.Close() {
		t.Fatal("Close() = false")
	}
	if len(f.geo.Pressed) != 1 {
		t.Fatalf("pressed %d controls, want 1", len(f.geo.Pressed))
	}
	if _, ok := f.reg.Lookup(1); !ok {
		t.Fatal("close must not collect the window")
	}

	f.geo.Add(2, platformtest.Window{Subrole: platform.SubroleStandard})
	w2 := f.reg.LookupOrCreate(2, f.app)
	if w2.Close() {
		t.Fatal("window without a close control should not close")
	}
}

func TestGarbageCollect(t *testing.T) {
	f := newFixture(t, false)
	w := f.create(t, 1)
	w.GarbageCollect()
	w.GarbageCollect()

	if _, ok := f.reg.Lookup(1); ok {
		t.Fatal("collected window still registered")
	}
	if len(f.reg.All()) != 0 {
		t.Fatal("collected window still listed")
	}
	if w.Parent() != nil {
		t.Fatal("collected window still in the tree")
	}
	if f.notifier.Live(1) != 0 || w.Subscriptions() != 0 {
		t.Fatal("subscriptions left after collection")
	}
	if f.notifier.DoubleReleases != 0 {
		t.Fatalf("double releases = %d", f.notifier.DoubleReleases)
	}
}

func TestGarbageCollectKeepsReplacement(t *testing.T) {
	f := newFixture(t, false)
	old := f.create(t, 1)
	f.reg.Remove(1)
	fresh := f.create(t, 1)

	old.GarbageCollect()
	if got, ok := f.reg.Lookup(1); !ok || got != fresh {
		t.Fatal("collecting a replaced window must not drop its successor")
	}
}

func TestDestroyedNotification(t *testing.T) {
	f := newFixture(t, false)
	f.create(t, 1)
	f.notifier.Fire(1, platform.EventDestroyed)

	if _, ok := f.reg.Lookup(1); ok {
		t.Fatal("destroyed window still registered")
	}
	if f.refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", f.refreshes)
	}
}

func TestGeometryNotificationsRefresh(t *testing.T) {
	f := newFixture(t, true)
	f.create(t, 1)
	for _, kind := range []platform.EventKind{
		platform.EventMoved,
		platform.EventResized,
		platform.EventMiniaturized,
		platform.EventDeminiaturized,
	} {
		f.notifier.Fire(1, kind)
	}
	if f.refreshes != 0 {
		t.Fatal("handlers must run on the posted goroutine only")
	}
	f.runQueue()
	if f.refreshes != 4 {
		t.Fatalf("refreshes = %d, want 4", f.refreshes)
	}
	if f.reg.Len() != 1 {
		t.Fatal("geometry events must not collect the window")
	}
}

func TestStaleNotificationIgnored(t *testing.T) {
	f := newFixture(t, true)
	old := f.create(t, 1)
	f.notifier.Fire(1, platform.EventDestroyed)
	f.notifier.Fire(1, platform.EventDestroyed)

	// Handle the first destroy, then recreate the id before the second
	// event is delivered.
	f.queue[0]()
	f.queue = f.queue[1:]
	fresh := f.create(t, 1)
	if fresh == old {
		t.Fatal("recreated window must be a fresh object")
	}

	f.runQueue()
	if got, ok := f.reg.Lookup(1); !ok || got != fresh {
		t.Fatal("stale destroy event collected the new window")
	}
	if f.refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", f.refreshes)
	}
}

func TestSetSizeRecordsPrevious(t *testing.T) {
	f := newFixture(t, false)
	w := f.create(t, 1)
	if _, ok := w.PreviousSize(); ok {
		t.Fatal("no previous size before SetSize")
	}
	w.SetSize(platform.Size{Width: 400, Height: 300})

	prev, ok := w.PreviousSize()
	if !ok || prev != (platform.Size{Width: 800, Height: 600}) {
		t.Fatalf("previous size = %v, %v", prev, ok)
	}
	if got, _ := w.Size(); got != (platform.Size{Width: 400, Height: 300}) {
		t.Fatalf("size = %v", got)
	}
}

func TestSetSizeUnreadableClearsPrevious(t *testing.T) {
	f := newFixture(t, false)
	w := f.create(t, 1)
	w.SetSize(platform.Size{Width: 400, Height: 300})

	f.geo.FailSize = true
	w.SetSize(platform.Size{Width: 500, Height: 350})

	if prev, ok := w.PreviousSize(); ok {
		t.Fatalf("previous size = %v after unreadable size, want none", prev)
	}
}

func TestRectReadable(t *testing.T) {
	f := newFixture(t, false)
	w := f.create(t, 1)
	want := platform.Rect{X: 100, Y: 50, Width: 800, Height: 600}
	if got, ok := w.Rect(); !ok || got != want {
		t.Fatalf("Rect() = %v, %v", got, ok)
	}

	f.geo.FailSize = true
	if _, ok := w.Rect(); ok {
		t.Fatal("Rect() should fail when the size is unreadable")
	}
	f.geo.FailSize = false
	f.geo.Remove(1)
	if _, ok := w.Rect(); ok {
		t.Fatal("Rect() should fail for a stale window")
	}
}

func TestAllSorted(t *testing.T) {
	f := newFixture(t, false)
	for _, id := range []platform.WindowID{5, 2, 9} {
		f.create(t, id)
	}
	var got []platform.WindowID
	for _, w := range f.reg.All() {
		got = append(got, w.ID())
	}
	if diff := cmp.Diff([]platform.WindowID{2, 5, 9}, got); diff != "" {
		t.Fatalf("All() order (-want +got):\n%s", diff)
	}
}
