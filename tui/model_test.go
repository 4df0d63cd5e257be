package tui

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"taskman/internal/application/confirm"
	"taskman/internal/application/detail"
	"taskman/internal/application/tasksync"
	"taskman/internal/testutil"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, titles ...string) (Model, *testutil.FakeAPI) {
	t.Helper()
	api := testutil.NewFakeAPI()
	api.Seed(titles...)
	ctrl := tasksync.NewController(api, log.New(io.Discard, "", 0))
	_ = ctrl.Load(context.Background())

	m := NewModel(context.Background(), ctrl, nil)
	m.now = func() time.Time { return fixedNow }
	m.clip = func(string) error { return nil }
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), api
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func typeText(m Model, s string) Model {
	for _, r := range s {
		msg := runes(string(r))
		if r == ' ' {
			msg = keySpace
		}
		m, _ = press(m, msg)
	}
	return m
}

// run executes cmd and feeds every resulting message back into the model.
// Spinner ticks are dropped.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(t, cmd) {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		switch msg := msg.(type) {
		case nil, spinner.TickMsg:
			return nil
		case tea.BatchMsg:
			var out []tea.Msg
			for _, c := range msg {
				out = append(out, collect(t, c)...)
			}
			return out
		default:
			return []tea.Msg{msg}
		}
	case <-time.After(3 * time.Second):
		t.Fatal("command did not complete")
		return nil
	}
}

func titles(m Model) []string {
	var out []string
	for _, task := range m.snap.Tasks.Tasks() {
		out = append(out, task.Title)
	}
	return out
}

func TestEmptyList(t *testing.T) {
	m, _ := newTestModel(t)
	if !strings.Contains(m.View(), emptyListText) {
		t.Errorf("view missing empty state:\n%s", m.View())
	}
}

func TestListShowsMarkersAndOverdue(t *testing.T) {
	m, api := newTestModel(t, "Report")
	id := api.Stored()[0].ID
	past := fixedNow.Add(-time.Hour)
	if err := m.ctrl.Toggle(context.Background(), id, true); err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.ctrl.Edit(context.Background(), api.Stored()[0], tasksync.Draft{Title: "Report", Deadline: &past}); err != nil {
		t.Fatal(err)
	}
	m.applySnapshot(m.ctrl.Snapshot())

	view := m.View()
	for _, want := range []string{markerComplete, "Report", overdueBadge} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestToggleIsOptimistic(t *testing.T) {
	m, api := newTestModel(t, "A")

	m, cmd := press(m, keySpace)
	if task, _ := m.currentTask(); !task.IsComplete {
		t.Fatal("toggle not shown before the request finished")
	}
	if api.CallCount(testutil.OpUpdate) != 0 {
		t.Fatal("request sent before the command ran")
	}

	m = run(t, m, cmd)
	if !api.Stored()[0].IsComplete {
		t.Error("server not updated")
	}
	if task, _ := m.currentTask(); !task.IsComplete {
		t.Error("toggle lost after reconcile")
	}
}

func TestToggleFailureShowsDismissableToast(t *testing.T) {
	m, api := newTestModel(t, "A")
	api.FailNext(testutil.OpUpdate, testutil.ErrServer)

	m, cmd := press(m, keySpace)
	m = run(t, m, cmd)

	if task, _ := m.currentTask(); task.IsComplete {
		t.Error("toggle not rolled back")
	}
	if !strings.Contains(m.View(), tasksync.MsgToggleFailed) {
		t.Errorf("toast missing:\n%s", m.View())
	}

	m, _ = press(m, runes("x"))
	if strings.Contains(m.View(), tasksync.MsgToggleFailed) {
		t.Error("toast not dismissed")
	}
}

func TestReorderKeys(t *testing.T) {
	m, api := newTestModel(t, "A", "B", "C")

	m, cmd := press(m, runes("J"))
	if got := strings.Join(titles(m), ","); got != "B,A,C" {
		t.Fatalf("order = %s", got)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want to follow the moved task", m.cursor)
	}

	m, second := press(m, runes("K"))
	if second != nil || m.status != msgReorderBusy {
		t.Errorf("second reorder while in flight: status = %q", m.status)
	}

	m = run(t, m, cmd)
	var stored []string
	for _, task := range api.Stored() {
		stored = append(stored, task.Title)
	}
	if got := strings.Join(stored, ","); got != "B,A,C" {
		t.Errorf("server order = %s", got)
	}

	m, _ = press(m, runes("k"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d after k", m.cursor)
	}
	if _, cmd := press(m, runes("K")); cmd != nil {
		t.Error("moving the first row up should do nothing")
	}
}

func TestCreateForm(t *testing.T) {
	m, api := newTestModel(t, "Existing")

	m, _ = press(m, runes("n"))
	if !m.adding {
		t.Fatal("form not open")
	}

	m = typeText(m, "   ")
	m, cmd := press(m, keySave)
	if cmd != nil || m.form.err != "Title is required" {
		t.Fatalf("blank title: err = %q", m.form.err)
	}
	if api.CallCount(testutil.OpCreate) != 0 {
		t.Fatal("invalid title reached the network")
	}

	m = typeText(m, "Buy milk")
	m, cmd = press(m, keyEnter)
	if !m.form.busy {
		t.Fatal("form not busy while creating")
	}
	m = run(t, m, cmd)

	if m.adding {
		t.Error("form still open")
	}
	if got := strings.Join(titles(m), ","); got != "Existing,Buy milk" {
		t.Errorf("titles = %s", got)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want the new task", m.cursor)
	}
}

func TestCreateFormServerError(t *testing.T) {
	m, api := newTestModel(t)
	api.FailNext(testutil.OpCreate, testutil.ErrNetwork)

	m, _ = press(m, runes("a"))
	m = typeText(m, "Walk")
	m, cmd := press(m, keySave)
	m = run(t, m, cmd)

	if !m.adding || m.form.err != tasksync.MsgNetworkError {
		t.Errorf("adding = %v err = %q", m.adding, m.form.err)
	}
	m, _ = press(m, keyEsc)
	if m.adding {
		t.Error("esc did not close the form")
	}
}

func openDetail(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := press(m, keyEnter)
	if m.detail.Status() != detail.StatusLoading {
		t.Fatalf("detail status = %v", m.detail.Status())
	}
	m = run(t, m, cmd)
	if m.detail.Status() != detail.StatusReady {
		t.Fatalf("detail status = %v", m.detail.Status())
	}
	return m
}

func TestDetailShowsFields(t *testing.T) {
	m, _ := newTestModel(t, "Report")
	m = openDetail(t, m)

	view := m.View()
	for _, want := range []string{"Report", noDescription, "Incomplete", noDeadline, "Created", "Updated"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail missing %q:\n%s", want, view)
		}
	}
}

func TestDetailEditCancelMakesNoRequest(t *testing.T) {
	m, api := newTestModel(t, "Report")
	m = openDetail(t, m)

	m, _ = press(m, runes("e"))
	if m.detail.Mode() != detail.ModeEdit {
		t.Fatal("not editing")
	}
	m = typeText(m, " scratch")
	m, _ = press(m, keyEsc)

	if m.detail.Mode() != detail.ModeRead || m.detail.Task().Title != "Report" {
		t.Errorf("mode = %v title = %q", m.detail.Mode(), m.detail.Task().Title)
	}
	if api.CallCount(testutil.OpUpdate) != 0 {
		t.Error("cancel issued a request")
	}

	m, _ = press(m, keyEsc)
	if m.detail.Visible() {
		t.Error("esc in read mode did not close the detail view")
	}
}

func TestDetailSave(t *testing.T) {
	m, api := newTestModel(t, "Report")
	m = openDetail(t, m)

	m, _ = press(m, runes("e"))
	m = typeText(m, " v2")
	m, _ = press(m, keyTab)
	m = typeText(m, "notes")
	m, cmd := press(m, keySave)
	if !m.detail.Saving() {
		t.Fatal("save not started")
	}
	m = run(t, m, cmd)

	if m.detail.Mode() != detail.ModeRead || m.detail.Task().Title != "Report v2" {
		t.Errorf("detail = %+v", m.detail.Task())
	}
	if got := titles(m); got[0] != "Report v2" {
		t.Errorf("list not updated: %v", got)
	}
	calls := api.Calls()
	req := calls[len(calls)-1].Update
	if !req.Title.Set || !req.Description.Set || req.Deadline.Set || req.IsComplete.Set {
		t.Errorf("request = %+v", req)
	}
}

func TestDetailSaveBadDeadline(t *testing.T) {
	m, api := newTestModel(t, "Report")
	m = openDetail(t, m)

	m, _ = press(m, runes("e"))
	m, _ = press(m, keyTab)
	m, _ = press(m, keyTab)
	m = typeText(m, "someday")
	m, cmd := press(m, keySave)

	if cmd != nil || m.detail.SaveError() != msgInvalidDeadline {
		t.Errorf("save error = %q", m.detail.SaveError())
	}
	if api.CallCount(testutil.OpUpdate) != 0 {
		t.Error("request sent with an unparseable deadline")
	}
}

func TestDeleteFromDetail(t *testing.T) {
	m, api := newTestModel(t, "A", "B")
	m = openDetail(t, m)

	m, _ = press(m, runes("d"))
	if !m.confirm.Visible() || m.confirm.Focus() != confirm.FocusCancel {
		t.Fatalf("confirm state = %v focus = %v", m.confirm.State(), m.confirm.Focus())
	}

	// enter on the default focus cancels
	m, cmd := press(m, keyEnter)
	if cmd != nil || m.confirm.Visible() || !m.detail.Visible() {
		t.Fatal("cancel should close only the dialog")
	}
	if api.CallCount(testutil.OpDelete) != 0 {
		t.Fatal("cancel issued a delete")
	}

	m, _ = press(m, runes("d"))
	m, _ = press(m, keyTab)
	m, cmd = press(m, keyEnter)
	if !m.confirm.Busy() {
		t.Fatal("dialog not busy")
	}
	m, _ = press(m, keyEsc)
	if !m.confirm.Busy() {
		t.Fatal("dismissed while busy")
	}

	m = run(t, m, cmd)
	if m.confirm.Visible() || m.detail.Visible() {
		t.Error("dialog and detail should close after delete")
	}
	if got := strings.Join(titles(m), ","); got != "B" {
		t.Errorf("titles = %s", got)
	}
}

func TestDeleteFailureShowsInlineError(t *testing.T) {
	m, api := newTestModel(t, "A")
	api.FailNext(testutil.OpDelete, testutil.ErrServer)

	m, _ = press(m, runes("d"))
	m, cmd := press(m, runes("y"))
	m = run(t, m, cmd)

	if m.confirm.State() != confirm.Shown || m.confirm.Error() != tasksync.MsgDeleteFailed {
		t.Errorf("state = %v error = %q", m.confirm.State(), m.confirm.Error())
	}
	if m.snap.Tasks.Len() != 1 {
		t.Error("task removed despite failure")
	}
	m, _ = press(m, runes("n"))
	if m.confirm.Visible() {
		t.Error("n did not cancel")
	}
}

func TestLoadErrorRetry(t *testing.T) {
	api := testutil.NewFakeAPI()
	api.Seed("A")
	api.FailNext(testutil.OpList, testutil.ErrNetwork)
	ctrl := tasksync.NewController(api, log.New(io.Discard, "", 0))
	_ = ctrl.Load(context.Background())

	next, _ := NewModel(context.Background(), ctrl, nil).Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m := next.(Model)

	if !strings.Contains(m.View(), tasksync.MsgLoadFailed) {
		t.Fatalf("view missing load error:\n%s", m.View())
	}

	m, cmd := press(m, runes("r"))
	m = run(t, m, cmd)
	if m.snap.LoadError != "" || m.snap.Tasks.Len() != 1 {
		t.Errorf("after retry: %+v", m.snap)
	}
}

func TestCopyTitle(t *testing.T) {
	m, _ := newTestModel(t, "Buy milk")
	var copied string
	m.clip = func(s string) error {
		copied = s
		return nil
	}

	m, cmd := press(m, runes("y"))
	m = run(t, m, cmd)
	if copied != "Buy milk" || m.status != "Copied: Buy milk" {
		t.Errorf("copied = %q status = %q", copied, m.status)
	}

	m.clip = func(string) error { return errors.New("no clipboard") }
	m, cmd = press(m, runes("y"))
	m = run(t, m, cmd)
	if !strings.HasPrefix(m.status, "Failed to copy") {
		t.Errorf("status = %q", m.status)
	}
}
