package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tasklists/internal/backend/googletasks"
	"tasklists/internal/commands"
	"tasklists/internal/config"
	"tasklists/internal/exitcode"
	"tasklists/internal/importer"
	"tasklists/internal/liststore"
	"tasklists/internal/service"
	"tasklists/internal/session"
	"tasklists/internal/testutil"
)

// runCommand is a helper to run a command against svc.
func runCommand(t *testing.T, cmd commands.Command, svc service.Service, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	return runCommandCtx(t, context.Background(), cmd, svc, args, quiet)
}

func runCommandCtx(t *testing.T, ctx context.Context, cmd commands.Command, svc service.Service, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:             t.TempDir(),
		Quiet:           quiet,
		TimestampFormat: "2006-01-02",
		Listen:          "127.0.0.1:0",
	}

	code = cmd.Run(ctx, cfg, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// seed opens a session and adds the given tasks to the Default list.
func seed(t *testing.T, texts ...string) *session.Session {
	t.Helper()
	svc := testutil.NewSession(t, nil)
	for _, text := range texts {
		svc.AddTask(context.Background(), text, "")
	}
	return svc
}

func expectSuccess(t *testing.T, stdout, stderr string, code int, want string) {
	t.Helper()
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func expectUserError(t *testing.T, stderr string, code int, want string) {
	t.Helper()
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != want {
		t.Errorf("expected %q, got %q", want, stderr)
	}
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)
	expectSuccess(t, stdout, stderr, code, "tasklists 0.1.0\n")
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "renamelist --to", "import google", "--quiet"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for lists command
func TestListsCommand(t *testing.T) {
	svc := seed(t, "Buy milk")
	svc.CreateList(context.Background(), "Work")

	stdout, stderr, code := runCommand(t, &commands.ListsCmd{}, svc, nil, false)
	expectSuccess(t, stdout, stderr, code, "  Default (1)\n* Work (0)\n")
}

// Tests for list command
func TestListCommand_ActiveListWithTasks(t *testing.T) {
	svc := seed(t, "Buy milk", "Buy eggs")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	expected := "------------\nDefault [active]\n------------\n" +
		"   1  Buy milk  (added " + testutil.FixedTime + ")\n" +
		"   2  Buy eggs  (added " + testutil.FixedTime + ")\n"
	expectSuccess(t, stdout, stderr, code, expected)
}

func TestListCommand_EmptyList(t *testing.T) {
	svc := seed(t)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)
	expectSuccess(t, stdout, stderr, code, "------------\nDefault [active]\n------------\nno tasks yet\n")
}

func TestListCommand_EmptyListQuiet(t *testing.T) {
	svc := seed(t)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, true)
	expectSuccess(t, stdout, stderr, code, "------------\nDefault [active]\n------------\n")
}

func TestListCommand_NamedList(t *testing.T) {
	svc := seed(t, "Buy milk")
	svc.CreateList(context.Background(), "Work")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, []string{"  default "}, false)

	expected := "------------\nDefault\n------------\n   1  Buy milk  (added " + testutil.FixedTime + ")\n"
	expectSuccess(t, stdout, stderr, code, expected)
}

func TestListCommand_ListNotFound(t *testing.T) {
	svc := seed(t)

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, []string{"Nope"}, false)
	expectUserError(t, stderr, code, "error: list not found: Nope\n")
}

func TestListCommand_All(t *testing.T) {
	svc := seed(t)
	svc.CreateList(context.Background(), "Work")
	svc.AddTask(context.Background(), "report", "job")

	cmd := &commands.ListCmd{}
	cmd.SetAll(true)
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	expected := "------------\nDefault\n------------\nno tasks yet\n" +
		"------------\nWork [active]\n------------\n   1  report  #job  (added " + testutil.FixedTime + ")\n"
	expectSuccess(t, stdout, stderr, code, expected)

	_, stderr, code = runCommand(t, cmd, svc, []string{"Work"}, false)
	expectUserError(t, stderr, code, "error: --all takes no list name\n")
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := seed(t)

	cmd := &commands.AddCmd{}
	cmd.SetCategory(" home ")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "milk"}, false)
	expectSuccess(t, stdout, stderr, code, "ok\n")

	active, _ := liststore.ActiveList(svc.Snapshot())
	if len(active.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(active.Tasks))
	}
	if active.Tasks[0].Text != "Buy milk" || active.Tasks[0].Category != "home" {
		t.Errorf("unexpected task %+v", active.Tasks[0])
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := seed(t)

	stdout, stderr, code := runCommand(t, &commands.CreateCmd{}, svc, []string{"Test"}, true)
	expectSuccess(t, stdout, stderr, code, "")
}

func TestAddCommand_NoText(t *testing.T) {
	svc := seed(t)

	for _, args := range [][]string{nil, {"  "}} {
		_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, args, false)
		expectUserError(t, stderr, code, "error: text required\n")
	}
}

func TestAddCommand_SaveFailure(t *testing.T) {
	backend := testutil.NewFlakyBackend()
	svc := testutil.NewSession(t, backend)
	backend.FailWrites(testutil.ErrInjected)

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"kept"}, false)

	if code != exitcode.Success {
		t.Errorf("a failed save is not fatal, got exit code %d", code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "warning: state not saved:") {
		t.Errorf("expected save warning, got %q", stderr)
	}
	if active, _ := liststore.ActiveList(svc.Snapshot()); len(active.Tasks) != 1 {
		t.Error("task should stay in memory")
	}
}

// Tests for rm command
func TestRmCommand_ByNumber(t *testing.T) {
	svc := seed(t, "one", "two")

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"2"}, false)
	expectSuccess(t, stdout, stderr, code, "ok\n")

	active, _ := liststore.ActiveList(svc.Snapshot())
	if len(active.Tasks) != 1 || active.Tasks[0].Text != "one" {
		t.Errorf("unexpected tasks %+v", active.Tasks)
	}
}

func TestRmCommand_ByID(t *testing.T) {
	svc := seed(t, "one", "two")
	active, _ := liststore.ActiveList(svc.Snapshot())
	ref := "id:" + active.Tasks[0].ID.String()

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{ref}, false)
	expectSuccess(t, stdout, stderr, code, "ok\n")

	active, _ = liststore.ActiveList(svc.Snapshot())
	if len(active.Tasks) != 1 || active.Tasks[0].Text != "two" {
		t.Errorf("unexpected tasks %+v", active.Tasks)
	}
}

func TestRmCommand_Errors(t *testing.T) {
	svc := seed(t, "one")

	tests := []struct {
		args []string
		want string
	}{
		{nil, "error: task reference required\n"},
		{[]string{"0"}, "error: task number out of range: 0\n"},
		{[]string{"5"}, "error: task number out of range: 5\n"},
		{[]string{"abc"}, "error: invalid task reference: abc\n"},
		{[]string{"id:999"}, "error: task not found: 999\n"},
	}
	for _, tt := range tests {
		_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, tt.args, false)
		expectUserError(t, stderr, code, tt.want)
	}

	if active, _ := liststore.ActiveList(svc.Snapshot()); len(active.Tasks) != 1 {
		t.Error("failed rm must not change the list")
	}
}

// Tests for use command
func TestUseCommand(t *testing.T) {
	svc := seed(t)
	svc.CreateList(context.Background(), "Work")

	stdout, stderr, code := runCommand(t, &commands.UseCmd{}, svc, []string{"DEFAULT"}, false)
	expectSuccess(t, stdout, stderr, code, "ok\n")

	active, _ := liststore.ActiveList(svc.Snapshot())
	if active.Name != "Default" {
		t.Errorf("active list = %q, want Default", active.Name)
	}

	_, stderr, code = runCommand(t, &commands.UseCmd{}, svc, []string{"Nope"}, false)
	expectUserError(t, stderr, code, "error: list not found: Nope\n")
}

// Tests for createlist command
func TestCreateListCommand_Success(t *testing.T) {
	svc := seed(t)

	stdout, stderr, code := runCommand(t, &commands.CreateListCmd{}, svc, []string{"New", "List"}, false)
	expectSuccess(t, stdout, stderr, code, "ok\n")

	active, _ := liststore.ActiveList(svc.Snapshot())
	if active.Name != "New List" {
		t.Errorf("new list should be active, got %q", active.Name)
	}
}

func TestCreateListCommand_Errors(t *testing.T) {
	svc := seed(t)

	_, stderr, code := runCommand(t, &commands.AddListCmd{}, svc, nil, false)
	expectUserError(t, stderr, code, "error: list name required\n")

	_, stderr, code = runCommand(t, &commands.CreateListCmd{}, svc, []string{"default"}, false)
	expectUserError(t, stderr, code, "error: list already exists: default\n")
}

// Tests for renamelist command
func TestRenameListCommand(t *testing.T) {
	svc := seed(t)
	svc.CreateList(context.Background(), "Work")

	cmd := &commands.RenameListCmd{}
	cmd.SetTo("Office")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"work"}, false)
	expectSuccess(t, stdout, stderr, code, "ok\n")

	if got := svc.Snapshot().Lists[1].Name; got != "Office" {
		t.Errorf("name = %q, want Office", got)
	}

	cmd.SetTo("Default")
	_, stderr, code = runCommand(t, cmd, svc, []string{"Office"}, false)
	expectUserError(t, stderr, code, "error: list already exists: Default\n")

	cmd.SetTo("")
	_, stderr, code = runCommand(t, cmd, svc, []string{"Office"}, false)
	expectUserError(t, stderr, code, "error: new name required (use --to)\n")
}

func TestRenameListCommand_CaseOnly(t *testing.T) {
	svc := seed(t)

	cmd := &commands.RenameListCmd{}
	cmd.SetTo("DEFAULT")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Default"}, false)
	expectSuccess(t, stdout, stderr, code, "ok\n")

	if got := svc.Snapshot().Lists[0].Name; got != "DEFAULT" {
		t.Errorf("name = %q, want DEFAULT", got)
	}
}

// Tests for rmlist command
func TestRmListCommand_EmptyListSuccess(t *testing.T) {
	svc := seed(t)
	svc.CreateList(context.Background(), "Work")

	stdout, stderr, code := runCommand(t, &commands.RmListCmd{}, svc, []string{"Work"}, false)
	expectSuccess(t, stdout, stderr, code, "ok\n")

	st := svc.Snapshot()
	if len(st.Lists) != 1 || st.ActiveListID != st.Lists[0].ID {
		t.Errorf("active list should fall back to the remaining list: %+v", st)
	}
}

func TestRmListCommand_NonEmptyListNoForce(t *testing.T) {
	svc := seed(t, "keep me")

	_, stderr, code := runCommand(t, &commands.RmListCmd{}, svc, []string{"Default"}, false)
	expectUserError(t, stderr, code, "error: list not empty (use --force)\n")
}

func TestRmListCommand_LastListWithForce(t *testing.T) {
	svc := seed(t, "gone")
	before := svc.Snapshot().Lists[0].ID

	cmd := &commands.RmListCmd{}
	cmd.SetForce(true)
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Default"}, false)
	expectSuccess(t, stdout, stderr, code, "ok\n")

	st := svc.Snapshot()
	if len(st.Lists) != 1 || st.Lists[0].ID == before || len(st.Lists[0].Tasks) != 0 {
		t.Errorf("expected a fresh empty Default list, got %+v", st.Lists)
	}
	if st.Lists[0].Name != liststore.DefaultListName || st.ActiveListID != st.Lists[0].ID {
		t.Errorf("fresh list should be the active Default: %+v", st)
	}
}

func TestRmListCommand_Errors(t *testing.T) {
	svc := seed(t)

	_, stderr, code := runCommand(t, &commands.RmListCmd{}, svc, []string{"Nope"}, false)
	expectUserError(t, stderr, code, "error: list not found: Nope\n")

	_, stderr, code = runCommand(t, &commands.RmListCmd{}, svc, nil, false)
	expectUserError(t, stderr, code, "error: list name required\n")
}

func TestRmListCommand_Ambiguous(t *testing.T) {
	svc := seed(t)
	ctx := context.Background()
	svc.CreateList(ctx, "Work")
	svc.Update(ctx, func(ops *liststore.Store, st liststore.AppState) liststore.AppState {
		return ops.CreateList(st, "work")
	})

	_, stderr, code := runCommand(t, &commands.RmListCmd{}, svc, []string{"WORK"}, false)
	expectUserError(t, stderr, code, "error: ambiguous list name: WORK\n")
}

// Tests for import command
type stubSource struct{}

func (stubSource) ListLists(ctx context.Context) ([]importer.RemoteList, error) {
	return []importer.RemoteList{{ID: "g1", Title: "Groceries"}}, nil
}

func (stubSource) ListOpenTasks(ctx context.Context, listID string) ([]importer.RemoteTask, error) {
	return []importer.RemoteTask{{ID: "t1", Title: "milk"}, {ID: "t2", Title: "eggs"}}, nil
}

func withGoogleSource(t *testing.T, fn func(ctx context.Context, cfg *config.Config) (importer.Source, error)) {
	t.Helper()
	orig := commands.GoogleSource
	commands.GoogleSource = fn
	t.Cleanup(func() { commands.GoogleSource = orig })
}

func TestImportCommand_Google(t *testing.T) {
	withGoogleSource(t, func(ctx context.Context, cfg *config.Config) (importer.Source, error) {
		return stubSource{}, nil
	})
	svc := seed(t)

	stdout, stderr, code := runCommand(t, &commands.ImportCmd{}, svc, []string{"google"}, false)
	expectSuccess(t, stdout, stderr, code, "imported 1 lists, 2 tasks\n")

	st := svc.Snapshot()
	if len(st.Lists) != 2 || st.Lists[1].Name != "Groceries" {
		t.Errorf("unexpected lists %+v", st.Lists)
	}

	_, stderr, code = runCommand(t, &commands.ImportCmd{}, svc, []string{"google", "--list", "Other"}, false)
	expectUserError(t, stderr, code, "error: remote list not found: Other\n")
}

func TestImportCommand_GoogleNotLoggedIn(t *testing.T) {
	withGoogleSource(t, func(ctx context.Context, cfg *config.Config) (importer.Source, error) {
		return nil, googletasks.ErrNotLoggedIn
	})
	svc := seed(t)

	_, stderr, code := runCommand(t, &commands.ImportCmd{}, svc, []string{"google"}, false)
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "not logged in") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestImportCommand_GoogleBackendError(t *testing.T) {
	withGoogleSource(t, func(ctx context.Context, cfg *config.Config) (importer.Source, error) {
		return failingSource{}, nil
	})
	svc := seed(t)

	_, stderr, code := runCommand(t, &commands.ImportCmd{}, svc, []string{"google"}, false)
	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.HasPrefix(stderr, "error: backend error:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

type failingSource struct{}

func (failingSource) ListLists(ctx context.Context) ([]importer.RemoteList, error) {
	return nil, errors.New("connection refused")
}

func (failingSource) ListOpenTasks(ctx context.Context, listID string) ([]importer.RemoteTask, error) {
	return nil, errors.New("connection refused")
}

func TestImportCommand_File(t *testing.T) {
	svc := seed(t)
	path := filepath.Join(t.TempDir(), "lists.json")
	data := `[{"id":1,"name":"Old","tasks":[{"id":2,"text":"a","time":"then"}]}]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stdout, stderr, code := runCommand(t, &commands.ImportCmd{}, svc, []string{"file", path}, false)
	expectSuccess(t, stdout, stderr, code, "imported 1 lists, 1 tasks\n")

	old := svc.Snapshot().Lists[1]
	if old.Name != "Old" || old.Tasks[0].CreatedAt != "then" {
		t.Errorf("unexpected list %+v", old)
	}
}

func TestImportCommand_FileWithTakenName(t *testing.T) {
	svc := seed(t, "local")
	path := filepath.Join(t.TempDir(), "lists.json")
	data := `[{"id":1,"name":"Default","tasks":[{"id":2,"text":"imported","time":"then"}]}]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stdout, stderr, code := runCommand(t, &commands.ImportCmd{}, svc, []string{"file", path}, false)
	expectSuccess(t, stdout, stderr, code, "imported 1 lists, 1 tasks\n")

	stdout, stderr, code = runCommand(t, &commands.UseCmd{}, svc, []string{"Default", "(2)"}, false)
	expectSuccess(t, stdout, stderr, code, "ok\n")
	if active, _ := liststore.ActiveList(svc.Snapshot()); len(active.Tasks) != 1 || active.Tasks[0].Text != "imported" {
		t.Errorf("active list = %+v, want the imported one", active)
	}

	stdout, stderr, code = runCommand(t, &commands.UseCmd{}, svc, []string{"default"}, false)
	expectSuccess(t, stdout, stderr, code, "ok\n")
	if active, _ := liststore.ActiveList(svc.Snapshot()); active.Tasks[0].Text != "local" {
		t.Errorf("active list = %+v, want the local one", active)
	}
}

func TestImportCommand_Errors(t *testing.T) {
	svc := seed(t)

	_, stderr, code := runCommand(t, &commands.ImportCmd{}, svc, nil, false)
	expectUserError(t, stderr, code, "error: import source required (google or file)\n")

	_, stderr, code = runCommand(t, &commands.ImportCmd{}, svc, []string{"dropbox"}, false)
	expectUserError(t, stderr, code, "error: unknown import source: dropbox\n")

	_, stderr, code = runCommand(t, &commands.ImportCmd{}, svc, []string{"file"}, false)
	expectUserError(t, stderr, code, "error: file path required\n")

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, stderr, code = runCommand(t, &commands.ImportCmd{}, svc, []string{"file", bad}, false)
	if code != exitcode.UserError || !strings.HasPrefix(stderr, "error: cannot import") {
		t.Errorf("unexpected result %d %q", code, stderr)
	}
}

// Tests for serve command
func TestServeCommand_StopsOnCancel(t *testing.T) {
	svc := seed(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, stderr, code := runCommandCtx(t, ctx, &commands.ServeCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.HasPrefix(stdout, "listening on http://127.0.0.1:") {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestServeCommand_BadAddress(t *testing.T) {
	svc := seed(t)

	cmd := &commands.ServeCmd{}
	cmd.SetListen("not an address")
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: cannot listen on not an address") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_AllGolden(t *testing.T) {
	ctx := context.Background()
	svc := seed(t, "Buy milk", "Call\nmom")
	svc.CreateList(ctx, "Work")
	svc.AddTask(ctx, "Quarterly report", "finance")
	svc.CreateList(ctx, "Someday")
	svc.SetActiveList(ctx, svc.Snapshot().Lists[1].ID)

	cmd := &commands.ListCmd{}
	cmd.SetAll(true)
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)
	if code != exitcode.Success || stderr != "" {
		t.Fatalf("code %d, stderr %q", code, stderr)
	}
	testutil.Golden(t, "list_all", stdout)

	stdout, _, _ = runCommand(t, &commands.ListsCmd{}, svc, nil, false)
	testutil.Golden(t, "lists", stdout)
}
