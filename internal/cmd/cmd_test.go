package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/vizlex/internal/errors"
)

const glowSchema = `name: glow
properties:
  - id: NODE_GLOW
    target: node
    type: visualizable
    parent: NODE
  - id: NODE_GLOW_RADIUS
    target: node
    type: double
    parent: NODE_GLOW
    default: 4
`

const brokenSchema = `name: broken
properties:
  - id: NODE_SIZE
    target: node
    type: double
    parent: NODE
`

// syncBuffer is a bytes.Buffer safe for the concurrent writes of the watch command.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// isolate keeps tests away from the user's config and resets viper state.
func isolate(t *testing.T) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)
}

// executeCommand runs a fresh command tree with args and returns captured stdout
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolate(t)

	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	root := NewRootCmd()
	if root.Use != "vizlex" {
		t.Errorf("root.Use = %q, want %q", root.Use, "vizlex")
	}

	cmdMap := make(map[string]bool)
	for _, c := range root.Commands() {
		cmdMap[c.Name()] = true
	}
	for _, expected := range []string{
		"tree", "describe", "descendants", "list", "validate",
		"export", "style", "browse", "watch", "config", "version",
	} {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestTreeCommand(t *testing.T) {
	output, err := executeCommand(t, "tree", "NODE_SIZE", "--types=false")
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	want := "NODE_SIZE\n├── NODE_WIDTH\n└── NODE_HEIGHT\n"
	if output != want {
		t.Errorf("tree output =\n%s\nwant\n%s", output, want)
	}

	output, err = executeCommand(t, "tree", "NODE_SIZE", "--defaults")
	if err != nil {
		t.Fatalf("tree --defaults failed: %v", err)
	}
	if !strings.HasPrefix(output, "NODE_SIZE [double] = 35\n") {
		t.Errorf("tree --defaults output = %q", output)
	}

	output, err = executeCommand(t, "tree")
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	if !strings.HasPrefix(output, "VISUAL_PROPERTY_ROOT") {
		t.Errorf("tree should start at the root: %q", output)
	}
}

func TestDescribeCommand(t *testing.T) {
	output, err := executeCommand(t, "describe", "node_size")
	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}
	for _, want := range []string{
		"NODE_SIZE",
		"Default    35",
		"Ancestors  NODE > NETWORK > VISUAL_PROPERTY_ROOT",
		"Children   NODE_WIDTH, NODE_HEIGHT",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("describe output missing %q:\n%s", want, output)
		}
	}

	_, err = executeCommand(t, "describe", "NODE_GLOW")
	if !errors.Is(err, errors.ErrUnknownProperty) {
		t.Errorf("describe unknown error = %v, want ErrUnknownProperty", err)
	}
}

func TestDescendantsCommand(t *testing.T) {
	output, err := executeCommand(t, "descendants", "NODE_SIZE")
	if err != nil {
		t.Fatalf("descendants failed: %v", err)
	}
	if want := "NODE_SIZE\nNODE_WIDTH\nNODE_HEIGHT\n"; output != want {
		t.Errorf("descendants output = %q, want %q", output, want)
	}
}

func TestListCommand(t *testing.T) {
	output, err := executeCommand(t, "list", "--match", "NODE_*_COLOR")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if want := "NODE_FILL_COLOR\nNODE_LABEL_COLOR\n"; output != want {
		t.Errorf("list output = %q, want %q", output, want)
	}

	output, err = executeCommand(t, "list", "--target", "edge")
	if err != nil {
		t.Fatalf("list --target failed: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if !strings.HasPrefix(line, "EDGE") {
			t.Errorf("list --target edge returned %q", line)
		}
	}

	_, err = executeCommand(t, "list", "--match", "NODE_[")
	if !errors.Is(err, errors.ErrInvalidValue) {
		t.Errorf("list with bad glob error = %v, want ErrInvalidValue", err)
	}

	_, err = executeCommand(t, "list", "--target", "graph")
	if err == nil {
		t.Error("list --target graph should fail")
	}
}

func TestSchemaFlag(t *testing.T) {
	glow := writeFile(t, t.TempDir(), "glow.yaml", glowSchema)

	output, err := executeCommand(t, "--schema", glow, "descendants", "NODE_GLOW")
	if err != nil {
		t.Fatalf("descendants with --schema failed: %v", err)
	}
	if want := "NODE_GLOW\nNODE_GLOW_RADIUS\n"; output != want {
		t.Errorf("output = %q, want %q", output, want)
	}

	broken := writeFile(t, t.TempDir(), "broken.yaml", brokenSchema)
	_, err = executeCommand(t, "--schema", broken, "tree")
	if !errors.Is(err, errors.ErrAlreadyRegistered) {
		t.Errorf("broken --schema error = %v, want ErrAlreadyRegistered", err)
	}
}

func TestSchemaFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "glow.yaml", glowSchema)
	cfg := writeFile(t, t.TempDir(), "config.yaml", "schema:\n  paths: [\""+dir+"\"]\n")

	output, err := executeCommand(t, "--config", cfg, "list", "--match", "NODE_GLOW*")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if want := "NODE_GLOW\nNODE_GLOW_RADIUS\n"; output != want {
		t.Errorf("output = %q, want %q", output, want)
	}

	_, err = executeCommand(t, "--config", filepath.Join(dir, "missing.yaml"), "tree")
	if err == nil {
		t.Error("a missing explicit config file should fail")
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	glow := writeFile(t, dir, "glow.yaml", glowSchema)
	broken := writeFile(t, dir, "broken.yaml", brokenSchema)

	output, err := executeCommand(t, "validate", glow)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(output, "OK") || !strings.Contains(output, "2 properties") {
		t.Errorf("validate output = %q", output)
	}

	output, err = executeCommand(t, "validate", broken, glow)
	if !errors.Is(err, errors.ErrInvalidSchema) {
		t.Errorf("validate error = %v, want ErrInvalidSchema", err)
	}
	if !strings.Contains(output, "FAIL") || !strings.Contains(output, "OK") {
		t.Errorf("validate should report both files: %q", output)
	}

	// NODE_GLOW_EXTRA extends glow.yaml, so it only validates after it.
	extra := writeFile(t, dir, "extra.yaml", `name: extra
properties:
  - id: NODE_GLOW_EXTRA
    target: node
    type: boolean
    parent: NODE_GLOW
`)
	if _, err := executeCommand(t, "validate", glow, extra); err != nil {
		t.Errorf("validate in order failed: %v", err)
	}
	output, err = executeCommand(t, "validate", "--independent", glow, extra)
	if !errors.Is(err, errors.ErrInvalidSchema) {
		t.Errorf("validate --independent error = %v, want ErrInvalidSchema", err)
	}
	if !strings.Contains(output, "OK") || !strings.Contains(output, "FAIL") {
		t.Errorf("validate --independent output = %q", output)
	}
}

func TestExportCommand(t *testing.T) {
	glow := writeFile(t, t.TempDir(), "glow.yaml", glowSchema)

	output, err := executeCommand(t, "--schema", glow, "export", "--format", "yaml")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(output, "id: NODE_GLOW_RADIUS") || strings.Contains(output, "NODE_SIZE") {
		t.Errorf("yaml export should hold only extensions:\n%s", output)
	}

	out := filepath.Join(t.TempDir(), "lexicon.json")
	if _, err := executeCommand(t, "export", "-o", out); err != nil {
		t.Fatalf("export -o failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("export did not write %s: %v", out, err)
	}
	if !strings.Contains(string(data), `"id": "VISUAL_PROPERTY_ROOT"`) {
		t.Errorf("json export = %s", data)
	}

	_, err = executeCommand(t, "export", "--format", "xml")
	if !errors.Is(err, errors.ErrUnsupportedFormat) {
		t.Errorf("export xml error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestStyleCommand(t *testing.T) {
	output, err := executeCommand(t, "style", "--title", "Dark", "--set", "NODE_SIZE=50", "--set", "node_shape=RECTANGLE")
	if err != nil {
		t.Fatalf("style failed: %v", err)
	}
	for _, want := range []string{"Style: Dark", "NODE_SIZE   50", "(default 35)", `NODE_SHAPE  "RECTANGLE"`} {
		if !strings.Contains(output, want) {
			t.Errorf("style output missing %q:\n%s", want, output)
		}
	}

	_, err = executeCommand(t, "style", "--set", "NODE_SIZE=-1")
	if !errors.Is(err, errors.ErrInvalidValue) {
		t.Errorf("out of range error = %v, want ErrInvalidValue", err)
	}

	_, err = executeCommand(t, "style", "--set", "NODE_SIZE")
	if !errors.Is(err, errors.ErrInvalidValue) {
		t.Errorf("missing value error = %v, want ErrInvalidValue", err)
	}

	_, err = executeCommand(t, "style", "--set", "NODE_GLOW=1")
	if !errors.Is(err, errors.ErrUnknownProperty) {
		t.Errorf("unknown property error = %v, want ErrUnknownProperty", err)
	}
}

func TestConfigCommands(t *testing.T) {
	output, err := executeCommand(t, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(output, "strict: true") || !strings.Contains(output, "(none - using defaults)") {
		t.Errorf("config show output:\n%s", output)
	}

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if _, err := executeCommand(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config init did not write %s: %v", path, err)
	}
	if !strings.Contains(string(data), "level: warn") {
		t.Errorf("config file content:\n%s", data)
	}

	if _, err := executeCommand(t, "--config", path, "config", "init"); err == nil {
		t.Error("config init should refuse to overwrite")
	}
	if _, err := executeCommand(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force failed: %v", err)
	}

	output, err = executeCommand(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if strings.TrimSpace(output) != path {
		t.Errorf("config path = %q, want %q", output, path)
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(output, "vizlex dev") {
		t.Errorf("version output = %q", output)
	}
}

// watchRun is a watch command running in the background.
type watchRun struct {
	t      *testing.T
	out    *syncBuffer
	cancel context.CancelFunc
	done   chan error
}

func startWatch(t *testing.T, args ...string) *watchRun {
	t.Helper()
	isolate(t)

	root := NewRootCmd()
	out := new(syncBuffer)
	root.SetOut(out)
	root.SetErr(new(syncBuffer))
	root.SetArgs(args)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w := &watchRun{t: t, out: out, cancel: cancel, done: make(chan error, 1)}
	go func() {
		w.done <- root.ExecuteContext(ctx)
	}()
	return w
}

// waitFor blocks until the output contains want, failing early if the
// command exits first.
func (w *watchRun) waitFor(want string) {
	w.t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(w.out.String(), want) {
		select {
		case err := <-w.done:
			w.t.Fatalf("watch exited with %v before printing %q, output:\n%s", err, want, w.out.String())
		default:
		}
		if time.Now().After(deadline) {
			w.t.Fatalf("timed out waiting for %q, output:\n%s", want, w.out.String())
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func (w *watchRun) stop() {
	w.t.Helper()

	w.cancel()
	select {
	case err := <-w.done:
		if err != nil {
			w.t.Errorf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		w.t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchCommand(t *testing.T) {
	dir := t.TempDir()

	w := startWatch(t, "watch", dir)
	w.waitFor("watching 1 directories")
	writeFile(t, dir, "glow.yaml", glowSchema)
	w.waitFor("2 properties")
	w.stop()
}

func TestWatchDirectoryAlsoPassedAsSchema(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "glow.yaml", glowSchema)

	w := startWatch(t, "--schema", dir+"/", "watch", dir)
	w.waitFor("watching 1 directories")
	if strings.Contains(w.out.String(), "FAIL") {
		t.Errorf("startup files were applied twice:\n%s", w.out.String())
	}
	w.stop()
}

func TestWatchRequiresDirectory(t *testing.T) {
	_, err := executeCommand(t, "watch")
	if !errors.Is(err, errors.ErrInvalidValue) {
		t.Errorf("watch without dirs error = %v, want ErrInvalidValue", err)
	}

	file := writeFile(t, t.TempDir(), "glow.yaml", glowSchema)
	_, err = executeCommand(t, "watch", file)
	if !errors.Is(err, errors.ErrInvalidValue) {
		t.Errorf("watch on a file error = %v, want ErrInvalidValue", err)
	}
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint bool
	}{
		{"unknown property", errors.NewUnknownPropertyError("NODE_GLOW"), false},
		{"wrapped schema error", errors.Wrap(errors.NewSchemaError("bad", nil).WithPath("x.yaml"), "load"), false},
		{"command line mistake", errors.New(`unknown command "frobnicate" for "vizlex"`), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)

			got := buf.String()
			if !strings.HasPrefix(got, "Error: "+tt.err.Error()+"\n") {
				t.Errorf("output = %q", got)
			}
			if hint := strings.Contains(got, "vizlex --help"); hint != tt.wantHint {
				t.Errorf("usage hint = %v, want %v", hint, tt.wantHint)
			}
		})
	}
}
