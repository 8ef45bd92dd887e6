package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const goodConfig = `[setup]
channel width = 20
medium = CellCarrier

[experiment]
sample = blood
`

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good/M1.ini", goodConfig)
	bad := writeFile(t, dir, "bad/M2.ini", "[setup]\nchanel width = 20\n[plotting]\ncolor = red\n")

	code, out, _ := execute(t, "check", filepath.Join(dir, "good", "*.ini"))
	if code != 0 {
		t.Errorf("check good exit code = %d, output:\n%s", code, out)
	}
	if !strings.Contains(out, good+": ok") {
		t.Errorf("output = %q", out)
	}

	code, out, errOut := execute(t, "check", filepath.Join(dir, "**", "*.ini"))
	if code != 1 {
		t.Errorf("check all exit code = %d", code)
	}
	for _, want := range []string{
		bad + ": unknown_key:",
		`did you mean "channel width"?`,
		bad + ": deprecated_section:",
		good + ": ok",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(errOut, "2 problem(s) found") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestCheck_NoMatches(t *testing.T) {
	code, _, errOut := execute(t, "check", filepath.Join(t.TempDir(), "*.ini"))
	if code != 1 || !strings.Contains(errOut, "no files match") {
		t.Errorf("code = %d, stderr = %q", code, errOut)
	}
}

func TestShow(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ini", goodConfig)
	b := writeFile(t, dir, "b.toml", "[setup]\nmedium = \"water\"\n")

	code, out, errOut := execute(t, "show", a, b, "--section", "setup")
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, errOut)
	}
	want := "[setup]\nchannel width = 20.000000000000\nmedium = water\n\n"
	if out != want {
		t.Errorf("show = %q, want %q", out, want)
	}
}

func TestShow_Env(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ini", goodConfig)
	env := writeFile(t, dir, "test.env", "RTDC_SETUP__FLOW_RATE=0.16\nOTHER=1\n")

	code, out, errOut := execute(t, "show", a, "-s", "setup", "--env-file", env)
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, errOut)
	}
	if !strings.Contains(out, "flow rate = 0.160000000000\n") {
		t.Errorf("show = %q", out)
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ini", goodConfig)

	code, out, errOut := execute(t, "convert", a, "--to", "json")
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, errOut)
	}
	if got := gjson.Get(out, "setup.channel width").Float(); got != 20 {
		t.Errorf("channel width = %v in %s", got, out)
	}
	if !gjson.Get(out, "filtering.enable filters").Bool() {
		t.Errorf("filtering defaults missing in %s", out)
	}

	target := filepath.Join(dir, "out.yaml")
	if code, _, errOut := execute(t, "convert", a, "-t", "yaml", "-o", target); code != 0 {
		t.Fatalf("exit code = %d: %s", code, errOut)
	}
	code, out, _ = execute(t, "show", target, "-s", "experiment")
	if code != 0 || out != "[experiment]\nsample = blood\n" {
		t.Errorf("show converted = %d %q", code, out)
	}

	if code, _, _ := execute(t, "convert", a, "--to", "xml"); code != 1 {
		t.Errorf("unknown format exit code = %d", code)
	}
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ini", goodConfig)
	same := writeFile(t, dir, "same.ini", strings.ToUpper(goodConfig[:8])+goodConfig[8:])
	b := writeFile(t, dir, "b.ini", strings.Replace(goodConfig, "CellCarrier", "water", 1))

	if code, out, _ := execute(t, "diff", a, same); code != 0 {
		t.Errorf("identical configs: code = %d\n%s", code, out)
	}

	code, out, errOut := execute(t, "diff", a, b)
	if code != 1 {
		t.Errorf("exit code = %d", code)
	}
	if errOut != "" {
		t.Errorf("diff should be silent on stderr, got %q", errOut)
	}
	if !strings.Contains(out, "-medium = CellCarrier\n") || !strings.Contains(out, "+medium = water\n") {
		t.Errorf("diff output:\n%s", out)
	}
	if !strings.Contains(out, " [setup]\n") || !strings.Contains(out, " sample = blood\n") {
		t.Errorf("unchanged lines missing from diff output:\n%s", out)
	}
}

func TestMetricsFlag(t *testing.T) {
	a := writeFile(t, t.TempDir(), "a.ini", "[setup]\nbogus = 1\n")

	_, _, errOut := execute(t, "show", a, "--metrics")
	for _, want := range []string{
		`rtdcconfig_diagnostics_total{code="unknown_key"} 1`,
		`rtdcconfig_sources_loaded_total{format="text"} 1`,
	} {
		if !strings.Contains(errOut, want) {
			t.Errorf("metrics missing %q:\n%s", want, errOut)
		}
	}
}

func TestRunWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ini", goodConfig)

	var stdout bytes.Buffer
	a := newApp(&stdout, &bytes.Buffer{})
	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.runWatch(ctx, []string{path}, false) }()

	time.Sleep(300 * time.Millisecond)
	writeFile(t, dir, "a.ini", strings.Replace(goodConfig, "CellCarrier", "water", 1))

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runWatch() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runWatch did not stop on context cancellation")
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "[experiment]\n") {
		t.Errorf("initial configuration not printed:\n%s", out)
	}
	if !strings.Contains(out, "+ [setup] medium = water\n") {
		t.Errorf("change not reported:\n%s", out)
	}
}

func TestRunWatch_KeepsEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ini", goodConfig)
	env := writeFile(t, dir, "test.env", "RTDC_SETUP__MEDIUM=fromenv\n")

	var stdout bytes.Buffer
	a := newApp(&stdout, &bytes.Buffer{})
	a.envFile = env
	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.runWatch(ctx, []string{path}, false) }()

	time.Sleep(300 * time.Millisecond)
	writeFile(t, dir, "a.ini", strings.Replace(goodConfig, "blood", "plasma", 1))

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runWatch() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runWatch did not stop on context cancellation")
	}

	out := stdout.String()
	if !strings.Contains(out, "medium = fromenv\n") {
		t.Errorf("env override missing from initial configuration:\n%s", out)
	}
	if !strings.Contains(out, "+ [experiment] sample = plasma\n") {
		t.Errorf("change not reported:\n%s", out)
	}
	if strings.Contains(out, "[setup] medium") {
		t.Errorf("reload dropped the env override of [setup] medium:\n%s", out)
	}
}
