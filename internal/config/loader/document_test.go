package loader

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/dshills/rtdcconfig/internal/config/registry"
	"github.com/dshills/rtdcconfig/internal/config/value"
)

func TestParseTOML(t *testing.T) {
	data := []byte(`
title = "ignored"

[setup]
"channel width" = 20.0
medium = "CellCarrier"

[filtering]
"polygon filters" = [1, 2]
"limit events" = 5000

[experiment]
date = 2024-01-31

[user.nested]
x = 1
`)
	table, err := ParseTOML("cfg.toml", data)
	if err != nil {
		t.Fatalf("ParseTOML failed: %v", err)
	}

	want := value.Table{
		"setup": {
			"channel width": value.Float(20),
			"medium":        value.String("CellCarrier"),
		},
		"filtering": {
			"polygon filters": value.IntList(1, 2),
			"limit events":    value.Int(5000),
		},
		"experiment": {
			"date": value.String("2024-01-31"),
		},
		"user": {},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTOML_Error(t *testing.T) {
	_, err := ParseTOML("bad.toml", []byte("[setup\nx = "))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if pe.Path != "bad.toml" {
		t.Errorf("Path = %q", pe.Path)
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
setup:
  Channel Width: 30
  flow rate: 0.12
filtering:
  enable filters: false
  polygon filters: []
orphan: 3
`)
	table, err := ParseYAML("cfg.yaml", data)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}

	want := value.Table{
		"setup": {
			"channel width": value.Int(30),
			"flow rate":     value.Float(0.12),
		},
		"filtering": {
			"enable filters":  value.Bool(false),
			"polygon filters": value.FloatList(),
		},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYAML_Error(t *testing.T) {
	_, err := ParseYAML("bad.yaml", []byte("setup: [unclosed"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		// exported by rtdccfg
		"filtering": {"enable filters": true, "limit events": 0, "polygon filters": [], "hierarchy parent": "none",},
		"setup": {"channel width": 20.0, "flow rate": 1.6e-1},
		"user": {"weights": [1, 2.5], "tags": ["a"], "obj": {"x": 1}, "nothing": null},
		"scalar": 1
	}`)
	table, err := ParseJSON("cfg.json", data)
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}

	want := value.Table{
		"filtering": {
			"enable filters":   value.Bool(true),
			"limit events":     value.Int(0),
			"polygon filters":  value.FloatList(),
			"hierarchy parent": value.String("none"),
		},
		"setup": {
			"channel width": value.Float(20),
			"flow rate":     value.Float(0.16),
		},
		"user": {
			"weights": value.FloatList(1, 2.5),
		},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	for _, in := range []string{`{"setup": `, `[1, 2]`} {
		if _, err := ParseJSON("x.json", []byte(in)); err == nil {
			t.Errorf("ParseJSON(%q) should fail", in)
		}
	}
}

func TestLoad_DispatchByExtension(t *testing.T) {
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/c/a.toml": "[setup]\nmedium = \"water\"\n",
		"/c/a.yml":  "setup:\n  medium: water\n",
		"/c/a.json": `{"setup": {"medium": "water"}}`,
		"/c/a.ini":  "[setup]\nmedium = water\n",
	}
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	for path := range files {
		t.Run(path, func(t *testing.T) {
			table, err := Load(fsys, path, nil)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if v, _ := table.Get("setup", "medium"); !v.Equal(value.String("water")) {
				t.Errorf("medium = %v", v)
			}
		})
	}
}

func TestLoad_CoercesDocumentValues(t *testing.T) {
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/c/a.toml": "[setup]\n\"channel width\" = 20\n[filtering]\n\"polygon filters\" = []\n\"deform min\" = 0\n[user]\nn = 3\n",
		"/c/a.yaml": "setup:\n  channel width: 20\nfiltering:\n  polygon filters: []\n  deform min: 0\nuser:\n  n: 3\n",
		"/c/a.json": `{"setup": {"channel width": 20}, "filtering": {"polygon filters": [], "deform min": 0}, "user": {"n": 3}}`,
	}
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	want := value.Table{
		"setup":     {"channel width": value.Float(20)},
		"filtering": {"polygon filters": value.IntList(), "deform min": value.Float(0)},
		"user":      {"n": value.Int(3)},
	}
	for path := range files {
		t.Run(path, func(t *testing.T) {
			table, err := Load(fsys, path, registry.NewWithDefaults())
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if diff := cmp.Diff(want, table); diff != "" {
				t.Errorf("Load mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCoerceTable_KeepsUnconvertible(t *testing.T) {
	table := value.Table{
		"setup":   {"channel width": value.String("wide")},
		"unknown": {"x": value.Int(1)},
	}
	got := CoerceTable(table, registry.NewWithDefaults())

	if v, _ := got.Get("setup", "channel width"); !v.Equal(value.String("wide")) {
		t.Errorf("channel width = %v, want the raw string", v)
	}
	if v, _ := got.Get("unknown", "x"); !v.Equal(value.Int(1)) {
		t.Errorf("unknown x = %v", v)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"x.toml", FormatTOML},
		{"x.YAML", FormatYAML},
		{"x.jsonc", FormatJSON},
		{"M1_para.ini", FormatText},
		{"noext", FormatText},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.want {
			t.Errorf("DetectFormat(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}

	if f, err := ParseFormat("yml"); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(yml) = %s, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}
