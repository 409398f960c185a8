package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mimic/internal/config"
	"mimic/internal/diagfmt"
	"mimic/internal/semantic"
	"mimic/internal/version"
)

const storeSrc = `typealias ID = String

protocol Store {
    func load(id: ID) -> Model?
    func save(_ model: Model, as key: Key)
}

struct Other {}
`

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp().run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func decodeModels(t *testing.T, out string) map[string]*semantic.Model {
	t.Helper()
	var wires []semantic.ModelWire
	require.NoError(t, json.Unmarshal([]byte(out), &wires), out)
	models := make(map[string]*semantic.Model, len(wires))
	for _, w := range wires {
		m, err := w.Model()
		require.NoError(t, err)
		models[m.Name] = m
	}
	return models
}

func TestTokenizeJSON(t *testing.T) {
	root := writeFiles(t, map[string]string{"P.swift": "protocol P {}\n"})
	out, _, err := runCLI(t, "tokenize", "--format", "json", filepath.Join(root, "P.swift"))
	require.NoError(t, err)

	var tokens []diagfmt.TokenOutput
	require.NoError(t, json.Unmarshal([]byte(out), &tokens))
	require.GreaterOrEqual(t, len(tokens), 4)
	assert.Equal(t, "P", tokens[1].Text)
	assert.Equal(t, uint32(9), tokens[1].Offset)
	assert.Equal(t, uint32(1), tokens[1].Length)
}

func TestTokenizeMissingFile(t *testing.T) {
	_, _, err := runCLI(t, "tokenize", filepath.Join(t.TempDir(), "nope.swift"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tokenization failed")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseFilePretty(t *testing.T) {
	root := writeFiles(t, map[string]string{"Store.swift": storeSrc})
	out, stderr, err := runCLI(t, "parse", filepath.Join(root, "Store.swift"))
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "TypeAlias typealias ID")
	assert.Contains(t, out, "TypeDecl protocol Store")
	assert.Contains(t, out, "FuncDecl save")
	assert.Empty(t, stderr)
}

func TestParseDirJSON(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"A.swift":     "struct A {}\n",
		"sub/B.swift": "enum B {}\n",
		"notes.txt":   "skip me",
	})
	out, _, err := runCLI(t, "parse", "--format", "json", root)
	require.NoError(t, err)

	var trees map[string]diagfmt.TreeNodeJSON
	require.NoError(t, json.Unmarshal([]byte(out), &trees))
	require.Len(t, trees, 2)
	assert.Equal(t, "TypeDecl", trees["A.swift"].Children[0].Kind)
	assert.Equal(t, "B", trees["sub/B.swift"].Children[0].Fields["name"])
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	root := writeFiles(t, map[string]string{"gap.swift": "class : , Base"})
	out, stderr, err := runCLI(t, "parse", "--path-mode", "basename", filepath.Join(root, "gap.swift"))
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "TypeDecl class <missing>")
	assert.Contains(t, stderr, "gap.swift:1:")
	assert.Contains(t, stderr, "ERROR SYN")
	assert.NotContains(t, stderr, "\x1b[", "no color for non-terminal output")
}

func TestParseDiagnosticsAsJSON(t *testing.T) {
	root := writeFiles(t, map[string]string{"gap.swift": "class : , Base"})
	_, stderr, err := runCLI(t, "parse", "--diag-format", "json", filepath.Join(root, "gap.swift"))
	require.ErrorIs(t, err, errReported)

	var decoded diagfmt.DiagnosticsOutput
	require.NoError(t, json.Unmarshal([]byte(stderr), &decoded))
	require.NotZero(t, decoded.Count)
	assert.Equal(t, "ERROR", decoded.Diagnostics[0].Severity)
}

func TestParseDiagnosticsShort(t *testing.T) {
	root := writeFiles(t, map[string]string{"gap.swift": "class : , Base"})
	_, stderr, err := runCLI(t, "parse", "--diag-format", "short", filepath.Join(root, "gap.swift"))
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "error SYN")
	assert.Contains(t, stderr, "gap.swift:1:")
	assert.True(t, strings.HasSuffix(stderr, "\n"))
}

func TestExtractJSON(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"Store.swift":       storeSrc,
		"Model/Model.swift": "struct Model {\n    var key: Int\n}\n",
	})
	out, stderr, err := runCLI(t, "extract", "--ui", "off", "--no-cache", root)
	require.NoError(t, err, stderr)

	models := decodeModels(t, out)
	require.Contains(t, models, "Store")
	require.Contains(t, models, "Model")
	load := models["Store"].Methods[0]
	assert.Equal(t, "load", load.Name)
	assert.Equal(t, "String", load.Params[0].Type.Resolved.String())
	assert.Equal(t, "ID", load.Params[0].Type.Original.String())
}

func TestExtractTypeWithAlias(t *testing.T) {
	root := writeFiles(t, map[string]string{"Store.swift": storeSrc})
	out, stderr, err := runCLI(t, "extract", "--ui", "off", "--no-cache",
		"--format", "pretty", "--type", "Store", "--alias", "Key=UUID",
		filepath.Join(root, "Store.swift"))
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "protocol Store\n")
	assert.Contains(t, out, "func load(id: String) -> Model?")
	assert.Contains(t, out, "func save(_ model: Model, as key: UUID)")
	assert.NotContains(t, out, "Other")
}

func TestExtractTypeNotFound(t *testing.T) {
	root := writeFiles(t, map[string]string{"Store.swift": storeSrc})
	out, stderr, err := runCLI(t, "extract", "--ui", "off", "--no-cache", "--type", "Missing", root)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "SEM3004")
	assert.Contains(t, stderr, "type Missing not found")
	assert.Empty(t, decodeModels(t, out))
}

func TestExtractInvalidFlags(t *testing.T) {
	root := writeFiles(t, map[string]string{"Store.swift": storeSrc})
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"alias without type", []string{"--alias", "Key="}, "invalid --alias"},
		{"binding without name", []string{"--bind", "=Int"}, "invalid --bind"},
		{"self binding", []string{"--bind", "T=(T, T, T, T)"}, "refers to its own placeholder"},
		{"format", []string{"--format", "yaml"}, "unknown format"},
		{"ui", []string{"--ui", "maybe"}, "invalid --ui"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"extract", "--no-cache"}, tt.args...)
			_, _, err := runCLI(t, append(args, root)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestExtractUsesConfig(t *testing.T) {
	root := writeFiles(t, map[string]string{
		config.FileName:        "[extract]\ncache = false\nexclude = [\"Generated/**\"]\n\n[aliases]\nKey = \"UUID\"\n",
		"Store.swift":          storeSrc,
		"Generated/Mock.swift": "class MockStore {}\n",
	})
	out, stderr, err := runCLI(t, "extract", "--ui", "off", root)
	require.NoError(t, err, stderr)

	models := decodeModels(t, out)
	assert.NotContains(t, models, "MockStore")
	save := models["Store"].Methods[1]
	assert.Equal(t, "UUID", save.Params[1].Type.Resolved.String())

	// флаг перекрывает exclude из конфига
	out, _, err = runCLI(t, "extract", "--ui", "off", "--exclude", "", root)
	require.NoError(t, err)
	assert.Contains(t, decodeModels(t, out), "MockStore")
}

func TestInvalidConfigPattern(t *testing.T) {
	root := writeFiles(t, map[string]string{
		config.FileName: "[extract]\ninclude = [\"[a-\"]\n",
		"Store.swift":   storeSrc,
	})
	_, stderr, err := runCLI(t, "extract", "--ui", "off", root)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "CFG5001")
	assert.Contains(t, stderr, config.FileName+":2:")
}

func TestTimingsAndTrace(t *testing.T) {
	root := writeFiles(t, map[string]string{"Store.swift": storeSrc})
	tracePath := filepath.Join(t.TempDir(), "trace.ndjson")
	_, stderr, err := runCLI(t, "--timings", "--trace", tracePath,
		"extract", "--ui", "off", "--no-cache", root)
	require.NoError(t, err)
	assert.Contains(t, stderr, "parse")
	assert.Contains(t, stderr, "total")

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "extract_dir")
}

func TestRingDumpedOnFailure(t *testing.T) {
	root := writeFiles(t, map[string]string{"Store.swift": storeSrc})
	_, stderr, err := runCLI(t, "--trace-level", "phase", "--trace-mode", "ring",
		"extract", "--ui", "off", "--no-cache", "--type", "Missing", root)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "trace: last events before failure:")
	assert.Contains(t, stderr, "extract_dir")
}

func TestInitAndConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	out, _, err := runCLI(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "created ")
	assert.FileExists(t, filepath.Join(dir, config.FileName))

	_, _, err = runCLI(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	out, _, err = runCLI(t, "config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "# "+filepath.Join(dir, config.FileName))
	assert.Contains(t, out, "[extract]")
	assert.Contains(t, out, "Pods/**")
}

func TestCacheClean(t *testing.T) {
	root := writeFiles(t, map[string]string{
		config.FileName: "[extract]\ncache_dir = \".mimic-cache\"\n",
		"Store.swift":   storeSrc,
	})
	_, stderr, err := runCLI(t, "extract", "--ui", "off", root)
	require.NoError(t, err, stderr)
	models := filepath.Join(root, ".mimic-cache", "models")
	assert.DirExists(t, models)

	out, _, err := runCLI(t, "cache", "clean", root)
	require.NoError(t, err)
	assert.Contains(t, out, "removed cached models")
	assert.NoDirExists(t, models)
}

func TestVersionJSON(t *testing.T) {
	out, _, err := runCLI(t, "version", "--format", "json", "--full")
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "mimic", payload["tool"])
	assert.Equal(t, version.Get().Version, payload["version"])
	assert.NotEmpty(t, payload["git_commit"])
	assert.NotEmpty(t, payload["build_date"])
}

func TestVersionPretty(t *testing.T) {
	out, _, err := runCLI(t, "--color", "off", "version")
	require.NoError(t, err)
	assert.Equal(t, "mimic "+version.Get().Version+"\n", out)
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments("--alias", []string{"ID=Int", " Key = [String: Int] "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ID": "Int", "Key": "[String: Int]"}, got)

	got, err = parseAssignments("--alias", nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseAssignments("--bind", []string{"T"})
	assert.ErrorContains(t, err, "expected Name=Type")
}

func TestMergeAssignmentsLeavesBaseAlone(t *testing.T) {
	base := map[string]string{"ID": "Int", "Key": "String"}
	got := mergeAssignments(base, map[string]string{"ID": "UUID"})
	assert.Equal(t, map[string]string{"ID": "UUID", "Key": "String"}, got)
	assert.Equal(t, map[string]string{"ID": "Int", "Key": "String"}, base)

	assert.Equal(t, base, mergeAssignments(base, nil))
	assert.Equal(t, map[string]string{"T": "Int"}, mergeAssignments(nil, map[string]string{"T": "Int"}))
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.False(t, shouldUseTUI(uiModeAuto, &bytes.Buffer{}))
	assert.True(t, shouldUseTUI(uiModeOn, &bytes.Buffer{}))
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	_, _, err := runCLI(t, "--cpuprofile", cpu, "--memprofile", mem, "version")
	require.NoError(t, err)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
}
