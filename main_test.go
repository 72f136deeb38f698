package main

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/brodycritchlow/serpentine/checker"
	"github.com/brodycritchlow/serpentine/config"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "serpentine")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer

	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"serpentine"}, args...))
	code := 0
	if err != nil {
		coder, ok := err.(cli.ExitCoder)
		require.True(t, ok, "unexpected error: %s", err)
		code = coder.ExitCode()
	}
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestCheckPasses(t *testing.T) {
	dir := tempDir(t)
	file := writeFile(t, dir, "ok.py", "x: int = 42\ny = 'hello'\n")

	res := run(t, "check", "--config", filepath.Join(dir, "none.yaml"), file)
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "✅ Type check passed for '"+file+"'\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestCheckPassesVerbose(t *testing.T) {
	dir := tempDir(t)
	file := writeFile(t, dir, "ok.py", "y = 'hello'\nx: int = 42\n")

	res := run(t, "check", "--verbose", "--config", filepath.Join(dir, "none.yaml"), file)
	assert.Equal(t, 0, res.code)
	assert.Equal(t,
		"✅ Type check passed for '"+file+"'\n\nVariable types:\n  x : int\n  y : str\n",
		res.stdout)
}

func TestCheckFails(t *testing.T) {
	dir := tempDir(t)
	file := writeFile(t, dir, "bad.py", "a = 1\nx: int = 'hello'\n")

	res := run(t, "check", "--config", filepath.Join(dir, "none.yaml"), file)
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	assert.Equal(t,
		"❌ Type check failed for '"+file+"'\n"+
			"Error: Type \"Literal['hello']\" is not assignable to declared type \"int\"\n"+
			"  \"Literal['hello']\" is not assignable to \"int\"\n",
		res.stderr)
}

func TestCheckFailsShowsTypes(t *testing.T) {
	dir := tempDir(t)
	file := writeFile(t, dir, "bad.py", "a = 1\nx: int = 'hello'\n")

	res := run(t, "check", "--show-types-on-error", "--config", filepath.Join(dir, "none.yaml"), file)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "\nVariables typed before error:\n  a : int\n")
}

func TestCheckMissingFile(t *testing.T) {
	dir := tempDir(t)
	missing := filepath.Join(dir, "missing.py")

	res := run(t, "check", missing)
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "Error: File '"+missing+"' not found\n", res.stderr)
}

func TestCheckWithoutFile(t *testing.T) {
	res := run(t, "check")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Usage:")
}

func TestCheckListTypes(t *testing.T) {
	res := run(t, "check", "--list-types")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "int\nfloat\nstr\nbool\nlist\ndict\ntuple\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestCheckImplicitFromFlagAndConfig(t *testing.T) {
	dir := tempDir(t)
	file := writeFile(t, dir, "drift.py", "x = 42\nx = 'hello'\n")
	cfgPath := filepath.Join(dir, config.DefaultFile)

	assert.Equal(t, 0, run(t, "check", "--config", cfgPath, file).code)
	assert.Equal(t, 1, run(t, "check", "--including-implicit", "--config", cfgPath, file).code)

	require.NoError(t, config.Write(cfgPath, config.Config{ImplicitChecking: true}))
	assert.Equal(t, 1, run(t, "check", "--config", cfgPath, file).code)
	assert.Equal(t, 0, run(t, "check", "--including-implicit=false", "--config", cfgPath, file).code)
}

func TestCheckJSON(t *testing.T) {
	dir := tempDir(t)
	file := writeFile(t, dir, "bad.py", "a = [1]\nb: str = 42\n")

	res := run(t, "check", "--json", "--config", filepath.Join(dir, "none.yaml"), file)
	assert.Equal(t, 1, res.code)

	var report typeReport
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	assert.False(t, report.OK)
	assert.Contains(t, report.Error, "Literal[42]")
	assert.Equal(t, map[string]string{"a": "list"}, report.Variables)
}

func TestCheckParseErrorWithStack(t *testing.T) {
	dir := tempDir(t)
	file := writeFile(t, dir, "syntax.py", "x: = 42\n")

	res := run(t, "check", "--stack", "--config", filepath.Join(dir, "none.yaml"), file)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: Parse error: ")
}

func TestCheckTrace(t *testing.T) {
	dir := tempDir(t)
	file := writeFile(t, dir, "ok.py", "x = 1\n")

	res := run(t, "check", "--trace", "--config", filepath.Join(dir, "none.yaml"), file)
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stderr, "trace: ")
	assert.Contains(t, res.stderr, "x inferred int")
}

func TestInit(t *testing.T) {
	dir := tempDir(t)
	cfgPath := filepath.Join(dir, config.DefaultFile)

	res := run(t, "init", "--including-implicit", "--config", cfgPath)
	assert.Equal(t, 0, res.code)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.Config{ImplicitChecking: true}, cfg)
}

func TestDump(t *testing.T) {
	dir := tempDir(t)
	file := writeFile(t, dir, "ok.py", "x: int = 42\n")

	res := run(t, "dump", file)
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "TypedAssignment")
	assert.Contains(t, res.stdout, "\"int\"")
}

func TestSessionKeepsBindingsAcrossErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	s := newSession(checker.Settings{}, &out, &errOut)

	assert.True(t, s.eval("x: int = 1"))
	assert.True(t, s.eval("x = 'no'"))
	assert.Contains(t, errOut.String(), "Error: Type \"Literal['no']\"")

	assert.True(t, s.eval("y = [1]"))
	assert.True(t, s.eval("x: = 1"))
	assert.True(t, s.eval(":vars"))
	assert.Equal(t, "x : int\ny : list\n", out.String())

	assert.False(t, s.eval(":quit"))
}

func TestSessionUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	s := newSession(checker.Settings{}, &out, ioutil.Discard)
	assert.True(t, s.eval(":help"))
	assert.Contains(t, out.String(), "unknown command")
}

func lines(inputs ...string) func(string) (string, error) {
	return func(string) (string, error) {
		if len(inputs) == 0 {
			return "", io.EOF
		}
		line := inputs[0]
		inputs = inputs[1:]
		return line, nil
	}
}

func TestReadInputSingleLine(t *testing.T) {
	src, ok := readInput(lines("x = 1", "y = 2"))
	assert.True(t, ok)
	assert.Equal(t, "x = 1", src)
}

func TestReadInputContinuation(t *testing.T) {
	src, ok := readInput(lines("x = [1,", "2]", "y = 2"))
	assert.True(t, ok)
	assert.Equal(t, "x = [1,\n2]", src)
}

func TestReadInputBlock(t *testing.T) {
	src, ok := readInput(lines("if x:", "    y = 1", "    z = 2", "", "w = 3"))
	assert.True(t, ok)
	assert.Equal(t, "if x:\n    y = 1\n    z = 2", src)
}

func TestReadInputSyntaxErrorReturnsImmediately(t *testing.T) {
	src, ok := readInput(lines("x = )", "y = 1"))
	assert.True(t, ok)
	assert.Equal(t, "x = )", src)
}

func TestReadInputEOF(t *testing.T) {
	_, ok := readInput(lines())
	assert.False(t, ok)

	_, ok = readInput(lines("x = (1,"))
	assert.False(t, ok)
}
