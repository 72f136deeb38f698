package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	"github.com/brodycritchlow/serpentine/checker"
	"github.com/brodycritchlow/serpentine/config"
	"github.com/brodycritchlow/serpentine/parser"
)

const (
	historyFile = ".serpentine_history"
	promptMain  = ">>> "
	promptCont  = "... "
	replSource  = "<stdin>"
)

// session is one interactive checker. Bindings persist across inputs and
// survive errors.
type session struct {
	checker *checker.Checker
	out     io.Writer
	errOut  io.Writer
}

func newSession(s checker.Settings, out, errOut io.Writer) *session {
	return &session{
		checker: checker.New(s),
		out:     out,
		errOut:  errOut,
	}
}

// eval handles one complete input. It returns false when the session should
// end.
func (s *session) eval(src string) bool {
	trimmed := strings.TrimSpace(src)
	switch {
	case trimmed == "":
		return true
	case trimmed == ":quit":
		return false
	case trimmed == ":vars":
		for _, name := range s.checker.Names() {
			t, _ := s.checker.VariableType(name)
			fmt.Fprintf(s.out, "%s : %s\n", name, t)
		}
		return true
	case strings.HasPrefix(trimmed, ":"):
		fmt.Fprintln(s.out, "unknown command. Type :vars or :quit.")
		return true
	}

	if err := s.checker.AnalyzeSource(strings.NewReader(src+"\n"), replSource); err != nil {
		fmt.Fprintf(s.errOut, "Error: %s\n", err)
	}
	return true
}

// readInput collects lines from prompt until they form a statement. A line
// ending in a colon opens a block that runs until a blank line; otherwise
// lines are gathered while the parser reports the input as incomplete. The
// boolean is false at end of input.
func readInput(prompt func(string) (string, error)) (string, bool) {
	var lines []string
	block := false

	for {
		p := promptMain
		if len(lines) > 0 {
			p = promptCont
		}

		line, err := prompt(p)
		if err == io.EOF {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if len(lines) == 0 {
			block = strings.HasSuffix(strings.TrimSpace(line), ":")
		}
		if block {
			if strings.TrimSpace(line) == "" {
				return strings.Join(lines, "\n"), true
			}
			lines = append(lines, line)
			continue
		}

		lines = append(lines, line)
		src := strings.Join(lines, "\n")
		_, perr := parser.ParseSource(strings.NewReader(src+"\n"), replSource)
		if perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

func replAction(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("including-implicit") {
		cfg.ImplicitChecking = c.Bool("including-implicit")
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	s := newSession(checker.Settings{ImplicitChecking: cfg.ImplicitChecking}, c.App.Writer, c.App.ErrWriter)
	for {
		src, ok := readInput(ln.Prompt)
		if !ok {
			fmt.Fprintln(c.App.Writer)
			return nil
		}
		if strings.TrimSpace(src) != "" {
			ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}
		if !s.eval(src) {
			return nil
		}
	}
}
