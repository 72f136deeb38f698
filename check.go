package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/brodycritchlow/serpentine/checker"
	"github.com/brodycritchlow/serpentine/config"
	"github.com/brodycritchlow/serpentine/errors"
	"github.com/brodycritchlow/serpentine/pytype"
)

type checkOptions struct {
	config.Config
	JSON  bool
	Trace bool
	Stack bool
}

// loadOptions reads the config file and lets explicitly set flags win.
func loadOptions(c *cli.Context) (checkOptions, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return checkOptions{}, err
	}

	override := func(flag string, dst *bool) {
		if c.IsSet(flag) {
			*dst = c.Bool(flag)
		}
	}
	override("verbose", &cfg.Verbose)
	override("show-types-on-error", &cfg.ShowTypesOnError)
	override("including-implicit", &cfg.ImplicitChecking)

	return checkOptions{
		Config: cfg,
		JSON:   c.Bool("json"),
		Trace:  c.Bool("trace"),
		Stack:  c.Bool("stack"),
	}, nil
}

func checkAction(c *cli.Context) error {
	if c.Bool("list-types") {
		for _, t := range pytype.All() {
			fmt.Fprintln(c.App.Writer, t)
		}
		return nil
	}

	file := c.Args().First()
	if file == "" {
		fmt.Fprintf(c.App.ErrWriter, "Usage: %s check <file.py> [OPTIONS]\n", c.App.Name)
		return cli.Exit("", 1)
	}

	opts, err := loadOptions(c)
	if err != nil {
		return err
	}

	if code := runCheck(file, opts, c.App.Writer, c.App.ErrWriter); code != 0 {
		return cli.Exit("", code)
	}
	return nil
}

func printVariables(w io.Writer, heading string, c *checker.Checker) {
	names := c.Names()
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", heading)
	for _, name := range names {
		t, _ := c.VariableType(name)
		fmt.Fprintf(w, "  %s : %s\n", name, t)
	}
}

// runCheck checks file and reports to stdout and stderr. It returns the
// process exit code.
func runCheck(file string, opts checkOptions, stdout, stderr io.Writer) int {
	handle, err := os.Open(file)
	if err != nil {
		fmt.Fprintf(stderr, "Error: File '%s' not found\n", file)
		return 1
	}
	defer handle.Close()

	settings := checker.Settings{ImplicitChecking: opts.ImplicitChecking}
	if opts.Trace {
		settings.Log = log.New(stderr, "trace: ", 0)
	}

	c := checker.New(settings)
	err = c.AnalyzeSource(handle, file)

	if opts.Stack {
		if perr, ok := err.(errors.ParseError); ok {
			fmt.Fprintln(stderr, tracerr.SprintSource(perr.Cause))
		}
	}

	if opts.JSON {
		if werr := writeTypeReport(stdout, newTypeReport(c, err)); werr != nil {
			fmt.Fprintf(stderr, "Error: %s\n", werr)
			return 1
		}
		if err != nil {
			return 1
		}
		return 0
	}

	if err != nil {
		fmt.Fprintf(stderr, "❌ Type check failed for '%s'\n", file)
		fmt.Fprintf(stderr, "Error: %s\n", err)
		if opts.Verbose || opts.ShowTypesOnError {
			printVariables(stderr, "Variables typed before error", c)
		}
		return 1
	}

	fmt.Fprintf(stdout, "✅ Type check passed for '%s'\n", file)
	if opts.Verbose {
		printVariables(stdout, "Variable types", c)
	}
	return 0
}
