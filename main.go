package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/brodycritchlow/serpentine/config"
	"github.com/brodycritchlow/serpentine/parser"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "config",
		Value: config.DefaultFile,
		Usage: "path to the serpentine config file",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "serpentine",
		Usage: "type check module-level Python assignments",
		ExitErrHandler: func(context *cli.Context, err error) {
			if coder, ok := err.(cli.ExitCoder); ok {
				os.Exit(coder.ExitCode())
			}
			log.Fatalf("error with serpentine: %s", err)
		},
		Commands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "type check a file",
				ArgsUsage: "<file.py>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "show all variable types on success or error",
					},
					&cli.BoolFlag{
						Name:  "show-types-on-error",
						Usage: "show typed variables when the check fails",
					},
					&cli.BoolFlag{
						Name:  "including-implicit",
						Usage: "check types for all variables, not just explicitly typed ones",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print the result as JSON",
					},
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "log every checker decision to stderr",
					},
					&cli.BoolFlag{
						Name:  "stack",
						Usage: "print the parser stack trace of a syntax error",
					},
					&cli.BoolFlag{
						Name:  "list-types",
						Usage: "print the supported annotation types and exit",
					},
					configFlag(),
				},
				Action: checkAction,
			},
			{
				Name:  "init",
				Usage: "write a default config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "including-implicit",
						Usage: "enable implicit checking in the written config",
					},
					configFlag(),
				},
				Action: func(c *cli.Context) error {
					path := c.String("config")
					err := config.Write(path, config.Config{
						ImplicitChecking: c.Bool("including-implicit"),
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
					return nil
				},
			},
			{
				Name:      "dump",
				Usage:     "dump the parsed statements of a file",
				ArgsUsage: "<file.py>",
				Action: func(c *cli.Context) error {
					file := c.Args().First()
					handle, err := os.Open(file)
					if err != nil {
						fmt.Fprintf(c.App.ErrWriter, "Error: File '%s' not found\n", file)
						return cli.Exit("", 1)
					}
					defer handle.Close()

					prog, err := parser.ParseSource(handle, file)
					if err != nil {
						fmt.Fprintln(c.App.ErrWriter, tracerr.SprintSource(err))
						return cli.Exit("", 1)
					}
					repr.New(c.App.Writer, repr.Indent("  ")).Println(prog)
					return nil
				},
			},
			{
				Name:  "repl",
				Usage: "check assignments interactively",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "including-implicit",
						Usage: "check types for all variables, not just explicitly typed ones",
					},
					configFlag(),
				},
				Action: replAction,
			},
		},
	}
}

func main() {
	app := newApp()
	app.Run(os.Args)
}
