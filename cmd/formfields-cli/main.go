package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitError   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *environment, args []string) (int, error)
}

var commands = []command{
	{name: "render", summary: "render the fill-time HTML form", run: runRender},
	{name: "fill", summary: "fill the form interactively in the terminal", run: runFill},
	{name: "present", summary: "display stored values read-only (html, text or json)", run: runPresent},
	{name: "verify", summary: "check a submission payload against the schema", run: runVerify},
	{name: "export", summary: "export the submission payload as an OpenAPI document", run: runExport},
	{name: "edit", summary: "apply a scripted list of schema edits", run: runEdit},
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return exitError
		}
		return exitOK
	}

	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		env := newEnvironment(stdout, stderr)
		code, err := cmd.run(ctx, env, args[1:])
		if err != nil {
			if err == flag.ErrHelp {
				return exitOK
			}
			env.logger.Error().Err(err).Str("command", cmd.name).Msg("command failed")
			fmt.Fprintf(stderr, "%s: %v\n", cmd.name, err)
			return exitError
		}
		return code
	}

	fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
	usage(stderr)
	return exitError
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s <command> [flags]\n\nCommands:\n", filepath.Base(os.Args[0]))
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintf(w, "\nRun '%s <command> -h' for command flags.\n", filepath.Base(os.Args[0]))
}
