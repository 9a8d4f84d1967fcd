// Command compounds builds compound_dict.json: every JMdict entry whose
// headword is a compound of two or more kanji, with its reading, first-sense
// glosses and the JLPT level of each character.
//
// Flags:
//
//	-config   path to YAML config file (default: CONFIG_PATH or ./compounds.yaml)
//	-yes      skip the confirmation prompt
//	-version  print the build version and exit
//
// Exit codes: 0 = success or declined, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/jmdict-compounds/internal/app"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("compounds", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFlag := fs.String("config", "", "path to YAML config file")
	yesFlag := fs.Bool("yes", false, "skip the confirmation prompt")
	versionFlag := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	if *versionFlag {
		fmt.Fprintln(stdout, app.BuildVersion())
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.Run(ctx, app.Options{
		ConfigPath: *configFlag,
		Yes:        *yesFlag,
		Stdin:      stdin,
		Stdout:     stdout,
	})
	if err != nil {
		slog.Error("compounds failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}
