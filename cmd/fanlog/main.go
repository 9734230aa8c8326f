// Command fanlog wires loggers from a configuration file, or a single stdout logger
// when none is given, and logs through the registry's default logger. With -pipe it
// forwards every line read from standard input as one record.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/sivaosorg/fanlog"
	"github.com/sivaosorg/fanlog/config"
)

const (
	envConfig = "FANLOG_CONFIG"
	envLevel  = "FANLOG_LEVEL"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fanlog", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a .yaml, .json5 or .toml logging config (env "+envConfig+")")
	levelName := fs.String("level", "", "severity of piped lines and of the fallback logger (env "+envLevel+")")
	pipe := fs.Bool("pipe", false, "forward stdin lines to the default logger")
	envFile := fs.String("env", ".env", "dotenv file to load when present")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if _, err := os.Stat(*envFile); err == nil {
		if err := godotenv.Load(*envFile); err != nil {
			fmt.Fprintf(stderr, "fanlog: load %s: %v\n", *envFile, err)
			return 1
		}
	}
	if *configPath == "" {
		*configPath = os.Getenv(envConfig)
	}
	if *levelName == "" {
		*levelName = os.Getenv(envLevel)
	}
	level := fanlog.InfoIssuer
	if *levelName != "" {
		parsed, ok := fanlog.ParseSeverity(*levelName)
		if !ok {
			fmt.Fprintf(stderr, "fanlog: unknown level %q\n", *levelName)
			return 2
		}
		level = parsed
	}

	fanlog.SetDiagnosticOutput(stderr)
	registry := fanlog.NewRegistry()
	fanlog.SetGlobal(registry)
	colored := isTerminal(stdout)

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "fanlog: %v\n", err)
			return 1
		}
		applied, err := cfg.Apply(registry,
			config.WithStdout(stdout),
			config.WithStderr(stderr),
			config.WithLoggerOptions(fanlog.WithColor(colored)))
		if err != nil {
			fmt.Fprintf(stderr, "fanlog: %v\n", err)
			return 1
		}
		defer applied.Close()
	} else {
		sink := fanlog.NewWriterSink(stdout, fanlog.WithSinkLevel(level))
		logger := fanlog.New("Main Log", fanlog.WithLevel(level), fanlog.WithSinks(sink), fanlog.WithColor(colored))
		registry.Register(logger)
		defer logger.Flush()
	}

	if !*pipe {
		fanlog.Info("Hello world!")
		return 0
	}

	// Lines have no length limit; each one becomes a single record.
	reader := bufio.NewReader(stdin)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			registry.Default().Log(level, strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return 0
		}
		if err != nil {
			fmt.Fprintf(stderr, "fanlog: read stdin: %v\n", err)
			return 1
		}
	}
}

// isTerminal reports whether w is a terminal, so colors are only sent to humans.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
