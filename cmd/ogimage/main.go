package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// commandFunc runs one build command under a signal-aware context.
type commandFunc func(ctx context.Context, args []string, env *Environment) error

// buildCommands are the commands that take a context.
var buildCommands = map[string]commandFunc{
	"hugo":        runHugo,
	"frontmatter": runFrontmatter,
	"render":      runRender,
	"init":        runInit,
}

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// hasVerboseFlag reports whether args ask for verbose output, before any
// command parses them.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// isCommand reports whether name is a known command.
func isCommand(name string) bool {
	if _, ok := buildCommands[name]; ok {
		return true
	}
	switch name {
	case "doctor", "completion", "version", "help":
		return true
	}
	return false
}

// runMain dispatches args[1] and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "ogimage %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		return report(env, runCompletion(rest, env))
	}

	if !isCommand(cmd) {
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := buildCommands[cmd](ctx, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		return runHelp([]string{cmd}, env)
	}
	if errors.Is(err, ErrUsage) {
		fmt.Fprintf(env.Stderr, "error: %v\nRun 'ogimage help %s' for usage.\n", err, cmd)
		return ExitUsage
	}
	return report(env, err)
}

// report prints err to stderr with a hint and returns its exit code.
func report(env *Environment, err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %s\n", describeError(err))
	return exitCodeFor(err)
}
