package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], DefaultEnv()))
}

// run dispatches subcommands and returns the process exit code.
// A leading argument that is not a known command is treated as convert input,
// so `svg2png icons/` works without spelling out the command.
func run(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "help", "-h", "--help":
		runHelp(args[1:], env)
		return ExitSuccess
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "svg2png %s\n", Version)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(args[1:], env)
	case "convert":
		args = args[1:]
	}

	return runConvertCmd(args, env)
}

// runConvertCmd parses convert flags, configures the runtime and executes the
// conversion, mapping errors to exit codes.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.common.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	if err := runConvert(positional, flags, env); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runHelp prints usage for the given command, or the general usage.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}
	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	default:
		printUsage(env.Stdout)
	}
}
