// Package main provides the CLI entry point for the virtual machine.
//
// Usage:
//
//	vmspec run 5                   # Run the built-in program with input 5
//	vmspec run -strategy pc 5      # Same, using pc-specialized dispatch
//	vmspec run program.bin 5       # Run a bytecode file
//	vmspec disasm program.bin      # Disassemble bytecode
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/tliron/commonlog"

	"github.com/ashergottlieb/vm-specialization/pkg/config"
	"github.com/ashergottlieb/vm-specialization/pkg/vm"

	_ "github.com/tliron/commonlog/simple"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var log = commonlog.GetLogger("vmspec")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return printUsage()
	}

	cmd := os.Args[1]

	switch cmd {
	case "run":
		return runCommand(os.Args[2:])
	case "disasm":
		return disasmCommand(os.Args[2:])
	case "version":
		fmt.Printf("vmspec version %s\n", version)
		if commit != "none" {
			fmt.Printf("  commit: %s\n", commit)
		}
		if date != "unknown" {
			fmt.Printf("  built:  %s\n", date)
		}
		return nil
	case "help", "-h", "--help":
		return printUsage()
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	strategy := fs.String("strategy", "", "dispatch strategy: generic, pc, or transition")
	trace := fs.Bool("trace", false, "log each instruction as it executes")
	profile := fs.Bool("profile", false, "print an opcode profile after the run")
	maxSteps := fs.Int64("max-steps", 0, "abort after this many instructions (0 = unlimited)")
	dump := fs.String("dump", "", "write the final machine state to this file")
	configPath := fs.String("config", "", "load run settings from a TOML file")
	verbose := fs.Bool("v", false, "verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: vmspec run [file.bin] <input>")
	}

	// Settings layering: defaults, then config file, then flags.
	settings := config.Run{Strategy: vm.StrategyGeneric.String()}
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		settings = c.Run
	}
	if *strategy != "" {
		settings.Strategy = *strategy
	}
	if *trace {
		settings.Trace = true
	}
	if *profile {
		settings.Profile = true
	}
	if *maxSteps != 0 {
		settings.MaxSteps = *maxSteps
	}
	if *dump != "" {
		settings.DumpState = *dump
	}

	strat, err := vm.ParseStrategy(settings.Strategy)
	if err != nil {
		return err
	}

	// Last argument is the input; an optional preceding argument names a
	// bytecode file. Without one, the built-in program runs.
	code := vm.FibCode
	inputArg := fs.Arg(0)
	if fs.NArg() >= 2 {
		path := fs.Arg(0)
		inputArg = fs.Arg(1)
		code, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading bytecode: %w", err)
		}
		if *verbose {
			fmt.Printf("Loaded: %s (%d bytes)\n", path, len(code))
		}
	}

	input64, err := strconv.ParseUint(inputArg, 10, 32)
	if err != nil {
		return fmt.Errorf("input must be an unsigned 32-bit integer: %q", inputArg)
	}
	input := uint32(input64)

	if *verbose {
		fmt.Printf("Strategy: %s\n", strat)
	}

	machine := vm.New()
	if err := machine.Load(code); err != nil {
		return err
	}
	machine.SetStrategy(strat)
	machine.SetMaxSteps(settings.MaxSteps)
	if settings.Profile {
		machine.EnableStats()
	}
	if settings.Trace {
		commonlog.Configure(1, nil)
		machine.SetTracer(vm.TracerFunc(func(pc uint32, in vm.Instruction) {
			log.Infof("%04d: %s", pc, in)
		}))
	}

	out, err := machine.Execute(input)
	if err != nil {
		switch {
		case errors.Is(err, vm.ErrIllegalInstruction):
			return fmt.Errorf("%w at pc %d", vm.ErrIllegalInstruction, machine.State().PC)
		case errors.Is(err, vm.ErrPCOutOfRange):
			return fmt.Errorf("%w (last pc %d)", vm.ErrPCOutOfRange, machine.State().PC)
		}
		return err
	}

	fmt.Printf("r0 in:  %d\n", input)
	fmt.Printf("r0 out: %d\n", out)

	if settings.Profile {
		printProfile(machine.Stats())
	}
	if settings.DumpState != "" {
		if err := dumpState(machine.State(), settings.DumpState); err != nil {
			return err
		}
		if *verbose {
			fmt.Printf("State dumped to: %s\n", settings.DumpState)
		}
	}

	return nil
}

func printProfile(stats *vm.ExecutionStats) {
	fmt.Printf("\n%d instructions in %d ns\n", stats.StepsExecuted, stats.ExecutionTimeNs)
	fmt.Printf("branches: %d taken, %d not taken\n", stats.BranchesTaken, stats.BranchesNotTaken)
	fmt.Print(stats.Frame().Table())
	fmt.Println()
}

func dumpState(st *vm.State, path string) error {
	data, err := vm.MarshalSnapshot(st.Snapshot())
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

func disasmCommand(args []string) error {
	fs := flag.NewFlagSet("disasm", flag.ExitOnError)
	output := fs.String("o", "", "output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Without a file argument, disassemble the built-in program.
	code := vm.FibCode
	if fs.NArg() >= 1 {
		var err error
		code, err = os.ReadFile(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("reading bytecode: %w", err)
		}
	}

	asm := vm.Disassemble(code)

	if *output != "" {
		if err := os.WriteFile(*output, []byte(asm), 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Printf("Disassembled to: %s\n", *output)
	} else {
		fmt.Print(asm)
	}

	return nil
}

func printUsage() error {
	fmt.Println(`vmspec - register-based bytecode virtual machine

Usage:
  vmspec <command> [arguments]

Commands:
  run [file.bin] <input>   Run bytecode (default: the built-in program)
  disasm [file.bin]        Disassemble bytecode (default: the built-in program)
  version                  Print version information
  help                     Show this help message

Run Options:
  -strategy <name>      Dispatch strategy: generic, pc, or transition
  -trace                Log each instruction as it executes
  -profile              Print an opcode profile after the run
  -max-steps <n>        Abort after n instructions (0 = unlimited)
  -dump <file>          Write the final machine state to a file
  -config <file>        Load run settings from a TOML file
  -v                    Verbose output

Disasm Options:
  -o <file>             Output file (default: stdout)

Examples:
  vmspec run 5
  vmspec run -strategy transition -profile 12
  vmspec run program.bin 5
  vmspec disasm program.bin`)
	return nil
}
