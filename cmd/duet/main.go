// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ezrec/duet/cpu"
	"github.com/ezrec/duet/emulator"
	"github.com/ezrec/duet/translate"
)

// defineList collects -D NAME=VALUE assembler predefines.
type defineList map[string]string

func (dl defineList) String() string {
	var list []string
	for k, v := range dl {
		list = append(list, k+"="+v)
	}
	return strings.Join(list, ",")
}

func (dl defineList) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 {
		return fmt.Errorf("expected NAME=VALUE, not '%v'", text)
	}
	dl[name] = value
	return nil
}

// assemble reads a program, with the runner and command line defines
// available to the assembler.
func assemble(input io.Reader, logger *zap.Logger, verbose bool, defines iter.Seq2[string, string], predefine defineList) (prog *cpu.Program, err error) {
	asm := &cpu.Assembler{Verbose: verbose, Logger: logger}
	for k, v := range defines {
		asm.Predefine(k, v)
	}
	for k, v := range predefine {
		asm.Predefine(k, v)
	}

	return asm.Parse(input)
}

func main() {
	var config string
	var solo bool
	var verbose bool
	var limit int
	var lang string
	predefine := defineList{}

	flag.StringVar(&config, "config", "", ".toml configuration file")
	flag.BoolVar(&solo, "solo", false, "Run a single machine, and report the recovered value")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&limit, "n", 0, "Step limit, 0 for no limit")
	flag.StringVar(&lang, "lang", "", "Message locale")
	flag.Var(predefine, "D", "Assembler define NAME=VALUE")

	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	if len(lang) != 0 {
		translate.SetLocale(lang)
	}

	cfg := emulator.DefaultConfig()
	if len(config) != 0 {
		var err error
		cfg, err = emulator.LoadConfig(config)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}
	if limit != 0 {
		cfg.Limit = limit
	}
	if verbose {
		cfg.Verbose = true
	}

	logger := zap.NewNop()
	if cfg.Verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatal(err)
		}
		defer logger.Sync()
	}

	name := "-"
	input := io.Reader(os.Stdin)
	if flag.NArg() == 1 && flag.Arg(0) != "-" {
		name = flag.Arg(0)
		inf, err := os.Open(name)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		defer inf.Close()
		input = inf
	}

	if solo {
		emu := emulator.NewSolo(cfg)
		emu.Logger = logger

		prog, err := assemble(input, logger, cfg.Verbose, emu.Defines(), predefine)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		emu.Program = prog

		err = emu.Reset()
		if err != nil {
			log.Fatal(err)
		}
		err = emu.Run()
		if err != nil {
			log.Fatal(err)
		}

		if emu.Halted {
			fmt.Printf("recovered %d\n", emu.Recovered)
		} else {
			fmt.Printf("no value recovered\n")
		}
		fmt.Printf("mul executed %d times\n", emu.Muls())
		return
	}

	emu := emulator.NewDuet(cfg)
	emu.Logger = logger

	prog, err := assemble(input, logger, cfg.Verbose, emu.Defines(), predefine)
	if err != nil {
		log.Fatalf("%v: %v", name, err)
	}
	emu.Program = prog

	err = emu.Reset()
	if err != nil {
		log.Fatal(err)
	}
	err = emu.Run()
	if err != nil {
		log.Fatal(err)
	}

	for _, st := range emu.Stats() {
		fmt.Printf("machine %d sent %d messages\n", st.Machine, st.Sent)
	}
}
