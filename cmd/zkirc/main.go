// Command zkirc translates a textual SSA IR module into the target ISA's
// bytecode (spec.md §6, SPEC_FULL.md §13). It reads exactly one source
// file and writes exactly one artifact; everything else lives in
// internal/driver, which is the tested orchestration unit.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/zkirc-project/zkirc/internal/driver"
)

func main() {
	os.Exit(doMain(os.Stdout, os.Stderr))
}

// fileConfig is the optional TOML config file's shape (SPEC_FULL.md §10
// "Configuration"). CLI flags override whatever it sets.
type fileConfig struct {
	Entry string `toml:"entry"`
	Out   string `toml:"out"`
}

// doMain is separated out for the purpose of unit testing.
func doMain(stdOut, stdErr io.Writer) int {
	flag.CommandLine.SetOutput(stdErr)

	in := flag.String("in", "", "path to the source IR file")
	out := flag.String("out", "", "path to write the emitted program")
	configPath := flag.String("config", "", "optional TOML config file")
	entry := flag.String("entry", "", "entry function name (default \"main\")")
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Parse()

	var cfg fileConfig
	if *configPath != "" {
		if _, err := toml.DecodeFile(*configPath, &cfg); err != nil {
			fmt.Fprintf(stdErr, "reading config: %v\n", err)
			return 1
		}
	}

	entryName := cfg.Entry
	if *entry != "" {
		entryName = *entry
	}
	outPath := cfg.Out
	if *out != "" {
		outPath = *out
	}

	if *in == "" || outPath == "" {
		fmt.Fprintln(stdErr, "usage: zkirc -in module.ll -out module.bin [-config zkirc.toml] [-entry main] [-v]")
		return 1
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stdErr, &slog.HandlerOptions{Level: level}))

	src, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(stdErr, "reading %s: %v\n", *in, err)
		return 1
	}

	program, err := driver.Compile(string(src), driver.Options{Entry: entryName, Log: logger})
	if err != nil {
		fmt.Fprintf(stdErr, "compile failed: %v\n", err)
		return 1
	}

	if err := os.WriteFile(outPath, program, 0o644); err != nil {
		fmt.Fprintf(stdErr, "writing %s: %v\n", outPath, err)
		return 1
	}

	fmt.Fprintf(stdOut, "wrote %d bytes to %s\n", len(program), outPath)
	return 0
}
