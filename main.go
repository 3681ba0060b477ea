package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/irvm/iridium/assembler"
	"github.com/irvm/iridium/config"
	"github.com/irvm/iridium/remote"
	"github.com/irvm/iridium/repl"
	"github.com/irvm/iridium/scheduler"
	"github.com/irvm/iridium/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion  = flag.Bool("version", false, "Show version information")
		showHelp     = flag.Bool("help", false, "Show help information")
		tuiMode      = flag.Bool("tui", false, "Use the TUI front end for the REPL")
		maxCycles    = flag.Uint64("max-cycles", 0, "Maximum VM cycles before forced halt (0: use config default)")
		dataRoot     = flag.String("dataroot", "", "Data root directory (created on startup; default: config value)")
		remoteServe  = flag.Bool("remote-server", false, "Run as a TCP server accepting REPL connections")
		remoteClient = flag.Bool("remote", false, "Connect to a running Iridium remote server")
		remoteHost   = flag.String("host", "", "Remote server host (default: config value)")
		remotePort   = flag.Int("port", 0, "Remote server port (0: use config value)")
		threads      = flag.Int("threads", 0, "Max concurrent VM runs for -remote-server (0: use config default)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("Iridium %s (%s)\n", Version, Commit)
		os.Exit(0)
	}
	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *maxCycles != 0 {
		cfg.VM.MaxCycles = *maxCycles
	}
	if *dataRoot != "" {
		cfg.DataRoot.Path = *dataRoot
	}
	if *remoteHost != "" {
		cfg.Remote.Host = *remoteHost
	}
	if *remotePort != 0 {
		cfg.Remote.Port = *remotePort
	}
	if *threads != 0 {
		cfg.Scheduler.MaxConcurrent = *threads
	}

	if err := os.MkdirAll(cfg.DataRoot.Path, 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating data root %s: %v\n", cfg.DataRoot.Path, err)
		os.Exit(1)
	}

	if *remoteServe {
		sched := scheduler.New(cfg.Scheduler.MaxConcurrent)
		server := remote.NewServer(cfg.Remote.Host, cfg.Remote.Port, sched)
		if err := server.Listen(); err != nil {
			fmt.Fprintf(os.Stderr, "Remote server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *remoteClient {
		client := remote.NewClient(cfg.Remote.Host, cfg.Remote.Port)
		if err := client.Run(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Remote client error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() == 0 {
		if *tuiMode {
			tui := repl.NewTUI()
			if err := tui.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
				os.Exit(1)
			}
			return
		}
		session := repl.New(os.Stdin, os.Stdout)
		session.Run()
		return
	}

	asmFile := flag.Arg(0)
	source, err := os.ReadFile(asmFile) // #nosec G304 -- user-specified source file
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", asmFile, err)
		os.Exit(1)
	}

	img, errs := assembler.Assemble(string(source), asmFile)
	if errs.HasErrors() {
		fmt.Fprint(os.Stderr, errs.Error())
		os.Exit(1)
	}

	machine := vm.New()
	machine.CycleLimit = cfg.VM.MaxCycles
	machine.AddBytes(img.Bytes())
	events := machine.Run()

	exitCode := 0
	for _, ev := range events {
		switch ev.Kind {
		case vm.EventGracefulStop:
			exitCode = int(ev.Code)
		case vm.EventCrash:
			fmt.Fprintf(os.Stderr, "crash: code %d\n", ev.Code)
			exitCode = int(ev.Code)
		}
	}

	os.Exit(exitCode)
}

func printHelp() {
	fmt.Printf(`Iridium %s

Usage: iridium [options] <assembly-file>
       iridium [options]                 (no file: start a REPL)

Options:
  -help              Show this help message
  -version           Show version information
  -tui               Use the TUI front end for the REPL (no file only)
  -max-cycles N      Override the configured max VM cycle count
  -dataroot DIR      Data root directory created on startup
  -remote-server     Run as a TCP server accepting REPL connections
  -remote            Connect to a running Iridium remote server
  -host HOST         Remote server host (used with -remote/-remote-server)
  -port N            Remote server port (used with -remote/-remote-server)
  -threads N         Max concurrent VM runs for -remote-server connections

Examples:
  iridium program.iasm
  iridium -tui
  iridium -remote-server -port 2244
  iridium -remote -host 10.0.0.5 -port 2244
`, Version)
}
