package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ironsheep/blob-alert/internal/log"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cmd, args := "run", os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			printVersion()
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
		if !strings.HasPrefix(args[0], "-") {
			cmd, args = args[0], args[1:]
		}
	}

	var err error
	switch cmd {
	case "run":
		err = runMonitor(args)
	case "detect":
		err = runDetect(args)
	case "mcp":
		err = runMCP(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, flag.ErrHelp) {
		log.Error("blob-alert failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("blob-alert %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println("blob-alert - sound a buzzer when a coloured blob crosses a line in the camera view")
	fmt.Println()
	fmt.Println("Usage: blob-alert [command] [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run              Watch the camera and drive the buzzer (default)")
	fmt.Println("  detect IMAGE...  Run the detector on still images and print the results as JSON")
	fmt.Println("  mcp              Serve the detector as MCP tools over stdin/stdout")
	fmt.Println("  version          Print version information")
	fmt.Println("  help             Print this help message")
	fmt.Println()
	fmt.Println("Run options:")
	fmt.Println("  -config FILE           YAML configuration file")
	fmt.Println("  -replay DIR            Read frames from image files instead of the camera")
	fmt.Println("  -loop                  Restart the replay at the end of the directory")
	fmt.Println("  -headless              Do not open a display window")
	fmt.Println("  -dry-run               Log buzzer changes instead of driving the GPIO pin")
	fmt.Println("  -pin NAME              GPIO pin driving the buzzer (default GPIO22)")
	fmt.Println("  -snapshots DIR         Save the annotated frame on every new alert")
	fmt.Println("  -shutdown-state STATE  Buzzer state on exit: off, on or keep (default off)")
	fmt.Println("  -log-level LEVEL       debug, info, warn or error")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  BLOB_ALERT_LOG_LEVEL, BLOB_ALERT_PIN, BLOB_ALERT_SHUTDOWN_STATE, BLOB_ALERT_REPLAY,")
	fmt.Println("  BLOB_ALERT_SNAPSHOTS, BLOB_ALERT_DRY_RUN, BLOB_ALERT_HEADLESS, BLOB_ALERT_DEVICE")
	fmt.Println("  BLOB_ALERT_LOG_FORMAT=json    Log as JSON")
	fmt.Println()
	fmt.Println("Flags override environment variables, which override the config file.")
	fmt.Println("Camera capture and the display window need a build with -tags opencv.")
}
