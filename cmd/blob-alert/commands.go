package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/blob-alert/internal/buzzer"
	"github.com/ironsheep/blob-alert/internal/camera"
	"github.com/ironsheep/blob-alert/internal/config"
	"github.com/ironsheep/blob-alert/internal/detection"
	"github.com/ironsheep/blob-alert/internal/display"
	"github.com/ironsheep/blob-alert/internal/imaging"
	"github.com/ironsheep/blob-alert/internal/log"
	"github.com/ironsheep/blob-alert/internal/monitor"
	"github.com/ironsheep/blob-alert/internal/server"
	"github.com/ironsheep/blob-alert/internal/snapshot"
)

// commonFlags are accepted by every command.
type commonFlags struct {
	config   string
	logLevel string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "YAML configuration file")
	fs.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error")
}

// load reads the configuration and applies the flags that were set on fs.
// apply receives the name of every flag given on the command line.
func (c *commonFlags) load(fs *flag.FlagSet, apply func(cfg *config.Config, name string)) (*config.Config, error) {
	cfg, err := config.Load(c.config)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "log-level" {
			cfg.LogLevel = c.logLevel
		}
		if apply != nil {
			apply(cfg, f.Name)
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Init(cfg.LogLevel)
	return cfg, nil
}

func runMonitor(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var (
		common        commonFlags
		replay        = fs.String("replay", "", "read frames from image files in this directory")
		loop          = fs.Bool("loop", false, "restart the replay at the end of the directory")
		headless      = fs.Bool("headless", false, "do not open a display window")
		dryRun        = fs.Bool("dry-run", false, "log buzzer changes instead of driving the pin")
		pin           = fs.String("pin", "", "GPIO pin driving the buzzer")
		snapshots     = fs.String("snapshots", "", "save the annotated frame on every new alert")
		shutdownState = fs.String("shutdown-state", "", "buzzer state on exit: off, on or keep")
	)
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.load(fs, func(cfg *config.Config, name string) {
		switch name {
		case "replay":
			cfg.Replay.Dir = *replay
		case "loop":
			cfg.Replay.Loop = *loop
		case "headless":
			cfg.Display.Headless = *headless
		case "dry-run":
			cfg.Buzzer.DryRun = *dryRun
		case "pin":
			cfg.Buzzer.Pin = *pin
		case "snapshots":
			cfg.Snapshot.Dir = *snapshots
		case "shutdown-state":
			cfg.Buzzer.ShutdownState = *shutdownState
		}
	})
	if err != nil {
		return err
	}

	log.Info("blob-alert starting", "version", Version, "commit", GitCommit, "built", BuildTime)

	detCfg, err := cfg.DetectorConfig()
	if err != nil {
		return err
	}
	det, err := detection.New(detCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer out.Close()

	disp, maskDisp, err := openDisplays(cfg)
	if err != nil {
		return err
	}
	defer disp.Close()
	if maskDisp != nil {
		defer maskDisp.Close()
	}

	var saver *snapshot.Saver
	if cfg.Snapshot.Dir != "" {
		saver, err = snapshot.New(snapshot.Options{
			Dir:    cfg.Snapshot.Dir,
			Crop:   cfg.Snapshot.Crop,
			Margin: cfg.Snapshot.Margin,
		})
		if err != nil {
			return err
		}
	}

	m, err := monitor.New(monitor.Options{
		Source:               src,
		Detector:             det,
		Output:               out,
		Display:              disp,
		MaskDisplay:          maskDisp,
		Snapshots:            saver,
		Shutdown:             cfg.ShutdownState(),
		MaxConsecutiveErrors: cfg.Monitor.MaxConsecutiveErrors,
		StatsInterval:        cfg.Monitor.StatsInterval,
	})
	if err != nil {
		return err
	}
	return m.Run(ctx)
}

// openSource opens the replay directory when one is configured, the camera
// otherwise.
func openSource(ctx context.Context, cfg *config.Config) (camera.Source, error) {
	if cfg.Replay.Dir != "" {
		src, err := camera.OpenDir(cfg.Replay.Dir, cfg.Camera, cfg.Replay.Loop)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return camera.OpenDevice(ctx, cfg.Camera)
}

func openOutput(cfg *config.Config) (buzzer.Output, error) {
	if cfg.Buzzer.DryRun {
		log.Info("dry run: buzzer changes are logged only")
		return buzzer.NewLogOutput(), nil
	}
	g, err := buzzer.OpenGPIO(cfg.Buzzer.Pin)
	if err != nil {
		return nil, err
	}
	log.Info("buzzer ready", "pin", cfg.Buzzer.Pin)
	return g, nil
}

// openDisplays returns the frame display and, when the mask view is enabled,
// a second window for the masked frame.
func openDisplays(cfg *config.Config) (frame, mask display.Display, err error) {
	if cfg.Display.Headless {
		return &display.Headless{}, nil, nil
	}

	frame, err = display.OpenWindow(cfg.Display.Title)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Detection.ShowMask {
		mask, err = display.OpenWindow("Mask")
		if err != nil {
			frame.Close()
			return nil, nil, err
		}
	}
	return frame, mask, nil
}

// detectOutput is one line of `blob-alert detect` output.
type detectOutput struct {
	Path      string `json:"path"`
	Annotated string `json:"annotated,omitempty"`
	*detection.Result
	Error string `json:"error,omitempty"`
}

func runDetect(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	var common commonFlags
	outDir := fs.String("out", "", "write annotated frames to this directory")
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("detect: no images given")
	}

	cfg, err := common.load(fs, nil)
	if err != nil {
		return err
	}
	detCfg, err := cfg.DetectorConfig()
	if err != nil {
		return err
	}
	det, err := detection.New(detCfg)
	if err != nil {
		return err
	}

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	failed := 0
	for _, path := range fs.Args() {
		out := detectImage(det, path, *outDir)
		if out.Error != "" {
			failed++
		}
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("detect: %d of %d images failed", failed, fs.NArg())
	}
	return nil
}

func detectImage(det *detection.Detector, path, outDir string) detectOutput {
	out := detectOutput{Path: path}

	img, err := imaging.Decode(path)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	res, err := det.Detect(img)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Result = res

	if outDir != "" {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "-annotated.png"
		dst := filepath.Join(outDir, name)
		if err := imgio.Save(dst, res.Annotated, imgio.PNGEncoder()); err != nil {
			out.Error = fmt.Sprintf("failed to save annotated frame: %v", err)
			return out
		}
		out.Annotated = dst
	}
	return out
}

func runMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.load(fs, nil)
	if err != nil {
		return err
	}
	detCfg, err := cfg.DetectorConfig()
	if err != nil {
		return err
	}

	log.Debug("MCP server starting", "version", Version, "built", BuildTime, "commit", GitCommit)
	return server.New(detCfg, Version).Run()
}
