// Command ctcthru routes a stereo capture device through the crosstalk
// cancellation engine to a playback device in real time.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/cwbudde/algo-ctc/internal/audio"
	"github.com/cwbudde/algo-ctc/internal/config"
)

// version is set via ldflags at build time.
var version = "dev"

// CLI defines the command-line interface.
type CLI struct {
	Version bool       `short:"v" help:"Show version information"`
	Debug   bool       `short:"d" help:"Enable debug logging"`
	Devices DevicesCmd `cmd:"" help:"List audio devices"`
	Run     RunCmd     `cmd:"" default:"withargs" help:"Run the duplex cancellation path"`
}

// DevicesCmd lists the available capture and playback devices.
type DevicesCmd struct{}

// Run prints every device with its direction and default marker.
func (c *DevicesCmd) Run(logger *log.Logger) error {
	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	devices, err := audio.Devices()
	if err != nil {
		return err
	}

	for _, d := range devices {
		marker := " "
		if d.IsDefault {
			marker = "*"
		}

		fmt.Printf("%s %-7s %-20s %s\n", marker, d.Direction, d.HostAPI, d.Name)
	}

	return nil
}

// RunCmd starts the duplex path from a configuration file with optional
// overrides.
type RunCmd struct {
	Config      string  `short:"c" type:"existingfile" optional:"" help:"YAML configuration file"`
	Input       string  `short:"i" optional:"" help:"Capture device name (substring match)"`
	Output      string  `short:"o" optional:"" help:"Playback device name (substring match)"`
	LatencyMS   int     `optional:"" help:"Ring buffer latency in milliseconds"`
	Attenuation float64 `optional:"" default:"-1" help:"Cancellation attenuation override"`
}

// Run loads the configuration and blocks until interrupted or aborted.
func (c *RunCmd) Run(logger *log.Logger) error {
	cfg := config.Default()

	if c.Config != "" {
		loaded, err := config.Load(c.Config)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if c.Input != "" {
		cfg.Input = c.Input
	}
	if c.Output != "" {
		cfg.Output = c.Output
	}
	if c.LatencyMS > 0 {
		cfg.LatencyMS = c.LatencyMS
	}
	if c.Attenuation >= 0 {
		cfg.Tuning.Attenuation = c.Attenuation
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	duplex, err := audio.Start(cfg, logger)
	if err != nil {
		return err
	}
	defer duplex.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = duplex.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("closed safely")

		return nil
	}

	return err
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("ctcthru"),
		kong.Description("Real-time loudspeaker crosstalk cancellation"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if cli.Version {
		fmt.Printf("ctcthru %s\n", version)
		os.Exit(0)
	}

	logger := log.New(os.Stderr)
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	if err := ctx.Run(logger); err != nil {
		logger.Fatal(err)
	}
}
