package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"

	"github.com/D-M-dev/IP-Scanner/internal/export"
	"github.com/D-M-dev/IP-Scanner/internal/scan"
)

const version = "1.0.0"

// Options contains the configuration for a scan invocation.
type Options struct {
	CIDR    string
	Mode    string
	Workers int
	Output  string
	Format  string
	Detect  bool
	Verbose bool
	Silent  bool
	Version bool
}

// ParseOptions parses the command line flags provided by the user.
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`ipscan sweeps the local IPv4 network, resolves a hostname and MAC address for every responding host and classifies each device by type.`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&options.CIDR, "cidr", "c", "", "CIDR range to scan (default: auto-detected local network)"),
		flagSet.StringVarP(&options.Mode, "mode", "m", scan.ModeFast, "scan mode (fast, deep)"),
		flagSet.IntVarP(&options.Workers, "workers", "w", 0, "concurrent probes (default: mode preset)"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&options.Output, "output", "o", "", "file to export results to"),
		flagSet.StringVarP(&options.Format, "format", "f", "json", "export format (json, csv)"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only discovered devices"),
		flagSet.BoolVar(&options.Detect, "detect", false, "print the detected local network range and exit"),
		flagSet.BoolVar(&options.Version, "version", false, "show version and exit"),
	)

	_ = flagSet.Parse()
	return options
}

func (o *Options) configureLogging() {
	if o.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}
	if o.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}

func main() {
	options := ParseOptions()
	options.configureLogging()

	if err := run(options); err != nil {
		gologger.Fatal().Msgf("%s", err)
	}
}

func run(options *Options) error {
	if options.Version {
		gologger.Info().Msgf("ipscan version %s", version)
		return nil
	}

	if options.Detect {
		localIP, cidr, err := scan.DetectNetwork()
		if err != nil {
			return err
		}
		gologger.Silent().Msgf("%s %s", localIP, cidr)
		return nil
	}

	switch options.Format {
	case "json", "csv":
	default:
		return fmt.Errorf("unknown export format %q (expected json or csv)", options.Format)
	}

	subnet := options.CIDR
	if subnet == "" {
		localIP, detected, err := scan.DetectNetwork()
		if err != nil {
			gologger.Warning().Msgf("network auto-detection failed, falling back to %s", detected)
		} else {
			gologger.Info().Msgf("local address %s, network %s", localIP, detected)
		}
		subnet = detected
	}

	config := scan.Config{Subnet: subnet, Mode: options.Mode, Workers: options.Workers}
	if err := config.Validate(); err != nil {
		return err
	}

	manager := scan.NewManager()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		manager.Cancel()
	}()

	started := time.Now()
	var probed int

	onProgress := func(completed, total int) {
		probed = completed
		if completed%64 == 0 || completed == total {
			gologger.Debug().Msgf("progress %d/%d", completed, total)
		}
	}
	onDevice := func(device scan.DeviceRecord) {
		gologger.Silent().Msgf("%-15s  %-32s  %-17s  %s", device.IP, device.Hostname, device.MAC, device.DeviceType)
	}

	devices, err := manager.Scan(ctx, config, onProgress, onDevice)
	if err != nil {
		return err
	}

	gologger.Info().Msgf("probed %d hosts, found %d device(s) in %s", probed, len(devices), time.Since(started).Round(time.Millisecond))

	if options.Output == "" {
		return nil
	}
	return writeResults(options, subnet, devices)
}

func writeResults(options *Options, subnet string, devices []scan.DeviceRecord) error {
	file, err := os.Create(options.Output)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer file.Close()

	if options.Format == "csv" {
		err = export.WriteCSV(file, devices)
	} else {
		mode := options.Mode
		if mode == "" {
			mode = scan.ModeFast
		}
		err = export.WriteJSON(file, export.NewReport(subnet, mode, devices))
	}
	if err != nil {
		return fmt.Errorf("could not export results: %w", err)
	}

	gologger.Info().Msgf("results written to %s", options.Output)
	return nil
}
