package generate

import (
	"pcapveil/internal/conf"
	"pcapveil/internal/flog"
	"pcapveil/internal/generator"

	"github.com/spf13/cobra"
)

type options struct {
	confPath   string
	outputPath string
	total      int
	fragments  int
	seed       int64
	format     string
	policy     string
	mode       string
	passphrase string
	verify     bool
	logLevel   string
}

var Cmd = new(options).command()

func (opts *options) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <payload.json|payload.yaml>",
		Short: "Generate a capture hiding the payload in marked fragments.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := opts.load(cmd)
			if err != nil {
				flog.Fatalf("Failed to load configuration: %v", err)
			}
			flog.SetLevel(cfg.Log.Level)

			res, err := generator.New(cfg, flog.Default(), nil).GenerateFile(args[0])
			if err != nil {
				flog.Fatalf("%v", err)
			}
			flog.Infof("payload %s: %d fragments among %d packets, %s encoding", res.Digest, res.Fragments, res.Packets, res.Encoding)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.confPath, "config", "c", "", "Path to the YAML configuration file.")
	f.StringVarP(&opts.outputPath, "output", "o", conf.DefaultOutputPath, "Path of the capture file to write.")
	f.IntVarP(&opts.total, "total", "n", 50, "Minimum number of packets in the capture.")
	f.IntVarP(&opts.fragments, "fragments", "f", 3, "Number of fragments to split the payload into.")
	f.Int64Var(&opts.seed, "seed", 0, "Random seed; 0 picks one from the clock.")
	f.StringVar(&opts.format, "format", "pcap", "Capture format: pcap or pcapng.")
	f.StringVar(&opts.policy, "policy", conf.PolicyFloor, "Padding policy: floor or exact.")
	f.StringVar(&opts.mode, "encoding", "none", "Payload encoding: none, base64 or chacha20.")
	f.StringVar(&opts.passphrase, "passphrase", "", "Passphrase for the chacha20 encoding.")
	f.BoolVar(&opts.verify, "verify", false, "Read the capture back and check it after writing.")
	f.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error or none.")
	return cmd
}

// load reads the config file, if any, and layers the flags that were set
// explicitly on top of it.
func (opts *options) load(cmd *cobra.Command) (*conf.Conf, error) {
	cfg := &conf.Conf{}
	if opts.confPath != "" {
		var err error
		if cfg, err = conf.Load(opts.confPath); err != nil {
			return nil, err
		}
	}
	opts.apply(cmd, cfg)
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (opts *options) apply(cmd *cobra.Command, cfg *conf.Conf) {
	f := cmd.Flags()
	if f.Changed("total") {
		cfg.Generate.TotalPackets_ = &opts.total
	}
	if f.Changed("fragments") {
		cfg.Generate.Fragments_ = &opts.fragments
	}
	if f.Changed("output") {
		cfg.Output.Path = opts.outputPath
	}
	if f.Changed("seed") {
		cfg.Generate.Seed = opts.seed
	}
	if f.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if f.Changed("policy") {
		cfg.Generate.Policy = opts.policy
	}
	if f.Changed("encoding") {
		cfg.Encoding.Mode = opts.mode
	}
	if f.Changed("passphrase") {
		cfg.Encoding.Passphrase = opts.passphrase
	}
	if f.Changed("verify") {
		cfg.Output.Verify = opts.verify
	}
	if f.Changed("log-level") {
		cfg.Log.Level_ = opts.logLevel
	}
}
