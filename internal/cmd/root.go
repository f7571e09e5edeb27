// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	configcmd "github.com/NotToDisturb/VersionUtils/internal/cmd/config"
	"github.com/NotToDisturb/VersionUtils/internal/cmdtypes"
	"github.com/NotToDisturb/VersionUtils/internal/config"
	"github.com/NotToDisturb/VersionUtils/internal/output"
)

// globalFlags holds the persistent flags of the root command.
type globalFlags struct {
	config     string
	verbose    bool
	timestamps bool
}

// NewRootCmd creates the root command for the vutil CLI.
func NewRootCmd() *cobra.Command {
	var flags globalFlags
	cfg := &cmdtypes.GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "vutil",
		Short: "Track live game builds and map them to engine versions",
		Long: `vutil reconciles manifest feeds into one build history, detects when a
new build goes live, and reads the build-info table of a local game
executable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeGlobals(cmd, &flags, cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "Path to config file (env: VUTIL_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(
		NewCheckCmd(cfg),
		NewLatestCmd(cfg),
		NewQueryCmd(cfg),
		NewGameCmd(cfg),
		NewEngineCmd(cfg),
		NewDiffCmd(cfg),
		configcmd.NewConfigCmd(cfg),
		NewVersionCmd(cfg),
	)

	return rootCmd
}

// initializeGlobals loads configuration and sets up logging. Config files
// are not validated here so that `config vet` can report on broken ones.
func initializeGlobals(cmd *cobra.Command, flags *globalFlags, cfg *cmdtypes.GlobalConfig) error {
	output.SetupLogging(output.LogConfig{Verbose: flags.verbose})

	pathResult, err := config.ResolveConfigPath(flags.config)
	if err != nil {
		return err
	}
	configPath, _ := pathResult.Value.(string)

	loader := config.NewLoader()
	loaded, err := loader.Load(configPath)
	if err != nil {
		output.Error("loading config", "path", configPath, "err", err)
		return err
	}

	cfg.Config = loaded
	cfg.ConfigPath = configPath
	cfg.ConfigFileUsed = loader.ConfigFileUsed()
	cfg.Verbose = flags.verbose

	// Resolve timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: flags.verbose}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	} else if loaded.Log.Timestamps != nil {
		logCfg.Timestamps = loaded.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	config.LogResolvedValues([]config.ResolvedValue{pathResult})
	output.Debug("initializing CLI",
		"archive", loaded.Sources.Archive,
		"live", loaded.Sources.Live,
		"patchline", loaded.Sources.Patchline,
		"interval", loaded.Check.Interval,
	)

	return nil
}
