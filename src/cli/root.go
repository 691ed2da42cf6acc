// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/answer"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/helper/cmdrun"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/sysinfo"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/transport"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/logger"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/settings"
)

var (
	outputFile   string
	settingsFile string
	timeoutSecs  int
	debugMode    bool
	noColor      bool
)

// appVersion is set by Execute and flows into the User-Agent.
var appVersion string

// Execute runs the root command, wiring ctx through to every operation.
// The returned error has already been reported by Cobra; callers only
// map it to an exit code.
func Execute(ctx context.Context, version string) error {
	appVersion = version

	rootCmd := &cobra.Command{
		Use:   posix.GetExecutableName(),
		Short: "Fetch the unattended-installation answer document",
		Long: `Resolves where the answer document lives (configuration partition,
DHCP lease options, DNS TXT records), POSTs the host's system
information there over HTTPS, and prints the returned document.`,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runFetch,
	}

	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file overlaying the built-in defaults (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored log output")

	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the answer to OUTPUT_FILE (default: stdout)")
	rootCmd.Flags().IntVarP(&timeoutSecs, "timeout", "t", 0, "HTTPS exchange timeout in seconds (default: from settings)")

	rootCmd.AddCommand(newSourcesCmd(), newFingerprintCmd())

	return rootCmd.ExecuteContext(ctx)
}

// runFetch is the full pipeline: resolve the answer location, gather the
// system-information payload, exchange it for the answer document.
func runFetch(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)

	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if timeoutSecs > 0 {
		cfg.TimeoutSeconds = timeoutSecs
	}

	ctx := cmd.Context()

	loc, err := answer.NewResolver(cfg, nil, log).Resolve(ctx)
	if err != nil {
		return err
	}

	log.Infof("Gathering system information.")
	payload, err := sysinfo.NewCollector(cmdrun.ExecRunner{}, log).Collect(ctx)
	if err != nil {
		return err
	}

	log.Infof("Sending POST request to '%s'.", loc.URL)
	body, err := transport.New(cfg.Timeout(), appVersion).Post(ctx, loc.URL, loc.Fingerprint, payload)
	if err != nil {
		return err
	}

	if outputFile != "" {
		log.Infof("Writing answer to %s", outputFile)
		return os.WriteFile(outputFile, body, 0o644)
	}

	_, err = cmd.OutOrStdout().Write(body)
	return err
}

// newLogger builds the leveled logger the pipeline reports through.
// Everything goes to stderr so stdout stays reserved for the answer.
func newLogger(cmd *cobra.Command) logger.Logger {
	return logger.New(cmd.ErrOrStderr(), logger.Options{Debug: debugMode, NoColor: noColor})
}

// loadSettings returns the defaults, overlaid with the --settings file
// when one was given.
func loadSettings() (settings.Settings, error) {
	if settingsFile == "" {
		return settings.Default(), nil
	}
	return settings.Load(settingsFile)
}
