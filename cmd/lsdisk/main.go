package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/veegee/lsdisk/internal/config"
	"github.com/veegee/lsdisk/internal/lsblk"
	"github.com/veegee/lsdisk/internal/version"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lsdisk",
	Short: "List block devices with stable identity paths and array membership",
	Long: `lsdisk lists the whole disks reported by lsblk, one row per disk, with
their /dev/disk/by-id identity path (SAS and NVMe), model, size, sector
geometry, and the filesystem type and label of the array they belong to.

Array membership is taken from the disk itself or, when the disk carries
no filesystem, from the first partition marked as an array member
(linux_raid_member, zfs_member, ...).

Output is a boxed table on a terminal and plain columns when piped.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	Run: runList,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Version)
	},
}

func init() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/lsdisk/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	addListFlags(rootCmd.Flags())

	rootCmd.AddCommand(versionCmd)
}

// addListFlags registers the flags that override config values
func addListFlags(flags *pflag.FlagSet) {
	flags.StringP("columns", "c", "extended", "column set: minimal or extended")
	flags.StringP("format", "f", "auto", "output format: auto, table, plain or json")
	flags.Bool("header", false, "print a header row")
	flags.BoolP("bytes", "b", false, "read sizes in bytes and print them in IEC units")
	flags.Bool("dedupe", false, "show devices sharing a WWN only once")
	flags.Bool("lenient", false, "render missing lsblk columns as blanks instead of failing")
	flags.Bool("verify-links", false, "warn when a derived by-id path does not point at its device")
	flags.StringP("input", "i", "", "read a saved 'lsblk -J -O' document instead of running lsblk")
	flags.String("lsblk", "", "lsblk binary to run (default lsblk)")
}

func runList(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := applyFlags(cmd.Flags(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	input, _ := cmd.Flags().GetString("input")
	l := newLister(cfg, input)
	if err := l.run(cmd.Context(), os.Stdout); err != nil {
		var failed *lsblk.EnumerationFailedError
		if errors.As(err, &failed) && failed.ExitCode > 0 {
			fmt.Fprintf(os.Stderr, "Error running %s (exit status %d):\n%s", failed.Command, failed.ExitCode, failed.Stderr)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyFlags overrides config values with flags given on the command line
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	if flags.Changed("columns") {
		cfg.Columns, _ = flags.GetString("columns")
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("header") {
		cfg.Header, _ = flags.GetBool("header")
	}
	if flags.Changed("bytes") {
		cfg.Bytes, _ = flags.GetBool("bytes")
	}
	if flags.Changed("dedupe") {
		cfg.Dedupe, _ = flags.GetBool("dedupe")
	}
	if flags.Changed("lenient") {
		cfg.Lenient, _ = flags.GetBool("lenient")
	}
	if flags.Changed("verify-links") {
		cfg.VerifyLinks, _ = flags.GetBool("verify-links")
	}
	if flags.Changed("lsblk") {
		cfg.LsblkPath, _ = flags.GetString("lsblk")
	}
	return cfg.Validate()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
