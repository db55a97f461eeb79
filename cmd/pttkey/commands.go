package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Danondso/pttkey/internal/capture"
	"github.com/Danondso/pttkey/internal/config"
	"github.com/Danondso/pttkey/internal/ptthook"
)

var checkCmd = &cobra.Command{
	Use:   "check <key>",
	Short: "Poll whether a key is held right now",
	Long: `Poll the physical state of a key without installing a hook.

Prints pressed, not_pressed or unsupported and exits with status 0, 1 or 2.
Only Windows can poll key state; other platforms report unsupported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := ptthook.ParseKey(args[0])
		if err != nil {
			return err
		}
		state := ptthook.NewNative(nil, newLogger()).CheckKeyPressed(key)
		fmt.Fprintln(cmd.OutOrStdout(), state)
		if code := checkExitCode(state); code != 0 {
			return exitError{code: code}
		}
		return nil
	},
}

func checkExitCode(s ptthook.KeyState) int {
	switch s {
	case ptthook.KeyPressed:
		return 0
	case ptthook.KeyReleased:
		return 1
	default:
		return 2
	}
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List key names accepted in the config",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range keyNames() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var clipsCmd = &cobra.Command{
	Use:   "clips",
	Short: "List captured push-to-talk clips",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(resolvedConfigPath())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		dir := cfg.ResolvedClipDir()
		clips, err := capture.ListClips(dir)
		if err != nil {
			return fmt.Errorf("list clips: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(clips) == 0 {
			fmt.Fprintf(out, "no clips in %s\n", dir)
			return nil
		}
		var total time.Duration
		for _, c := range clips {
			fmt.Fprintf(out, "%s\t%6.1fs\t%d Hz\n", c.Path, c.Duration.Seconds(), c.SampleRate)
			total += c.Duration
		}
		fmt.Fprintf(out, "%d clips, %.1fs total\n", len(clips), total.Seconds())
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var forceInit bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolvedConfigPath()
		if !forceInit {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
		if err := config.Save(path, config.Default()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), resolvedConfigPath())
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}
