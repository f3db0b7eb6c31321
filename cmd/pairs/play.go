package main

import (
	"fmt"
	"os"

	"github.com/aretw0/pairs/internal/cli"
	"github.com/aretw0/pairs/internal/logging"
	"github.com/aretw0/pairs/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [environment]",
	Short: "Play a game in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// Logs stay off the board unless asked for.
		logger := logging.NewNop()
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			if logger, err = newLogger(cfg); err != nil {
				return err
			}
		}

		rt, err := cli.NewRuntime(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer rt.Close()

		environment, _ := cmd.Flags().GetString("environment")
		if len(args) > 0 {
			environment = args[0]
		}
		sessionID, _ := cmd.Flags().GetString("session")
		resume, _ := cmd.Flags().GetBool("resume")
		plain, _ := cmd.Flags().GetBool("plain")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		tty := tui.IsTerminal(os.Stdout)
		err = cli.Play(sigCtx, rt.Engine, cli.PlayOptions{
			SessionID:   sessionID,
			Environment: environment,
			Resume:      resume,
			In:          os.Stdin,
			Out:         os.Stdout,
			Profile:     tui.Profile(os.Stdout),
			Plain:       plain || !tty,
			Banner:      tty,
		})
		if sig := sigCtx.Signal(); sig != nil {
			fmt.Fprintf(os.Stderr, "\nInterrupted (%s). Resume with --session %s --resume.\n", sig, sessionID)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringP("environment", "e", "", "Card theme (default: fruits)")
	playCmd.Flags().StringP("session", "s", "terminal", "Session id; use with a file or redis store to continue later")
	playCmd.Flags().Bool("resume", false, "Continue the session's stored game")
	playCmd.Flags().Bool("plain", false, "Print markdown without styling")
	playCmd.Flags().Bool("debug", false, "Write logs to stderr")
}
