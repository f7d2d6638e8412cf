package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"darkmode-scheduler/internal/config"
	"darkmode-scheduler/internal/domain"
	"darkmode-scheduler/internal/logging"
)

var (
	cfgPath   string
	backend   string
	sinkName  string
	verbosity int
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "darkmode-scheduler",
		Short:         "Switch the desktop between light and dark on a daily schedule",
		Long:          "Scheduler + JSON API + CLI that keeps the desktop theme in line with a daily light window",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "settings file path")
	cmd.PersistentFlags().StringVar(&backend, "backend", backendAuto, "settings backend (auto|json|sqlite)")
	cmd.PersistentFlags().StringVar(&sinkName, "sink", "auto", "theme sink (auto|gsettings|applescript|registry|noop)")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "more logging (-v, -vv, ... up to 4)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetVerbosity(verbosity)
	}

	cmd.AddCommand(
		newDaemonCmd(),
		newServeCmd(),
		newConfigCmd(),
		newStatusCmd(),
		newToggleCmd(),
		newApplyCmd(),
		newShellCmd(),
	)

	return cmd
}

func newDaemonCmd() *cobra.Command {
	var watchPortal bool
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the scheduler without the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			rt, err := startRuntime(ctx, runtimeOptions{watchPortal: watchPortal})
			if err != nil {
				return err
			}
			defer rt.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "darkmode-scheduler daemon started")
			<-ctx.Done()
			fmt.Fprintln(cmd.OutOrStdout(), "Daemon shutting down...")
			return nil
		},
	}
	cmd.Flags().BoolVar(&watchPortal, "watch-portal", true, "treat desktop portal theme changes as manual overrides (Linux)")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		addr        string
		watchPortal bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler together with the JSON API and /metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			rt, err := startRuntime(ctx, runtimeOptions{watchPortal: watchPortal, withMetrics: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			srv := rt.newServer(addr)
			fmt.Fprintf(cmd.OutOrStdout(), "darkmode-scheduler API running at http://%s\n", addr)
			logging.Infof("API: http://%s", addr)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			if err := srv.Start(); err != nil && !errors.Is(err, errServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7071", "HTTP listen address")
	cmd.Flags().BoolVar(&watchPortal, "watch-portal", true, "treat desktop portal theme changes as manual overrides (Linux)")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or change the schedule",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the stored settings as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			cfg := store.Schedule()
			ov := store.Override()
			display := map[string]any{
				"enabled":            cfg.Enabled,
				"lightStart":         cfg.LightStart.String(),
				"lightEnd":           cfg.LightEnd.String(),
				"skipNextTransition": ov.SkipNextTransition,
			}
			if ov.LastManualToggle != nil {
				display["lastManualToggle"] = ov.LastManualToggle.Format(time.RFC3339)
			}

			out, _ := json.MarshalIndent(display, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		enabledFlag string
		startFlag   string
		endFlag     string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the schedule (a running daemon picks it up)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			if cmd.Flags().Changed("start") {
				start, err := domain.ParseTimeOfDay(startFlag)
				if err != nil {
					return err
				}
				if err := store.SetLightModeStart(start.Hour(), start.Minute()); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("end") {
				end, err := domain.ParseTimeOfDay(endFlag)
				if err != nil {
					return err
				}
				if err := store.SetLightModeEnd(end.Hour(), end.Minute()); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("enabled") {
				var enabled bool
				switch enabledFlag {
				case "true":
					enabled = true
				case "false":
					enabled = false
				default:
					return errors.New("--enabled must be true or false")
				}
				if err := store.SetScheduleEnabled(enabled); err != nil {
					return err
				}
			}

			cfg := store.Schedule()
			fmt.Fprintf(cmd.OutOrStdout(), "saved: enabled=%t light=%s-%s\n", cfg.Enabled, cfg.LightStart, cfg.LightEnd)
			return nil
		},
	}
	cmd.Flags().StringVar(&enabledFlag, "enabled", "", "true/false turns scheduling on or off")
	cmd.Flags().StringVar(&startFlag, "start", "", "light window start, HH:MM")
	cmd.Flags().StringVar(&endFlag, "end", "", "light window end (exclusive), HH:MM")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the light theme is due right now",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			cfg := store.Schedule()
			now := time.Now()
			target := "dark"
			if domain.NewSchedulerService().ShouldBeLight(cfg, now) {
				target = "light"
			}
			state := "disabled"
			if cfg.Enabled {
				state = "enabled"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "schedule: %s (light %s-%s)\n", state, cfg.LightStart, cfg.LightEnd)
			fmt.Fprintf(out, "now %s: %s\n", domain.TimeOfDayOf(now), target)
			if ov := store.Override(); ov.SkipNextTransition {
				fmt.Fprintln(out, "next transition will be skipped (manual override)")
			}
			return nil
		},
	}
}

func newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Flip the theme now and let it stand through the next scheduled change",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManual(cmd, func(m *manualSession) (bool, error) {
				return m.toggle()
			})
		},
	}
}

func newApplyCmd() *cobra.Command {
	var light, dark bool
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a theme now and let it stand through the next scheduled change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if light == dark {
				return errors.New("specify exactly one of --light or --dark")
			}
			return runManual(cmd, func(m *manualSession) (bool, error) {
				return light, m.set(light)
			})
		},
	}
	cmd.Flags().BoolVar(&light, "light", false, "apply the light theme")
	cmd.Flags().BoolVar(&dark, "dark", false, "apply the dark theme")
	return cmd
}

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Run subcommands interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "darkmode> ", "shell prompt")
	return cmd
}

func runInteractiveShell(prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "darkmode-scheduler-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sessionVerbosity := verbosity
	fmt.Println("Interactive shell. 'help' for usage, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println()
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			fmt.Println("Bye!")
			return nil
		case "help":
			printShellHelp()
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Printf("Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(tokens[1:], &sessionVerbosity); err != nil {
				fmt.Printf("log: %v\n", err)
			}
			continue
		}
		if tokens[0] == "shell" {
			fmt.Println("Already in the shell. Enter another command or 'exit'.")
			continue
		}

		verbosity = sessionVerbosity
		if err := executeArgs(tokens); err != nil {
			fmt.Printf("command error: %v\n", err)
		}
		sessionVerbosity = verbosity
	}
}

func executeArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func handleShellLog(args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "level (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "print the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	verbosity = *sessionVerbosity
	logging.SetVerbosity(*sessionVerbosity)
	fmt.Printf("log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp() {
	fmt.Println(`Examples:
  daemon                          # run the scheduler
  serve --addr 127.0.0.1:7071     # scheduler + JSON API
  config get                      # show settings
  config set --start 07:30        # change the light window
  config set --enabled true       # turn scheduling on
  status                          # light or dark right now?
  toggle                          # flip the theme manually
  apply --dark                    # set a theme manually
  log -vv                         # more logging
  log --show                      # current log level
  exit / quit                     # leave the shell`)
}
