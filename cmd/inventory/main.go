// Command inventory runs the inventory server and talks to it from the terminal.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/RaviGowdaS/InventoryManagement/internal/config"
	"github.com/RaviGowdaS/InventoryManagement/internal/session"
)

const (
	Version = "1.0.0"
	appName = "inventory"
)

// BuildTime is set with -ldflags at release time.
var BuildTime = "dev"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, buf[:n])
			os.Exit(2)
		}
	}()

	if err := rootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand.
type app struct {
	loader *config.Loader
	cfg    *config.Config

	// storage overrides the session file when set.
	storage session.Storage
}

func rootCmd(a *app) *cobra.Command {
	var configPath string
	a.loader = config.NewLoader()

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Inventory management server and client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.loader.SetConfigFile(configPath)
			cfg, err := a.loader.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file path (YAML)")
	pf.String("server", "", "server URL for client commands")
	pf.String("session-file", "", "where client commands keep the login session")
	pf.Duration("timeout", 0, "client request timeout")
	pf.StringP("db", "d", "", "SQLite database path")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.StringP("log-file", "l", "", "also write logs to this file, rotated")
	mustBind(a.loader, "client.server", pf.Lookup("server"))
	mustBind(a.loader, "client.session_file", pf.Lookup("session-file"))
	mustBind(a.loader, "client.timeout", pf.Lookup("timeout"))
	mustBind(a.loader, "db.path", pf.Lookup("db"))
	mustBind(a.loader, "log.level", pf.Lookup("log-level"))
	mustBind(a.loader, "log.file", pf.Lookup("log-file"))

	cmd.AddCommand(
		serveCmd(a),
		initCmd(a),
		resetPasswordCmd(a),
		registerCmd(a),
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		itemsCmd(a),
		dashboardCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// mustBind panics on a programming error: binding a flag that was never defined.
func mustBind(l *config.Loader, key string, flag *pflag.Flag) {
	if err := l.BindFlag(key, flag); err != nil {
		panic(err)
	}
}
