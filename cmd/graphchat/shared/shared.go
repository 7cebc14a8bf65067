// Package sharedcmder holds the plumbing every graphchat subcommand shares:
// resolving the effective config, building the logger and the API client,
// and remembering the last session.
package sharedcmder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/graphchat/pkg/client"
	"github.com/papercomputeco/graphchat/pkg/config"
	"github.com/papercomputeco/graphchat/pkg/dotdir"
	"github.com/papercomputeco/graphchat/pkg/logger"
)

// ErrNoSession is returned when a command needs a session id and neither
// --session nor a remembered session is available.
var ErrNoSession = errors.New(`no session: pass --session or run "graphchat init" first`)

// ClientFlags holds the flag targets registered by AddClientFlags. The values
// are read back through viper so that env and config file values apply.
type ClientFlags struct {
	apiTarget  string
	timeout    string
	strictTail bool
	recordDir  string
	logJSON    bool
	logFile    string
}

// AddClientFlags registers the shared client flags on cmd.
func AddClientFlags(cmd *cobra.Command, f *ClientFlags) {
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagAPITarget, &f.apiTarget)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagTimeout, &f.timeout)
	config.AddBoolFlag(cmd, config.ClientFlags, config.FlagStrictTail, &f.strictTail)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagRecordDir, &f.recordDir)
	config.AddBoolFlag(cmd, config.ClientFlags, config.FlagLogJSON, &f.logJSON)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagLogFile, &f.logFile)
}

// Env is the resolved runtime of one command invocation.
type Env struct {
	Config    *config.Config
	ConfigDir string
	Logger    *slog.Logger
	Client    *client.Client
	Dotdir    *dotdir.Manager

	// Interactive reports whether stdout is a terminal.
	Interactive bool

	closers []io.Closer
}

// Load resolves the effective configuration for cmd (flag > env > file >
// default) and builds the logger and client from it.
func Load(cmd *cobra.Command) (*Env, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	debug, _ := cmd.Flags().GetBool("debug")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}
	config.BindRegisteredFlags(v, cmd, config.ClientFlags, config.ClientFlagKeys)

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	env := &Env{
		Config:      cfg,
		ConfigDir:   configDir,
		Dotdir:      dotdir.NewManager(),
		Interactive: isTerminal(cmd.OutOrStdout()),
	}

	// Everything that can fail is resolved before the log file is opened.
	timeout, err := cfg.Client.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	env.Logger, err = env.newLogger(cmd.ErrOrStderr(), cmd.CommandPath(), debug || cfg.Log.Debug)
	if err != nil {
		_ = env.Close()
		return nil, err
	}

	env.Client = client.New(cfg.Client.APITarget,
		client.WithTimeout(timeout),
		client.WithLogger(env.Logger),
		client.WithStrictTail(cfg.Stream.StrictTail),
		client.WithRecordDir(cfg.Stream.RecordDir),
	)

	env.Logger.Debug("resolved config",
		"api_target", cfg.Client.APITarget,
		"timeout", timeout,
		"strict_tail", cfg.Stream.StrictTail,
		"record_dir", cfg.Stream.RecordDir,
	)

	return env, nil
}

// newLogger writes human output to stderr (pretty on a terminal, JSON when
// log.json is set) and fans out to a JSON log file when log.file is set.
// Every record carries the running command.
func (e *Env) newLogger(stderr io.Writer, command string, debug bool) (*slog.Logger, error) {
	console := logger.New(
		logger.WithDebug(debug),
		logger.WithWriter(stderr),
		logger.WithFormat(logger.ConsoleFormat(e.Config.Log.JSON, isTerminal(stderr))),
		logger.WithAttrs("command", command),
	)

	if e.Config.Log.File == "" {
		return console, nil
	}

	if err := os.MkdirAll(filepath.Dir(e.Config.Log.File), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(e.Config.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	e.closers = append(e.closers, f)

	file := logger.New(
		logger.WithDebug(debug),
		logger.WithWriter(f),
		logger.WithFormat(logger.FormatJSON),
		logger.WithAttrs("command", command),
	)
	return logger.Multi(console, file), nil
}

// Close releases the log file, if any.
func (e *Env) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// SessionID returns explicit when set, otherwise the remembered session.
func (e *Env) SessionID(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	state, err := e.Dotdir.LoadState(e.ConfigDir)
	if err != nil {
		return "", fmt.Errorf("loading last session: %w", err)
	}
	if state == nil {
		return "", ErrNoSession
	}
	return state.SessionID, nil
}

// Remember records sessionID as the last session. An empty topic keeps the
// topic already remembered for the same session. Failure is logged, not
// returned: the command itself already succeeded.
func (e *Env) Remember(sessionID, topic string) {
	if topic == "" {
		if prev, err := e.Dotdir.LoadState(e.ConfigDir); err == nil && prev != nil && prev.SessionID == sessionID {
			topic = prev.Topic
		}
	}

	err := e.Dotdir.SaveState(&dotdir.State{SessionID: sessionID, Topic: topic}, e.ConfigDir)
	if err != nil {
		e.Logger.Warn("could not remember session", "session_id", sessionID, "error", err)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
