package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conn-castle/plugin-stage/internal/config"
	"github.com/conn-castle/plugin-stage/internal/lock"
	"github.com/conn-castle/plugin-stage/internal/logging"
	"github.com/conn-castle/plugin-stage/internal/messages"
	"github.com/conn-castle/plugin-stage/internal/pluginfs"
	"github.com/conn-castle/plugin-stage/internal/prompt"
	"github.com/conn-castle/plugin-stage/internal/root"
	"github.com/conn-castle/plugin-stage/internal/terminal"
)

const (
	flagConfig  = "config"
	flagBaseDir = "base-dir"
)

var (
	getwd         = os.Getwd
	isTerminal    = terminal.IsInteractive
	newPromptUI   = func() prompt.UI { return prompt.NewHuhUI() }
	newSystem     = func() pluginfs.System { return pluginfs.RealSystem{} }
	notifyContext = signal.NotifyContext
)

// session is the state every subcommand shares once flags and config are resolved.
type session struct {
	configFlag  string
	baseDirFlag string

	cwd       string
	configDir string
	paths     config.Paths
	cfg       *config.Config
	locker    lock.Locker
	manager   *pluginfs.Manager
}

func (s *session) baseDir() string {
	return s.cfg.BaseDir
}

// resolve anchors a relative path from the config file at that file's directory.
func (s *session) resolve(path string) string {
	return anchor(s.configDir, path)
}

// resolveFlag anchors a relative path from a flag at the working directory.
func (s *session) resolveFlag(path string) string {
	return anchor(s.cwd, path)
}

func anchor(dir string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// guard runs fn under the plugin's lock.
func (s *session) guard(name string, fn func() error) error {
	return s.locker.Guard(s.baseDir(), name, fn)
}

func newRootCmd() *cobra.Command {
	sess := &session{}

	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return sess.load(cmd)
		},
	}
	cmd.Flags().Bool("version", false, messages.RootVersionFlag)
	cmd.PersistentFlags().StringVar(&sess.configFlag, flagConfig, "", messages.RootFlagConfig)
	cmd.PersistentFlags().StringVar(&sess.baseDirFlag, flagBaseDir, "", messages.RootFlagBaseDir)
	logging.RegisterFlags(cmd)

	cmd.AddCommand(
		newStageCmd(sess),
		newInstallCmd(sess),
		newBackupCmd(sess),
		newBackupsCmd(sess),
		newPruneCmd(sess),
		newRestoreCmd(sess),
		newInspectCmd(sess),
		newWatchCmd(sess),
		newDoctorCmd(sess),
	)
	return cmd
}

// load resolves config, logging, and the plugin manager for one invocation.
func (s *session) load(cmd *cobra.Command) error {
	path, optional, err := s.locate(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(path, optional)
	if err != nil {
		return err
	}
	return s.apply(cmd, cfg)
}

// locate finds the config file. The project root is the nearest ancestor of
// the working directory holding pstage.toml, else the working directory. An
// explicit --config must exist; the default one is optional.
func (s *session) locate(cmd *cobra.Command) (string, bool, error) {
	cwd, err := getwd()
	if err != nil {
		return "", false, fmt.Errorf(messages.RootGetwdFmt, err)
	}
	s.cwd = cwd
	projectRoot, err := root.FindProjectRootOrStart(cwd)
	if err != nil {
		return "", false, err
	}
	s.paths = config.DefaultPaths(projectRoot)

	path, optional := s.paths.ConfigPath, true
	if flag := cmd.Flag(flagConfig); flag != nil && flag.Changed {
		path, optional = s.resolveFlag(s.configFlag), false
	}
	s.configDir = filepath.Dir(path)
	return path, optional, nil
}

// apply overlays flags on cfg and builds the logger, locker, and manager.
func (s *session) apply(cmd *cobra.Command, cfg *config.Config) error {
	cfg.BaseDir = s.resolve(cfg.BaseDir)
	cfg.Inbox.Dir = s.resolve(cfg.Inbox.Dir)
	if flag := cmd.Flag(flagBaseDir); flag != nil && flag.Changed {
		expanded, err := config.ExpandPath(s.baseDirFlag)
		if err != nil {
			return err
		}
		cfg.BaseDir = s.resolveFlag(expanded)
	}
	s.cfg = cfg

	logger, err := logging.New(cmd.ErrOrStderr(), logging.SettingsFromFlags(cmd, cfg.Log))
	if err != nil {
		return err
	}
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

	s.locker = lock.Locker{Timeout: cfg.Lock.Timeout.Duration}
	s.manager, err = pluginfs.NewManager(pluginfs.Options{
		System: newSystem(),
		Guard:  s.locker.Guard,
	})
	return err
}
