package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/crosstalk/internal/config"
	"github.com/aretw0/crosstalk/internal/platform"
	"github.com/aretw0/crosstalk/pkg/core"
	"github.com/aretw0/crosstalk/pkg/workspace"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "crosstalk",
		Short: "Find keyword overlap between the dialogs of an intent training set",
		Long: `crosstalk scores every utterance of every other dialog against a dialog's
keywords, surfaces the ones that look like they belong elsewhere, and tracks
how each conflict gets remediated.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			level := cfg.Level()
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("vault", "", "Vault directory (or .db file for the sqlite adapter)")
	flags.String("adapter", "", "Storage adapter: fs, sqlite or memory")
	flags.String("format", "", "Document format of the fs adapter: json or yaml")
	flags.String("config", "", "Path to crosstalk.yaml (default: discovered from the working directory)")
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newImportCmd(),
		newUtterancesCmd(),
		newKeywordsCmd(),
		newStatusCmd(),
		newScanCmd(),
		newResolveCmd(),
		newFlagCmd(),
		newTodoCmd(),
		newSummaryCmd(),
		newWordsCmd(),
		newAlternativesCmd(),
		newWatchCmd(),
	)
	return rootCmd
}

// annotationCreatesConfig marks commands that may run before their --config file exists.
const annotationCreatesConfig = "crosstalk/creates-config"

// resolveConfig merges crosstalk.yaml, .env, CROSSTALK_* variables and flags,
// in increasing order of precedence.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}

	path, _ := cmd.Flags().GetString("config")
	required := path != "" && cmd.Annotations[annotationCreatesConfig] == ""
	dir := cwd
	if path == "" {
		if root, err := platform.FindRoot(cwd); err == nil {
			dir = root
		}
		path = filepath.Join(dir, platform.ConfigFile)
	} else {
		dir = filepath.Dir(path)
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return cfg, err
	}
	if cfg.Vault == "." {
		cfg.Vault = dir
	}
	if err := config.LoadDotEnv(dir); err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(nil)

	for flag, field := range map[string]*string{
		"vault":   &cfg.Vault,
		"adapter": &cfg.Adapter,
		"format":  &cfg.Format,
	} {
		if cmd.Flags().Changed(flag) {
			*field, _ = cmd.Flags().GetString(flag)
		}
	}
	return cfg, cfg.Validate()
}

// session is an open workspace together with its storage.
type session struct {
	ws   *workspace.Workspace
	repo core.Repository
	cfg  config.Config
}

func (s *session) Close() {
	if c, ok := s.repo.(core.Closer); ok {
		_ = c.Close()
	}
}

// openSession loads the workspace of the configured vault. The vault
// directory must already exist; init is the command that creates it.
func openSession(cmd *cobra.Command, readOnly bool, extra ...platform.Option) (*session, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	opts := append([]platform.Option{
		platform.WithAdapter(cfg.Adapter),
		platform.WithFormat(cfg.Format),
		platform.WithLogger(slog.Default()),
		platform.WithReadOnly(readOnly),
		platform.WithMustExist(true),
	}, extra...)

	repo, err := platform.Init(cmd.Context(), cfg.Vault, opts...)
	if err != nil {
		return nil, fmt.Errorf("open vault %s: %w", cfg.Vault, err)
	}
	ws := workspace.New(repo, workspace.WithLogger(slog.Default()))
	if err := ws.Load(cmd.Context()); err != nil {
		if c, ok := repo.(core.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	return &session{ws: ws, repo: repo, cfg: cfg}, nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func jsonFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// refFor accepts either the ID or the exact text of an utterance of dialogKey.
func refFor(ws *workspace.Workspace, dialogKey, arg string) core.UtteranceRef {
	ref := core.UtteranceRef{DialogKey: dialogKey, ID: arg}
	c := ws.Corpus()
	if _, ok := c.Resolve(ref); ok {
		return ref
	}
	if byText, ok := c.RefByText(dialogKey, arg); ok {
		return byText
	}
	return ref
}

func unknownDialog(key string) error {
	return &core.ValidationError{Field: "dialog", Value: key, Err: core.ErrUnknownDialog}
}
