package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ariel-frischer/gitci/internal/config"
	"github.com/ariel-frischer/gitci/internal/git"
	"github.com/ariel-frischer/gitci/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// annotationRepo on a command selects how much of the project the pre-run
// hook prepares. Absent means the repository and its config are required.
const annotationRepo = "gitci/repo"

const (
	// repoOptional falls back to the project directory outside a repository.
	repoOptional = "optional"
	// repoRootOnly is repoOptional without loading the configuration.
	repoRootOnly = "root"
	// repoNone prepares only the logger.
	repoNone = "none"
)

// session is the per-process state built once before a command runs.
type session struct {
	log  zerolog.Logger
	repo *git.Repository
	cfg  *config.Configuration
	// root is the repository root, or the project directory when no
	// repository was opened.
	root string
}

type sessionKey struct{}

func withSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func sessionFrom(ctx context.Context) (*session, error) {
	if ctx == nil {
		return nil, fmt.Errorf("command has no context")
	}
	s, ok := ctx.Value(sessionKey{}).(*session)
	if !ok || s == nil {
		return nil, fmt.Errorf("command context has no session")
	}
	return s, nil
}

// prepareSession builds the logger, opens the repository and loads the
// release configuration for cmd.
func prepareSession(cmd *cobra.Command, _ []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	verbose, _ := cmd.Flags().GetBool("verbose")
	logFormat, _ := cmd.Flags().GetString("log-format")
	project, _ := cmd.Flags().GetString("project")
	configPath, _ := cmd.Flags().GetString("config")

	log := logger.New(logger.LevelFor(debug, verbose), logFormat, cmd.ErrOrStderr())
	s, err := openSession(cmd.Annotations[annotationRepo], project, configPath, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withSession(ctx, s))
	return nil
}

func openSession(mode, project, configPath string, log zerolog.Logger) (*session, error) {
	s := &session{log: log}
	if project == "" {
		project = "."
	}
	root, err := filepath.Abs(project)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}
	s.root = root
	if mode == repoNone {
		return s, nil
	}

	repo, err := git.Open(s.root, log)
	switch {
	case err == nil:
		s.repo = repo
		if root := repo.Root(); root != "" {
			s.root = root
		}
	case mode != "" && errors.Is(err, git.ErrNotRepository):
		log.Debug().Str("dir", s.root).Msg("no repository, using project directory")
	default:
		return nil, err
	}
	if mode == repoRootOnly {
		return s, nil
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectDir: s.root,
		ConfigPath: configPath,
	})
	if err != nil {
		return nil, err
	}
	s.cfg = cfg
	log.Debug().Str("source", string(cfg.Source)).Str("path", cfg.Path).Msg("configuration loaded")
	return s, nil
}
