// Package formula loads package formulas from formula repositories on disk.
package formula

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

var _ ports.FormulaStore = (*Store)(nil)

// fileSchema mirrors the keys of a formula file.
type fileSchema struct {
	Summary string `yaml:"summary"`
	Version string `yaml:"version"`
	License string `yaml:"license"`
	WebURL  string `yaml:"web_url"`

	GitURL string `yaml:"git_url"`
	GitRef string `yaml:"git_ref"`
	GitSHA string `yaml:"git_sha"`
	GitNth int    `yaml:"git_nth"`

	SrcURL string `yaml:"src_url"`
	SrcURI string `yaml:"src_uri"`
	SrcSHA string `yaml:"src_sha"`

	FixURL string `yaml:"fix_url"`
	FixURI string `yaml:"fix_uri"`
	FixSHA string `yaml:"fix_sha"`

	ResURL string `yaml:"res_url"`
	ResURI string `yaml:"res_uri"`
	ResSHA string `yaml:"res_sha"`

	DepPkg string `yaml:"dep_pkg"`
	DepUpp string `yaml:"dep_upp"`
	DepPym string `yaml:"dep_pym"`
	DepPlm string `yaml:"dep_plm"`

	BSystem  string `yaml:"bsystem"`
	BInBSTD  string `yaml:"binbstd"`
	Parallel string `yaml:"parallel"`

	CCFlags string `yaml:"ccflags"`
	XXFlags string `yaml:"xxflags"`
	PPFlags string `yaml:"ppflags"`
	LDFlags string `yaml:"ldflags"`

	DoFetch string `yaml:"dofetch"`
	Do12345 string `yaml:"do12345"`
	DoPatch string `yaml:"dopatch"`
	Prepare string `yaml:"prepare"`
	Install string `yaml:"install"`
	DoTweak string `yaml:"dotweak"`
}

type repoSchema struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
	Pinned bool   `yaml:"pinned"`
}

// Store reads formulas from <repos>/<repo>/formula.
type Store struct {
	layout domain.Layout
	only   []string

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]*domain.Formula
}

// NewStore creates a Store over the repositories of cfg.
func NewStore(cfg *domain.Config) *Store {
	return &Store{
		layout: cfg.Layout,
		only:   cfg.FormulaRepos,
		cache:  make(map[string]*domain.Formula),
	}
}

// Load returns the formula of name for platform. The first repository that
// provides it wins; a platform-specific file wins over a generic one.
func (s *Store) Load(_ context.Context, name string, platform domain.Platform) (*domain.Formula, error) {
	if !domain.ValidPackageName(name) {
		return nil, zerr.With(zerr.Wrap(domain.ErrArgument, "invalid package name"), "package", name)
	}

	key := platform.Name + "/" + name
	s.mu.RLock()
	f, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return f, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		f, err := s.load(name, platform)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[key] = f
		s.mu.Unlock()
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Formula), nil //nolint:forcetypeassert // only *domain.Formula is stored
}

func (s *Store) load(name string, platform domain.Platform) (*domain.Formula, error) {
	repos, err := s.Repositories()
	if err != nil {
		return nil, err
	}

	for _, repo := range repos {
		for _, candidate := range []string{
			filepath.Join(repo.Dir, "formula", platform.Name, name+".yml"),
			filepath.Join(repo.Dir, "formula", name+".yml"),
		} {
			data, err := os.ReadFile(candidate) //nolint:gosec // formula repositories are trusted
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, domain.IOError("failed to read formula", candidate, err)
			}
			return Parse(name, candidate, data)
		}
	}

	return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrFormulaNotFound, "no repository provides the package"),
		"package", name), "platform", platform.String())
}

// Repositories lists the formula repositories in lookup order. When the
// configuration names repositories only those are used, in the given order;
// otherwise every directory under the repos root is used, sorted by name.
func (s *Store) Repositories() ([]domain.Repository, error) {
	entries, err := os.ReadDir(s.layout.Repos)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.IOError("failed to list formula repositories", s.layout.Repos, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(s.only) > 0 {
		var filtered []string
		for _, want := range s.only {
			if slices.Contains(names, want) {
				filtered = append(filtered, want)
			}
		}
		names = filtered
	}

	repos := make([]domain.Repository, 0, len(names))
	for _, name := range names {
		repo, err := readRepository(name, filepath.Join(s.layout.Repos, name))
		if err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}
	return repos, nil
}

func readRepository(name, dir string) (domain.Repository, error) {
	repo := domain.Repository{Name: name, Dir: dir, Branch: "master"}

	path := filepath.Join(dir, domain.RepoConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // formula repositories are trusted
	if errors.Is(err, fs.ErrNotExist) {
		return repo, nil
	}
	if err != nil {
		return repo, domain.IOError("failed to read repository config", path, err)
	}

	var cfg repoSchema
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return repo, zerr.With(zerr.Wrap(errors.Join(domain.ErrFormulaInvalid, err), "malformed repository config"), "path", path)
	}
	repo.URL = cfg.URL
	if cfg.Branch != "" {
		repo.Branch = cfg.Branch
	}
	repo.Pinned = cfg.Pinned
	return repo, nil
}

var versionPattern = regexp.MustCompile(`\d+(?:\.\d+)+`)

// Parse decodes and validates the formula text of package name.
func Parse(name, path string, data []byte) (*domain.Formula, error) {
	var raw fileSchema
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(errors.Join(domain.ErrFormulaInvalid, err), "malformed formula"),
			"package", name), "path", path)
	}

	parallel, err := parseBool(raw.Parallel, true)
	if err != nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(errors.Join(domain.ErrFormulaInvalid, err), "parallel must be a boolean"), "package", name), "path", path)
	}
	inSource, err := parseBool(raw.BInBSTD, false)
	if err != nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(errors.Join(domain.ErrFormulaInvalid, err), "binbstd must be a boolean"), "package", name), "path", path)
	}

	f := &domain.Formula{
		Name:    name,
		Version: raw.Version,
		Summary: raw.Summary,
		License: raw.License,
		WebURL:  raw.WebURL,

		Git: domain.GitSource{URL: raw.GitURL, Ref: raw.GitRef, SHA: raw.GitSHA, Depth: raw.GitNth},
		Src: domain.Resource{URL: raw.SrcURL, URI: raw.SrcURI, SHA: strings.ToLower(raw.SrcSHA)},
		Fix: domain.Resource{URL: raw.FixURL, URI: raw.FixURI, SHA: strings.ToLower(raw.FixSHA)},
		Res: domain.Resource{URL: raw.ResURL, URI: raw.ResURI, SHA: strings.ToLower(raw.ResSHA)},

		DepPkg: domain.ParseList(raw.DepPkg),
		DepUpp: domain.ParseList(raw.DepUpp),
		DepPym: domain.ParseList(raw.DepPym),
		DepPlm: domain.ParseList(raw.DepPlm),

		BuildInSourceDir: inSource,
		Parallel:         parallel,

		CCFlags: raw.CCFlags,
		XXFlags: raw.XXFlags,
		PPFlags: raw.PPFlags,
		LDFlags: raw.LDFlags,

		DoFetch: raw.DoFetch,
		Do12345: raw.Do12345,
		DoPatch: raw.DoPatch,
		Prepare: raw.Prepare,
		Install: raw.Install,
		DoTweak: raw.DoTweak,

		Path: path,
		Raw:  string(data),
	}

	if strings.TrimSpace(raw.BSystem) != "" {
		f.BuildSystems = domain.ParseBuildSystems(raw.BSystem)
	} else {
		f.BuildSystems = domain.InferBuildSystems(raw.Install)
	}

	if f.Version == "" && !f.Src.IsZero() && !f.Src.IsLocalDir() {
		f.Version = versionPattern.FindString(domain.FileName(f.Src.URL))
	}

	if err := f.Validate(); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return f, nil
}

func parseBool(s string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}
