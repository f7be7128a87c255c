package pipeline

import (
	"os"
	"path/filepath"

	"go.trai.ch/xcpkg/internal/core/domain"
)

// WorkTree is the scratch directory layout of one package build.
type WorkTree struct {
	Root    string
	Src     string
	Fix     string
	Res     string
	Bin     string
	Include string
	Lib     string
	Tmp     string
}

// NewWorkTree returns the work tree of name inside sessionDir.
func NewWorkTree(sessionDir, name string) WorkTree {
	root := filepath.Join(sessionDir, name)
	return WorkTree{
		Root:    root,
		Src:     filepath.Join(root, "src"),
		Fix:     filepath.Join(root, "fix"),
		Res:     filepath.Join(root, "res"),
		Bin:     filepath.Join(root, "bin"),
		Include: filepath.Join(root, "include"),
		Lib:     filepath.Join(root, "lib"),
		Tmp:     filepath.Join(root, "tmp"),
	}
}

// BuildDir is where build systems place their intermediate files.
func (w WorkTree) BuildDir(f *domain.Formula) string {
	if f.BuildInSourceDir {
		return w.Src
	}
	return filepath.Join(w.Root, "_build")
}

// Create removes any previous tree and creates every directory.
func (w WorkTree) Create() error {
	if err := os.RemoveAll(w.Root); err != nil {
		return domain.IOError("failed to clean working directory", w.Root, err)
	}
	for _, dir := range []string{w.Src, w.Fix, w.Res, w.Bin, w.Include, w.Lib, w.Tmp} {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return domain.IOError("failed to create working directory", dir, err)
		}
	}
	return nil
}
