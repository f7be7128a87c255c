package pipeline

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
)

// auxPrefixes select top-level source files copied into the metadata directory.
var auxPrefixes = []string{"license", "licence", "copying", "copyright", "notice", "authors", "readme", "changelog", "changes", "news", "thanks"}

// finalize turns the installation directory into a published package.
func (r *run) finalize(ctx context.Context, vertex ports.Vertex) error {
	d, f := r.d, r.req.Formula

	info, err := os.Stat(r.installDir)
	if err != nil || !info.IsDir() {
		return zerr.With(zerr.Wrap(domain.ErrProcess, "install phase produced no installation directory"), "dir", r.installDir)
	}

	if f.DoTweak != "" {
		if err := r.runPhase(ctx, vertex, r.target, "tweak"); err != nil {
			return err
		}
	}

	if err := removeTransient(r.installDir); err != nil {
		return err
	}

	meta := domain.MetaDir(r.installDir)
	if err := os.MkdirAll(filepath.Join(meta, "formula"), domain.DirPerm); err != nil {
		return domain.IOError("failed to create metadata directory", meta, err)
	}
	if err := r.copyAux(meta); err != nil {
		return err
	}
	if err := r.writeFormulas(meta); err != nil {
		return err
	}
	if len(r.req.Closure) > 0 {
		path := filepath.Join(meta, "dependencies.dot")
		if err := os.WriteFile(path, DependencyGraph(f.Name, r.req.Closure, r.req.Set), domain.FilePerm); err != nil {
			return domain.IOError("failed to write dependency graph", path, err)
		}
	}

	sys, err := d.sysinfo.Snapshot()
	if err != nil {
		return err
	}
	receipt := domain.Receipt{
		Formula:     f.Raw,
		Target:      r.req.Options.Target,
		Builder:     d.builder,
		Timestamp:   d.now(),
		Build:       sys,
		Fingerprint: r.target.Fingerprint(),
	}
	if err := d.store.WriteReceipt(r.installDir, receipt); err != nil {
		return err
	}
	if err := d.store.WriteManifest(r.installDir); err != nil {
		return err
	}

	if r.req.Options.Verbosity == domain.VerbosityDebug {
		listing := ports.Command{Argv: []string{"ls", "-la", r.installDir}, Env: r.target.Environ()}
		if err := d.executor.Run(ctx, listing, vertex.Stdout(), vertex.Stderr()); err != nil {
			d.logger.Warn("failed to list " + r.installDir)
		}
	}

	return d.store.Publish(d.layout.InstalledLink(r.req.Options.Target, f.Name), r.installDir)
}

// removeTransient deletes files that only make sense inside a build tree.
func removeTransient(root string) error {
	for _, rel := range []string{"share/info/dir", "lib/charset.alias"} {
		path := filepath.Join(root, rel)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return domain.IOError("failed to remove transient file", path, err)
		}
	}

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return domain.IOError("failed to walk installation directory", path, err)
		}
		if entry.IsDir() {
			return nil
		}
		name := entry.Name()
		libtoolArchive := strings.HasSuffix(name, ".la") && filepath.Dir(path) == filepath.Join(root, "lib")
		if libtoolArchive || name == "perllocal.pod" || name == ".packlist" {
			if err := os.Remove(path); err != nil {
				return domain.IOError("failed to remove transient file", path, err)
			}
		}
		return nil
	})
}

// copyAux copies licence and readme style files, config.log and
// compile_commands.json into meta.
func (r *run) copyAux(meta string) error {
	var sources []string

	entries, err := os.ReadDir(r.work.Src)
	if err != nil {
		return domain.IOError("failed to read source directory", r.work.Src, err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		lower := strings.ToLower(entry.Name())
		for _, prefix := range auxPrefixes {
			if strings.HasPrefix(lower, prefix) {
				sources = append(sources, filepath.Join(r.work.Src, entry.Name()))
				break
			}
		}
	}

	build := r.work.BuildDir(r.req.Formula)
	for _, candidate := range []string{
		filepath.Join(build, "config.log"),
		filepath.Join(r.work.Src, "config.log"),
	} {
		if isRegular(candidate) {
			sources = append(sources, candidate)
			break
		}
	}
	if r.req.Options.ExportCompileCommands {
		for _, candidate := range []string{
			filepath.Join(r.work.Root, "compile_commands.json"),
			filepath.Join(build, "compile_commands.json"),
		} {
			if isRegular(candidate) {
				sources = append(sources, candidate)
				break
			}
		}
	}

	for _, src := range sources {
		if err := copyFile(src, filepath.Join(meta, filepath.Base(src))); err != nil {
			return err
		}
	}
	return nil
}

// writeFormulas backs up the formula of the package and of every dependency.
func (r *run) writeFormulas(meta string) error {
	formulas := []*domain.Formula{r.req.Formula}
	for _, name := range r.req.Closure {
		if r.req.Set == nil {
			break
		}
		if dep, ok := r.req.Set.Get(name); ok {
			formulas = append(formulas, dep)
		}
	}
	for _, f := range formulas {
		path := filepath.Join(meta, "formula", f.Name+".yml")
		if err := os.WriteFile(path, []byte(f.Raw), domain.FilePerm); err != nil {
			return domain.IOError("failed to back up formula", path, err)
		}
	}
	return nil
}

// DependencyGraph renders the dependency edges of root and its closure in DOT.
func DependencyGraph(root string, closure []string, set *domain.PackageSet) []byte {
	var b bytes.Buffer
	b.WriteString("digraph " + strconv.Quote(root) + " {\n")
	b.WriteString("    graph [rankdir=LR];\n")
	b.WriteString("    node [shape=box];\n")

	var edges []string
	for _, name := range append([]string{root}, closure...) {
		if set == nil {
			break
		}
		f, ok := set.Get(name)
		if !ok {
			continue
		}
		for _, dep := range f.DepPkg {
			edges = append(edges, "    "+strconv.Quote(name)+" -> "+strconv.Quote(dep)+";\n")
		}
	}
	sort.Strings(edges)
	for _, e := range edges {
		b.WriteString(e)
	}
	b.WriteString("}\n")
	return b.Bytes()
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
