package abortifinternal

import (
	"context"
	"errors"
	"fmt"
	"go/types"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	abortif "github.com/blyxyas/abort-if"
	"github.com/blyxyas/abort-if/internal/abortif/parse"
)

// Version is stamped by releases and echoed in generated file headers.
var Version string

// Main is the main entry point for the generator. The command-line tool
// calls it directly.
//
// ctx can cancel package loading. wd is the path of the working
// directory. env is the environment variables to use when running the
// build system. opts is the run configuration and patterns are the
// package patterns to process.
//
// It returns a map of output file paths to their contents. If any error
// occurs, it returns a non-nil error collecting every failure across
// the loaded packages.
func Main(ctx context.Context, wd string, env []string, opts Options, patterns []string) (map[string][]byte, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	pkgs, err := load(ctx, wd, env, opts.Tags, opts.Tests, patterns)
	if err != nil {
		return nil, err
	}

	outs := make(map[string][]byte)
	var errs error

	for _, pkg := range pkgs {
		if len(pkg.Errors) != 0 {
			err := fmt.Errorf("pkg %q has errors", pkg.Name)
			errs = errors.Join(errs, err)
			continue
		}

		runOpts := opts
		if runOpts.LoadPkg == nil {
			runOpts.LoadPkg = pkgLoader(ctx, wd, env, pkg)
		}

		ab, err := New(pkg, runOpts)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		if err := ab.Build(); err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		if pkg.ID != pkg.PkgPath {
			// A test variant of a package that is also in the list on
			// its own. Its directives are validated above; generation
			// happens on the regular variant.
			log.Debug("skipping test variant", "pkg", pkg.ID)
			continue
		}

		files := ab.Generate()
		if len(files) == 0 {
			continue
		}

		outDir := filepath.Dir(pkg.GoFiles[0])
		if rel, err := filepath.Rel(wd, outDir); err == nil {
			outDir = rel
		}
		for name, code := range files {
			out := filepath.Join(outDir, name)
			outs[out] = code
			log.Debug("generated", "file", out, "bytes", len(code))
		}
	}
	if errs != nil {
		// errs already contains comprehensive error messages. So we
		// don't need to attach another error message.
		return nil, reorderErrors(errs)
	}

	return outs, nil
}

// load loads packages with the abortif tag enabled, so directive files
// are part of the loaded syntax.
func load(ctx context.Context, wd string, env []string, tags string, tests bool, patterns []string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode:       packages.NeedDeps | packages.NeedFiles | packages.NeedImports | packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Context:    ctx,
		Dir:        wd,
		Env:        env,
		BuildFlags: []string{"-tags=" + abortif.Tag},
		Tests:      tests,
	}
	if tags != "" {
		cfg.BuildFlags[0] += "," + tags
	}

	// Load the packages based on the provided patterns.
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found: %v", patterns)
	}

	// Check for errors in the loaded packages.
	var errs error
	for _, pkg := range pkgs {
		for _, err := range pkg.Errors {
			if err.Pos == "" {
				errs = errors.Join(errs, errors.New(err.Msg))
				continue
			}

			path, rowcol, _ := strings.Cut(err.Pos, ":")
			if rel, relErr := filepath.Rel(wd, path); relErr == nil {
				err.Pos = rel + ":" + rowcol
			}
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}

	return pkgs, nil
}

// pkgLoader resolves the packages of qualified handler names. Imports
// of the target package resolve without another load.
func pkgLoader(ctx context.Context, wd string, env []string, pkg *packages.Package) parse.PkgLoader {
	return func(path string) (*types.Package, error) {
		for _, imp := range pkg.Types.Imports() {
			if imp.Path() == path {
				return imp, nil
			}
		}

		cfg := &packages.Config{
			Mode:    packages.NeedName | packages.NeedTypes,
			Context: ctx,
			Dir:     wd,
			Env:     env,
		}
		loaded, err := packages.Load(cfg, path)
		if err != nil {
			return nil, err
		}
		if len(loaded) == 0 || loaded[0].Types == nil {
			return nil, fmt.Errorf("cannot load package %s", path)
		}
		if len(loaded[0].Errors) != 0 {
			return nil, fmt.Errorf("cannot load package %s: %s", path, loaded[0].Errors[0].Msg)
		}
		return loaded[0].Types, nil
	}
}

func reorderErrors(errs error) error {
	if errs == nil {
		return nil
	}

	// Flatten nested errors
	list := []error{errs}
	for i := 0; i < len(list); i++ {
		if u, ok := list[i].(interface{ Unwrap() []error }); ok {
			// errors.Join collapses errors with a single error having
			// Unwrap() []error method. The underlying errors could be
			// retrieved using the Unwrap() method.
			list = append(list, u.Unwrap()...)

			// The underlying errors are appended to the list. So the
			// original error can be removed.
			list[i] = nil
			continue
		}
	}
	list = slices.DeleteFunc(list, func(err error) bool {
		return err == nil
	})

	// Sort errors by message
	sort.Slice(list, func(i, j int) bool {
		return list[i].Error() < list[j].Error()
	})
	return errors.Join(list...)
}
