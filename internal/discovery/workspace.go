package discovery

import (
	"context"
	"errors"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/mod/modfile"
	"golang.org/x/sync/errgroup"

	"github.com/mwiater/benchtree/internal/bench"
)

var errNotInitialized = errors.New("workspace not initialized")

// Workspace discovers benchmarks in every Go module under Root.
type Workspace struct {
	Root   string
	Logger *slog.Logger

	projects []bench.Project
	ready    bool
}

// NewWorkspace returns a discoverer rooted at root.
func NewWorkspace(root string, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspace{Root: root, Logger: logger}
}

// Initialize locates the modules (projects) in the workspace.
func (w *Workspace) Initialize(ctx context.Context) error {
	root, err := filepath.Abs(w.Root)
	if err != nil {
		return &DiscoveryError{Root: w.Root, Err: err}
	}
	var projects []bench.Project
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if p != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != "go.mod" {
			return nil
		}
		name, err := modulePath(p)
		if err != nil {
			return err
		}
		projects = append(projects, bench.Project{Name: name, Dir: filepath.Dir(p)})
		return nil
	})
	if err != nil {
		return &DiscoveryError{Root: root, Err: err}
	}
	w.Root = root
	w.projects = projects
	w.ready = true
	w.Logger.Debug("workspace initialized", "root", root, "projects", len(projects))
	return nil
}

// Projects returns the modules found by Initialize, in walk order.
func (w *Workspace) Projects() []bench.Project { return w.projects }

// FindBenchmarks parses every _test.go file of every project and returns
// the benchmark functions in file order.
func (w *Workspace) FindBenchmarks(ctx context.Context) ([]bench.Descriptor, error) {
	if !w.ready {
		return nil, &DiscoveryError{Root: w.Root, Err: errNotInitialized}
	}

	var files []testFile
	for _, p := range w.projects {
		found, err := testFiles(ctx, p)
		if err != nil {
			return nil, &DiscoveryError{Root: w.Root, Err: err}
		}
		files = append(files, found...)
	}

	results := make([][]bench.Descriptor, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			descs, err := parseBenchmarks(f)
			if err != nil {
				var syntax scanner.ErrorList
				if errors.As(err, &syntax) {
					w.Logger.Warn("skipping unparsable test file", "file", f.path, "error", err)
					return nil
				}
				return err
			}
			results[i] = descs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &DiscoveryError{Root: w.Root, Err: err}
	}

	var out []bench.Descriptor
	for _, r := range results {
		out = append(out, r...)
	}
	w.Logger.Info("benchmarks discovered", "files", len(files), "benchmarks", len(out))
	return out, nil
}

type testFile struct {
	path       string
	dir        string
	project    string
	importPath string
}

// testFiles lists the _test.go files of a project, skipping nested modules.
func testFiles(ctx context.Context, p bench.Project) ([]testFile, error) {
	var files []testFile
	err := filepath.WalkDir(p.Dir, func(fp string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if fp == p.Dir {
				return nil
			}
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			if _, err := os.Stat(filepath.Join(fp, "go.mod")); err == nil {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		dir := filepath.Dir(fp)
		rel, err := filepath.Rel(p.Dir, dir)
		if err != nil {
			return err
		}
		importPath := p.Name
		if rel != "." {
			importPath = path.Join(p.Name, filepath.ToSlash(rel))
		}
		files = append(files, testFile{path: fp, dir: dir, project: p.Name, importPath: importPath})
		return nil
	})
	return files, err
}

func parseBenchmarks(f testFile) ([]bench.Descriptor, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, f.path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	testingPkg := testingName(file)
	if testingPkg == "" {
		return nil, nil
	}
	var out []bench.Descriptor
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || !isBenchmarkName(fn.Name.Name) || !takesB(fn, testingPkg) {
			continue
		}
		pos := fset.Position(fn.Name.Pos())
		out = append(out, bench.Descriptor{
			Project:   f.project,
			Namespace: f.importPath,
			Type:      bench.TypeFromName(fn.Name.Name),
			Method:    fn.Name.Name,
			Dir:       f.dir,
			Symbol:    bench.Symbol{File: pos.Filename, Line: pos.Line, Column: pos.Column},
		})
	}
	return out, nil
}

// testingName returns the local name of the "testing" import, or "".
func testingName(file *ast.File) string {
	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil || p != "testing" {
			continue
		}
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				return ""
			}
			return imp.Name.Name
		}
		return "testing"
	}
	return ""
}

// isBenchmarkName applies go test's rule: "Benchmark" followed by nothing
// or by a character that is not a lower-case letter.
func isBenchmarkName(name string) bool {
	const prefix = "Benchmark"
	if !strings.HasPrefix(name, prefix) {
		return false
	}
	if len(name) == len(prefix) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(name[len(prefix):])
	return !unicode.IsLower(r)
}

// takesB reports whether fn has the signature func(*testing.B).
func takesB(fn *ast.FuncDecl, testingPkg string) bool {
	params := fn.Type.Params.List
	if len(params) != 1 || len(params[0].Names) > 1 || fn.Type.Results != nil {
		return false
	}
	star, ok := params[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	sel, ok := star.X.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "B" {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == testingPkg
}

func modulePath(gomod string) (string, error) {
	data, err := os.ReadFile(gomod)
	if err != nil {
		return "", err
	}
	f, err := modfile.ParseLax(gomod, data, nil)
	if err != nil {
		return "", err
	}
	if f.Module == nil {
		return "", errors.New(gomod + ": no module directive")
	}
	return f.Module.Mod.Path, nil
}

// skipDir mirrors the directories the go tool ignores.
func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
