// Command tblcat parses delimited text files and prints what was detected:
// delimiter, number format, shape and the inferred kind of every column.
//
//	tblcat [flags] path...
//
// Paths may be files or directories; a directory contributes its .csv, .tsv,
// .tab and .txt files. Files are parsed concurrently. The exit status is 1
// when any file fails to parse and 2 for usage or fatal errors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/JonMunkholm/tblstore/internal/config"
	"github.com/JonMunkholm/tblstore/internal/core"
	"github.com/JonMunkholm/tblstore/internal/export"
	"github.com/JonMunkholm/tblstore/internal/logging"
	"github.com/JonMunkholm/tblstore/internal/table"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitFatal   = 2
)

// textExts are the extensions picked up from directory arguments.
var textExts = map[string]bool{".csv": true, ".tsv": true, ".tab": true, ".txt": true}

type options struct {
	rows     int
	format   string
	outDir   string
	store    bool
	jobs     int
	logLevel string
}

// result is the outcome for one input path.
type result struct {
	path string
	id   string // set when stored
	t    *table.Table
	err  error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	var upCfg config.UploadConfig
	if err := config.LoadSection(&upCfg, getenv); err != nil {
		fmt.Fprintln(stderr, "tblcat:", err)
		return exitFatal
	}

	var opts options
	fs := flag.NewFlagSet("tblcat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&opts.rows, "rows", 0, "print the first `n` rows of each table")
	fs.StringVar(&opts.format, "export", "", "also write each table as `csv|arrow|parquet`")
	fs.StringVar(&opts.outDir, "out", ".", "directory for exported files")
	fs.BoolVar(&opts.store, "store", false, "store tables in the database named by DATABASE_URL")
	fs.IntVar(&opts.jobs, "j", upCfg.MaxConcurrent, "files parsed at once")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: tblcat [flags] path...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitFatal
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitFatal
	}
	if _, ok := exporters[opts.format]; opts.format != "" && !ok {
		fmt.Fprintf(stderr, "tblcat: unknown export format %q\n", opts.format)
		return exitFatal
	}
	if opts.jobs < 1 {
		opts.jobs = 1
	}

	logger := slog.New(logging.NewHandler(opts.logLevel, "text", stderr))

	var store core.Store = core.NewMemStore()
	if opts.store {
		pg, closeStore, err := openStore(ctx, getenv)
		if err != nil {
			logger.Error("open store", "error", err)
			return exitFatal
		}
		defer closeStore()
		store = pg
	}

	upCfg.MaxConcurrent = opts.jobs
	svc := core.NewService(store, upCfg)

	paths := expandPaths(fs.Args(), logger)
	if opts.format != "" {
		if err := checkExportPaths(paths, opts); err != nil {
			fmt.Fprintln(stderr, "tblcat:", err)
			return exitFatal
		}
	}
	results := make([]result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for i, p := range paths {
		g.Go(func() error {
			results[i] = process(gctx, svc, p, opts.store)
			if results[i].err != nil {
				logger.Warn("invalid table", "file", p, "error", results[i].err)
				return nil
			}
			if opts.format != "" {
				return exportTable(results[i], opts)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("tblcat failed", "error", err)
		return exitFatal
	}

	if err := report(stdout, results, opts.rows); err != nil {
		logger.Error("write report", "error", err)
		return exitFatal
	}

	for _, r := range results {
		if r.err != nil {
			return exitInvalid
		}
	}
	return exitOK
}

// expandPaths replaces directory arguments with the delimited text files
// they contain. Other arguments are kept as given, so missing files are
// reported per file.
func expandPaths(args []string, logger *slog.Logger) []string {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			logger.Warn("read directory", "dir", arg, "error", err)
			paths = append(paths, arg)
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !textExts[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			paths = append(paths, filepath.Join(arg, e.Name()))
		}
	}
	return paths
}

func process(ctx context.Context, svc *core.Service, path string, store bool) result {
	res := result{path: path}

	f, err := os.Open(path)
	if err != nil {
		res.err = err
		return res
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	if !store {
		pr, err := svc.Parse(ctx, filepath.Base(path), f, size)
		if err != nil {
			res.err = err
			return res
		}
		res.t = pr.Table
		return res
	}

	up, err := svc.Upload(ctx, filepath.Base(path), f, size)
	if err != nil {
		res.err = err
		return res
	}
	st, err := svc.Table(ctx, up.Record.ID)
	if err != nil {
		res.err = err
		return res
	}
	res.id, res.t = up.Record.ID, st.Table
	return res
}

// report prints one summary line per file, then the requested rows.
func report(w io.Writer, results []result, rows int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tDELIMITER\tFORMAT\tROWS\tCOLUMNS\tKINDS")
	for _, r := range results {
		name := r.path
		if r.id != "" {
			name += " (" + r.id + ")"
		}
		if r.err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t%v\n", name, r.err)
			continue
		}
		d := r.t.Dialect()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			name, d.DelimiterName(), d.Format, r.t.NumRows(), r.t.NumColumns(), kinds(r.t))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if rows <= 0 {
		return nil
	}
	for _, r := range results {
		if r.err != nil {
			continue
		}
		fmt.Fprintf(w, "\n== %s\n", r.path)
		if err := dumpRows(w, r.t, rows); err != nil {
			return err
		}
	}
	return nil
}

func kinds(t *table.Table) string {
	cols := core.Summarize(t)
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.Name + ":" + c.Kind()
	}
	return strings.Join(parts, " ")
}

func dumpRows(w io.Writer, t *table.Table, n int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns(), "\t"))
	cells := make([]string, t.NumColumns())
	for r := 0; r < min(n, t.NumRows()); r++ {
		for c := range cells {
			cells[c] = t.Data(r, c).String()
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

type exporter struct {
	ext   string
	write func(io.Writer, *table.Table) error
}

var exporters = map[string]exporter{
	"csv": {".csv", export.WriteCSV},
	"arrow": {".arrow", func(w io.Writer, t *table.Table) error {
		return export.WriteArrow(w, t, memory.DefaultAllocator)
	}},
	"parquet": {".parquet", func(w io.Writer, t *table.Table) error {
		return export.WriteParquet(w, t, memory.DefaultAllocator)
	}},
}

var (
	errSameFile      = errors.New("export would overwrite its input")
	errSameExportDst = errors.New("inputs export to the same file")
)

// exportPath is where the export of the file at path goes.
func exportPath(path string, opts options) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(opts.outDir, base+exporters[opts.format].ext)
}

// checkExportPaths rejects inputs whose exports would land on one file.
func checkExportPaths(paths []string, opts options) error {
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		out, _ := filepath.Abs(exportPath(p, opts))
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("%s and %s: %w: %s", prev, p, errSameExportDst, out)
		}
		seen[out] = p
	}
	return nil
}

// exportTable writes r's table next to the other exports in opts.outDir.
func exportTable(r result, opts options) (err error) {
	ex := exporters[opts.format]
	out := exportPath(r.path, opts)

	in, _ := filepath.Abs(r.path)
	if abs, _ := filepath.Abs(out); abs == in {
		return fmt.Errorf("%s: %w", out, errSameFile)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := ex.write(f, r.t); err != nil {
		return fmt.Errorf("export %s: %w", out, err)
	}
	return nil
}

// openStore connects to PostgreSQL using the server's database settings,
// reading a .env file first when present.
func openStore(ctx context.Context, getenv func(string) string) (core.Store, func(), error) {
	godotenv.Load()

	var dbCfg config.DatabaseConfig
	if err := config.LoadSection(&dbCfg, getenv); err != nil {
		return nil, nil, err
	}
	poolConfig, err := pgxpool.ParseConfig(dbCfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(dbCfg.MaxConns)
	poolConfig.MinConns = int32(dbCfg.MinConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	store := core.NewPgStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool.Close, nil
}
