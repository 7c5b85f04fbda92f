// Package loader reads city files in the line-pair text format: a line with
// the city name followed by a line with its coordinates written "x - y".
//
//	Gifford, IL
//	1012.5 - 411
package loader

import (
	"bufio"
	"context"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/citymap/internal/citystore"
	"github.com/sells-group/citymap/internal/geo"
)

// NormalizeName trims surrounding whitespace and converts a city name to
// Unicode NFC, so names typed or stored in decomposed form share one key.
// Every name entering the store from a file or the user goes through it.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Parse reads every record from r. Any malformed record fails the whole
// batch with a *citystore.LoadError naming source and line.
func Parse(ctx context.Context, source string, r io.Reader) ([]geo.Point, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		points   []geo.Point
		name     string
		nameLine int
		lineNo   int
	)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "loader: context cancelled")
		}
		lineNo++
		line := strings.TrimSpace(sc.Text())

		if nameLine == 0 {
			if line == "" {
				continue
			}
			name = NormalizeName(line)
			nameLine = lineNo
			continue
		}

		x, y, err := ParseCoordinates(line)
		if err != nil {
			return nil, &citystore.LoadError{Source: source, Line: lineNo, Record: len(points), Err: err}
		}
		points = append(points, geo.Point{Name: name, X: x, Y: y})
		nameLine = 0
	}
	if err := sc.Err(); err != nil {
		return nil, &citystore.LoadError{Source: source, Line: lineNo, Record: -1, Err: eris.Wrap(err, "read")}
	}
	if nameLine != 0 {
		return nil, &citystore.LoadError{
			Source: source,
			Line:   nameLine,
			Record: len(points),
			Err:    eris.Errorf("city %q has no coordinates line", name),
		}
	}

	zap.L().Debug("loader: parsed source", zap.String("source", source), zap.Int("cities", len(points)))
	return points, nil
}

// ParseCoordinates parses an "x - y" line. The separator is the first hyphen
// that splits the line into two numbers, so "-1 - -2.5" and "1e-3 - 4" work.
func ParseCoordinates(line string) (x, y float64, err error) {
	line = strings.TrimSpace(line)
	for i := 1; i < len(line); i++ {
		if line[i] != '-' {
			continue
		}
		xs := strings.TrimSpace(line[:i])
		ys := strings.TrimSpace(line[i+1:])
		if xs == "" || ys == "" {
			continue
		}
		xv, xErr := strconv.ParseFloat(xs, 64)
		yv, yErr := strconv.ParseFloat(ys, 64)
		if xErr != nil || yErr != nil {
			continue
		}
		if math.IsNaN(xv) || math.IsInf(xv, 0) || math.IsNaN(yv) || math.IsInf(yv, 0) {
			return 0, 0, eris.Errorf("coordinates %q are not finite", line)
		}
		return xv, yv, nil
	}
	return 0, 0, eris.Errorf("malformed coordinates %q, want \"x - y\"", line)
}

// ReadFile parses a single file.
func ReadFile(ctx context.Context, path string) ([]geo.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &citystore.LoadError{Source: path, Record: -1, Err: eris.Wrap(err, "open")}
	}
	defer f.Close()

	return Parse(ctx, path, f)
}

// ReadFiles parses several files, at most concurrency at a time, and returns
// their records concatenated in argument order. The first failure aborts the
// rest.
func ReadFiles(ctx context.Context, paths []string, concurrency int) ([]geo.Point, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	parsed := make([][]geo.Point, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			pts, err := ReadFile(gctx, path)
			if err != nil {
				return err
			}
			parsed[i] = pts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []geo.Point
	for _, pts := range parsed {
		all = append(all, pts...)
	}
	return all, nil
}

// Load reads paths into store. Duplicate names are logged and skipped; a
// malformed file leaves the store untouched.
func Load(ctx context.Context, store *citystore.Store, paths []string, concurrency int) (citystore.LoadReport, error) {
	points, err := ReadFiles(ctx, paths, concurrency)
	if err != nil {
		return citystore.LoadReport{}, err
	}

	rep, err := store.BulkLoad(points)
	if err != nil {
		return rep, err
	}

	for _, name := range rep.Conflicts {
		zap.L().Warn("loader: city already exists, skipped", zap.String("city", name))
	}
	zap.L().Info("loader: cities loaded",
		zap.Strings("files", paths),
		zap.Int("inserted", rep.Inserted),
		zap.Int("conflicts", len(rep.Conflicts)),
	)
	return rep, nil
}
