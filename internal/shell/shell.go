// Package shell implements the interactive city menu on top of a citystore.Store.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/citymap/internal/citystore"
	"github.com/sells-group/citymap/internal/geo"
	"github.com/sells-group/citymap/internal/loader"
	"github.com/sells-group/citymap/internal/report"
)

// errInputClosed ends the session when input runs out.
var errInputClosed = eris.New("shell: input closed")

const menu = `Please choose one of the following options, then press enter.
1. Add a city
2. Delete a city
3. Search for a city
4. Search for nearby cities
5. Print all cities

0. Exit
`

const metricMenu = `Please choose the distance type, then press enter.
0. Euclidean distance
1. Manhattan distance
2. Chebyshev distance
`

// Options configures input validation.
type Options struct {
	// AllowNegative accepts negative coordinates when adding a city.
	AllowNegative bool
}

// Shell reads menu commands from an input stream and applies them to a store.
type Shell struct {
	store *citystore.Store
	in    *bufio.Scanner
	out   io.Writer
	opts  Options
	log   *zap.Logger
}

// New creates a Shell.
func New(store *citystore.Store, in io.Reader, out io.Writer, opts Options) *Shell {
	return &Shell{
		store: store,
		in:    bufio.NewScanner(in),
		out:   out,
		opts:  opts,
		log:   zap.L().With(zap.String("component", "shell")),
	}
}

// Run loops over the menu until the user exits, input ends or ctx is done.
func (sh *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "shell: context cancelled")
		}

		sh.print(menu)
		choice, err := sh.readLine()
		if err != nil {
			return sh.finish(err)
		}

		switch choice {
		case "0":
			return nil
		case "1":
			err = sh.addCity()
		case "2":
			err = sh.deleteCity()
		case "3":
			err = sh.searchCity()
		case "4":
			err = sh.searchNearby()
		case "5":
			err = report.WriteCities(sh.out, report.FormatText, sh.store.All())
		default:
			sh.print("Invalid option.\n")
			continue
		}
		if err != nil {
			return sh.finish(err)
		}
	}
}

func (sh *Shell) finish(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}

func (sh *Shell) addCity() error {
	name, err := sh.promptName("Please enter the city name, then press enter.\n")
	if err != nil {
		return err
	}
	if name == "" {
		sh.print("City name must not be empty.\n")
		return nil
	}
	if sh.store.Exists(name) {
		sh.printf("%s already exists in the dataset.\n", name)
		return nil
	}

	msg := "Please enter the city coordinates (two non-negative numbers separated by a space), then press enter.\n"
	if sh.opts.AllowNegative {
		msg = "Please enter the city coordinates (two numbers separated by a space), then press enter.\n"
	}
	x, y, err := sh.readCoordinates(msg)
	if err != nil {
		return err
	}

	if _, err := sh.store.Insert(name, x, y); err != nil {
		if errors.Is(err, citystore.ErrConflict) || errors.Is(err, citystore.ErrInvalidPoint) {
			sh.printf("Failed to add city: %s\n", name)
			return nil
		}
		return err
	}
	sh.log.Debug("city added", zap.String("city", name), zap.Float64("x", x), zap.Float64("y", y))
	sh.printf("The city '%s' was added successfully.\n", name)
	return nil
}

func (sh *Shell) readCoordinates(msg string) (float64, float64, error) {
	for {
		line, err := sh.prompt(msg)
		if err != nil {
			return 0, 0, err
		}
		if x, y, ok := sh.parseCoordinates(line); ok {
			return x, y, nil
		}
		msg = "Invalid coordinates. " + msg
	}
}

func (sh *Shell) parseCoordinates(line string) (float64, float64, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, false
	}
	x, ok := parseFinite(fields[0])
	if !ok {
		return 0, 0, false
	}
	y, ok := parseFinite(fields[1])
	if !ok {
		return 0, 0, false
	}
	if !sh.opts.AllowNegative && (x < 0 || y < 0) {
		return 0, 0, false
	}
	return x, y, true
}

func (sh *Shell) deleteCity() error {
	name, err := sh.promptName("Please enter the city name to delete, then press enter.\n")
	if err != nil {
		return err
	}
	if err := sh.store.Remove(name); err != nil {
		if errors.Is(err, citystore.ErrNotFound) {
			sh.printf("%s does not exist in the dataset.\n", name)
			return nil
		}
		return err
	}
	sh.log.Debug("city deleted", zap.String("city", name))
	sh.printf("The city '%s' was deleted successfully.\n", name)
	return nil
}

func (sh *Shell) searchCity() error {
	name, err := sh.promptName("Please enter the city name to search, then press enter.\n")
	if err != nil {
		return err
	}
	c, err := sh.store.Get(name)
	if err != nil {
		if errors.Is(err, citystore.ErrNotFound) {
			sh.printf("%s does not exist in the dataset.\n", name)
			return nil
		}
		return err
	}
	return report.WriteCity(sh.out, report.FormatText, c)
}

func (sh *Shell) searchNearby() error {
	msg := "Please enter the city name (0 to return to the menu), then press enter.\n"
	var name string
	for {
		var err error
		name, err = sh.promptName(msg)
		if err != nil {
			return err
		}
		if name == "0" {
			return nil
		}
		if sh.store.Exists(name) {
			break
		}
		msg = fmt.Sprintf("%s does not exist in the dataset. Please enter the city name (0 to return to the menu), then press enter.\n", name)
	}

	radius, err := sh.readRadius()
	if err != nil {
		return err
	}
	metric, err := sh.readMetric()
	if err != nil {
		return err
	}

	res, err := sh.store.Nearby(name, radius, metric)
	if err != nil {
		return err
	}
	sh.log.Debug("nearby search",
		zap.String("city", name),
		zap.Float64("radius", radius),
		zap.Stringer("metric", metric),
		zap.Int("matches", len(res.Matches)),
		zap.Int("visited", res.Visited),
	)
	return report.WriteNearby(sh.out, report.FormatText, res)
}

func (sh *Shell) readRadius() (float64, error) {
	msg := "Please enter the radius, then press enter.\n"
	for {
		line, err := sh.prompt(msg)
		if err != nil {
			return 0, err
		}
		if r, ok := parseFinite(line); ok && r > 0 {
			return r, nil
		}
		msg = "Invalid radius. Please enter a positive radius, then press enter.\n"
	}
}

func (sh *Shell) readMetric() (geo.Metric, error) {
	msg := metricMenu
	for {
		line, err := sh.prompt(msg)
		if err != nil {
			return 0, err
		}
		if m, err := geo.ParseMetric(line); err == nil {
			return m, nil
		}
		msg = "Invalid distance type. " + metricMenu
	}
}

func (sh *Shell) prompt(msg string) (string, error) {
	sh.print(msg)
	return sh.readLine()
}

// promptName reads a city name in the same normalized form the loader stores.
func (sh *Shell) promptName(msg string) (string, error) {
	name, err := sh.prompt(msg)
	if err != nil {
		return "", err
	}
	return loader.NormalizeName(name), nil
}

func (sh *Shell) readLine() (string, error) {
	if !sh.in.Scan() {
		if err := sh.in.Err(); err != nil {
			return "", eris.Wrap(err, "shell: read input")
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(sh.in.Text()), nil
}

func (sh *Shell) print(s string) {
	_, _ = io.WriteString(sh.out, s)
}

func (sh *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(sh.out, format, args...)
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
