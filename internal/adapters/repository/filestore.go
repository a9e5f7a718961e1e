package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/pitwall/internal/domain/model"
	"github.com/okian/pitwall/pkg/logger"
	"github.com/okian/pitwall/pkg/mathutil"
)

// Default data file names.
const (
	DefaultDriversFile      = "drivers.json"
	DefaultConstructorsFile = "constructors.json"
	DefaultForecastFile     = "expectedPoints.json"
)

// FileStore reads the catalog from a data directory. Files may be JSON or
// YAML. The drivers and constructors files are required; the forecast file
// is optional and anything unreadable in it degrades to zero forecasts.
type FileStore struct {
	dir              string
	driversFile      string
	constructorsFile string
	forecastFile     string
	log              logger.Logger
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string, opts ...Option) *FileStore {
	s := &FileStore{
		dir:              dir,
		driversFile:      DefaultDriversFile,
		constructorsFile: DefaultConstructorsFile,
		forecastFile:     DefaultForecastFile,
		log:              logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (Snapshot, error) {
	drivers, err := s.loadEntities(ctx, model.CategoryDriver, s.driversFile)
	if err != nil {
		return Snapshot{}, err
	}
	constructors, err := s.loadEntities(ctx, model.CategoryConstructor, s.constructorsFile)
	if err != nil {
		return Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("load forecasts: %w", err)
	}
	return Snapshot{
		Drivers:      drivers,
		Constructors: constructors,
		Forecasts:    s.loadForecasts(ctx),
	}, nil
}

func (s *FileStore) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

func (s *FileStore) loadEntities(ctx context.Context, c model.Category, name string) ([]model.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", c, err)
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", name, ErrLoad, err)
	}
	root, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", name, ErrLoad, err)
	}
	var entities []model.Entity
	if root != nil {
		if err := root.Decode(&entities); err != nil {
			return nil, fmt.Errorf("decode %s: %w: %w", name, ErrLoad, err)
		}
	}
	if err := validateEntities(c, entities); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return entities, nil
}

func (s *FileStore) loadForecasts(ctx context.Context) model.Forecasts {
	data, err := os.ReadFile(s.path(s.forecastFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.log.Debug(ctx, "forecast file absent", logger.String("file", s.forecastFile))
		return emptyForecasts()
	case err != nil:
		s.log.Warn(ctx, "forecast file unreadable", logger.String("file", s.forecastFile), logger.Error(err))
		return emptyForecasts()
	}
	f, ok := DecodeForecasts(data)
	if !ok {
		s.log.Warn(ctx, "forecast file is not a mapping, using zero forecasts", logger.String("file", s.forecastFile))
	}
	return f
}

func emptyForecasts() model.Forecasts {
	return model.Forecasts{Drivers: model.ForecastMap{}, Constructors: model.ForecastMap{}}
}

// DecodeForecasts parses a forecast document of the form
//
//	{"drivers": {"NOR": {"points": 38.0, "delta": 0.12}}, "constructors": {...}}
//
// It never fails: a missing table, a missing field or a value that is not a
// finite number all read as zero. A bare number in place of a record is taken
// as its points. ok is false when the document itself could not be used.
func DecodeForecasts(data []byte) (model.Forecasts, bool) {
	out := emptyForecasts()
	root, err := parseDocument(data)
	if err != nil {
		return out, false
	}
	root = resolve(root)
	if root == nil || root.Kind != yaml.MappingNode {
		return out, false
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		switch root.Content[i].Value {
		case "drivers":
			decodeTable(root.Content[i+1], out.Drivers)
		case "constructors":
			decodeTable(root.Content[i+1], out.Constructors)
		}
	}
	return out, true
}

// parseDocument returns the top-level value node, or nil for an empty
// document. JSON that YAML rejects, such as tab indentation, is decoded with
// encoding/json and re-encoded as a node.
func parseDocument(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	yerr := yaml.Unmarshal(data, &doc)
	if yerr == nil {
		if len(doc.Content) == 0 {
			return nil, nil
		}
		return doc.Content[0], nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, yerr
	}
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return &n, nil
}

func decodeTable(n *yaml.Node, into model.ForecastMap) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		into[n.Content[i].Value] = decodeRecord(n.Content[i+1])
	}
}

func decodeRecord(n *yaml.Node) model.Forecast {
	n = resolve(n)
	if n == nil {
		return model.Forecast{}
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return model.Forecast{Points: number(n)}
	case yaml.MappingNode:
		var f model.Forecast
		for i := 0; i+1 < len(n.Content); i += 2 {
			switch n.Content[i].Value {
			case "points":
				f.Points = number(n.Content[i+1])
			case "delta":
				f.Delta = number(n.Content[i+1])
			}
		}
		return f
	default:
		return model.Forecast{}
	}
}

func number(n *yaml.Node) float64 {
	n = resolve(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(n.Value), 64)
	if err != nil {
		return 0
	}
	return mathutil.Finite(v)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
