package diff

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Request bundles the inputs of one comparison run.
type Request struct {
	// Original is the baseline dataset.
	Original Dataset

	// Updated is the dataset compared against Original.
	Updated Dataset

	// PrimaryKeys is the ordered list of key columns.
	// When empty and AutoDetectKey is set, a key is detected from the common headers.
	PrimaryKeys []string

	// AutoDetectKey enables primary-key detection when PrimaryKeys is empty.
	AutoDetectKey bool

	// Options controls comparison semantics.
	Options Options
}

// Engine validates requests, runs Classify and stamps the result.
type Engine struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates an Engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, now: time.Now}
}

// WithClock returns a copy of e that reads time from now.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	cp := *e
	cp.now = now
	return &cp
}

// Run resolves headers and primary keys for req and classifies it.
func (e *Engine) Run(req Request) (*Result, error) {
	headers := CommonHeaders(req.Original, req.Updated)

	keys, err := ResolvePrimaryKeys(req, headers)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("Comparing datasets",
		zap.String("original", req.Original.Name),
		zap.String("updated", req.Updated.Name),
		zap.Int("original_rows", req.Original.Len()),
		zap.Int("updated_rows", req.Updated.Len()),
		zap.Strings("primary_keys", keys),
		zap.Int("common_headers", len(headers)),
	)

	result, err := Classify(req.Original, req.Updated, keys, headers, req.Options)
	if err != nil {
		return nil, err
	}
	result.Meta.ComparedAt = e.now().UTC().Truncate(time.Millisecond)

	if n := len(result.Meta.OriginalDuplicates) + len(result.Meta.UpdatedDuplicates); n > 0 {
		e.logger.Warn("Duplicate primary keys collapsed, last occurrence wins",
			zap.Int("original_duplicates", len(result.Meta.OriginalDuplicates)),
			zap.Int("updated_duplicates", len(result.Meta.UpdatedDuplicates)),
		)
	}

	s := result.Summary()
	e.logger.Info("Comparison complete",
		zap.Int("unchanged", s.Unchanged),
		zap.Int("modified", s.Modified),
		zap.Int("added", s.Added),
		zap.Int("removed", s.Removed),
		zap.Int("moved", s.Moved),
	)

	return result, nil
}

// ResolvePrimaryKeys returns the key columns for req, detecting them when allowed.
// When both datasets have records every key must be one of headers.
func ResolvePrimaryKeys(req Request, headers []string) ([]string, error) {
	keys := req.PrimaryKeys
	if len(keys) == 0 && req.AutoDetectKey {
		keys = DetectPrimaryKeys(req.Original, headers)
	}
	if len(keys) == 0 {
		return nil, ErrNoPrimaryKey
	}

	checkHeaders := req.Original.Len() > 0 && req.Updated.Len() > 0
	known := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		known[h] = struct{}{}
	}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := known[k]; checkHeaders && !ok {
			return nil, fmt.Errorf("%w: primary key %q is not a column of both datasets", ErrInvalidConfig, k)
		}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: primary key %q selected twice", ErrInvalidConfig, k)
		}
		seen[k] = struct{}{}
	}
	return keys, nil
}
