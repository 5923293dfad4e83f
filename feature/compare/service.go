package compare

import (
	"bytes"
	"context"
	"time"

	"sheet-diff/core/dataset"
	"sheet-diff/core/diff"
	"sheet-diff/core/export"
	"sheet-diff/core/snapshot"

	"go.uber.org/zap"
)

// Input describes one comparison request.
type Input struct {
	PrimaryKeys   []string
	AutoDetectKey bool
	Options       diff.Options
	// Save stores the result as a snapshot under this name when set.
	Save string
}

// Service runs comparisons and manages stored snapshots.
type Service struct {
	engine    *diff.Engine
	store     *snapshot.Store
	showMoved bool
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a compare service. showMoved is the preference saved with new snapshots.
func NewService(engine *diff.Engine, store *snapshot.Store, showMoved bool, logger *zap.Logger) *Service {
	return &Service{
		engine:    engine,
		store:     store,
		showMoved: showMoved,
		logger:    logger,
		now:       time.Now,
	}
}

// CompareSources loads both sources concurrently and compares them.
func (s *Service) CompareSources(ctx context.Context, original, updated dataset.Source, in Input) (*diff.Result, error) {
	orig, upd, err := dataset.LoadPair(ctx, original, updated)
	if err != nil {
		return nil, err
	}
	return s.Compare(ctx, orig, upd, in)
}

// Compare compares two loaded datasets and optionally saves the result.
func (s *Service) Compare(ctx context.Context, original, updated diff.Dataset, in Input) (*diff.Result, error) {
	result, err := s.engine.Run(diff.Request{
		Original:      original,
		Updated:       updated,
		PrimaryKeys:   in.PrimaryKeys,
		AutoDetectKey: in.AutoDetectKey,
		Options:       in.Options,
	})
	if err != nil {
		return nil, err
	}

	if in.Save != "" {
		if err := s.store.Save(ctx, in.Save, snapshot.New(result, s.showMoved)); err != nil {
			return nil, err
		}
		s.logger.Info("Snapshot saved", zap.String("name", in.Save))
	}
	return result, nil
}

// List returns the stored snapshots.
func (s *Service) List(ctx context.Context) ([]snapshot.Info, error) {
	return s.store.List(ctx)
}

// Load returns a stored snapshot.
func (s *Service) Load(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	return s.store.Load(ctx, name)
}

// Delete removes a stored snapshot.
func (s *Service) Delete(ctx context.Context, name string) error {
	return s.store.Delete(ctx, name)
}

// ExportRequest selects what to export from a snapshot.
type ExportRequest struct {
	Format export.Format
	Rows   export.RowSet
	// ShowMoved overrides the snapshot's preference when set.
	ShowMoved *bool
}

// Export renders a stored snapshot. It returns the file content and its download name.
func (s *Service) Export(ctx context.Context, name string, req ExportRequest) ([]byte, string, error) {
	snap, err := s.store.Load(ctx, name)
	if err != nil {
		return nil, "", err
	}

	showMoved := snap.ShowMovedRows()
	if req.ShowMoved != nil {
		showMoved = *req.ShowMoved
	}

	rep := export.Report{
		Result:    snap.Result,
		Rows:      req.Rows,
		ShowMoved: showMoved,
		Generated: s.now(),
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, req.Format, rep); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), rep.FileName(req.Format), nil
}
