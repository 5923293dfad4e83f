package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"sheet-diff/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const objectExtension = ".json"

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// Info describes a stored snapshot.
type Info struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// cached is a decoded snapshot with its load time.
type cached struct {
	snapshot *Snapshot
	loaded   time.Time
}

// Store keeps snapshots in an object storage bucket.
// Loaded snapshots are cached for the configured TTL and concurrent loads of
// the same name share one download.
type Store struct {
	client storage.Client
	bucket string
	prefix string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	cache map[string]*cached
	sf    singleflight.Group
}

// NewStore creates a Store. A zero ttl disables caching.
func NewStore(client storage.Client, bucket, prefix string, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		cache:  make(map[string]*cached),
	}
}

// ObjectName returns the object key used for name.
func (s *Store) ObjectName(name string) string {
	if s.prefix == "" {
		return name + objectExtension
	}
	return path.Join(s.prefix, name+objectExtension)
}

// ValidateName checks that name is usable as a snapshot name.
func ValidateName(name string) error {
	if !validName.MatchString(name) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// EnsureBucket creates the bucket if it does not exist.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("Created snapshot bucket", zap.String("bucket", s.bucket))
	return nil
}

// Save uploads snap under name, replacing any existing snapshot.
func (s *Store) Save(ctx context.Context, name string, snap *Snapshot) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	data, err := Marshal(snap)
	if err != nil {
		return err
	}

	object := s.ObjectName(name)
	_, err = s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", name, err)
	}

	s.mu.Lock()
	s.cache[name] = &cached{snapshot: snap, loaded: s.now()}
	s.mu.Unlock()

	s.logger.Debug("Saved snapshot", zap.String("object", object), zap.Int("bytes", len(data)))
	return nil
}

func (s *Store) fresh(name string) (*Snapshot, bool) {
	s.mu.RLock()
	entry, ok := s.cache[name]
	s.mu.RUnlock()

	if !ok || s.ttl == 0 || s.now().Sub(entry.loaded) > s.ttl {
		return nil, false
	}
	return entry.snapshot, true
}

// Load returns the snapshot stored under name.
func (s *Store) Load(ctx context.Context, name string) (*Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	if snap, ok := s.fresh(name); ok {
		return snap, nil
	}

	result, err, _ := s.sf.Do(name, func() (interface{}, error) {
		// Another caller may have filled the cache while we waited.
		if snap, ok := s.fresh(name); ok {
			return snap, nil
		}

		snap, err := s.download(ctx, name)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cache[name] = &cached{snapshot: snap, loaded: s.now()}
		s.mu.Unlock()

		return snap, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Snapshot), nil
}

func (s *Store) download(ctx context.Context, name string) (*Snapshot, error) {
	object := s.ObjectName(name)

	reader, err := s.client.GetObject(ctx, s.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, wrapStorageError(name, err)
	}
	defer reader.Close()

	// minio reports a missing key on first read, not on GetObject.
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, wrapStorageError(name, err)
	}

	snap, err := Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", name, err)
	}
	return snap, nil
}

func wrapStorageError(name string, err error) error {
	if storage.IsNotFound(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return fmt.Errorf("failed to download snapshot %s: %w", name, err)
}

// List returns the stored snapshots sorted by name.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	prefix := ""
	if s.prefix != "" {
		prefix = s.prefix + "/"
	}

	infos := []Info{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		rel := strings.TrimPrefix(obj.Key, prefix)
		if !strings.HasSuffix(rel, objectExtension) || strings.Contains(rel, "/") {
			continue
		}
		infos = append(infos, Info{
			Name:         strings.TrimSuffix(rel, objectExtension),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes the snapshot stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	s.Invalidate(name)

	if err := s.client.RemoveObject(ctx, s.bucket, s.ObjectName(name), minio.RemoveObjectOptions{}); err != nil {
		return wrapStorageError(name, err)
	}
	return nil
}

// Invalidate drops name from the cache.
func (s *Store) Invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

// Prune deletes every snapshot last modified before cutoff and returns the
// names it removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) ([]string, error) {
	infos, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var stale []string
	for _, info := range infos {
		if info.LastModified.Before(cutoff) {
			stale = append(stale, info.Name)
		}
	}
	if len(stale) == 0 {
		return nil, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, name := range stale {
		s.Invalidate(name)
		objectsCh <- minio.ObjectInfo{Key: s.ObjectName(name)}
	}
	close(objectsCh)

	var failed []string
	for rmErr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rmErr.Err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", rmErr.ObjectName, rmErr.Err))
		}
	}
	if len(failed) > 0 {
		return nil, fmt.Errorf("failed to prune %d snapshot(s): %s", len(failed), strings.Join(failed, "; "))
	}

	s.logger.Info("Pruned snapshots", zap.Int("count", len(stale)), zap.Time("cutoff", cutoff))
	return stale, nil
}
