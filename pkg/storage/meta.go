package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/specforge/specforge/pkg/domain"
	"github.com/specforge/specforge/pkg/domain/meta"
	"github.com/specforge/specforge/pkg/domain/scan"
)

// LoadMeta returns the persisted metadata record, or a fresh default when no
// metadata file exists yet.
func (r *FilesystemRepository) LoadMeta() (*meta.Meta, error) {
	path, err := r.ResolvePath(MetaFile)
	if err != nil {
		return nil, err
	}

	retryer := retry.New[*meta.Meta](r.retryConfig)
	return retryer.Do(context.Background(), func(ctx context.Context) (*meta.Meta, error) {
		// #nosec G304 -- path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return meta.New(time.Now()), nil
			}
			return nil, fmt.Errorf("failed to read metadata: %w", err)
		}

		var m meta.Meta
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, &domain.ParseError{Path: path, Err: err}
		}
		return &m, nil
	})
}

// SaveMeta persists the metadata record.
func (r *FilesystemRepository) SaveMeta(m *meta.Meta) error {
	path, err := r.ResolvePath(MetaFile)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return writeFileAtomic(path, data)
}

// SaveScan persists the latest scan snapshot so a later invocation can diff
// against it.
func (r *FilesystemRepository) SaveScan(result *scan.Result) error {
	path, err := r.ResolvePath(ScanFile)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scan snapshot: %w", err)
	}
	return writeFileAtomic(path, data)
}

// LoadScan returns the previously persisted scan snapshot, or a NotFoundError
// when no scan has been recorded.
func (r *FilesystemRepository) LoadScan() (*scan.Result, error) {
	path, err := r.ResolvePath(ScanFile)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewNotFound("scan snapshot", ScanFile)
		}
		return nil, fmt.Errorf("failed to read scan snapshot: %w", err)
	}

	var result scan.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}
	return &result, nil
}
