// Package application wires the extraction pipeline: scanning, extraction,
// review, finalization, cleanup, and scan diffing. Services depend on the
// Workspace interface; pkg/storage provides the filesystem implementation.
package application

import (
	"time"

	"github.com/specforge/specforge/pkg/domain/meta"
	"github.com/specforge/specforge/pkg/domain/review"
	"github.com/specforge/specforge/pkg/domain/scan"
	"github.com/specforge/specforge/pkg/storage"
)

// Workspace is the persistence contract the pipeline services need. It is
// satisfied by *storage.FilesystemRepository.
type Workspace interface {
	Root() string
	BaseDir() string
	Initialize() error
	IsInitialized() bool
	ResolvePath(relative string) (string, error)

	LoadConfig() (*storage.Config, error)
	SaveConfig(cfg *storage.Config) error

	SaveDraft(item *review.Item) error
	LoadDraft(id string) (*review.Item, error)
	LoadDrafts(domainFilter string) ([]review.Item, error)
	DeleteDraft(id string) error

	LoadMeta() (*meta.Meta, error)
	SaveMeta(m *meta.Meta) error
	SaveScan(result *scan.Result) error
	LoadScan() (*scan.Result, error)

	Archive(at time.Time) (string, error)
}

var _ Workspace = (*storage.FilesystemRepository)(nil)
