// Package catalog enumerates, resolves, and allocates dataset identities
// purely from the set of store files present in a root directory. There is
// no central registry: every operation re-derives its view from the files
// currently on disk.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bootlog/bootlog/internal/config"
	"github.com/bootlog/bootlog/internal/model"
	"github.com/bootlog/bootlog/internal/store"
)

const storeFilePattern = "dataset*.db"

// Catalog is the logical directory of all dataset store files.
type Catalog struct {
	root string
	log  *logrus.Logger
}

// New returns a Catalog rooted at dir. An empty dir resolves to the
// configured datasets directory; a nil logger falls back to the standard one.
func New(dir string, log *logrus.Logger) *Catalog {
	if dir == "" {
		dir = config.GetDatasetsDir()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Catalog{root: dir, log: log}
}

// Root returns the directory holding the store files.
func (c *Catalog) Root() string {
	return c.root
}

// scan opens every store file under the root and reads its identity record.
// Files that cannot be opened or carry no record are skipped: a dataset that
// cannot be read is simply absent from the catalog.
func (c *Catalog) scan(ctx context.Context) ([]model.Dataset, error) {
	matches, err := filepath.Glob(filepath.Join(c.root, storeFilePattern))
	if err != nil {
		return nil, err
	}

	datasets := make([]model.Dataset, 0, len(matches))
	for _, path := range matches {
		st, err := store.Open(path)
		if err != nil {
			c.log.WithError(err).WithField("path", path).Warn("skipping unreadable dataset store")
			continue
		}

		ds, err := st.ReadInfo(ctx)
		closeErr := st.Close()
		if err != nil {
			c.log.WithError(err).WithField("path", path).Warn("skipping dataset store without identity record")
			continue
		}
		if closeErr != nil {
			c.log.WithError(closeErr).WithField("path", path).Warn("failed to close dataset store")
		}
		if ds == nil {
			continue
		}
		datasets = append(datasets, *ds)
	}
	return datasets, nil
}

// List returns the shared datasets plus, when owner is non-nil, that owner's
// personal datasets, ordered by case-insensitive name then id.
func (c *Catalog) List(ctx context.Context, owner *int64) ([]model.Dataset, error) {
	all, err := c.scan(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]model.Dataset, 0, len(all))
	for _, ds := range all {
		if ds.Shared() || (owner != nil && ds.OwnerUserID != nil && *ds.OwnerUserID == *owner) {
			visible = append(visible, ds)
		}
	}

	sort.Slice(visible, func(i, j int) bool {
		ni, nj := strings.ToLower(visible[i].Name), strings.ToLower(visible[j].Name)
		if ni != nj {
			return ni < nj
		}
		return visible[i].ID < visible[j].ID
	})
	return visible, nil
}

// ResolveByID returns the dataset with the given id, or nil when no store
// file claims it.
func (c *Catalog) ResolveByID(ctx context.Context, id int64) (*model.Dataset, error) {
	all, err := c.scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, ds := range all {
		if ds.ID == id {
			found := ds
			return &found, nil
		}
	}
	return nil, nil
}

// ResolveByName returns the dataset with a case-insensitive name match and
// an exact owner match (including "no owner"), or nil.
func (c *Catalog) ResolveByName(ctx context.Context, name string, owner *int64) (*model.Dataset, error) {
	all, err := c.scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, ds := range all {
		if !strings.EqualFold(ds.Name, name) {
			continue
		}
		if !sameOwner(ds.OwnerUserID, owner) {
			continue
		}
		found := ds
		return &found, nil
	}
	return nil, nil
}

// First returns the oldest dataset by creation time, or nil when the root is
// empty.
func (c *Catalog) First(ctx context.Context) (*model.Dataset, error) {
	all, err := c.scan(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	first := all[0]
	for _, ds := range all[1:] {
		if ds.CreatedAt.Before(first.CreatedAt) {
			first = ds
		}
	}
	return &first, nil
}

// Create allocates the lowest free id, claims its store path with an
// exclusive create so that two racing creators cannot share an id, and
// initialises the store with its identity record.
func (c *Catalog) Create(ctx context.Context, name, description string, owner *int64) (*model.Dataset, error) {
	if err := os.MkdirAll(c.root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create dataset root: %w", err)
	}

	all, err := c.scan(ctx)
	if err != nil {
		return nil, err
	}
	inUse := make(map[int64]struct{}, len(all))
	for _, ds := range all {
		inUse[ds.ID] = struct{}{}
	}

	slug := Slugify(name)
	now := time.Now()

	for id := int64(1); ; id++ {
		if _, taken := inUse[id]; taken {
			continue
		}

		path := filepath.Join(c.root, fmt.Sprintf("dataset%d_%s.db", id, slug))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err != nil {
			if errors.Is(err, fs.ErrExist) {
				// Lost the race for this path; move on to the next id.
				inUse[id] = struct{}{}
				continue
			}
			return nil, fmt.Errorf("failed to claim dataset path: %w", err)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}

		st, err := store.Open(path)
		if err != nil {
			return nil, err
		}

		ds := model.Dataset{
			ID:          id,
			Name:        name,
			Description: description,
			OwnerUserID: owner,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := st.WriteInfo(ctx, ds); err != nil {
			_ = st.Close()
			return nil, err
		}
		if err := st.Close(); err != nil {
			return nil, err
		}

		ds.StorePath = path
		return &ds, nil
	}
}

// Delete removes the dataset's store file, which implicitly destroys every
// boot, bookmark, and comment it contained. A file that is already gone
// counts as success; other filesystem failures are logged and returned so a
// lingering file can be surfaced.
func (c *Catalog) Delete(ctx context.Context, id int64) error {
	ds, err := c.ResolveByID(ctx, id)
	if err != nil {
		return err
	}
	if ds == nil {
		return nil
	}

	if err := os.Remove(ds.StorePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.log.WithError(err).WithField("path", ds.StorePath).Warn("failed to remove dataset store")
		return err
	}
	return nil
}

// Open resolves a dataset by id and opens its store.
func (c *Catalog) Open(ctx context.Context, id int64) (*store.Store, *model.Dataset, error) {
	ds, err := c.ResolveByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if ds == nil {
		return nil, nil, nil
	}

	st, err := store.Open(ds.StorePath)
	if err != nil {
		return nil, nil, err
	}
	return st, ds, nil
}

func sameOwner(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
