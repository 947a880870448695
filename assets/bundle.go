package assets

// The sqlite3 driver is registered here so every user of bundles gets it.

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/plus3/mapview/internal/logging"
)

const bundleSchema = `CREATE TABLE assets (path TEXT PRIMARY KEY, data BLOB NOT NULL)`

// BundleSource reads assets from a single sqlite file produced by
// BundleWriter. The returned source must be closed after use.
type BundleSource struct {
	db   *sql.DB
	stmt *sql.Stmt
}

func OpenBundle(filePath string) (*BundleSource, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("SELECT data FROM assets WHERE path = ?")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open bundle %s: %w", filePath, err)
	}

	return &BundleSource{db: db, stmt: stmt}, nil
}

func (b *BundleSource) Close() error {
	return errors.Join(b.stmt.Close(), b.db.Close())
}

func (b *BundleSource) ReadAsset(name string) ([]byte, error) {
	var data []byte
	if err := b.stmt.QueryRow(name).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Paths lists every stored asset path in order.
func (b *BundleSource) Paths() ([]string, error) {
	rows, err := b.db.Query("SELECT path FROM assets ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// BundleWriter fills a new bundle inside one transaction.
type BundleWriter struct {
	db     *sql.DB
	tx     *sql.Tx
	stmt   *sql.Stmt
	logger logrus.FieldLogger
	done   bool
}

type writerConfig struct {
	Logger logrus.FieldLogger
}

type WriterOption func(*writerConfig)

func WithWriterLogger(logger logrus.FieldLogger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// CreateBundle creates the bundle file. It fails if the schema already exists.
func CreateBundle(filePath string, opts ...WriterOption) (*BundleWriter, error) {
	config := writerConfig{}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	if _, err = db.Exec(bundleSchema); err != nil {
		return nil, fmt.Errorf("create bundle %s: %w", filePath, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	stmt, err := tx.Prepare("INSERT INTO assets (path, data) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	return &BundleWriter{db: db, tx: tx, stmt: stmt, logger: logging.OrDiscard(config.Logger)}, nil
}

func (w *BundleWriter) WriteAsset(name string, data []byte) error {
	if _, err := w.stmt.Exec(name, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Finalize commits the written assets. It must be called before Close or
// everything is rolled back.
func (w *BundleWriter) Finalize() error {
	w.logger.Debug("bundle: committing")
	if err := errors.Join(w.stmt.Close(), w.tx.Commit()); err != nil {
		return err
	}
	w.done = true

	_, err := w.db.Exec("ANALYZE")
	w.logger.Debug("bundle: done")
	return err
}

func (w *BundleWriter) Close() error {
	if !w.done {
		return errors.Join(w.stmt.Close(), w.tx.Rollback(), w.db.Close())
	}
	return w.db.Close()
}

// PackDir copies every regular file of fsys into the bundle. progress, when
// non-nil, is called after each asset.
func PackDir(fsys fs.FS, w *BundleWriter, progress func(name string, size int)) (int, error) {
	count := 0
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		if err := w.WriteAsset(name, data); err != nil {
			return err
		}
		count++
		if progress != nil {
			progress(name, len(data))
		}
		return nil
	})
	return count, err
}
