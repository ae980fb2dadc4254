package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// LevelDB stores blobs in a goleveldb database.
type LevelDB struct {
	db  *leveldb.DB
	log *logger.L
}

// OpenLevelDB opens (creating if needed) the database in directory path.
func OpenLevelDB(path string, opts ...Option) (*LevelDB, error) {
	if path == "" {
		return nil, errors.New("kvstore: leveldb requires a directory")
	}

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open leveldb: %w", err)
	}

	o := buildOptions(opts)
	if o.log != nil {
		o.log.Infof("leveldb medium open at %s", path)
	}

	return &LevelDB{db: db, log: o.log}, nil
}

// NewLevelDBMemory opens a leveldb database on in-memory storage.
func NewLevelDBMemory(opts ...Option) (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open leveldb: %w", err)
	}
	return &LevelDB{db: db, log: buildOptions(opts).log}, nil
}

func (l *LevelDB) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	value, err := l.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kvstore: get %q: %w", key, err)
	}
	return string(value), true, nil
}

func (l *LevelDB) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := l.db.Put([]byte(key), []byte(value), nil); err != nil {
		return fmt.Errorf("kvstore: set %q: %w", key, err)
	}
	return nil
}

func (l *LevelDB) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := l.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("kvstore: delete %q: %w", key, err)
	}
	return nil
}

func (l *LevelDB) Close() error {
	if l.log != nil {
		l.log.Info("leveldb medium closed")
	}
	return l.db.Close()
}
