package cli

import (
	"fmt"

	"github.com/petasbytes/memagent/internal/config"
	"github.com/petasbytes/memagent/memory"
)

// openStore returns the configured store and a function releasing it.
func openStore(c *config.Config) (memory.Store, func() error, error) {
	noop := func() error { return nil }
	switch c.Store.Backend {
	case config.BackendFile:
		return memory.NewFileStore(c.Store.Path), noop, nil
	case config.BackendSQLite:
		s, err := memory.NewSQLiteStore(c.Store.SQLitePath, c.AgentID)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendS3:
		s, err := memory.NewObjectStore(memory.ObjectStoreConfig{
			Endpoint:  c.Store.S3.Endpoint,
			Region:    c.Store.S3.Region,
			Bucket:    c.Store.S3.Bucket,
			Key:       c.Store.S3.Key,
			AccessKey: c.Store.S3.AccessKey,
			SecretKey: c.Store.S3.SecretKey,
			Secure:    c.Store.S3.Secure,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
}
