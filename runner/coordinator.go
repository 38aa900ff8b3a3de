package runner

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// coordinator is the only cross-call shared state of a Manager: a
// mapping from (schema name, table name) to an in-flight completion
// handle and to the version last initialized. It guarantees at most
// one concurrent initializer per key; concurrent callers on the same
// key block cooperatively and observe the first caller's outcome
// instead of repeating the DDL.
type coordinator struct {
	mu       sync.Mutex
	group    *singleflight.Group
	versions map[string]string
}

func newCoordinator() *coordinator {
	return &coordinator{
		group:    new(singleflight.Group),
		versions: make(map[string]string),
	}
}

func initKey(schemaName, tableName string) string {
	return schemaName + "\x00" + tableName
}

func (c *coordinator) version(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.versions[key]
	return v, ok
}

func (c *coordinator) setVersion(key, version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[key] = version
}

// do runs fn under the key's in-flight handle. A caller arriving while
// the same key is in flight waits and shares the outcome.
func (c *coordinator) do(key string, fn func() (initStatus, error)) (initStatus, error) {
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return statusFailed, err
	}
	return v.(initStatus), nil
}

// reset returns every key to the uninitialized state and discards lock
// bookkeeping. Test isolation only; the physical database is not
// touched.
func (c *coordinator) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions = make(map[string]string)
	c.group = new(singleflight.Group)
}
