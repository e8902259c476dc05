package instrumented

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"inputweaver/internal/collections"
)

// LookupEnv reads an environment variable and reports the read.
func (d *Dispatcher) LookupEnv(key string) (string, bool) {
	value, found := os.LookupEnv(key)
	d.EnvVariableQueried(key, value, found)
	return value, found
}

// Getenv is LookupEnv without the presence flag.
func (d *Dispatcher) Getenv(key string) string {
	value, _ := d.LookupEnv(key)
	return value
}

// Environ returns the process environment as a read-only map that reports
// reads through d.
func (d *Dispatcher) Environ() collections.Map {
	return d.WrapEnvironment(collections.ReadOnly(collections.NewHashMap(ParseEnviron(os.Environ()))))
}

// LookupProperty reads key from props and reports the read without wrapping
// props.
func (d *Dispatcher) LookupProperty(props collections.Map, key string) (string, bool) {
	value, found := props.Get(key)
	d.SystemPropertyQueried(key, value, found)
	return value, found
}

// Open opens the named file for reading and reports it once it is open.
func (d *Dispatcher) Open(name string) (*os.File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	d.FileOpened(name)
	return f, nil
}

// ReadFile reads the named file and reports it once it has been opened.
func (d *Dispatcher) ReadFile(name string) ([]byte, error) {
	f, err := d.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}
	return data, nil
}

// StartProcess starts cmd and reports its argument vector once it is running.
func (d *Dispatcher) StartProcess(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	d.ProcessStarted(cmd.Args)
	return nil
}

// ParseEnviron converts "KEY=value" entries into a map. Entries without a
// key are skipped; later entries win.
func ParseEnviron(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		if kv == "" {
			continue
		}
		// Windows keeps per-drive entries such as "=C:=C:\"; the leading '='
		// belongs to the key.
		i := strings.IndexByte(kv[1:], '=') + 1
		if i == 0 {
			continue
		}
		out[kv[:i]] = kv[i+1:]
	}
	return out
}
