package env

import (
	"os"
	"sync"
)

// Vars is a set of variables layered over the process environment.
type Vars struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewVars() *Vars {
	return &Vars{values: make(map[string]string)}
}

// Set defines key, shadowing any process variable of the same name.
func (v *Vars) Set(key, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[key] = value
}

// Merge copies every entry of m into v. Later merges win.
func (v *Vars) Merge(m map[string]string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for k, val := range m {
		v.values[k] = val
	}
}

// LoadFile merges the variables of a dotenv file.
func (v *Vars) LoadFile(path string) error {
	vars, err := LoadDotEnv(path)
	if err != nil {
		return err
	}
	v.Merge(vars)
	return nil
}

// Lookup returns the variable named key, falling back to the process
// environment.
func (v *Vars) Lookup(key string) (string, bool) {
	if v != nil {
		v.mu.RLock()
		val, ok := v.values[key]
		v.mu.RUnlock()
		if ok {
			return val, true
		}
	}
	return os.LookupEnv(key)
}

// Len returns the number of variables set on v, not counting the process
// environment.
func (v *Vars) Len() int {
	if v == nil {
		return 0
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.values)
}
