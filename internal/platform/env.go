package platform

import "os"

// Env looks up environment variables
type Env interface {
	Lookup(key string) (string, bool)
}

// OSEnv reads the process environment
type OSEnv struct{}

// Lookup implements Env
func (OSEnv) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv is a fixed environment, used by tests and by callers that need to
// resolve against an environment other than their own
type MapEnv map[string]string

// Lookup implements Env
func (m MapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Get returns the value of key or the empty string
func Get(env Env, key string) string {
	v, _ := env.Lookup(key)
	return v
}
