package config

// ConfigBackend is the persistent key/value store behind Load and SetKey.
// Keys are dotted, e.g. "server.port".
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	Delete(key string) error
}
