package apikey

import "github.com/mobile-app-connector/mobile-app-connector/internal/config"

// Static is an allow-list held in memory, usually loaded from the config file.
type Static struct {
	keys map[string]bool
}

// NewStatic builds the allow-list from the configured keys.
func NewStatic(keys []config.APIKey) *Static {
	s := &Static{keys: make(map[string]bool, len(keys))}

	for _, k := range keys {
		// a repeated key stays active if any entry is
		s.keys[k.Key] = s.keys[k.Key] || k.Active
	}

	return s
}

// IsAuthorized implements Guard.
func (s *Static) IsAuthorized(key string) bool {
	return s.keys[key]
}
