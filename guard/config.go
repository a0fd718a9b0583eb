package guard

import (
	authclient "github.com/hrkit/authclient"
)

// FromConfig builds a table from the session store's routes configuration.
func FromConfig(cfg authclient.RoutesConfig) (*Table, error) {
	rules := make([]Rule, len(cfg.Table))
	for i, entry := range cfg.Table {
		roles := make([]authclient.Role, len(entry.Roles))
		for j, role := range entry.Roles {
			roles[j] = authclient.Role(role)
		}
		if len(roles) == 0 {
			roles = nil
		}
		rules[i] = Rule{
			Path:   entry.Path,
			Public: entry.Public,
			Roles:  roles,
		}
	}
	return New(rules, cfg.Login, cfg.Default)
}
