package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission gates one route pattern. Permissions lists the roles allowed through; Module,
// when set, must also be among the caller's privileges.
type Permission struct {
	Permissions []string `json:"permissions"`
	Module      string   `json:"module,omitempty"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Capability converts the route rule into the capability checked against a Principal.
func (p Permission) Capability() Capability {
	return Capability{Roles: p.Permissions, Module: p.Module}
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	byRoute map[string]Permission
}

// FindPermissions matches a chi route pattern. Mounted roots resolve to "/x" or "/x/" depending on
// the request, so trailing slashes are ignored. Unknown routes return the zero Permission.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	return r.byRoute[routeKey(method, path)]
}

// Get returns the rules embedded in the binary. A malformed file is a build defect.
func Get() *PermissionData {
	data, err := Parse(permissionsData)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to decode embedded permissions")
	}

	log.Info().Int("endpoints", len(data.Endpoints)).Msg("Loaded embedded permissions")

	return data
}

// Parse decodes a rules document. The first rule wins when a route is listed twice.
func Parse(raw []byte) (*PermissionData, error) {
	data := &PermissionData{}

	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("decoding permissions: %w", err)
	}

	data.byRoute = make(map[string]Permission, len(data.Endpoints))

	for _, endpoint := range data.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, seen := data.byRoute[key]; !seen {
			data.byRoute[key] = endpoint
		}
	}

	return data, nil
}

func routeKey(method, path string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return strings.ToUpper(method) + " " + path
}
