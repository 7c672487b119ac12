// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// Capability is a named permission granted transitively via roles. The
// request layer consults capabilities before calling into the store; the
// repositories themselves never check them.
type Capability string

// Capabilities
const (
	CapManageUsers        Capability = "manageUsers"
	CapManageSite         Capability = "manageSite"
	CapManageContentTypes Capability = "manageContentTypes"
	CapPublishContent     Capability = "publishContent"
	CapEditContent        Capability = "editContent"
	CapViewContent        Capability = "viewContent"
)

// roleCapabilities maps each role to the capabilities it grants.
var roleCapabilities = map[string][]Capability{
	RoleAdmin: {
		CapManageUsers,
		CapManageSite,
		CapManageContentTypes,
		CapPublishContent,
		CapEditContent,
		CapViewContent,
	},
	RoleEditor: {
		CapManageSite,
		CapManageContentTypes,
		CapPublishContent,
		CapEditContent,
		CapViewContent,
	},
	RoleAuthor: {CapEditContent, CapViewContent},
	RoleViewer: {CapViewContent},
}

// HasCapability reports whether any of the given roles grants the
// capability. Unknown roles grant nothing.
func HasCapability(roles []string, capability Capability) bool {
	for _, role := range roles {
		if slices.Contains(roleCapabilities[role], capability) {
			return true
		}
	}
	return false
}

// CapabilitiesForRoles returns the union of capabilities granted by the
// given roles, in a stable order.
func CapabilitiesForRoles(roles []string) []Capability {
	var out []Capability
	for _, role := range roles {
		for _, capability := range roleCapabilities[role] {
			if !slices.Contains(out, capability) {
				out = append(out, capability)
			}
		}
	}
	return out
}
