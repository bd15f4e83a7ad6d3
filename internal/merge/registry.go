// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package merge

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/MKhiriev/go-sync-keeper/models"
)

// FieldSet is an unordered set of payload field names.
type FieldSet map[string]struct{}

// NewFieldSet builds a set from the given field names.
func NewFieldSet(fields ...string) FieldSet {
	set := make(FieldSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Has reports whether field belongs to the set. A nil set is empty.
func (s FieldSet) Has(field string) bool {
	_, ok := s[field]
	return ok
}

// Names returns the sorted field names of the set.
func (s FieldSet) Names() []string {
	names := make([]string, 0, len(s))
	for f := range s {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// Rule is the merge policy of one entity type.
type Rule struct {
	// ServerAuthoritative fields are advanced only by server-side workflow;
	// client values for them are ignored.
	ServerAuthoritative FieldSet

	// DeepMerge fields are maps merged key by key, client keys winning.
	DeepMerge FieldSet

	// ListUnion fields are sequences merged as an ordered de-duplicated union.
	ListUnion FieldSet
}

// DefaultRule is applied to entity types without a registered rule: every
// non-empty client value overwrites the prior one.
var DefaultRule = Rule{}

// Registry maps entity types to their merge rules. A Registry is immutable
// after construction.
type Registry struct {
	rules map[models.EntityType]Rule
}

// NewRegistry builds a registry from the given rules.
func NewRegistry(rules map[models.EntityType]Rule) *Registry {
	copied := make(map[models.EntityType]Rule, len(rules))
	for entityType, rule := range rules {
		copied[entityType] = rule
	}
	return &Registry{rules: copied}
}

// DefaultRegistry returns the built-in policy table.
//
// The free-form wizard step is absent: it is fully client
// editable and falls back to [DefaultRule].
func DefaultRegistry() *Registry {
	return NewRegistry(map[models.EntityType]Rule{
		models.EntityReport: {
			ServerAuthoritative: NewFieldSet("status", "approved_by", "approved_at", "submitted_at", "review_score"),
			DeepMerge:           NewFieldSet("sections", "metadata"),
			ListUnion:           NewFieldSet("attachments", "tags"),
		},
		models.EntityProject: {
			ServerAuthoritative: NewFieldSet("status", "approved_by", "approved_at", "budget_approved", "health_score"),
			DeepMerge:           NewFieldSet("settings", "metadata"),
			ListUnion:           NewFieldSet("members", "tags"),
		},
		models.EntityTask: {
			ServerAuthoritative: NewFieldSet("verified_by", "verified_at", "escalation_level"),
			DeepMerge:           NewFieldSet("checklist", "metadata"),
			ListUnion:           NewFieldSet("assignees", "tags", "comments"),
		},
		models.EntityRisk: {
			ServerAuthoritative: NewFieldSet("inherent_score", "residual_score", "risk_level", "reviewed_by", "reviewed_at"),
			DeepMerge:           NewFieldSet("assessment", "metadata"),
			ListUnion:           NewFieldSet("controls", "mitigations"),
		},
		models.EntityIncident: {
			ServerAuthoritative: NewFieldSet("status", "severity_score", "closed_at", "closed_by", "investigator_id"),
			DeepMerge:           NewFieldSet("details", "metadata"),
			ListUnion:           NewFieldSet("witnesses", "evidence_ids", "actions"),
		},
		models.EntityEvidence: {
			ServerAuthoritative: NewFieldSet("verification_status", "verified_by", "verified_at", "file_hash"),
			DeepMerge:           NewFieldSet("metadata"),
			ListUnion:           NewFieldSet("linked_controls", "tags"),
		},
	})
}

// Rule returns the rule registered for entityType, or [DefaultRule].
func (r *Registry) Rule(entityType models.EntityType) Rule {
	if r == nil {
		return DefaultRule
	}
	if rule, ok := r.rules[entityType]; ok {
		return rule
	}
	return DefaultRule
}

// With returns a new registry where entityType maps to rule.
func (r *Registry) With(entityType models.EntityType, rule Rule) *Registry {
	next := NewRegistry(r.rules)
	next.rules[entityType] = rule
	return next
}

// EntityTypes returns the registered entity types in sorted order.
func (r *Registry) EntityTypes() []models.EntityType {
	types := make([]models.EntityType, 0, len(r.rules))
	for t := range r.rules {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

type ruleFile map[models.EntityType]struct {
	ServerAuthoritativeFields []string `json:"server_authoritative_fields"`
	DeepMergeFields           []string `json:"deep_merge_fields"`
	ListUnionFields           []string `json:"list_union_fields"`
}

// LoadRegistry reads rule overrides from a JSON file and layers them over
// base. Each entity type present in the file replaces its base rule entirely.
//
// File format:
//
//	{"report": {"server_authoritative_fields": ["status"],
//	            "deep_merge_fields": ["sections"],
//	            "list_union_fields": ["tags"]}}
func LoadRegistry(path string, base *Registry) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading merge rules file: %w", err)
	}

	var file ruleFile
	if err = json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("error decoding merge rules file: %w", err)
	}

	registry := base
	if registry == nil {
		registry = NewRegistry(nil)
	}
	for entityType, r := range file {
		if entityType == "" {
			return nil, fmt.Errorf("error decoding merge rules file: empty entity type")
		}
		registry = registry.With(entityType, Rule{
			ServerAuthoritative: NewFieldSet(r.ServerAuthoritativeFields...),
			DeepMerge:           NewFieldSet(r.DeepMergeFields...),
			ListUnion:           NewFieldSet(r.ListUnionFields...),
		})
	}

	return registry, nil
}
