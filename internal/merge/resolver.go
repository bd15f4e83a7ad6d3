// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package merge

import (
	"github.com/MKhiriev/go-sync-keeper/models"
)

// Resolver merges client submissions into the server's accepted version of
// an entity following the rules of its [Registry].
type Resolver struct {
	registry *Registry
}

// NewResolver constructs a Resolver. A nil registry applies [DefaultRule] to
// every entity type.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Registry returns the rule table used by the resolver.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Merge applies the default, directive-free policy:
//   - server-authoritative client fields are ignored;
//   - deep-merge fields holding maps on both sides are merged key by key;
//   - list-union client sequences are appended to the prior sequence
//     without duplicates;
//   - any other non-empty client value overwrites;
//   - an empty client value never erases prior data.
//
// prior may be nil. The inputs are never modified.
func (r *Resolver) Merge(prior, client models.Payload, entityType models.EntityType) models.Payload {
	rule := r.registry.Rule(entityType)
	result := prior.Clone()

	for k, v := range client {
		switch {
		case rule.ServerAuthoritative.Has(k):
			continue

		case rule.DeepMerge.Has(k):
			priorMap, priorOK := asMap(result[k])
			clientMap, clientOK := asMap(v)
			if priorOK && clientOK {
				result[k] = shallowMerge(priorMap, clientMap)
				continue
			}

		case rule.ListUnion.Has(k):
			if clientList, ok := asSlice(v); ok {
				priorList, _ := asSlice(result[k])
				result[k] = union(priorList, clientList)
				continue
			}
		}

		if !isEmpty(v) {
			result[k] = v
		}
	}

	return result
}

// MergeWithDirective merges following an explicit per-field directive:
// [models.SideServer] keeps the prior value, [models.SideClient] takes the
// client's value and [models.SideMerge] deep-merges maps, unions sequences
// and otherwise takes the client's value. Client fields not named by the
// directive are added only when prior lacks them.
//
// Server-authoritative fields always keep the prior value.
func (r *Resolver) MergeWithDirective(prior, client models.Payload, entityType models.EntityType, fields map[string]models.Side) models.Payload {
	rule := r.registry.Rule(entityType)
	result := prior.Clone()

	for field, side := range fields {
		if side == models.SideServer || rule.ServerAuthoritative.Has(field) {
			continue
		}

		clientValue, inClient := client[field]
		if !inClient {
			continue
		}

		if side == models.SideMerge {
			if merged, ok := mergeValues(result[field], clientValue); ok {
				result[field] = merged
				continue
			}
		}
		result[field] = clientValue
	}

	for k, v := range client {
		if _, directed := fields[k]; directed {
			continue
		}
		if _, inPrior := prior[k]; inPrior || rule.ServerAuthoritative.Has(k) {
			continue
		}
		result[k] = v
	}

	return result
}

// mergeValues combines two values of the same collection shape.
func mergeValues(prior, client any) (any, bool) {
	if priorMap, ok := asMap(prior); ok {
		if clientMap, ok := asMap(client); ok {
			return shallowMerge(priorMap, clientMap), true
		}
	}
	if priorList, ok := asSlice(prior); ok {
		if clientList, ok := asSlice(client); ok {
			return union(priorList, clientList), true
		}
	}
	return nil, false
}
