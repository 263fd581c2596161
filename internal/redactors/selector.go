// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"strings"
)

// Selector resolves the strategy to apply to each entity. One default
// strategy covers a whole run; optional per-type overrides redirect
// individual entity types to a different strategy. The selector is
// immutable after construction and safe for concurrent reads.
type Selector struct {
	defaultStrategy Strategy
	overrides       map[string]Strategy
}

// NewSelector creates a Selector from a default strategy name and an
// optional entityType -> strategyName override mapping. Unknown strategy
// names and blank entity types are configuration errors, surfaced before
// any text is processed.
func NewSelector(defaultName string, overrides map[string]string) (*Selector, error) {
	def, err := ParseStrategy(defaultName)
	if err != nil {
		return nil, err
	}

	sel := &Selector{defaultStrategy: def}
	if len(overrides) == 0 {
		return sel, nil
	}

	sel.overrides = make(map[string]Strategy, len(overrides))
	for entityType, name := range overrides {
		if strings.TrimSpace(entityType) == "" {
			return nil, NewConfigurationError("per-type override has empty entity type")
		}
		strategy, err := ParseStrategy(name)
		if err != nil {
			return nil, NewConfigurationError("per-type override for %s: %v", entityType, err)
		}
		sel.overrides[entityType] = strategy
	}
	return sel, nil
}

// For returns the strategy to use for the given entity type
func (s *Selector) For(entityType string) Strategy {
	if strategy, ok := s.overrides[entityType]; ok {
		return strategy
	}
	return s.defaultStrategy
}

// Default returns the run's default strategy
func (s *Selector) Default() Strategy {
	return s.defaultStrategy
}
