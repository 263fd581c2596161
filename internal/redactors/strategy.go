// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package redactors rewrites text values by substituting detected PII
// entities according to a chosen redaction strategy. Replacement generation
// lives here as a single source of truth so every caller produces identical
// substitutions for identical input.
package redactors

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"transcript-scrub/internal/detector"
)

// Strategy defines the substitution policy applied to each entity
type Strategy int

const (
	// StrategyPlaceholder replaces the entity with a typed marker like [REDACTED_EMAIL]
	StrategyPlaceholder Strategy = iota
	// StrategyMask keeps a short prefix and masks the rest with asterisks
	StrategyMask
	// StrategyPartial keeps type-appropriate fragments (email domain, last four digits)
	StrategyPartial
	// StrategyRemove deletes the entity text entirely
	StrategyRemove
	// StrategyHash replaces the entity with a stable pseudonymous token
	StrategyHash
)

// String returns the string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case StrategyPlaceholder:
		return "placeholder"
	case StrategyMask:
		return "mask"
	case StrategyPartial:
		return "partial"
	case StrategyRemove:
		return "remove"
	case StrategyHash:
		return "hash"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a strategy name to a Strategy. An unrecognized
// name is a configuration error: silently falling back would redact with a
// policy the caller never asked for.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "placeholder":
		return StrategyPlaceholder, nil
	case "mask":
		return StrategyMask, nil
	case "partial":
		return StrategyPartial, nil
	case "remove":
		return StrategyRemove, nil
	case "hash":
		return StrategyHash, nil
	default:
		return 0, NewConfigurationError("unknown redaction strategy %q, available: %s", name, strings.Join(StrategyNames(), ", "))
	}
}

// StrategyNames returns the names of all available strategies
func StrategyNames() []string {
	return []string{"placeholder", "mask", "partial", "remove", "hash"}
}

// Apply returns the replacement string for one entity. It is total: every
// strategy produces a defined replacement for any entity with non-empty
// text, and never fails.
func (s Strategy) Apply(entity detector.PIIEntity) string {
	switch s {
	case StrategyPlaceholder:
		return placeholderFor(entity.EntityType)
	case StrategyMask:
		return maskText(entity.Text)
	case StrategyPartial:
		return partialFor(entity.Text, entity.EntityType)
	case StrategyRemove:
		return ""
	case StrategyHash:
		return hashToken(entity.Text, entity.EntityType)
	default:
		return placeholderFor(entity.EntityType)
	}
}

// ─── Placeholder ─────────────────────────────────────────────────────────────

func placeholderFor(entityType string) string {
	return "[REDACTED_" + entityType + "]"
}

// ─── Mask ────────────────────────────────────────────────────────────────────

// maskText keeps the first two characters and masks the remainder. For
// email-shaped text the portion after the @ is preserved verbatim and the
// rest of the local part collapses to a fixed three-star mask so the local
// part's length is not leaked. Text of two characters or fewer is masked
// entirely. Prefixes and star counts are measured in runes, never bytes:
// slicing a multibyte character in half would emit invalid UTF-8.
func maskText(text string) string {
	if at := strings.Index(text, "@"); at >= 0 {
		local, domain := []rune(text[:at]), text[at+1:]
		keep := 2
		if len(local) < keep {
			keep = len(local)
		}
		return string(local[:keep]) + "***@" + domain
	}

	runes := []rune(text)
	if len(runes) <= 2 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-2)
}

// ─── Partial ─────────────────────────────────────────────────────────────────

// partialFor keeps type-appropriate fragments visible: the first character
// and domain for emails, the last four digits for phone-, SSN-, and
// credit-card-shaped values. Other types fall back to mask behavior.
// Separator characters are not preserved in place; digit-bearing values
// normalize to a fixed ***-***-NNNN shape.
func partialFor(text, entityType string) string {
	switch entityType {
	case "EMAIL":
		at := strings.Index(text, "@")
		if at <= 0 {
			return maskText(text)
		}
		local := []rune(text[:at])
		return string(local[:1]) + "***@" + text[at+1:]

	case "PHONE", "SSN":
		digits := digitsOf(text)
		if len(digits) < 4 {
			return strings.Repeat("*", utf8.RuneCountInString(text))
		}
		return "***-***-" + digits[len(digits)-4:]

	case "CREDIT_CARD":
		digits := digitsOf(text)
		if len(digits) < 4 {
			return strings.Repeat("*", utf8.RuneCountInString(text))
		}
		return "****-****-****-" + digits[len(digits)-4:]

	default:
		return maskText(text)
	}
}

func digitsOf(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ─── Hash ────────────────────────────────────────────────────────────────────

// hashToken produces a stable pseudonymous token: the same input text
// always yields the same token across runs and records, without being
// reversible. SHA-256 truncated to 8 hex characters.
func hashToken(text, entityType string) string {
	sum := sha256.Sum256([]byte(text))
	return "[" + entityType + "_" + hex.EncodeToString(sum[:])[:8] + "]"
}
