// Package model resolves models from distributions: either a project
// guildfile or an installed package registered through the
// entry-point registry.
package model

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Distribution types appearing in references.
const (
	DistTypeGuildfile = "guildfile"
	DistTypePackage   = "package"
)

// Ref identifies a model within a distribution.
type Ref struct {
	DistType    string
	DistName    string
	DistVersion string
	ModelName   string
}

// ParseRef parses the space-joined reference form.
func ParseRef(s string) (Ref, error) {
	parts := strings.Split(s, " ")
	if len(parts) != 4 {
		return Ref{}, fmt.Errorf("invalid model reference %q: expected 4 parts, got %d", s, len(parts))
	}
	for _, p := range parts {
		if p == "" {
			return Ref{}, fmt.Errorf("invalid model reference %q: empty part", s)
		}
	}
	return Ref{
		DistType:    parts[0],
		DistName:    parts[1],
		DistVersion: parts[2],
		ModelName:   parts[3],
	}, nil
}

func (r Ref) String() string {
	return strings.Join([]string{r.DistType, r.DistName, r.DistVersion, r.ModelName}, " ")
}

const guildfileProjectPrefix = ".guildfile."

// EscapeProjectName encodes a guildfile directory path as a safe
// project name.
func EscapeProjectName(path string) string {
	return guildfileProjectPrefix + strings.ToUpper(hex.EncodeToString([]byte(path)))
}

// UnescapeProjectName decodes a project name produced by
// EscapeProjectName. Non-guildfile project names pass through
// unchanged.
func UnescapeProjectName(name string) string {
	escaped, found := strings.CutPrefix(name, guildfileProjectPrefix)
	if !found {
		return name
	}
	decoded, err := hex.DecodeString(strings.ToLower(escaped))
	if err != nil {
		return name
	}
	return string(decoded)
}

// IsGuildfileProject reports whether a project name denotes a
// guildfile distribution.
func IsGuildfileProject(name string) bool {
	return strings.HasPrefix(name, guildfileProjectPrefix)
}
