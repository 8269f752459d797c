// Package domain holds the core value types shared by the route engine:
// asset identity, graph nodes and edges, route manifests, and queries.
package domain

import (
	"fmt"
	"strings"
)

// NativeIssuer is the literal issuer token used for the network-native asset.
const NativeIssuer = "native"

// AssetKey is the canonical identity of a tradable instrument: CODE:ISSUER,
// or CODE:native for the network-native asset. Two keys are equal iff both
// parts match byte-for-byte after case-normalizing the code.
type AssetKey struct {
	Code   string
	Issuer string
}

// NewAssetKey builds a key, normalizing the code to uppercase. An empty
// issuer is treated as the native asset.
func NewAssetKey(code, issuer string) AssetKey {
	code = strings.ToUpper(strings.TrimSpace(code))
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		issuer = NativeIssuer
	}
	return AssetKey{Code: code, Issuer: issuer}
}

// IsNative reports whether this key identifies the network-native asset.
func (k AssetKey) IsNative() bool {
	return k.Issuer == NativeIssuer
}

// String renders the canonical CODE:ISSUER form.
func (k AssetKey) String() string {
	return fmt.Sprintf("%s:%s", k.Code, k.Issuer)
}

// ParseAssetKey parses a CODE:ISSUER string back into an AssetKey. It is the
// exact inverse of String: ParseAssetKey(k.String()) == k for any valid key.
func ParseAssetKey(s string) (AssetKey, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return AssetKey{}, fmt.Errorf("invalid asset key %q: expected CODE:ISSUER", s)
	}
	return NewAssetKey(parts[0], parts[1]), nil
}

// Equal compares two keys by canonical identity.
func (k AssetKey) Equal(other AssetKey) bool {
	return k.Code == other.Code && k.Issuer == other.Issuer
}
