package extractor

import (
	"net/url"
	"strings"

	"github.com/aleister1102/jsmon/internal/common"
)

// ResolveEndpoint turns a raw path found in a script into an absolute URL.
// Relative paths need base; hosts without a dot are rejected as noise.
func ResolveEndpoint(rawPath string, base *url.URL) (string, error) {
	rawPath = strings.TrimSpace(rawPath)
	if rawPath == "" {
		return "", common.NewValidationError("raw_path", rawPath, "path cannot be empty")
	}

	ref, err := url.Parse(rawPath)
	if err != nil {
		return "", common.WrapError(err, "failed to parse path")
	}

	if !ref.IsAbs() {
		if base == nil {
			return "", common.NewValidationError("raw_path", rawPath, "cannot resolve relative path without base URL")
		}
		ref = base.ResolveReference(ref)
	}

	switch strings.ToLower(ref.Scheme) {
	case "http", "https", "ws", "wss":
	default:
		return "", common.NewValidationError("scheme", ref.Scheme, "unsupported endpoint scheme")
	}
	if !strings.Contains(ref.Hostname(), ".") && ref.Hostname() != "localhost" {
		return "", common.NewValidationError("host", ref.Host, "host appears invalid")
	}
	ref.Fragment = ""
	return ref.String(), nil
}
