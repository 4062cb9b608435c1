package env

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned when a page URL cannot be parsed
var ErrInvalidURL = errors.New("invalid page URL")

// Host markers, checked in this order
const (
	builderFrameMarker   = "--c.visualforce."
	builderFrameMarkerVF = "--c.vf."
	lightningMarker      = ".lightning."
	sandboxMarker        = ".sandbox."
	developMarker        = ".develop."

	builderSuffix = "--c"
	sitePathMark  = "/s/"

	// LWR sites do not expose a hostname
	lwrHostname = "LWR"
)

// HostEnvironment describes where the grid is hosted and which base URL
// links back to the platform should use.
type HostEnvironment struct {
	DomainURL        string `json:"domainUrl" yaml:"domainUrl"`
	IsCommunitySite  bool   `json:"isCommunitySite" yaml:"isCommunitySite"`
	IsBuilderContext bool   `json:"isBuilderContext" yaml:"isBuilderContext"`
}

// Resolve derives the host environment from the page hostname and full URL.
//
// Detection is plain substring matching and the first matching rule wins:
//  1. builder frame (--c.visualforce. / --c.vf.)
//  2. authenticated Lightning UI (.lightning.)
//  3. anything else is treated as a site, unless the site URL turns out
//     to be a flow runtime page, which is a builder context
//
// Unknown hostnames fall through to the site rule and produce a best-effort
// DomainURL. Resolve never fails.
func Resolve(hostname, href string, logger *slog.Logger) HostEnvironment {
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := hostname
	if baseURL == "" {
		baseURL = lwrHostname
	}
	logger.Debug("env.resolve.start", "base_url", baseURL, "href", href)

	var result HostEnvironment
	switch {
	case strings.Contains(baseURL, builderFrameMarker) || strings.Contains(baseURL, builderFrameMarkerVF):
		result.DomainURL = "https://" + stripLast(firstLabel(hostname), builderSuffix)

	case strings.Contains(baseURL, lightningMarker):
		result.DomainURL = "https://" + firstLabel(hostname)
		if strings.Contains(baseURL, sandboxMarker) {
			result.DomainURL += ".sandbox"
		}
		if strings.Contains(baseURL, developMarker) {
			result.DomainURL += ".develop"
		}

	default:
		prefix, _, _ := strings.Cut(href, sitePathMark)
		result.DomainURL = prefix + sitePathMark
		result.IsCommunitySite = true

		if strings.Contains(result.DomainURL, "flow/runtime") || strings.Contains(result.DomainURL, "/flow/") {
			result = HostEnvironment{
				DomainURL:        baseURL,
				IsBuilderContext: true,
			}
		}
	}

	logger.Debug("env.resolve.done",
		"domain_url", result.DomainURL,
		"is_community", result.IsCommunitySite,
		"is_flow_builder", result.IsBuilderContext,
	)
	return result
}

// FromURL parses a full page URL and resolves its host environment.
func FromURL(rawURL string, logger *slog.Logger) (HostEnvironment, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return HostEnvironment{}, fmt.Errorf("%w: %s: %v", ErrInvalidURL, rawURL, err)
	}
	return Resolve(u.Hostname(), rawURL, logger), nil
}

// firstLabel returns the hostname up to the first dot
func firstLabel(hostname string) string {
	label, _, _ := strings.Cut(hostname, ".")
	return label
}

// stripLast removes the last occurrence of sub from s.
// It reverses both strings, removes the first match and reverses back.
func stripLast(s, sub string) string {
	return reverse(strings.Replace(reverse(s), reverse(sub), "", 1))
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
