package feed

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"

	"feedherald/internal/domain"
)

const substackHostSuffix = ".substack.com"

var subdomainRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// SubdomainFromInput turns a subscribe argument into a publication
// subdomain. Users paste full article or page URLs as often as they type
// bare subdomains, so both forms are accepted.
func SubdomainFromInput(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty input", domain.ErrSourceNotFound)
	}

	if rawURL := xurls.Relaxed().FindString(input); rawURL != "" {
		if sub, ok := subdomainFromURL(rawURL); ok {
			return sub, nil
		}
	}

	sub := strings.ToLower(strings.TrimSuffix(input, substackHostSuffix))
	if !subdomainRe.MatchString(sub) {
		return "", fmt.Errorf("%w: %q", domain.ErrSourceNotFound, input)
	}

	return sub, nil
}

func subdomainFromURL(rawURL string) (string, bool) {
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	if !strings.HasSuffix(host, substackHostSuffix) {
		return "", false
	}

	sub := strings.TrimSuffix(host, substackHostSuffix)
	if !subdomainRe.MatchString(sub) {
		return "", false
	}

	return sub, true
}
