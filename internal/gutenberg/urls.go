// Package gutenberg validates candidate URLs and fetches plain-text books
// from Project Gutenberg.
package gutenberg

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/aizazja028-sketch/BookByte/internal/ingest"
)

// Host is the only permitted source domain for candidate URLs.
const Host = "www.gutenberg.org"

var ebookPathRe = regexp.MustCompile(`^/ebooks/(\d+)/?$`)

// ResolveTextURL validates that a candidate URL belongs to the permitted
// source domain and maps it to its plain-text file location. Two path shapes
// are recognized: a direct .txt path, which passes through unchanged, and
// the canonical /ebooks/{id} page, which is rewritten to the cached text
// path for that id. Any other shape is an invalid-URL failure.
func ResolveTextURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ingest.Errorf(ingest.KindInvalidURL, "unparseable url %q: %v", raw, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", ingest.Errorf(ingest.KindInvalidURL, "unsupported scheme %q in %q", parsed.Scheme, raw)
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	if host != "gutenberg.org" {
		return "", ingest.Errorf(ingest.KindInvalidURL, "host %q is not a recognized book source", parsed.Hostname())
	}

	if strings.HasSuffix(parsed.Path, ".txt") {
		return parsed.String(), nil
	}

	if match := ebookPathRe.FindStringSubmatch(parsed.Path); match != nil {
		return fmt.Sprintf("https://%s/cache/epub/%s/pg%s.txt", Host, match[1], match[1]), nil
	}

	return "", ingest.Errorf(ingest.KindInvalidURL, "unrecognized path %q: expected an /ebooks/{id} page or a .txt file", parsed.Path)
}
