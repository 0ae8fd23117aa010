package helpers

import (
	"errors"
	"net/url"
	"strings"
)

func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// ListingName returns the slug that names a listing: the second-to-last
// path segment of its URL, or the only segment when there is just one.
func ListingName(listingURL string) (string, error) {
	u, err := url.Parse(listingURL)
	if err != nil {
		return "", err
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "", errors.New("listing URL has no path")
	}

	parts := strings.Split(path, "/")
	if len(parts) == 1 {
		return parts[0], nil
	}
	return GetSplitPart(path, "/", len(parts)-2)
}

// BaseURL returns scheme://host of a URL
func BaseURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("URL must be absolute")
	}
	return u.Scheme + "://" + u.Host, nil
}
