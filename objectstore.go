package docrag

import (
	"context"
	"net/url"
	"strings"
)

// ObjectStore stores files under string keys in a single bucket.
type ObjectStore interface {
	// List returns all keys that start with prefix, in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)

	// Download copies the object at key to localPath.
	// Returns ENOTFOUND if the key does not exist.
	Download(ctx context.Context, key, localPath string) error

	// Upload copies localPath to the object at key, replacing any existing object.
	Upload(ctx context.Context, localPath, key string) error
}

// ObjectURI addresses a prefix inside a bucket, as in "s3://bucket/prefix/".
type ObjectURI struct {
	Scheme string
	Bucket string
	Prefix string
}

// ParseObjectURI parses "scheme://bucket/prefix". The prefix may be empty.
func ParseObjectURI(s string) (ObjectURI, error) {
	u, err := url.Parse(s)
	if err != nil {
		return ObjectURI{}, Errorf(EINVALID, "invalid object URI %q: %v", s, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return ObjectURI{}, Errorf(EINVALID, "object URI must look like scheme://bucket/prefix, got %q", s)
	}
	return ObjectURI{
		Scheme: u.Scheme,
		Bucket: u.Host,
		Prefix: strings.TrimPrefix(u.Path, "/"),
	}, nil
}

// String formats the URI as "scheme://bucket/prefix".
func (u ObjectURI) String() string {
	return u.Scheme + "://" + u.Bucket + "/" + u.Prefix
}

// Dir returns the URI with its prefix ending in "/", unless the prefix is empty.
func (u ObjectURI) Dir() ObjectURI {
	if u.Prefix != "" && !strings.HasSuffix(u.Prefix, "/") {
		u.Prefix += "/"
	}
	return u
}

// Join returns the URI for a child of the directory prefix.
func (u ObjectURI) Join(name string) ObjectURI {
	d := u.Dir()
	d.Prefix += strings.TrimPrefix(name, "/")
	return d
}
