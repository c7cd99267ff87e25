// Copyright 2018 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage provides byte-range access to sequence and index data
// stored in local files or in Google Cloud Storage objects.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	gcs "cloud.google.com/go/storage"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const gsPrefix = "gs://"

// Object is a handle to immutable sequence or index data that supports
// independent positioned reads.  Every reader returned by NewRangeReader
// has its own cursor, so concurrent reads of one Object never interfere.
type Object interface {
	// NewRangeReader returns a reader over length bytes of the object
	// starting at offset.  A negative length reads to the end of the
	// object.  The caller owns the returned reader and must close it.
	NewRangeReader(ctx context.Context, offset, length int64) (io.ReadCloser, error)
}

// Open returns an Object for path.  Paths of the form gs://bucket/object
// are resolved in Google Cloud Storage using the application default
// credentials; anything else is treated as a local file path.
func Open(ctx context.Context, path string) (Object, error) {
	if !strings.HasPrefix(path, gsPrefix) {
		return fileObject(path), nil
	}
	client, err := defaultClient(ctx)
	if err != nil {
		return nil, err
	}
	return newGCSObject(client, path)
}

// OpenPublic is like Open but uses no form of client authorization for
// gs:// paths.  It can only read publicly-readable objects.
func OpenPublic(ctx context.Context, path string) (Object, error) {
	if !strings.HasPrefix(path, gsPrefix) {
		return fileObject(path), nil
	}
	client, err := gcs.NewClient(ctx, option.WithHTTPClient(http.DefaultClient))
	if err != nil {
		return nil, fmt.Errorf("creating public storage client: %v", err)
	}
	return newGCSObject(client, path)
}

// OpenWithBearerToken is like Open but authorizes gs:// reads with the
// provided OAuth2 bearer token.
func OpenWithBearerToken(ctx context.Context, path, token string) (Object, error) {
	if !strings.HasPrefix(path, gsPrefix) {
		return fileObject(path), nil
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{TokenType: "Bearer", AccessToken: token})
	client, err := gcs.NewClient(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("creating storage client with token source: %v", err)
	}
	return newGCSObject(client, path)
}

// ReadAll reads the entire contents of an object.
func ReadAll(ctx context.Context, object Object) ([]byte, error) {
	r, err := object.NewRangeReader(ctx, 0, -1)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

var (
	sharedClient           *gcs.Client
	initializeSharedClient sync.Once
	sharedClientErr        error
)

// defaultClient returns a storage client that uses the application default
// credentials.  It caches the client for efficiency.
func defaultClient(ctx context.Context) (*gcs.Client, error) {
	initializeSharedClient.Do(func() {
		sharedClient, sharedClientErr = gcs.NewClient(ctx)
	})
	if sharedClientErr != nil {
		return nil, fmt.Errorf("creating default storage client: %v", sharedClientErr)
	}
	return sharedClient, nil
}

type gcsObject struct {
	handle *gcs.ObjectHandle
	name   string
}

func newGCSObject(client *gcs.Client, path string) (Object, error) {
	parts := strings.SplitN(strings.TrimPrefix(path, gsPrefix), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid object path %q", path)
	}
	return gcsObject{handle: client.Bucket(parts[0]).Object(parts[1]), name: path}, nil
}

func (o gcsObject) NewRangeReader(ctx context.Context, offset, length int64) (io.ReadCloser, error) {
	r, err := o.handle.NewRangeReader(ctx, offset, length)
	if err != nil {
		return nil, describeGCSError(o.name, err)
	}
	return r, nil
}

func describeGCSError(name string, err error) error {
	if err == gcs.ErrObjectNotExist {
		return fmt.Errorf("object %q does not exist", name)
	}
	if err, ok := err.(*googleapi.Error); ok {
		switch err.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("authentication failed reading %q: %v", name, err)
		case http.StatusForbidden:
			return fmt.Errorf("permission denied reading %q: %v", name, err)
		}
	}
	return fmt.Errorf("reading %q: %v", name, err)
}

type fileObject string

func (o fileObject) NewRangeReader(_ context.Context, offset, length int64) (io.ReadCloser, error) {
	f, err := os.Open(string(o))
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", string(o), err)
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("seeking to offset %d in %q: %w", offset, string(o), err)
	}
	if length < 0 {
		return f, nil
	}
	return &sectionReader{r: io.LimitReader(f, length), f: f}, nil
}

// sectionReader bounds reads from an opened file to a byte budget while
// keeping Close on the underlying handle.
type sectionReader struct {
	r io.Reader
	f *os.File
}

func (s *sectionReader) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *sectionReader) Close() error { return s.f.Close() }
