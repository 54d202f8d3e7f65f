// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorse-io/coenroll/config"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPOSIX(t *testing.T) {
	ctx := context.Background()
	// create client
	client := NewPOSIX(filepath.Join(t.TempDir(), "blob"))

	// write a temp file
	w, err := client.Create(ctx, "TERM_2010/test")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello world"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	// read the file
	r, err := client.Open(ctx, "TERM_2010/test")
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "hello world", string(content))
	assert.NoError(t, r.Close())

	_, err = client.Open(ctx, "missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPOSIXCancel(t *testing.T) {
	dir := t.TempDir()
	client := NewPOSIX(dir)
	ctx, cancel := context.WithCancel(context.Background())
	w, err := client.Create(ctx, "test")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	assert.NoError(t, err)
	cancel()
	assert.ErrorIs(t, w.Close(), context.Canceled)

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadWriteFile(t *testing.T) {
	ctx := context.Background()
	target := filepath.Join(t.TempDir(), "features.csv")
	err := WriteFile(ctx, target, config.StorageConfig{}, func(w io.Writer) error {
		_, err := io.WriteString(w, "a,b\n1,2\n")
		return err
	})
	require.NoError(t, err)

	var content []byte
	err = ReadFile(ctx, target, config.StorageConfig{}, func(r io.Reader) error {
		content, err = io.ReadAll(r)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(content))

	// a failed write leaves the previous file in place
	err = WriteFile(ctx, target, config.StorageConfig{}, func(w io.Writer) error {
		_, _ = io.WriteString(w, "broken")
		return errors.New("failed")
	})
	assert.EqualError(t, err, "failed")
	content, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(content))
}
