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

package storage

import (
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

const (
	MySQLPrefix      = "mysql://"
	PostgresPrefix   = "postgres://"
	PostgreSQLPrefix = "postgresql://"
	SQLitePrefix     = "sqlite://"

	S3Prefix        = "s3://"
	GCSPrefix       = "gs://"
	AzureBlobPrefix = "azblob://"
)

// IsDatabase reports whether a target names a SQL database.
func IsDatabase(target string) bool {
	return lo.SomeBy([]string{MySQLPrefix, PostgresPrefix, PostgreSQLPrefix, SQLitePrefix}, func(prefix string) bool {
		return strings.HasPrefix(target, prefix)
	})
}

// IsObjectStore reports whether a target names an object in a bucket.
func IsObjectStore(target string) bool {
	return lo.SomeBy([]string{S3Prefix, GCSPrefix, AzureBlobPrefix}, func(prefix string) bool {
		return strings.HasPrefix(target, prefix)
	})
}

// SplitBucket splits bucket/key of an object store URL without its scheme.
func SplitBucket(rawURL, prefix string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(rawURL, prefix)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || strings.Trim(key, "/") == "" {
		return "", "", errors.NotValidf("object URL %q (expected %sbucket/key)", rawURL, prefix)
	}
	return bucket, strings.Trim(key, "/"), nil
}

func AppendURLParams(rawURL string, params []lo.Tuple2[string, string]) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Trace(err)
	}
	q := parsed.Query()
	for _, tuple := range params {
		q.Add(tuple.A, tuple.B)
	}
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

// AppendMySQLParams adds parameters to a MySQL DSN unless they are already set. The
// raw query is inspected because the driver moves known parameters such as parseTime
// into typed fields.
func AppendMySQLParams(dsn string, params map[string]string) (string, error) {
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return "", errors.Trace(err)
	}
	// the query starts at the first '?' after the last '/'
	slash := strings.LastIndexByte(dsn, '/')
	var query string
	if q := strings.IndexByte(dsn[slash+1:], '?'); q >= 0 {
		query = dsn[slash+1+q+1:]
	}
	existing, err := url.ParseQuery(query)
	if err != nil {
		return "", errors.Trace(err)
	}
	missing := make(url.Values)
	for key, value := range params {
		if !existing.Has(key) {
			missing.Set(key, value)
		}
	}
	if len(missing) == 0 {
		return dsn, nil
	}
	switch {
	case !strings.Contains(dsn[slash+1:], "?"):
		dsn += "?"
	case query != "":
		dsn += "&"
	}
	dsn += missing.Encode()
	if _, err = mysql.ParseDSN(dsn); err != nil {
		return "", errors.Trace(err)
	}
	return dsn, nil
}
