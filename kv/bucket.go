// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "bytes"

// Bucket provides a logical key namespace over a kv store.
type Bucket string

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src GetPutter) GetPutter {
	return &bucketStore{b, src}
}

type bucketStore struct {
	bucket Bucket
	src    GetPutter
}

func (s *bucketStore) makeKey(key []byte) []byte {
	return append(append(make([]byte, 0, len(s.bucket)+len(key)), s.bucket...), key...)
}

func (s *bucketStore) Get(key []byte) ([]byte, error) {
	return s.src.Get(s.makeKey(key))
}

func (s *bucketStore) Has(key []byte) (bool, error) {
	return s.src.Has(s.makeKey(key))
}

func (s *bucketStore) IsNotFound(err error) bool {
	return s.src.IsNotFound(err)
}

func (s *bucketStore) Put(key, value []byte) error {
	return s.src.Put(s.makeKey(key), value)
}

func (s *bucketStore) Delete(key []byte) error {
	return s.src.Delete(s.makeKey(key))
}

func (s *bucketStore) NewBatch() Batch {
	return &bucketBatch{s.bucket, s.src.NewBatch()}
}

func (s *bucketStore) NewIterator(r Range) Iterator {
	prefix := []byte(s.bucket)
	start := append(append([]byte{}, prefix...), r.Start...)
	var limit []byte
	if len(r.Limit) > 0 {
		limit = append(append([]byte{}, prefix...), r.Limit...)
	} else {
		limit = bucketUpperBound(prefix)
	}
	return &bucketIterator{prefix, s.src.NewIterator(Range{Start: start, Limit: limit})}
}

type bucketBatch struct {
	bucket Bucket
	src    Batch
}

func (b *bucketBatch) makeKey(key []byte) []byte {
	return append(append(make([]byte, 0, len(b.bucket)+len(key)), b.bucket...), key...)
}

func (b *bucketBatch) Put(key, value []byte) error {
	return b.src.Put(b.makeKey(key), value)
}

func (b *bucketBatch) Delete(key []byte) error {
	return b.src.Delete(b.makeKey(key))
}

func (b *bucketBatch) NewBatch() Batch { return b.src.NewBatch() }
func (b *bucketBatch) Len() int        { return b.src.Len() }
func (b *bucketBatch) Write() error    { return b.src.Write() }

type bucketIterator struct {
	prefix []byte
	src    Iterator
}

func (i *bucketIterator) Next() bool    { return i.src.Next() }
func (i *bucketIterator) Release()      { i.src.Release() }
func (i *bucketIterator) Error() error  { return i.src.Error() }
func (i *bucketIterator) Value() []byte { return i.src.Value() }

func (i *bucketIterator) Key() []byte {
	return bytes.TrimPrefix(i.src.Key(), i.prefix)
}

// bucketUpperBound returns the smallest key larger than all keys with the prefix.
func bucketUpperBound(prefix []byte) []byte {
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] != 0xff {
			limit := append([]byte{}, prefix[:i+1]...)
			limit[i]++
			return limit
		}
	}
	return nil
}
