package controller

import "sync"

// byteStore is a sharded, lock-per-shard byte-addressable store, adapted
// from the teacher's RAM-backed device backend: reads and writes only ever
// lock the shards they touch, so unrelated addresses never contend.
type byteStore struct {
	data      []byte
	size      int64
	shardSize int
	shards    []sync.RWMutex
}

func newByteStore(size int64, shardSize int) *byteStore {
	if shardSize <= 0 {
		shardSize = 1
	}
	numShards := (size + int64(shardSize) - 1) / int64(shardSize)
	if numShards < 1 {
		numShards = 1
	}
	return &byteStore{
		data:      make([]byte, size),
		size:      size,
		shardSize: shardSize,
		shards:    make([]sync.RWMutex, numShards),
	}
}

func (s *byteStore) shardOf(addr int64) int {
	shard := int(addr / int64(s.shardSize))
	if shard >= len(s.shards) {
		shard = len(s.shards) - 1
	}
	if shard < 0 {
		shard = 0
	}
	return shard
}

func (s *byteStore) read(addr int64) byte {
	if addr < 0 || addr >= s.size {
		return 0
	}
	shard := s.shardOf(addr)
	s.shards[shard].RLock()
	defer s.shards[shard].RUnlock()
	return s.data[addr]
}

func (s *byteStore) write(addr int64, data byte) {
	if addr < 0 || addr >= s.size {
		return
	}
	shard := s.shardOf(addr)
	s.shards[shard].Lock()
	defer s.shards[shard].Unlock()
	s.data[addr] = data
}
