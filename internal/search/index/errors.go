package index

import "errors"

var (
	// ErrIndexMissing indicates the index directory or its files cannot be read.
	ErrIndexMissing = errors.New("could not find esearch-index, please run eupdatedb as root first")

	// ErrIndexOutOfDate indicates the index was written by an older eupdatedb.
	ErrIndexOutOfDate = errors.New("the version of the esearch index is out of date, please run eupdatedb")
)
