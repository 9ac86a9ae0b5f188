// internal/snapshot/export_test.go
package snapshot

type (
	Document = document
	EntryDoc = entryDoc
)

var (
	Encode = encode
	Frame  = frame
)
