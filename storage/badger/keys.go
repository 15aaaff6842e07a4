package badger

// Key prefixes for different data types. Tariff record keys embed the code
// directly, so a Badger iterator over tarrecPrefix+codePrefix IS the
// code-prefix scan, in lexicographic code order.
const (
	tarrecPrefix   = "tarrec:"
	datasetMetaKey = "tarmeta:fp"
)

// makeRecordKey generates the key for a tariff record by code.
func makeRecordKey(code string) []byte {
	buf := make([]byte, 0, len(tarrecPrefix)+len(code))
	buf = append(buf, tarrecPrefix...)
	buf = append(buf, code...)
	return buf
}

// makeScanPrefix generates the iterator prefix for a code-prefix scan.
// An empty codePrefix scans every record.
func makeScanPrefix(codePrefix string) []byte {
	return makeRecordKey(codePrefix)
}
