package diff

import "strings"

// keyPatterns are the name fragments that mark a likely primary-key column.
var keyPatterns = []string{"id", "key", "code", "number", "identifier", "uuid", "guid"}

// CommonHeaders returns the columns of original's first record that also appear
// in updated's first record, in original order.
func CommonHeaders(original, updated Dataset) []string {
	headers1 := original.Headers()
	headers2 := updated.Headers()

	in2 := make(map[string]struct{}, len(headers2))
	for _, h := range headers2 {
		in2[h] = struct{}{}
	}

	common := make([]string, 0, len(headers1))
	for _, h := range headers1 {
		if _, ok := in2[h]; ok {
			common = append(common, h)
		}
	}
	return common
}

// DetectPrimaryKeys picks a primary key among headers.
// The first header whose lowercased name contains a key pattern and whose values are
// unique across ds wins; otherwise the first header is used. It returns nil when
// headers is empty.
func DetectPrimaryKeys(ds Dataset, headers []string) []string {
	for _, h := range headers {
		if !looksLikeKey(h) {
			continue
		}
		if uniqueValues(ds, h) {
			return []string{h}
		}
	}
	if len(headers) > 0 {
		return []string{headers[0]}
	}
	return nil
}

func looksLikeKey(header string) bool {
	lower := strings.ToLower(header)
	for _, p := range keyPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func uniqueValues(ds Dataset, column string) bool {
	seen := make(map[Value]struct{}, len(ds.Records))
	for _, r := range ds.Records {
		v := r.Get(column)
		if _, dup := seen[v]; dup {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}
