package resolve

import "strings"

// ParseQuery normalizes a caller-supplied query into segments.
//
// Accepted forms: a separator-joined string, a []string, or a []any whose
// elements are all strings. Anything else fails with InvalidQueryError
// before any traversal happens, including an empty segment sequence and
// non-string elements nested in an otherwise valid one.
func ParseQuery(query any, sep string) ([]string, error) {
	switch q := query.(type) {
	case string:
		return splitPath(q, sep), nil
	case []string:
		if len(q) == 0 {
			return nil, &InvalidQueryError{Query: query, Reason: "empty segment sequence"}
		}
		segments := make([]string, len(q))
		copy(segments, q)
		return segments, nil
	case []any:
		if len(q) == 0 {
			return nil, &InvalidQueryError{Query: query, Reason: "empty segment sequence"}
		}
		segments := make([]string, len(q))
		for i, elem := range q {
			s, ok := elem.(string)
			if !ok {
				return nil, &InvalidQueryError{Query: query, Reason: "segment is not a string"}
			}
			segments[i] = s
		}
		return segments, nil
	case nil:
		return nil, &InvalidQueryError{Query: query, Reason: "query is nil"}
	default:
		return nil, &InvalidQueryError{Query: query, Reason: "query must be a string or an ordered sequence of strings"}
	}
}

func splitPath(path, sep string) []string {
	if sep == "" {
		return []string{path}
	}
	return strings.Split(path, sep)
}
