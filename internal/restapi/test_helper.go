// test_helper.go contains shared utilities for extracting
// IDs from JSON response structures in handler tests.
package restapi

type testingFatalf interface {
	Fatalf(format string, args ...any)
}

// collectAllIdsFromObjects extracts the string field key from every object
// in list, e.g. the ids of a list of stops.
func collectAllIdsFromObjects(t testingFatalf, list []interface{}, key string) (ids []string) {
	for i, item := range list {
		object, ok := item.(map[string]interface{})
		if !ok {
			t.Fatalf("item %d is not a map[string]interface{}", i)
		}
		value, ok := object[key]
		if !ok {
			t.Fatalf("item %d missing key %q", i, key)
		}
		id, ok := value.(string)
		if !ok {
			t.Fatalf("item %d key %q is not a string: %T", i, key, value)
		}
		ids = append(ids, id)
	}
	return ids
}
