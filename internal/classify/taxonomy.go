package classify

import (
	"sort"

	"evalcmp/internal/record"
)

// Bucket counts the records that share one failure tag.
type Bucket struct {
	Count   int   `json:"count"`
	Indices []int `json:"indices"`
}

// Taxonomy maps tag keys ("category/subtype") to their buckets. Correct
// records are not tallied.
type Taxonomy map[string]*Bucket

// Tally classifies every record of a result set and groups the failures.
func Tally(c *Classifier, set record.ResultSet) Taxonomy {
	taxonomy := Taxonomy{}
	for _, rec := range set.Records {
		tag := c.Classify(rec)
		if tag.Category == CategoryCorrect {
			continue
		}
		bucket, ok := taxonomy[tag.Key()]
		if !ok {
			bucket = &Bucket{Indices: []int{}}
			taxonomy[tag.Key()] = bucket
		}
		bucket.Count++
		bucket.Indices = append(bucket.Indices, rec.Index)
	}
	return taxonomy
}

// Keys returns the tag keys in sorted order.
func (t Taxonomy) Keys() []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Failures returns the number of tallied records.
func (t Taxonomy) Failures() int {
	total := 0
	for _, bucket := range t {
		total += bucket.Count
	}
	return total
}

// Count returns the bucket size for a key, zero when absent.
func (t Taxonomy) Count(key string) int {
	if bucket, ok := t[key]; ok {
		return bucket.Count
	}
	return 0
}
