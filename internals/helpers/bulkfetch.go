package helper

/* ===============================
   Bulk fetch (pagination bypass)
=================================*/

// The backing store caps rows per request, so bulk reads page through
// with a fixed page size up to a hard safety ceiling.
const (
	BulkPageSize     = 1000
	BulkFetchCeiling = 1_000_000
)

// FetchAllPages keeps requesting fixed-size pages, advancing the offset,
// until a short page (end of data) or the ceiling. Any page error aborts
// the whole fetch; partial results are discarded by the caller.
func FetchAllPages[T any](fetch func(offset, limit int) ([]T, error)) ([]T, error) {
	var all []T
	for offset := 0; ; offset += BulkPageSize {
		page, err := fetch(offset, BulkPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < BulkPageSize || len(all) >= BulkFetchCeiling {
			return all, nil
		}
	}
}
