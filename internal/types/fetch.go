package types

// FetchResult is the outcome of a single remote fetch: either Success with a
// dataset (possibly empty) or Failure with a reason.
type FetchResult struct {
	dataset Dataset
	reason  string
	ok      bool
}

// Success wraps a fetched dataset.
func Success(dataset Dataset) FetchResult {
	return FetchResult{dataset: dataset, ok: true}
}

// Failure records why a fetch produced no data.
func Failure(reason string) FetchResult {
	return FetchResult{reason: reason}
}

// IsSuccess reports whether the fetch succeeded.
func (r FetchResult) IsSuccess() bool {
	return r.ok
}

// Dataset returns the fetched dataset. It is empty for a failure.
func (r FetchResult) Dataset() Dataset {
	return r.dataset
}

// Reason returns the failure reason. It is empty for a success.
func (r FetchResult) Reason() string {
	return r.reason
}
