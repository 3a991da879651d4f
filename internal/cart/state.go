package cart

// LoadState tracks where a store is in its persistence lifecycle.
//
//	UNINITIALIZED -> LOADING -> READY-WITH-DATA | READY-EMPTY-EXPIRED | READY-EMPTY-NO-DATA | READY-EMPTY-CORRUPT
//
// After the first mutation a store moves between READY-WITH-DATA and READY-EMPTY.
type LoadState int

const (
	StateUninitialized LoadState = iota
	StateLoading
	StateReadyWithData
	StateReadyEmptyExpired
	StateReadyEmptyNoData
	StateReadyEmptyCorrupt
	StateReadyEmpty
)

func (s LoadState) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateLoading:
		return "LOADING"
	case StateReadyWithData:
		return "READY-WITH-DATA"
	case StateReadyEmptyExpired:
		return "READY-EMPTY-EXPIRED"
	case StateReadyEmptyNoData:
		return "READY-EMPTY-NO-DATA"
	case StateReadyEmptyCorrupt:
		return "READY-EMPTY-CORRUPT"
	case StateReadyEmpty:
		return "READY-EMPTY"
	default:
		return "UNKNOWN"
	}
}

// Ready reports whether the initial load has completed.
func (s LoadState) Ready() bool {
	return s >= StateReadyWithData
}
