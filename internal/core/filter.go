package core

import "strings"

// ListFilter selects clients by name, status and locality. Empty fields
// match everything; set fields combine with AND.
type ListFilter struct {
	Name     string
	Status   RiskStatus
	Locality string
}

// Apply filters the aggregated collection. The name query is a
// case-insensitive substring match. A new slice is always returned; the
// input is never mutated.
func (f ListFilter) Apply(clients []AggregatedClient, today Date) []AggregatedClient {
	query := strings.ToLower(strings.TrimSpace(f.Name))
	out := make([]AggregatedClient, 0, len(clients))
	for _, c := range clients {
		if query != "" && !strings.Contains(strings.ToLower(c.Name), query) {
			continue
		}
		if f.Status != "" && c.Status(today) != f.Status {
			continue
		}
		if f.Locality != "" && c.Locality != f.Locality {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Paginate returns the slice [pageIndex*pageSize, pageIndex*pageSize+pageSize)
// of the filtered collection. A page beyond the last returns an empty slice,
// never an error.
func Paginate(filtered []AggregatedClient, pageIndex, pageSize int) []AggregatedClient {
	if pageIndex < 0 || pageSize <= 0 {
		return []AggregatedClient{}
	}
	start := pageIndex * pageSize
	if start >= len(filtered) {
		return []AggregatedClient{}
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// PageCount returns ceil(len(filtered)/pageSize), minimum 0.
func PageCount(filtered []AggregatedClient, pageSize int) int {
	if pageSize <= 0 || len(filtered) == 0 {
		return 0
	}
	return (len(filtered) + pageSize - 1) / pageSize
}

// ListView tracks the filter and page selection for the client list.
// Changing any filter resets the page to zero; the rule lives here once
// instead of being re-enforced ad hoc by every caller.
type ListView struct {
	filter   ListFilter
	page     int
	pageSize int
}

// NewListView creates a view on page zero with no filters set.
func NewListView(pageSize int) *ListView {
	if pageSize <= 0 {
		pageSize = 1
	}
	return &ListView{pageSize: pageSize}
}

func (v *ListView) SetNameQuery(q string) {
	if v.filter.Name != q {
		v.filter.Name = q
		v.page = 0
	}
}

func (v *ListView) SetStatus(s RiskStatus) {
	if v.filter.Status != s {
		v.filter.Status = s
		v.page = 0
	}
}

func (v *ListView) SetLocality(l string) {
	if v.filter.Locality != l {
		v.filter.Locality = l
		v.page = 0
	}
}

func (v *ListView) SetPage(p int) {
	if p < 0 {
		p = 0
	}
	v.page = p
}

func (v *ListView) Page() int          { return v.page }
func (v *ListView) PageSize() int      { return v.pageSize }
func (v *ListView) Filter() ListFilter { return v.filter }

// Slice applies the view's filter and pagination to the aggregated
// collection and returns the page plus the total page count.
func (v *ListView) Slice(clients []AggregatedClient, today Date) ([]AggregatedClient, int) {
	filtered := v.filter.Apply(clients, today)
	return Paginate(filtered, v.page, v.pageSize), PageCount(filtered, v.pageSize)
}
