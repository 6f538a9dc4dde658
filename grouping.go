package tabler

// GroupSpec is a run of adjacent columns sharing a group name.
type GroupSpec struct {
	GroupName  string
	Count      int
	StartIndex int
}

// GroupColumns groups adjacent columns with equal GroupName.
// Columns without group name form groups with an empty GroupName.
// The Count of all returned groups sums up to len(cols).
func GroupColumns(cols []*ColumnSpec) []GroupSpec {
	var groups []GroupSpec
	for i, col := range cols {
		if n := len(groups); n > 0 && groups[n-1].GroupName == col.GroupName {
			groups[n-1].Count++
			continue
		}
		groups = append(groups, GroupSpec{GroupName: col.GroupName, Count: 1, StartIndex: i})
	}
	return groups
}

// HasGroupNames returns true if any of cols has a GroupName.
func HasGroupNames(cols []*ColumnSpec) bool {
	for _, col := range cols {
		if col.GroupName != "" {
			return true
		}
	}
	return false
}
