package schemaversion

import (
	"context"
	"fmt"
)

// Version is a monotonically applied major.minor.patch migration marker.
type Version struct {
	Major       int
	Minor       int
	Patch       int
	Description string
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Less reports whether v precedes other in applied order.
func (v Version) Less(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	return v.Patch < other.Patch
}

// Repository reports the highest applied schema version.
type Repository interface {
	Current(ctx context.Context) (Version, error)
}
